// Package archive walks the entries of a scanner report zip.
package archive

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	// DefaultMaxEntryBytes bounds a single materialized entry.
	DefaultMaxEntryBytes = 64 << 20

	// MaxEntryLimit is the largest usable entry limit. The reader needs
	// one byte of headroom past the limit to detect lying headers.
	MaxEntryLimit = math.MaxInt64 - 1
)

var (
	ErrOpenArchive   = errors.New("archive: cannot open container")
	ErrEntryTooLarge = errors.New("archive: entry exceeds size limit")
)

// Entry is one file of the archive. Data is nil when Err is set.
type Entry struct {
	Index int
	Name  string
	Data  []byte
	Err   error
}

// Reader iterates the files of a zip container.
type Reader struct {
	zr            *zip.Reader
	closer        io.Closer
	MaxEntryBytes uint64
}

// Open opens the archive at the given path.
func Open(name string) (*Reader, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpenArchive, name, err)
	}
	return &Reader{zr: &rc.Reader, closer: rc, MaxEntryBytes: DefaultMaxEntryBytes}, nil
}

// NewReader reads an archive of the given size from r.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenArchive, err)
	}
	return &Reader{zr: zr, MaxEntryBytes: DefaultMaxEntryBytes}, nil
}

// Len is the number of entries in the central directory.
func (r *Reader) Len() int {
	return len(r.zr.File)
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Entries yields every regular file in central-directory order.
// Directories and unsafe names are skipped without an entry.
func (r *Reader) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i, f := range r.zr.File {
			if f.FileInfo().IsDir() || !SafeName(f.Name) {
				continue
			}
			e := Entry{Index: i, Name: f.Name}
			e.Data, e.Err = r.read(f)
			if !yield(e) {
				return
			}
		}
	}
}

func (r *Reader) read(f *zip.File) ([]byte, error) {
	limit := r.MaxEntryBytes
	if limit == 0 {
		limit = DefaultMaxEntryBytes
	}
	limit = min(limit, MaxEntryLimit)
	if f.UncompressedSize64 > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrEntryTooLarge, f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	// The header size can lie; read one byte past the limit to catch it.
	data, err := io.ReadAll(io.LimitReader(rc, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if uint64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, f.Name)
	}
	return data, nil
}

// SafeName reports whether an entry name stays inside the archive root.
func SafeName(name string) bool {
	if name == "" || strings.ContainsRune(name, 0) {
		return false
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	if len(name) >= 2 && name[1] == ':' {
		return false
	}
	for part := range strings.FieldsFuncSeq(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return path.Clean(name) != "."
}
