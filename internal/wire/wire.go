// Package wire decodes report parts framed as whole protobuf messages or as
// streams of length-delimited messages.
package wire

import (
	"errors"
	"fmt"
	"iter"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrMalformedPrefix = errors.New("wire: malformed length prefix")
	ErrTruncatedFrame  = errors.New("wire: truncated frame")
	ErrFrameTooLarge   = errors.New("wire: frame too large")
)

// DefaultMaxFrameBytes bounds a single length prefix.
const DefaultMaxFrameBytes = 16 << 20

// UnmarshalFunc decodes one message from exactly the bytes it is given.
type UnmarshalFunc[T any] func([]byte) (T, error)

// Limits constrains frame decoding memory use. A zero MaxFrameBytes means no limit.
type Limits struct {
	MaxFrameBytes uint64
}

// DefaultLimits returns the limits used by the CLI when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxFrameBytes: DefaultMaxFrameBytes}
}

// Frames returns the payloads of the length-delimited frames in buf.
// Each payload is a uvarint byte length followed by that many bytes. The
// sequence ends when buf is exhausted or after yielding the first error.
func (l Limits) Frames(buf []byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		rest := buf
		for i := 0; len(rest) > 0; i++ {
			n, w := protowire.ConsumeVarint(rest)
			if w < 0 {
				yield(nil, fmt.Errorf("frame %d: %w", i, ErrMalformedPrefix))
				return
			}
			if l.MaxFrameBytes > 0 && n > l.MaxFrameBytes {
				yield(nil, fmt.Errorf("frame %d declares %d bytes: %w", i, n, ErrFrameTooLarge))
				return
			}
			rest = rest[w:]
			if n > uint64(len(rest)) {
				yield(nil, fmt.Errorf("frame %d declares %d bytes, %d remain: %w", i, n, len(rest), ErrTruncatedFrame))
				return
			}
			if !yield(rest[:n:n], nil) {
				return
			}
			rest = rest[n:]
		}
	}
}

// Records lazily decodes every frame in buf with fn.
func Records[T any](buf []byte, limits Limits, fn UnmarshalFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		i := 0
		for frame, err := range limits.Frames(buf) {
			if err != nil {
				yield(zero, err)
				return
			}
			rec, err := fn(frame)
			if err != nil {
				yield(zero, fmt.Errorf("frame %d: %w", i, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
			i++
		}
	}
}

// DecodeDelimited decodes all frames in buf, or none of them.
// An empty buf yields an empty, non-nil slice.
func DecodeDelimited[T any](buf []byte, limits Limits, fn UnmarshalFunc[T]) ([]T, error) {
	out := make([]T, 0)
	for rec, err := range Records(buf, limits, fn) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeWhole decodes buf as exactly one message.
func DecodeWhole[T any](buf []byte, fn UnmarshalFunc[T]) (T, error) {
	rec, err := fn(buf)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("whole message: %w", err)
	}
	return rec, nil
}

// AppendDelimited appends msg to dst as one length-delimited frame.
func AppendDelimited(dst, msg []byte) []byte {
	dst = protowire.AppendVarint(dst, uint64(len(msg)))
	return append(dst, msg...)
}
