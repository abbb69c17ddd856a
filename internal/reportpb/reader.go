// Package reportpb encodes and decodes the protobuf messages stored in a
// scanner report archive.
//
// Only the fields the report needs are mapped. Unknown fields are skipped,
// as any protobuf reader would; a known field with an unexpected wire type
// is rejected.
package reportpb

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrMalformed = errors.New("reportpb: malformed message")
	ErrWireType  = errors.New("reportpb: unexpected wire type")
)

// fieldReader walks the fields of one encoded message.
// The first error stops iteration and sticks in err.
type fieldReader struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func newFieldReader(b []byte) *fieldReader {
	return &fieldReader{buf: b}
}

func (r *fieldReader) next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.fail(n)
		return false
	}
	r.num, r.typ = num, typ
	r.buf = r.buf[n:]
	return true
}

func (r *fieldReader) fail(n int) {
	r.err = fmt.Errorf("%w: field %d: %v", ErrMalformed, r.num, protowire.ParseError(n))
}

func (r *fieldReader) expect(t protowire.Type) bool {
	if r.err != nil {
		return false
	}
	if r.typ != t {
		r.err = fmt.Errorf("%w: field %d has wire type %d, want %d", ErrWireType, r.num, r.typ, t)
		return false
	}
	return true
}

func (r *fieldReader) varint() uint64 {
	if !r.expect(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.fail(n)
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *fieldReader) int32() int32 { return int32(r.varint()) }
func (r *fieldReader) int64() int64 { return int64(r.varint()) }
func (r *fieldReader) bool() bool   { return protowire.DecodeBool(r.varint()) }

func (r *fieldReader) bytes() []byte {
	if !r.expect(protowire.BytesType) {
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.fail(n)
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

func (r *fieldReader) string() string {
	b := r.bytes()
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.err = fmt.Errorf("%w: field %d: invalid UTF-8", ErrMalformed, r.num)
		return ""
	}
	return string(b)
}

func (r *fieldReader) double() float64 {
	if !r.expect(protowire.Fixed64Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed64(r.buf)
	if n < 0 {
		r.fail(n)
		return 0
	}
	r.buf = r.buf[n:]
	return math.Float64frombits(v)
}

// int32s reads a repeated int32 field in either packed or unpacked form.
func (r *fieldReader) int32s(dst []int32) []int32 {
	if r.err != nil {
		return dst
	}
	if r.typ == protowire.VarintType {
		return append(dst, r.int32())
	}
	packed := r.bytes()
	for len(packed) > 0 && r.err == nil {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			r.fail(n)
			break
		}
		dst = append(dst, int32(v))
		packed = packed[n:]
	}
	return dst
}

func (r *fieldReader) skip() {
	n := protowire.ConsumeFieldValue(r.num, r.typ, r.buf)
	if n < 0 {
		r.fail(n)
		return
	}
	r.buf = r.buf[n:]
}

// embedded decodes a nested message field with fn.
func embedded[T any](r *fieldReader, fn func([]byte) (T, error)) T {
	var zero T
	b := r.bytes()
	if r.err != nil {
		return zero
	}
	v, err := fn(b)
	if err != nil {
		r.err = fmt.Errorf("field %d: %w", r.num, err)
		return zero
	}
	return v
}
