package wire

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asString treats each frame payload as a decimal number.
func asString(b []byte) (string, error) {
	if _, err := strconv.Atoi(string(b)); err != nil {
		return "", err
	}
	return string(b), nil
}

func frames(msgs ...string) []byte {
	var buf []byte
	for _, m := range msgs {
		buf = AppendDelimited(buf, []byte(m))
	}
	return buf
}

func TestDecodeDelimited(t *testing.T) {
	got, err := DecodeDelimited(frames("1", "22", "333"), DefaultLimits(), asString)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "22", "333"}, got)
}

func TestDecodeDelimitedEmptyBuffer(t *testing.T) {
	got, err := DecodeDelimited(nil, DefaultLimits(), asString)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeDelimitedZeroLengthFrame(t *testing.T) {
	got, err := DecodeDelimited([]byte{0x00, 0x00}, DefaultLimits(), func(b []byte) (int, error) {
		return len(b), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, got)
}

func TestDecodeDelimitedConcatenation(t *testing.T) {
	a := frames("1", "2")
	b := frames("30", "40", "50")

	left, err := DecodeDelimited(a, DefaultLimits(), asString)
	require.NoError(t, err)
	right, err := DecodeDelimited(b, DefaultLimits(), asString)
	require.NoError(t, err)

	joined := append(append([]byte{}, a...), b...)
	both, err := DecodeDelimited(joined, DefaultLimits(), asString)
	require.NoError(t, err)
	assert.Equal(t, append(left, right...), both)
}

func TestDecodeDelimitedTruncated(t *testing.T) {
	buf := frames("1", "2")
	buf = append(buf, 0x05, '1', '2') // declares 5 bytes, 2 remain

	got, err := DecodeDelimited(buf, DefaultLimits(), asString)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
	assert.Contains(t, err.Error(), "frame 2")
}

func TestDecodeDelimitedMalformedPrefix(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"Unterminated Varint", []byte{0x80}},
		{"Overflowing Varint", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDelimited(tt.buf, Limits{}, asString)
			assert.ErrorIs(t, err, ErrMalformedPrefix)
		})
	}
}

func TestDecodeDelimitedFrameTooLarge(t *testing.T) {
	buf := frames("123456")
	_, err := DecodeDelimited(buf, Limits{MaxFrameBytes: 4}, asString)
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	got, err := DecodeDelimited(buf, Limits{}, asString)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, got)
}

func TestDecodeDelimitedRecordError(t *testing.T) {
	_, err := DecodeDelimited(frames("1", "x"), DefaultLimits(), asString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1")
	assert.False(t, errors.Is(err, ErrTruncatedFrame))
}

func TestRecordsIsLazy(t *testing.T) {
	calls := 0
	count := func(b []byte) (string, error) {
		calls++
		return string(b), nil
	}

	for rec, err := range Records(frames("a", "b", "c"), DefaultLimits(), count) {
		require.NoError(t, err)
		if rec == "a" {
			break
		}
	}
	assert.Equal(t, 1, calls)
}

func TestFramesCanBeRangedTwice(t *testing.T) {
	seq := DefaultLimits().Frames(frames("1", "2"))
	n := 0
	for range seq {
		n++
	}
	for range seq {
		n++
	}
	assert.Equal(t, 4, n)
}

func TestDecodeWhole(t *testing.T) {
	got, err := DecodeWhole([]byte("42"), asString)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = DecodeWhole([]byte("4x"), asString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole message")
}
