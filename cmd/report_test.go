package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/huangsam/scanreport/internal/archive"
	"github.com/stretchr/testify/assert"
)

func TestFailureSubject(t *testing.T) {
	openErr := fmt.Errorf("%w %s: %w", archive.ErrOpenArchive, "x.zip", errors.New("zip: not a valid zip file"))
	assert.Equal(t, "Cannot open archive", failureSubject("report", openErr))
	assert.Equal(t, "Cannot read rules", failureSubject("rules", errors.New("write failed")))
}
