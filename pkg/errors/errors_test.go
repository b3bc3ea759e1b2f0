package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	e := FileNotFound("/tmp/missing.ifc")
	assert.Contains(t, e.Error(), "FILE_NOT_FOUND")
	assert.Contains(t, e.Error(), "/tmp/missing.ifc")
}

func TestError_MessageIncludesPathAndLine(t *testing.T) {
	e := ParsingError("model.ifc", 42, "unterminated string")
	assert.Contains(t, e.Error(), "model.ifc:42")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("exec failed")
	e := GitError("commit failed", cause)
	assert.ErrorIs(t, e, cause)
}

func TestIs(t *testing.T) {
	var err error = PathUnsafe("../../etc/passwd")
	assert.True(t, Is(err, KindPathUnsafe))
	assert.False(t, Is(err, KindGit))
}

func TestFileTooLarge_HasDefaultSuggestions(t *testing.T) {
	e := FileTooLarge("big.ifc", 600_000_000, 500_000_000)
	assert.Len(t, e.Suggestions, 2)
}
