package pathsafety

import (
	"testing"

	arxerrors "github.com/arx-os/arxos/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllowsWithinBase(t *testing.T) {
	resolved, err := Validate("building.yaml", "/tmp/repo")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo/building.yaml", resolved)
}

func TestValidate_RejectsEscape(t *testing.T) {
	_, err := Validate("../../etc/passwd", "/tmp/repo")
	require.Error(t, err)
	assert.True(t, arxerrors.Is(err, arxerrors.KindPathUnsafe))
}
