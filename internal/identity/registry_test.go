package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FindsUserByEmailCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".arxos"), 0o755))
	content := "users:\n  - id: u1\n    name: Jane Doe\n    email: Jane@Example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".arxos", "users.yaml"), []byte(content), 0o644))

	reg, err := Load(dir)
	require.NoError(t, err)

	u, ok := reg.FindByEmail("jane@example.com")
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Jane Doe", u.Name)

	_, ok = reg.FindByEmail("nobody@example.com")
	assert.False(t, ok)
}

func TestLoad_MissingFileYieldsEmptyRegistry(t *testing.T) {
	reg, err := Load(t.TempDir())
	require.NoError(t, err)
	_, ok := reg.FindByEmail("anyone@example.com")
	assert.False(t, ok)
}

func TestLoad_RejectsInvalidEmail(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".arxos"), 0o755))
	content := "users:\n  - id: u1\n    name: Jane Doe\n    email: not-an-email\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".arxos", "users.yaml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
