package commit

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init")
	run("config", "user.email", "seed@example.com")
	run("config", "user.name", "Seed User")
	return dir
}

func TestFindRepoRoot_LocatesAncestorGitDir(t *testing.T) {
	repo := setupGitRepo(t)
	nested := filepath.Join(repo, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, ok := FindRepoRoot(nested)
	require.True(t, ok)
	assert.Equal(t, repo, root)
}

func TestFindRepoRoot_NoneFound(t *testing.T) {
	_, ok := FindRepoRoot(t.TempDir())
	assert.False(t, ok)
}

func TestGitBackend_CommitWritesStagesAndRecords(t *testing.T) {
	repo := setupGitRepo(t)
	g := NewGitBackend(repo)

	id, err := g.Commit("building.yaml", []byte("display_name: Main Tower\n"), "Jane Doe", "jane@example.com", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), "initial import")
	require.NoError(t, err)
	assert.Len(t, id, 40)

	content, err := os.ReadFile(filepath.Join(repo, "building.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Main Tower")

	logs, err := g.Log(5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Jane Doe", logs[0].Author)
	assert.Equal(t, "jane@example.com", logs[0].Email)
	assert.Equal(t, "initial import", logs[0].Message)
	assert.Equal(t, id, logs[0].ID)
}

func TestGitBackend_CommitTwiceProducesLogInNewestFirstOrder(t *testing.T) {
	repo := setupGitRepo(t)
	g := NewGitBackend(repo)

	_, err := g.Commit("building.yaml", []byte("v1"), "Jane Doe", "jane@example.com", time.Now(), "first save")
	require.NoError(t, err)
	_, err = g.Commit("building.yaml", []byte("v2"), "Jane Doe", "jane@example.com", time.Now(), "second save")
	require.NoError(t, err)

	logs, err := g.Log(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second save", logs[0].Message)
	assert.Equal(t, "first save", logs[1].Message)
}

func TestGitBackend_Diff(t *testing.T) {
	repo := setupGitRepo(t)
	g := NewGitBackend(repo)

	id1, err := g.Commit("building.yaml", []byte("version one\n"), "Jane Doe", "jane@example.com", time.Now(), "first save")
	require.NoError(t, err)
	id2, err := g.Commit("building.yaml", []byte("version two\n"), "Jane Doe", "jane@example.com", time.Now(), "second save")
	require.NoError(t, err)

	diff, err := g.Diff(id1, id2)
	require.NoError(t, err)
	assert.Contains(t, diff, "version one")
	assert.Contains(t, diff, "version two")
}
