package commit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	domaintypes "github.com/arx-os/arxos/internal/domain/types"

	"github.com/arx-os/arxos/internal/cache"
	"github.com/arx-os/arxos/internal/common/logger"
	"github.com/arx-os/arxos/internal/document"
	arxerrors "github.com/arx-os/arxos/pkg/errors"
)

type fakeVCS struct {
	commits []string
	lastMsg string
	author  string
	email   string
}

func (f *fakeVCS) Commit(relPath string, treeBytes []byte, authorName, authorEmail string, timestamp time.Time, message string) (string, error) {
	f.author = authorName
	f.email = authorEmail
	f.lastMsg = message
	id := "deadbeef0000000000000000000000000000000" + string(rune('a'+len(f.commits)))
	f.commits = append(f.commits, id)
	return id, nil
}

func (f *fakeVCS) Log(limit int) ([]CommitInfo, error) { return nil, nil }
func (f *fakeVCS) Diff(a, b string) (string, error)    { return "", nil }

func sampleBuilding() *domainbuilding.Building {
	return &domainbuilding.Building{
		ID:            domaintypes.NewIDWithLegacy("main-tower"),
		DisplayName:   "Main Tower",
		CanonicalPath: "/building/main-tower",
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEngine_SaveWritesBackupAndInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	c := cache.New()
	e := &Engine{repoRoot: dir, cache: c, log: logger.NewNop()}

	b := sampleBuilding()
	content, err := e.Save("building.yaml", b, document.Metadata{SourceFile: "t.ifc"}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Main Tower")
	assert.NoFileExists(t, filepath.Join(dir, "building.yaml.bak"), "no backup expected on first save")

	b.DisplayName = "Main Tower Annex"
	_, err = e.Save("building.yaml", b, document.Metadata{SourceFile: "t.ifc"}, nil)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "building.yaml.bak"), "second save must back up the prior content")

	bak, err := os.ReadFile(filepath.Join(dir, "building.yaml.bak"))
	require.NoError(t, err)
	assert.Contains(t, string(bak), "Main Tower\n", "backup must hold the pre-save content")
}

func TestEngine_SaveRejectsOversizedDocument(t *testing.T) {
	dir := t.TempDir()
	e := &Engine{repoRoot: dir, cache: cache.New(), log: logger.NewNop()}

	b := sampleBuilding()
	huge := make(map[string]string, 1)
	huge["blob"] = string(make([]byte, maxDocumentBytes+1))
	b.Description = huge["blob"]

	_, err := e.Save("building.yaml", b, document.Metadata{}, nil)
	require.Error(t, err)
	assert.True(t, arxerrors.Is(err, arxerrors.KindFileTooLarge))
}

func TestEngine_SaveRejectsPathEscapingRepoRoot(t *testing.T) {
	dir := t.TempDir()
	e := &Engine{repoRoot: dir, cache: cache.New(), log: logger.NewNop()}

	_, err := e.Save("../../etc/passwd", sampleBuilding(), document.Metadata{}, nil)
	require.Error(t, err)
	assert.True(t, arxerrors.Is(err, arxerrors.KindPathUnsafe))
}

func TestEngine_CommitWithoutRepoReturnsSentinel(t *testing.T) {
	dir := t.TempDir()
	e := &Engine{repoRoot: dir, cache: cache.New(), log: logger.NewNop()}

	display, full, err := e.Commit("building.yaml", []byte("content"), "nobody@example.com", Metadata{Message: "save"})
	require.NoError(t, err)
	assert.Equal(t, NoRepoSentinel, display)
	assert.Equal(t, NoRepoSentinel, full)
}

func TestEngine_CommitAttributesByRegistryEmail(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".arxos"), 0o755))
	users := "users:\n  - id: u1\n    name: Jane Doe\n    email: jane@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".arxos", "users.yaml"), []byte(users), 0o644))

	e, err := Open(dir, cache.New(), logger.NewNop())
	require.NoError(t, err)
	fv := &fakeVCS{}
	e.vcs = fv

	display, full, err := e.Commit("building.yaml", []byte("content"), "Jane@Example.com", Metadata{Message: "update floor 3"})
	require.NoError(t, err)
	assert.Len(t, display, 8)
	assert.Equal(t, fv.commits[0], full)
	assert.Equal(t, "Jane Doe", fv.author)
	assert.Contains(t, fv.lastMsg, "update floor 3")
	assert.Contains(t, fv.lastMsg, "User-Id: u1")
}

func TestEngine_CommitRejectsEmptyMessage(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, cache.New(), logger.NewNop())
	require.NoError(t, err)
	e.vcs = &fakeVCS{}

	_, _, err = e.Commit("building.yaml", []byte("content"), "jane@example.com", Metadata{})
	require.Error(t, err)
	assert.True(t, arxerrors.Is(err, arxerrors.KindValidationFailed))
}

func TestEngine_CommitRejectsMalformedActorEmail(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, cache.New(), logger.NewNop())
	require.NoError(t, err)
	e.vcs = &fakeVCS{}

	_, _, err = e.Commit("building.yaml", []byte("content"), "not-an-email", Metadata{Message: "save"})
	require.Error(t, err)
	assert.True(t, arxerrors.Is(err, arxerrors.KindValidationFailed))
}

func TestEngine_CommitFallsBackToEmailWhenUserUnregistered(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, cache.New(), logger.NewNop())
	require.NoError(t, err)
	fv := &fakeVCS{}
	e.vcs = fv

	_, _, err = e.Commit("building.yaml", []byte("content"), "stranger@example.com", Metadata{Message: "save"})
	require.NoError(t, err)
	assert.Equal(t, "stranger@example.com", fv.author)
	assert.Contains(t, fv.lastMsg, "User-Id: stranger@example.com")
}
