package commit

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	arxerrors "github.com/arx-os/arxos/pkg/errors"
)

// GitBackend shells out to the git CLI, the same way
// internal/common/vcs.GitManager does: every operation is one
// exec.Command("git", ...) run with Dir set to the repository root.
type GitBackend struct {
	repoRoot string
}

// NewGitBackend returns a GitBackend rooted at repoRoot. repoRoot is
// expected to already contain a .git directory; see FindRepoRoot.
func NewGitBackend(repoRoot string) *GitBackend {
	return &GitBackend{repoRoot: repoRoot}
}

// FindRepoRoot walks up from start looking for a .git directory, returning
// ("", false) if no ancestor has one.
func FindRepoRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (g *GitBackend) run(env []string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.repoRoot
	if env != nil {
		cmd.Env = env
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, arxerrors.GitError(fmt.Sprintf("git %s failed: %s", strings.Join(args, " "), out.String()), err)
	}
	return out.Bytes(), nil
}

// Commit writes treeBytes to relPath under the repo root, stages it, and
// commits it with the given author identity and timestamp, mirroring
// GitManager's Add-then-Commit shape.
func (g *GitBackend) Commit(relPath string, treeBytes []byte, authorName, authorEmail string, timestamp time.Time, message string) (string, error) {
	absPath := filepath.Join(g.repoRoot, relPath)
	if err := os.WriteFile(absPath, treeBytes, 0o644); err != nil {
		return "", arxerrors.GitError("failed to write commit content", err)
	}
	if _, err := g.run(nil, "add", relPath); err != nil {
		return "", err
	}

	when := timestamp.Format(time.RFC3339)
	env := append(os.Environ(),
		"GIT_AUTHOR_NAME="+authorName,
		"GIT_AUTHOR_EMAIL="+authorEmail,
		"GIT_AUTHOR_DATE="+when,
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
		"GIT_COMMITTER_DATE="+when,
	)
	out, err := g.run(env, "commit", "-m", message)
	if err != nil {
		if strings.Contains(string(out), "nothing to commit") {
			return g.headCommit()
		}
		return "", err
	}
	return g.headCommit()
}

func (g *GitBackend) headCommit() (string, error) {
	out, err := g.run(nil, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// logFieldSep separates fields within one git log --pretty=format line;
// 0x1f (unit separator) never appears in a commit's author/message text.
const logFieldSep = "\x1f"

// Log returns the most recent commits, newest first.
func (g *GitBackend) Log(limit int) ([]CommitInfo, error) {
	format := "%H" + logFieldSep + "%an" + logFieldSep + "%ae" + logFieldSep + "%aI" + logFieldSep + "%s"
	out, err := g.run(nil, "log", "-n", strconv.Itoa(limit), "--pretty=format:"+format)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}
	var infos []CommitInfo
	for _, line := range strings.Split(trimmed, "\n") {
		fields := strings.Split(line, logFieldSep)
		if len(fields) != 5 {
			continue
		}
		t, _ := time.Parse(time.RFC3339, fields[3])
		infos = append(infos, CommitInfo{ID: fields[0], Author: fields[1], Email: fields[2], Time: t, Message: fields[4]})
	}
	return infos, nil
}

// Diff returns the textual diff between two commits.
func (g *GitBackend) Diff(commitA, commitB string) (string, error) {
	out, err := g.run(nil, "diff", commitA, commitB)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
