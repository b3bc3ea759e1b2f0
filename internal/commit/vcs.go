// Package commit implements the save-then-commit workflow: serializing a
// building document to disk safely, then handing the result to a
// version-control backend for attribution and history, per 6.6's
// abstraction: "(author_name, author_email, timestamp, message,
// tree_bytes) -> commit_id", plus reading the commit log and diffing two
// commits.
package commit

import "time"

// NoRepoSentinel is the commit id Commit returns when no .git directory
// was found at or above the repository root. Save still completes
// normally in that case; only attribution history is unavailable.
const NoRepoSentinel = "no-git-repo"

// CommitInfo describes one entry in a VCS backend's log.
type CommitInfo struct {
	ID      string
	Author  string
	Email   string
	Time    time.Time
	Message string
}

// VCS abstracts the version-control backend a commit is handed to. The
// default implementation is GitBackend; anything satisfying this interface
// can stand in for it (tests use a fake).
type VCS interface {
	// Commit writes treeBytes to relPath (relative to the backend's root),
	// stages it, and records a commit authored by authorName/authorEmail
	// at timestamp with the given message, returning the full commit id.
	Commit(relPath string, treeBytes []byte, authorName, authorEmail string, timestamp time.Time, message string) (string, error)

	// Log returns the most recent commits, newest first, up to limit.
	Log(limit int) ([]CommitInfo, error)

	// Diff returns the textual diff between two commits.
	Diff(commitA, commitB string) (string, error)
}
