package commit

import (
	"os"
	"strings"
	"time"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"

	"github.com/arx-os/arxos/internal/cache"
	"github.com/arx-os/arxos/internal/common/logger"
	"github.com/arx-os/arxos/internal/document"
	"github.com/arx-os/arxos/internal/identity"
	"github.com/arx-os/arxos/internal/pathsafety"
	arxerrors "github.com/arx-os/arxos/pkg/errors"
	"github.com/arx-os/arxos/pkg/validation"
)

// maxDocumentBytes rejects a save before it ever reaches disk; a 10MB
// document already dominates a single command's latency, per 4.I.
const maxDocumentBytes = 10 * 1024 * 1024

// Metadata carries commit attribution the caller supplies, beyond what the
// user registry lookup derives, per 4.J step 2: "{message, user_id,
// device_id?, scan_id?, signature?}".
type Metadata struct {
	Message   string `yaml:"message" validate:"required"`
	DeviceID  string `yaml:"device_id"`
	ScanID    string `yaml:"scan_id"`
	Signature string `yaml:"signature"`
}

// Engine implements 4.J: serialize, size-check, path-validate,
// backup-then-replace, invalidate the persistence cache, then hand the
// saved content to a VCS backend for attribution.
type Engine struct {
	repoRoot string
	cache    *cache.Cache
	users    *identity.Registry
	vcs      VCS // nil when no ancestor .git directory was found
	log      *logger.Logger
	validate *validation.Validator
}

// Open builds an Engine rooted at repoRoot. It loads the user registry and,
// if an ancestor .git directory exists, wires a GitBackend to it; when none
// does, Commit always returns NoRepoSentinel while Save still completes.
func Open(repoRoot string, c *cache.Cache, log *logger.Logger) (*Engine, error) {
	users, err := identity.Load(repoRoot)
	if err != nil {
		return nil, err
	}
	e := &Engine{repoRoot: repoRoot, cache: c, users: users, log: log, validate: validation.New()}
	if gitRoot, ok := FindRepoRoot(repoRoot); ok {
		e.vcs = NewGitBackend(gitRoot)
	}
	return e, nil
}

// Save serializes b to the canonical document format and writes it to
// relPath (relative to the repo root), per 4.J steps 1-6. It returns the
// bytes written so the caller can hand them to Commit without
// re-serializing.
func (e *Engine) Save(relPath string, b *domainbuilding.Building, meta document.Metadata, coordSystems []document.NamedTransform) ([]byte, error) {
	content, err := document.Marshal(b, meta, coordSystems)
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxDocumentBytes {
		return nil, arxerrors.FileTooLarge(relPath, int64(len(content)), maxDocumentBytes)
	}

	absPath, err := pathsafety.Validate(relPath, e.repoRoot)
	if err != nil {
		return nil, err
	}

	if existing, readErr := os.ReadFile(absPath); readErr == nil {
		if writeErr := os.WriteFile(absPath+".bak", existing, 0o644); writeErr != nil {
			return nil, arxerrors.Wrap(arxerrors.KindEnvironment, "failed to write backup", writeErr)
		}
	} else if !os.IsNotExist(readErr) {
		return nil, readErr
	}

	if err := os.WriteFile(absPath, content, 0o644); err != nil {
		return nil, err
	}

	e.cache.Invalidate()
	if e.log != nil {
		e.log.Info("saved building document", "path", absPath)
	}
	return content, nil
}

// Commit hands previously saved content to the VCS backend as a new commit
// attributed to actorEmail, per 4.J steps 1-4. It returns the commit's
// first 8 characters for display and the full id for callers that need to
// reference it later (diffing, tagging). If no .git repository was found
// at or above the repository root, Commit returns NoRepoSentinel for both.
func (e *Engine) Commit(relPath string, content []byte, actorEmail string, meta Metadata) (displayID string, fullID string, err error) {
	if e.vcs == nil {
		return NoRepoSentinel, NoRepoSentinel, nil
	}
	if e.validate != nil {
		if err := e.validate.Struct(meta); err != nil {
			return "", "", arxerrors.Wrap(arxerrors.KindValidationFailed, "invalid commit metadata", err)
		}
		if err := e.validate.Var(actorEmail, "required,email"); err != nil {
			return "", "", arxerrors.Wrap(arxerrors.KindValidationFailed, "invalid actor email", err)
		}
	}

	authorName := actorEmail
	userID := actorEmail
	if u, ok := e.users.FindByEmail(actorEmail); ok {
		authorName = u.Name
		userID = u.ID
	}

	message := buildCommitMessage(meta.Message, userID, meta)
	id, err := e.vcs.Commit(relPath, content, authorName, actorEmail, time.Now(), message)
	if err != nil {
		return "", "", err
	}

	display := id
	if len(display) > 8 {
		display = display[:8]
	}
	if e.log != nil {
		e.log.Info("committed building document", "commit", display, "user", userID)
	}
	return display, id, nil
}

// buildCommitMessage appends the attribution fields 4.J asks for as
// trailers, the way GitManager.CommitFloorPlanChange composes a
// descriptive message body around the caller-supplied text.
func buildCommitMessage(message, userID string, meta Metadata) string {
	var trailer strings.Builder
	trailer.WriteString("\nUser-Id: " + userID)
	if meta.DeviceID != "" {
		trailer.WriteString("\nDevice-Id: " + meta.DeviceID)
	}
	if meta.ScanID != "" {
		trailer.WriteString("\nScan-Id: " + meta.ScanID)
	}
	if meta.Signature != "" {
		trailer.WriteString("\nSignature: " + meta.Signature)
	}
	return message + "\n" + trailer.String()
}

// Log returns the most recent commits touching the repository, newest
// first. It returns an empty slice rather than an error when no VCS
// backend is wired.
func (e *Engine) Log(limit int) ([]CommitInfo, error) {
	if e.vcs == nil {
		return nil, nil
	}
	return e.vcs.Log(limit)
}

// Diff returns the textual diff between two commits.
func (e *Engine) Diff(commitA, commitB string) (string, error) {
	if e.vcs == nil {
		return "", arxerrors.GitError("no version-control repository for this working directory", nil)
	}
	return e.vcs.Diff(commitA, commitB)
}
