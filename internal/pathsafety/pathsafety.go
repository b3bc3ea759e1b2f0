// Package pathsafety validates that file writes stay within a working
// directory, grounded on the canonicalize-then-prefix-check pattern used by
// the original implementation's path-safety helper.
package pathsafety

import (
	"path/filepath"
	"strings"

	arxerrors "github.com/arx-os/arxos/pkg/errors"
)

// Validate canonicalizes target relative to base and rejects any path that
// would escape base (e.g. via ".."), returning the absolute, cleaned path.
func Validate(target, base string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", arxerrors.PathUnsafe(target)
	}
	absTarget, err := filepath.Abs(filepath.Join(base, target))
	if err != nil {
		return "", arxerrors.PathUnsafe(target)
	}
	absBase = filepath.Clean(absBase)
	absTarget = filepath.Clean(absTarget)

	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return "", arxerrors.PathUnsafe(target)
	}
	return absTarget, nil
}
