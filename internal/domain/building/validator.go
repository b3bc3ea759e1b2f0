package building

import (
	"fmt"
	"sort"

	"github.com/arx-os/arxos/pkg/address"
)

// ValidationResult collects every invariant violation found in a Building.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate checks the invariants from 3 that must hold after any hierarchy
// build: unique canonical paths, floor ordering, and the
// path/address equivalence for equipment that carries a structured address.
func Validate(b *Building) *ValidationResult {
	result := &ValidationResult{Valid: true}

	seen := make(map[string]bool)
	checkPath := func(path, kind string) {
		if path == "" {
			result.fail("%s has an empty canonical path", kind)
			return
		}
		if seen[path] {
			result.fail("duplicate canonical path %q", path)
		}
		seen[path] = true
	}

	checkPath(b.CanonicalPath, "building")

	levels := make([]int, len(b.Floors))
	for i, f := range b.Floors {
		levels[i] = f.Level
		checkPath(f.CanonicalPath, "floor "+f.DisplayName)
		for _, w := range f.Wings {
			checkPath(w.CanonicalPath, "wing "+w.DisplayName)
			for _, room := range w.Rooms {
				checkPath(room.CanonicalPath, "room "+room.DisplayName)
				for _, eq := range room.Equipment {
					checkPath(eq.CanonicalPath, "equipment "+eq.DisplayName)
					validateEquipmentAddress(result, eq)
				}
			}
			for _, eq := range w.Equipment {
				checkPath(eq.CanonicalPath, "equipment "+eq.DisplayName)
				validateEquipmentAddress(result, eq)
			}
		}
		for _, eq := range f.Equipment {
			checkPath(eq.CanonicalPath, "equipment "+eq.DisplayName)
			validateEquipmentAddress(result, eq)
		}
		if len(f.Wings) == 0 {
			result.fail("floor %q has no wing", f.DisplayName)
		}
	}

	if !sort.IntsAreSorted(levels) {
		result.fail("floors are not sorted by level ascending")
	}

	return result
}

func validateEquipmentAddress(result *ValidationResult, eq *Equipment) {
	if eq.Address == nil {
		return
	}
	if err := eq.Address.Validate(); err != nil {
		result.fail("equipment %q has an invalid address: %v", eq.DisplayName, err)
		return
	}
	if eq.Address.String() != eq.CanonicalPath {
		result.fail("equipment %q canonical path %q does not equal its address serialization %q",
			eq.DisplayName, eq.CanonicalPath, eq.Address.String())
	}
}

// ValidSlug reports whether s matches the slug shape from 4.E: lowercase
// ASCII, [a-z0-9-]+, no leading/trailing hyphen, or the empty string.
func ValidSlug(s string) bool {
	return s == "" || address.SlugPattern.MatchString(s)
}
