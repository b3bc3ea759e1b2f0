// Package identity is the read-only user registry the commit engine
// consults to attribute a save to a known user, per 6.6: "User registry
// (read-only to the CORE): find_by_email(email) -> Option<{id, name,
// email}>". Editing or provisioning the registry itself is outside the
// CORE's scope.
package identity

import (
	"os"
	"path/filepath"
	"strings"

	coreerrors "github.com/arx-os/arxos/pkg/errors"
	"github.com/arx-os/arxos/pkg/validation"
	"gopkg.in/yaml.v3"
)

// User is a registered actor the commit engine can attribute a save to.
type User struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Email string `yaml:"email" validate:"required,email"`
}

type registryFile struct {
	Users []User `yaml:"users"`
}

// Registry is an in-memory, email-keyed view of the registered users.
type Registry struct {
	byEmail map[string]User
}

// registryPath is the conventional location of the user registry relative
// to a version-controlled repository's root.
const registryPath = ".arxos/users.yaml"

// Load reads the user registry from <repoRoot>/.arxos/users.yaml. A
// missing file is not an error: it yields an empty registry, since not
// every repository opts into user attribution.
func Load(repoRoot string) (*Registry, error) {
	path := filepath.Join(repoRoot, registryPath)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Registry{byEmail: map[string]User{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return &Registry{byEmail: map[string]User{}}, nil
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	var rf registryFile
	if err := dec.Decode(&rf); err != nil {
		return nil, coreerrors.Deserialization(err.Error())
	}

	validator := validation.New()
	byEmail := make(map[string]User, len(rf.Users))
	for _, u := range rf.Users {
		if err := validator.Struct(u); err != nil {
			return nil, coreerrors.ValidationFailed("users."+u.Email, err.Error())
		}
		byEmail[strings.ToLower(u.Email)] = u
	}
	return &Registry{byEmail: byEmail}, nil
}

// FindByEmail looks up a registered user by email, case-insensitively.
func (r *Registry) FindByEmail(email string) (User, bool) {
	u, ok := r.byEmail[strings.ToLower(email)]
	return u, ok
}
