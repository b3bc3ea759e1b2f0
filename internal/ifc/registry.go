package ifc

import (
	"fmt"
	"sort"
)

// entityRecord is the registry's stored payload: the interned type name,
// raw parameter string, and source line for diagnostics.
type entityRecord struct {
	typ    string
	params string
	line   int
}

// Registry is the entity-id → (type, params) hash map populated eagerly by
// a first pass over the lexer, per 4.B. Type strings are interned so the
// same dozen entity-type names are stored once regardless of how many
// entities use them.
type Registry struct {
	entities map[uint64]entityRecord
	interned map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[uint64]entityRecord),
		interned: make(map[string]string),
	}
}

func (r *Registry) intern(s string) string {
	if v, ok := r.interned[s]; ok {
		return v
	}
	r.interned[s] = s
	return s
}

// Add registers an entity line.
func (r *Registry) Add(line *EntityLine) {
	r.entities[line.ID] = entityRecord{
		typ:    r.intern(line.Type),
		params: line.Params,
		line:   line.Line,
	}
}

// Type returns an entity's type name.
func (r *Registry) Type(id uint64) (string, bool) {
	rec, ok := r.entities[id]
	return rec.typ, ok
}

// Params returns an entity's raw parameter string.
func (r *Registry) Params(id uint64) (string, bool) {
	rec, ok := r.entities[id]
	return rec.params, ok
}

// Line returns the source line an entity was defined on.
func (r *Registry) Line(id uint64) int {
	return r.entities[id].line
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// ByType returns every entity id whose type equals any of types, in
// ascending id order for determinism.
func (r *Registry) ByType(types ...string) []uint64 {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []uint64
	for id, rec := range r.entities {
		if want[rec.typ] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders an entity for debugging.
func (r *Registry) String(id uint64) string {
	rec, ok := r.entities[id]
	if !ok {
		return fmt.Sprintf("#%d <unresolved>", id)
	}
	return fmt.Sprintf("#%d = %s(%s)", id, rec.typ, rec.params)
}
