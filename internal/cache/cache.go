// Package cache implements the mtime-keyed persistence cache from 4.I: a
// single-slot, lazily populated cache of the most recently loaded building
// document, guarded by a mutex so repeated loads within one command
// invocation (render, query, list, export) avoid re-parsing a multi-MB
// document.
package cache

import (
	"os"
	"sync"
	"time"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/document"
)

type entry struct {
	building          *domainbuilding.Building
	metadata          document.Metadata
	coordinateSystems []document.NamedTransform
	path              string
	modTime           time.Time
}

// Cache holds at most one loaded document, keyed by (path, mtime).
type Cache struct {
	mu    sync.Mutex
	entry *entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Load returns the building document for path. If the cache holds an entry
// for the same path with the same modification time, a clone of the cached
// document is returned after a stat, without re-reading the file; otherwise
// the file is read,
// parsed, and the cache entry is replaced.
func (c *Cache) Load(path string) (*domainbuilding.Building, document.Metadata, []document.NamedTransform, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, statErr := os.Stat(path)
	if statErr == nil && c.entry != nil && c.entry.path == path && c.entry.modTime.Equal(info.ModTime()) {
		return cloneEntry(c.entry)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, document.Metadata{}, nil, err
	}
	b, meta, coordSystems, err := document.Unmarshal(data)
	if err != nil {
		return nil, document.Metadata{}, nil, err
	}

	modTime := time.Now()
	if statErr == nil {
		modTime = info.ModTime()
	}

	c.entry = &entry{
		building:          b,
		metadata:          *meta,
		coordinateSystems: coordSystems,
		path:              path,
		modTime:           modTime,
	}
	return cloneEntry(c.entry)
}

// Invalidate drops the cached entry, regardless of which path it held. The
// commit engine always calls this after a successful save (4.J step 6).
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

func cloneEntry(e *entry) (*domainbuilding.Building, document.Metadata, []document.NamedTransform, error) {
	return CloneBuilding(e.building), cloneMetadata(e.metadata), append([]document.NamedTransform(nil), e.coordinateSystems...), nil
}

func cloneMetadata(m document.Metadata) document.Metadata {
	clone := m
	clone.Tags = append([]string(nil), m.Tags...)
	return clone
}
