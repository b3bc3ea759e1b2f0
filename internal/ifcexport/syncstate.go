// Package ifcexport renders a building's hierarchy as ISO-10303-21 text,
// per 4.K: a full-hierarchy dump on the first export, and a delta of
// added/removed canonical paths against a persisted sync-state sidecar on
// every export after that.
package ifcexport

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	coreerrors "github.com/arx-os/arxos/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SyncStateFile is the conventional sidecar name, relative to the
// repository root, per 6.5.
const SyncStateFile = ".ifc_sync_state"

const timeLayout = time.RFC3339

// SyncState is the persisted record of the most recent export, per 6.5:
// "ifc target path (relative to repo root), last export timestamp
// (ISO-8601), two sorted string sets (equipment paths, room paths)".
type SyncState struct {
	IFCFilePath            string   `yaml:"ifc_file_path"`
	LastExportTimestamp    string   `yaml:"last_export_timestamp"`
	ExportedEquipmentPaths []string `yaml:"exported_equipment_paths"`
	ExportedRoomPaths      []string `yaml:"exported_room_paths"`
}

// HasPreviousExport reports whether LastExportTimestamp is a real export
// time rather than the zero/epoch value new sync state starts with. Delta
// mode is only used when this is true, per 4.K's closing rule.
func (s *SyncState) HasPreviousExport() bool {
	if s.LastExportTimestamp == "" {
		return false
	}
	t, err := time.Parse(timeLayout, s.LastExportTimestamp)
	if err != nil {
		return false
	}
	return t.After(time.Unix(0, 0).UTC())
}

// LoadSyncState reads the sidecar at <repoRoot>/.ifc_sync_state. A missing
// file is not an error: it yields a zero-value SyncState, which
// HasPreviousExport reports as "no previous export" so the caller falls
// back to full-mode.
func LoadSyncState(repoRoot string) (*SyncState, error) {
	path := filepath.Join(repoRoot, SyncStateFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &SyncState{}, nil
	}
	if err != nil {
		return nil, err
	}

	var s SyncState
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, coreerrors.Deserialization(err.Error())
	}
	sort.Strings(s.ExportedEquipmentPaths)
	sort.Strings(s.ExportedRoomPaths)
	return &s, nil
}

// Save writes the sync state to <repoRoot>/.ifc_sync_state atomically: the
// new content is written to a temp file in the same directory, then
// renamed into place, per 4.K step 6.
func (s *SyncState) Save(repoRoot string) error {
	sort.Strings(s.ExportedEquipmentPaths)
	sort.Strings(s.ExportedRoomPaths)

	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	path := filepath.Join(repoRoot, SyncStateFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
