package ifcexport

import (
	"os"
	"path/filepath"
	"time"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/pathsafety"
)

// Export renders relOutputPath's IFC content and persists the updated sync
// state, auto-selecting delta mode when a non-epoch last_export_timestamp
// is already on disk and full mode otherwise, per 4.K's closing rule.
// It returns the content written, for callers (e.g. the export command)
// that want to report size or encode it without re-reading the file.
func Export(repoRoot, relOutputPath string, b *domainbuilding.Building) ([]byte, error) {
	absPath, err := pathsafety.Validate(relOutputPath, repoRoot)
	if err != nil {
		return nil, err
	}

	prev, err := LoadSyncState(repoRoot)
	if err != nil {
		return nil, err
	}

	exporter := New(b)
	var content string
	if prev.HasPreviousExport() {
		content = exporter.ExportDelta(filepath.Base(absPath), prev)
	} else {
		content = exporter.ExportFull(filepath.Base(absPath))
	}

	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return nil, err
	}

	equipmentPaths, roomPaths := exporter.CanonicalPaths()
	relFromRoot, err := filepath.Rel(repoRoot, absPath)
	if err != nil {
		relFromRoot = relOutputPath
	}
	next := &SyncState{
		IFCFilePath:            relFromRoot,
		LastExportTimestamp:    time.Now().UTC().Format(timeLayout),
		ExportedEquipmentPaths: equipmentPaths,
		ExportedRoomPaths:      roomPaths,
	}
	if err := next.Save(repoRoot); err != nil {
		return nil, err
	}

	return []byte(content), nil
}
