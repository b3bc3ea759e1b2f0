package ifcexport

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
)

// Exporter renders a Building as ISO-10303-21 text, grounded on
// IFCExporter's header/footer and commented-block shape from the original
// implementation's export/ifc.rs, extended with 4.K's delta mode.
type Exporter struct {
	building *domainbuilding.Building
}

// New returns an Exporter for the given building.
func New(b *domainbuilding.Building) *Exporter {
	return &Exporter{building: b}
}

// ExportFull walks the full hierarchy and emits one commented block per
// building/floor/wing/room plus placeholder geometry lines, per 4.K.
func (e *Exporter) ExportFull(outputFilename string) string {
	var sb strings.Builder
	e.writeHeader(&sb, outputFilename)
	sb.WriteString("DATA;\n")
	sb.WriteString(fmt.Sprintf("/* Building: %s (ID: %s) */\n", e.building.DisplayName, e.building.ID.String()))

	for _, floor := range e.building.Floors {
		sb.WriteString(fmt.Sprintf("/* Floor: %s (Level: %d) */\n", floor.DisplayName, floor.Level))
		writeEquipmentBlock(&sb, floor.Equipment)
		for _, wing := range floor.Wings {
			sb.WriteString(fmt.Sprintf("/* Wing: %s */\n", wing.DisplayName))
			writeEquipmentBlock(&sb, wing.Equipment)
			for _, room := range wing.Rooms {
				sb.WriteString(fmt.Sprintf("/* Room: %s (%s) */\n", room.DisplayName, room.CanonicalPath))
				writeEquipmentBlock(&sb, room.Equipment)
			}
		}
	}

	e.writeFooter(&sb)
	return sb.String()
}

// ExportDelta emits only the comments needed to bring a previously
// exported IFC file up to date with the current hierarchy, per 4.K's
// delta algorithm: collect current canonical paths, diff against the
// sync state's exported sets, emit sorted ADD/REMOVE comments.
func (e *Exporter) ExportDelta(outputFilename string, prev *SyncState) string {
	currentEquipment, currentRooms := e.CanonicalPaths()

	added, removed := diffSets(prev.ExportedEquipmentPaths, currentEquipment)
	roomAdded, roomRemoved := diffSets(prev.ExportedRoomPaths, currentRooms)
	added = append(added, roomAdded...)
	removed = append(removed, roomRemoved...)
	sort.Strings(added)
	sort.Strings(removed)

	var sb strings.Builder
	e.writeHeader(&sb, outputFilename)
	sb.WriteString("DATA;\n")
	for _, path := range removed {
		sb.WriteString(fmt.Sprintf("/* REMOVE %s */\n", path))
	}
	for _, path := range added {
		sb.WriteString(fmt.Sprintf("/* ADD %s */\n", path))
	}
	e.writeFooter(&sb)
	return sb.String()
}

// CanonicalPaths collects the current canonical paths for every piece of
// equipment and every room in the hierarchy, per 4.K delta step 1.
func (e *Exporter) CanonicalPaths() (equipmentPaths, roomPaths []string) {
	for _, floor := range e.building.Floors {
		for _, eq := range floor.Equipment {
			equipmentPaths = append(equipmentPaths, eq.CanonicalPath)
		}
		for _, wing := range floor.Wings {
			for _, eq := range wing.Equipment {
				equipmentPaths = append(equipmentPaths, eq.CanonicalPath)
			}
			for _, room := range wing.Rooms {
				roomPaths = append(roomPaths, room.CanonicalPath)
				for _, eq := range room.Equipment {
					equipmentPaths = append(equipmentPaths, eq.CanonicalPath)
				}
			}
		}
	}
	sort.Strings(equipmentPaths)
	sort.Strings(roomPaths)
	return equipmentPaths, roomPaths
}

func diffSets(prev, current []string) (added, removed []string) {
	prevSet := make(map[string]bool, len(prev))
	for _, p := range prev {
		prevSet[p] = true
	}
	currentSet := make(map[string]bool, len(current))
	for _, c := range current {
		currentSet[c] = true
		if !prevSet[c] {
			added = append(added, c)
		}
	}
	for _, p := range prev {
		if !currentSet[p] {
			removed = append(removed, p)
		}
	}
	return added, removed
}

func writeEquipmentBlock(sb *strings.Builder, equipment []*domainbuilding.Equipment) {
	for _, eq := range equipment {
		sb.WriteString(fmt.Sprintf("/* Equipment: %s (%s) */\n", eq.DisplayName, eq.CanonicalPath))
		sb.WriteString(fmt.Sprintf("#%s = IFCCARTESIANPOINT((%g,%g,%g));\n",
			eq.ID.String(), eq.Position.Point.X, eq.Position.Point.Y, eq.Position.Point.Z))
	}
}

func (e *Exporter) writeHeader(sb *strings.Builder, outputFilename string) {
	sb.WriteString("ISO-10303-21;\n")
	sb.WriteString("HEADER;\n")
	sb.WriteString("FILE_DESCRIPTION(('ArxOS Export'),'2;1');\n")
	sb.WriteString(fmt.Sprintf("FILE_NAME('%s','%s',('ArxOS User'),(),'ArxOS Export','ArxOS','');\n",
		filepath.Base(outputFilename), time.Now().UTC().Format("2006-01-02T15:04:05")))
	sb.WriteString("FILE_SCHEMA(('IFC4'));\n")
	sb.WriteString("ENDSEC;\n")
}

func (e *Exporter) writeFooter(sb *strings.Builder) {
	sb.WriteString("ENDSEC;\n")
	sb.WriteString("END-ISO-10303-21;")
}
