package hierarchy

import (
	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
	"github.com/arx-os/arxos/internal/spatial"
)

// BuildSpatialIndex populates a spatial index from an assembled Building
// tree, per 4.G: every piece of equipment (floor-level, wing-level, or
// room-level) becomes an indexed entity keyed by its building_local
// position. Rooms themselves are not indexed; 4.G's R-tree is built over
// entity (equipment) AABBs only.
func BuildSpatialIndex(b *domainbuilding.Building) *spatial.Index {
	idx := spatial.NewIndex()
	if b == nil {
		return idx
	}
	for _, floor := range b.Floors {
		for _, eq := range floor.Equipment {
			idx.Insert(entityFor(eq, ""))
		}
		for _, wing := range floor.Wings {
			for _, eq := range wing.Equipment {
				idx.Insert(entityFor(eq, ""))
			}
			for _, room := range wing.Rooms {
				roomKey := spatial.RoomKey(room.DisplayName)
				for _, eq := range room.Equipment {
					idx.Insert(entityFor(eq, roomKey))
				}
			}
		}
	}
	return idx
}

// entityFor converts an Equipment leaf into a spatial.Entity. Its bounding
// box degenerates to its single position point: 4.F places equipment by a
// point, not an extent, so min and max coincide.
func entityFor(eq *domainbuilding.Equipment, roomKey string) spatial.Entity {
	p := eq.Position.Point
	return spatial.Entity{
		ID:         eq.ID.String(),
		Box:        spatial.BoundingBox{Min: p, Max: p},
		RoomKey:    roomKey,
		FloorIndex: spatial.FloorIndexFromZ(p.Z),
		Confidence: confidenceFor(eq.Confidence),
	}
}

// confidenceFor maps the equipment package's six-level confidence scale
// (used to describe how a position was derived: estimated, scanned,
// surveyed, ...) onto the spatial index's three-level scale.
func confidenceFor(c equipment.ConfidenceLevel) spatial.ConfidenceLevel {
	switch {
	case c >= equipment.ConfidenceHigh:
		return spatial.ConfidenceHigh
	case c >= equipment.ConfidenceMedium:
		return spatial.ConfidenceMedium
	default:
		return spatial.ConfidenceLow
	}
}
