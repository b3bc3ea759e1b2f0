// Package hierarchy assembles the Building→Floor→Wing→Room→Equipment tree
// from a parsed IFC file, per 4.F.
package hierarchy

import (
	"sort"
	"strconv"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
	domaintypes "github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/internal/ifc"
	"github.com/arx-os/arxos/pkg/address"
)

// Build assembles a Building from a parse result, following the algorithm
// in 4.F: locate the building, derive floors from aggregation (falling
// back to a single default floor), ensure every floor has a wing, place
// rooms and equipment by containment, and stamp canonical paths.
func Build(parsed *ifc.ParseResult) *domainbuilding.Building {
	reg := parsed.Registry
	rel := parsed.Relationships
	resolver := ifc.NewResolver(reg)
	paths := address.NewPathSet()

	buildingID := soleEntityOf(reg, "IFCBUILDING")
	rawName := labelOf(reg, buildingID)
	displayName, slug := address.DeriveIdentifiers(rawName, "Building")
	buildingPath := paths.Unique("/building", slug)

	b := &domainbuilding.Building{
		ID:            idFor(buildingID, slug),
		DisplayName:   displayName,
		CanonicalPath: buildingPath,
	}

	storeyIDs := floorsOf(reg, rel, buildingID)
	if len(storeyIDs) == 0 {
		b.Floors = []*domainbuilding.Floor{defaultFloor(paths, buildingPath)}
	} else {
		for i, storeyID := range storeyIDs {
			b.Floors = append(b.Floors, buildFloor(reg, storeyID, i, paths, buildingPath))
		}
	}
	sort.Slice(b.Floors, func(i, j int) bool { return b.Floors[i].Level < b.Floors[j].Level })

	floorByStructure := make(map[uint64]*domainbuilding.Floor, len(storeyIDs))
	for i, storeyID := range storeyIDs {
		if i < len(b.Floors) {
			floorByStructure[storeyID] = b.Floors[i]
		}
	}

	roomsByEntity := placeRooms(reg, rel, b, floorByStructure, paths)
	placeEquipment(reg, rel, resolver, b, floorByStructure, roomsByEntity, paths)

	return b
}

func soleEntityOf(reg *ifc.Registry, entityType string) uint64 {
	ids := reg.ByType(entityType)
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

func labelOf(reg *ifc.Registry, id uint64) string {
	if id == 0 {
		return ""
	}
	paramStr, ok := reg.Params(id)
	if !ok {
		return ""
	}
	vals := ifc.ParseParams(paramStr)
	if len(vals) > 1 && vals[1].Kind == ifc.KindString {
		return vals[1].Str
	}
	return ""
}

func idFor(entityID uint64, slug string) domaintypes.ID {
	if entityID == 0 {
		return domaintypes.NewIDWithLegacy(slug)
	}
	return domaintypes.NewID()
}

// entityIDFallback is the slug/display-name fallback for an unnamed node:
// its own entity id, lowercased, per 3 invariant 2 (the reference builder
// falls back to "room.id.to_lowercase()" rather than a shared class word,
// so two unnamed siblings don't collide on the same slug).
func entityIDFallback(entityID uint64) string {
	return strconv.FormatUint(entityID, 10)
}

// floorsOf returns storey ids aggregated under the building, in source
// (aggregation list) order; falling back to all storeys in source order.
func floorsOf(reg *ifc.Registry, rel *ifc.Relationships, buildingID uint64) []uint64 {
	var out []uint64
	for _, childID := range rel.Aggregates[buildingID] {
		typ, ok := reg.Type(childID)
		if ok && ifc.StoreyTypes[typ] {
			out = append(out, childID)
		}
	}
	if len(out) > 0 {
		return out
	}
	return allStoreys(reg)
}

func allStoreys(reg *ifc.Registry) []uint64 {
	var types []string
	for t := range ifc.StoreyTypes {
		types = append(types, t)
	}
	return reg.ByType(types...)
}

func buildFloor(reg *ifc.Registry, storeyID uint64, sequenceIndex int, paths *address.PathSet, buildingPath string) *domainbuilding.Floor {
	rawName := labelOf(reg, storeyID)
	displayName, slug := address.DeriveIdentifiers(rawName, "floor")
	level := levelOf(reg, storeyID, sequenceIndex)
	floorPath := paths.Unique(buildingPath, slug)

	floor := &domainbuilding.Floor{
		ID:            idFor(storeyID, slug),
		DisplayName:   displayName,
		Level:         level,
		CanonicalPath: floorPath,
		Properties:    map[string]string{},
	}
	ensureDefaultWing(floor, paths)
	return floor
}

func defaultFloor(paths *address.PathSet, buildingPath string) *domainbuilding.Floor {
	floorPath := paths.Unique(buildingPath, "ground-floor")
	floor := &domainbuilding.Floor{
		ID:            domaintypes.NewIDWithLegacy("ground-floor"),
		DisplayName:   "Ground Floor",
		Level:         0,
		CanonicalPath: floorPath,
		Properties:    map[string]string{},
	}
	ensureDefaultWing(floor, paths)
	return floor
}

// ensureDefaultWing guarantees the floor has at least one wing. The
// reference IFC schema has no wing concept, so a synthetic "Default" wing
// is always created unless a site convention layers wings on top (outside
// the CORE's scope).
func ensureDefaultWing(floor *domainbuilding.Floor, paths *address.PathSet) {
	wingPath := paths.Unique(floor.CanonicalPath, "default")
	floor.Wings = append(floor.Wings, &domainbuilding.Wing{
		ID:            domaintypes.NewID(),
		DisplayName:   "Default",
		CanonicalPath: wingPath,
		Properties:    map[string]string{},
	})
}

// levelOf returns the storey's sequence index (its position in source order)
// as the floor level. The storey's name and elevation are not read, so a
// level number written in the storey name is not used.
func levelOf(reg *ifc.Registry, storeyID uint64, sequenceIndex int) int {
	paramStr, ok := reg.Params(storeyID)
	if !ok {
		return sequenceIndex
	}
	vals := ifc.ParseParams(paramStr)
	// IfcBuildingStorey(...Elevation) carries elevation, not an integer
	// level; the level is derived from aggregation/source order per 4.F.
	_ = vals
	return sequenceIndex
}

// placeRooms creates a Room for every recognized space entity and returns
// the entity-id -> *Room lookup used to attach room-level equipment.
func placeRooms(reg *ifc.Registry, rel *ifc.Relationships, b *domainbuilding.Building, floorByStructure map[uint64]*domainbuilding.Floor, paths *address.PathSet) map[uint64]*domainbuilding.Room {
	var roomIDs []string
	for t := range ifc.SpaceTypes {
		roomIDs = append(roomIDs, t)
	}
	byEntity := make(map[uint64]*domainbuilding.Room)
	for _, roomID := range reg.ByType(roomIDs...) {
		floorID, hasParent := rel.RoomParents[roomID]
		floor := floorByStructure[floorID]
		if !hasParent || floor == nil {
			if len(b.Floors) == 0 {
				continue
			}
			floor = b.Floors[0]
		}
		wing := floor.Wings[0]

		rawName := labelOf(reg, roomID)
		displayName, slug := address.DeriveIdentifiers(rawName, entityIDFallback(roomID))
		roomPath := paths.Unique(floor.CanonicalPath, slug)

		room := &domainbuilding.Room{
			ID:            idFor(roomID, slug),
			DisplayName:   displayName,
			RoomType:      domainbuilding.RoomOffice, // open question: reference defaults unclassified spaces to Office
			CanonicalPath: roomPath,
			Properties:    map[string]string{},
		}
		wing.Rooms = append(wing.Rooms, room)
		byEntity[roomID] = room
	}
	return byEntity
}

func placeEquipment(reg *ifc.Registry, rel *ifc.Relationships, resolver *ifc.Resolver, b *domainbuilding.Building, floorByStructure map[uint64]*domainbuilding.Floor, roomsByEntity map[uint64]*domainbuilding.Room, paths *address.PathSet) {
	var equipmentTypeNames []string
	for t := range ifc.EquipmentTypes {
		equipmentTypeNames = append(equipmentTypeNames, t)
	}
	for _, entityID := range reg.ByType(equipmentTypeNames...) {
		ifcType, _ := reg.Type(entityID)
		if !ifc.IsEquipmentType(ifcType) {
			continue
		}
		rawName := labelOf(reg, entityID)
		displayName, slug := address.DeriveIdentifiers(rawName, entityIDFallback(entityID))

		pos, posOK := resolver.ResolveProductPosition(entityID)
		confidence := equipment.ConfidenceLow
		if posOK {
			confidence = equipment.ConfidenceMedium
		}
		if _, bboxOK := resolver.ResolveProductBoundingBox(entityID); bboxOK {
			confidence = equipment.ConfidenceHigh
		}

		eq := &equipment.Equipment{
			ID:            idFor(entityID, slug),
			DisplayName:   displayName,
			EquipmentType: equipment.TypeFromIFCEntity(ifcType),
			Position:      equipment.Position{Point: pos, CoordinateSystem: "building_local"},
			Confidence:    confidence,
			Properties:    map[string]string{},
			Status:        equipment.StatusActive,
		}

		structureID, hasParent := rel.ElementParents[entityID]
		if !hasParent {
			if len(b.Floors) == 0 {
				continue
			}
			floor := b.Floors[0]
			eq.CanonicalPath = paths.Unique(floor.CanonicalPath, slug)
			floor.Equipment = append(floor.Equipment, eq)
			continue
		}

		if floor, ok := floorByStructure[structureID]; ok {
			eq.CanonicalPath = paths.Unique(floor.CanonicalPath, slug)
			floor.Equipment = append(floor.Equipment, eq)
			continue
		}

		// Parent is a room rather than a storey directly.
		if room, ok := roomsByEntity[structureID]; ok {
			if roomFloorID, ok := rel.RoomParents[structureID]; ok {
				if floor, ok := floorByStructure[roomFloorID]; ok {
					eq.CanonicalPath = paths.Unique(room.CanonicalPath, slug)
					roomID := room.ID
					eq.RoomID = &roomID
					room.Equipment = append(room.Equipment, eq)
					floor.Equipment = append(floor.Equipment, eq)
					continue
				}
			}
		}

		if len(b.Floors) > 0 {
			floor := b.Floors[0]
			eq.CanonicalPath = paths.Unique(floor.CanonicalPath, slug)
			floor.Equipment = append(floor.Equipment, eq)
		}
	}
}

