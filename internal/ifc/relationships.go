package ifc

// Relationships holds the parent/child and containment maps built by
// scanning IFCRELAGGREGATES and IFCRELCONTAINEDINSPATIALSTRUCTURE, per 4.D.
type Relationships struct {
	Aggregates       map[uint64][]uint64 // parent_id -> [child_id]
	Containment      map[uint64][]uint64 // structure_id -> [element_id]
	RoomsByStructure map[uint64][]uint64 // floor_id -> [room_id]
	ElementParents   map[uint64]uint64   // element_id -> structure_id (floor or room)
	RoomParents      map[uint64]uint64   // room_id -> floor_id
}

// ExtractRelationships scans the registry for relation entities and builds
// the maps the hierarchy builder consumes.
func ExtractRelationships(reg *Registry, spaceTypes map[string]bool) *Relationships {
	rel := &Relationships{
		Aggregates:       make(map[uint64][]uint64),
		Containment:      make(map[uint64][]uint64),
		RoomsByStructure: make(map[uint64][]uint64),
		ElementParents:   make(map[uint64]uint64),
		RoomParents:      make(map[uint64]uint64),
	}

	for _, id := range reg.ByType("IFCRELAGGREGATES") {
		params, _ := reg.Params(id)
		vals := ParseParams(params)
		if len(vals) < 5 {
			continue
		}
		parent, ok := refAt(vals, 4)
		if !ok {
			continue
		}
		children := refList(vals, 5)
		rel.Aggregates[parent] = append(rel.Aggregates[parent], children...)
	}

	for _, id := range reg.ByType("IFCRELCONTAINEDINSPATIALSTRUCTURE") {
		params, _ := reg.Params(id)
		vals := ParseParams(params)
		if len(vals) < 6 {
			continue
		}
		structure, ok := refAt(vals, 5)
		if !ok {
			continue
		}
		elements := refList(vals, 4)
		rel.Containment[structure] = append(rel.Containment[structure], elements...)
		for _, elementID := range elements {
			rel.ElementParents[elementID] = structure
			if spaceTypes[typeOf(reg, elementID)] {
				rel.RoomsByStructure[structure] = append(rel.RoomsByStructure[structure], elementID)
				rel.RoomParents[elementID] = structure
			}
		}
	}

	return rel
}

func typeOf(reg *Registry, id uint64) string {
	t, _ := reg.Type(id)
	return t
}

func refAt(vals []Value, idx int) (uint64, bool) {
	if idx < 0 || idx >= len(vals) {
		return 0, false
	}
	v := vals[idx]
	if v.Kind != KindRef {
		return 0, false
	}
	return v.Ref, true
}

func refList(vals []Value, idx int) []uint64 {
	if idx < 0 || idx >= len(vals) || vals[idx].Kind != KindList {
		return nil
	}
	out := make([]uint64, 0, len(vals[idx].List))
	for _, item := range vals[idx].List {
		if item.Kind == KindRef {
			out = append(out, item.Ref)
		}
	}
	return out
}
