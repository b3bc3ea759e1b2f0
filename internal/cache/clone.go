package cache

import (
	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
)

// CloneBuilding deep-copies a Building tree so a cache hit cannot hand a
// caller a reference the caller (or a later load) could mutate.
func CloneBuilding(b *domainbuilding.Building) *domainbuilding.Building {
	if b == nil {
		return nil
	}
	clone := *b
	if b.BoundingBox != nil {
		box := *b.BoundingBox
		clone.BoundingBox = &box
	}
	clone.Floors = make([]*domainbuilding.Floor, len(b.Floors))
	for i, f := range b.Floors {
		clone.Floors[i] = cloneFloor(f)
	}
	return &clone
}

func cloneFloor(f *domainbuilding.Floor) *domainbuilding.Floor {
	if f == nil {
		return nil
	}
	clone := *f
	if f.Elevation != nil {
		v := *f.Elevation
		clone.Elevation = &v
	}
	if f.BoundingBox != nil {
		box := *f.BoundingBox
		clone.BoundingBox = &box
	}
	clone.Properties = cloneStringMap(f.Properties)
	clone.Equipment = cloneEquipmentSlice(f.Equipment)
	clone.Wings = make([]*domainbuilding.Wing, len(f.Wings))
	for i, w := range f.Wings {
		clone.Wings[i] = cloneWing(w)
	}
	return &clone
}

func cloneWing(w *domainbuilding.Wing) *domainbuilding.Wing {
	if w == nil {
		return nil
	}
	clone := *w
	clone.Properties = cloneStringMap(w.Properties)
	clone.Equipment = cloneEquipmentSlice(w.Equipment)
	clone.Rooms = make([]*domainbuilding.Room, len(w.Rooms))
	for i, r := range w.Rooms {
		clone.Rooms[i] = cloneRoom(r)
	}
	return &clone
}

func cloneRoom(r *domainbuilding.Room) *domainbuilding.Room {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Properties = cloneStringMap(r.Properties)
	clone.Equipment = cloneEquipmentSlice(r.Equipment)
	return &clone
}

func cloneEquipmentSlice(in []*equipment.Equipment) []*equipment.Equipment {
	if in == nil {
		return nil
	}
	out := make([]*equipment.Equipment, len(in))
	for i, e := range in {
		out[i] = cloneEquipment(e)
	}
	return out
}

func cloneEquipment(e *equipment.Equipment) *equipment.Equipment {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Address != nil {
		addr := *e.Address
		clone.Address = &addr
	}
	if e.Health != nil {
		h := *e.Health
		clone.Health = &h
	}
	if e.RoomID != nil {
		id := *e.RoomID
		clone.RoomID = &id
	}
	clone.Properties = cloneStringMap(e.Properties)
	clone.Sensors = append([]equipment.SensorMapping(nil), e.Sensors...)
	return &clone
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
