package document

import (
	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
	"gopkg.in/yaml.v3"
)

// Marshal renders a Building plus its metadata and named coordinate
// systems to canonical document bytes.
func Marshal(b *domainbuilding.Building, meta Metadata, coordSystems []NamedTransform) ([]byte, error) {
	doc := Document{
		Building: buildingDoc{
			ID:          idString(b.ID),
			Name:        b.DisplayName,
			Description: b.Description,
			CreatedAt:   formatTime(b.CreatedAt),
			UpdatedAt:   formatTime(b.UpdatedAt),
			Version:     b.Version,
		},
		Metadata:          meta,
		CoordinateSystems: coordSystems,
	}
	if b.BoundingBox != nil {
		bbox := toBoundingBox(*b.BoundingBox)
		doc.Building.GlobalBoundingBox = &bbox
	}
	for _, floor := range b.Floors {
		doc.Floors = append(doc.Floors, marshalFloor(floor))
	}
	return yaml.Marshal(doc)
}

func marshalFloor(f *domainbuilding.Floor) floorDoc {
	fd := floorDoc{
		ID:            idString(f.ID),
		DisplayName:   f.DisplayName,
		Level:         f.Level,
		Elevation:     f.Elevation,
		CanonicalPath: f.CanonicalPath,
		Properties:    propertyMap(f.Properties),
	}
	if f.BoundingBox != nil {
		bbox := toBoundingBox(*f.BoundingBox)
		fd.BoundingBox = &bbox
	}
	for _, eq := range f.Equipment {
		fd.Equipment = append(fd.Equipment, marshalEquipment(eq))
	}
	for _, wing := range f.Wings {
		fd.Wings = append(fd.Wings, marshalWing(wing))
	}
	return fd
}

func marshalWing(w *domainbuilding.Wing) wingDoc {
	wd := wingDoc{
		ID:            idString(w.ID),
		DisplayName:   w.DisplayName,
		CanonicalPath: w.CanonicalPath,
		Properties:    propertyMap(w.Properties),
	}
	for _, eq := range w.Equipment {
		wd.Equipment = append(wd.Equipment, marshalEquipment(eq))
	}
	for _, room := range w.Rooms {
		wd.Rooms = append(wd.Rooms, marshalRoom(room))
	}
	return wd
}

func marshalRoom(r *domainbuilding.Room) roomDoc {
	rd := roomDoc{
		ID:            idString(r.ID),
		DisplayName:   r.DisplayName,
		RoomType:      string(r.RoomType),
		CanonicalPath: r.CanonicalPath,
		FloorPolygon:  r.FloorPolygon,
		Properties:    propertyMap(r.Properties),
		Spatial: spatialPropsDoc{
			Position:    toPoint3D(r.Spatial.Position),
			Width:       r.Spatial.Width,
			Depth:       r.Spatial.Depth,
			Height:      r.Spatial.Height,
			BoundingBox: toBoundingBox(r.Spatial.BoundingBox),
		},
	}
	for _, eq := range r.Equipment {
		rd.Equipment = append(rd.Equipment, marshalEquipment(eq))
	}
	return rd
}

func marshalEquipment(e *equipment.Equipment) equipDoc {
	ed := equipDoc{
		ID:                idString(e.ID),
		DisplayName:       e.DisplayName,
		CanonicalPath:     e.CanonicalPath,
		EquipmentType:     string(e.EquipmentType),
		Confidence:        confidenceString(e.Confidence),
		Properties:        propertyMap(e.Properties),
		OperationalStatus: string(e.Status),
		Position: positionDoc{
			Point:            toPoint3D(e.Position.Point),
			CoordinateSystem: e.Position.CoordinateSystem,
		},
	}
	if e.Address != nil {
		ed.Address = &addressDoc{
			Country: e.Address.Country, Region: e.Address.Region, City: e.Address.City,
			Building: e.Address.Building, Floor: e.Address.Floor,
			System: e.Address.System, Fixture: e.Address.Fixture,
		}
	}
	if e.Health != nil {
		s := string(*e.Health)
		ed.HealthStatus = &s
	}
	if e.RoomID != nil {
		s := idString(*e.RoomID)
		ed.RoomID = &s
	}
	for _, sm := range e.Sensors {
		ed.Sensors = append(ed.Sensors, sensorDoc{SensorID: sm.SensorID, Channel: sm.Channel})
	}
	return ed
}
