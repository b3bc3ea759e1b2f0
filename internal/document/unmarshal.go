package document

import (
	"bytes"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
	domaintypes "github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/pkg/address"
	coreerrors "github.com/arx-os/arxos/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Unmarshal is the strict inverse of Marshal: unknown keys are rejected
// with a DeserializationError, per 4.H.
func Unmarshal(data []byte) (*domainbuilding.Building, *Metadata, []NamedTransform, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, nil, coreerrors.Deserialization(err.Error())
	}

	createdAt, err := parseTime(doc.Building.CreatedAt)
	if err != nil {
		return nil, nil, nil, coreerrors.Deserialization("building.created_at: " + err.Error())
	}
	updatedAt, err := parseTime(doc.Building.UpdatedAt)
	if err != nil {
		return nil, nil, nil, coreerrors.Deserialization("building.updated_at: " + err.Error())
	}

	b := &domainbuilding.Building{
		ID:          domaintypes.FromString(doc.Building.ID),
		DisplayName: doc.Building.Name,
		Description: doc.Building.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Version:     doc.Building.Version,
	}
	if doc.Building.GlobalBoundingBox != nil {
		bbox := fromBoundingBox(*doc.Building.GlobalBoundingBox)
		b.BoundingBox = &bbox
	}

	// The building's own canonical_path is not carried in the document (6.3
	// lists it only for Floor/Wing/Room/Equipment); it is deterministic from
	// the display name, so it is regenerated rather than round-tripped.
	_, slug := address.DeriveIdentifiers(b.DisplayName, "Building")
	b.CanonicalPath = "/building/" + slug

	for _, fd := range doc.Floors {
		floor, err := unmarshalFloor(fd)
		if err != nil {
			return nil, nil, nil, err
		}
		b.Floors = append(b.Floors, floor)
	}

	return b, &doc.Metadata, doc.CoordinateSystems, nil
}

func unmarshalFloor(fd floorDoc) (*domainbuilding.Floor, error) {
	f := &domainbuilding.Floor{
		ID:            domaintypes.FromString(fd.ID),
		DisplayName:   fd.DisplayName,
		Level:         fd.Level,
		Elevation:     fd.Elevation,
		CanonicalPath: fd.CanonicalPath,
		Properties:    map[string]string(fd.Properties),
	}
	if fd.BoundingBox != nil {
		bbox := fromBoundingBox(*fd.BoundingBox)
		f.BoundingBox = &bbox
	}
	for _, ed := range fd.Equipment {
		eq, err := unmarshalEquipment(ed)
		if err != nil {
			return nil, err
		}
		f.Equipment = append(f.Equipment, eq)
	}
	for _, wd := range fd.Wings {
		wing, err := unmarshalWing(wd)
		if err != nil {
			return nil, err
		}
		f.Wings = append(f.Wings, wing)
	}
	return f, nil
}

func unmarshalWing(wd wingDoc) (*domainbuilding.Wing, error) {
	w := &domainbuilding.Wing{
		ID:            domaintypes.FromString(wd.ID),
		DisplayName:   wd.DisplayName,
		CanonicalPath: wd.CanonicalPath,
		Properties:    map[string]string(wd.Properties),
	}
	for _, ed := range wd.Equipment {
		eq, err := unmarshalEquipment(ed)
		if err != nil {
			return nil, err
		}
		w.Equipment = append(w.Equipment, eq)
	}
	for _, rd := range wd.Rooms {
		room, err := unmarshalRoom(rd)
		if err != nil {
			return nil, err
		}
		w.Rooms = append(w.Rooms, room)
	}
	return w, nil
}

func unmarshalRoom(rd roomDoc) (*domainbuilding.Room, error) {
	r := &domainbuilding.Room{
		ID:            domaintypes.FromString(rd.ID),
		DisplayName:   rd.DisplayName,
		RoomType:      domainbuilding.RoomType(rd.RoomType),
		CanonicalPath: rd.CanonicalPath,
		FloorPolygon:  rd.FloorPolygon,
		Properties:    map[string]string(rd.Properties),
		Spatial: domainbuilding.SpatialProperties{
			Position:    fromPoint3D(rd.Spatial.Position),
			Width:       rd.Spatial.Width,
			Depth:       rd.Spatial.Depth,
			Height:      rd.Spatial.Height,
			BoundingBox: fromBoundingBox(rd.Spatial.BoundingBox),
		},
	}
	for _, ed := range rd.Equipment {
		eq, err := unmarshalEquipment(ed)
		if err != nil {
			return nil, err
		}
		r.Equipment = append(r.Equipment, eq)
	}
	return r, nil
}

func unmarshalEquipment(ed equipDoc) (*equipment.Equipment, error) {
	e := &equipment.Equipment{
		ID:            domaintypes.FromString(ed.ID),
		DisplayName:   ed.DisplayName,
		CanonicalPath: ed.CanonicalPath,
		EquipmentType: equipment.Type(ed.EquipmentType),
		Position: equipment.Position{
			Point:            fromPoint3D(ed.Position.Point),
			CoordinateSystem: ed.Position.CoordinateSystem,
		},
		Confidence: parseConfidence(ed.Confidence),
		Properties: map[string]string(ed.Properties),
		Status:     equipment.OperationalStatus(ed.OperationalStatus),
	}
	if ed.Address != nil {
		addr := address.Equipment{
			Country: ed.Address.Country, Region: ed.Address.Region, City: ed.Address.City,
			Building: ed.Address.Building, Floor: ed.Address.Floor,
			System: ed.Address.System, Fixture: ed.Address.Fixture,
		}
		e.Address = &addr
	}
	if ed.HealthStatus != nil {
		h := equipment.HealthStatus(*ed.HealthStatus)
		e.Health = &h
	}
	if ed.RoomID != nil {
		id := domaintypes.FromString(*ed.RoomID)
		e.RoomID = &id
	}
	for _, sd := range ed.Sensors {
		e.Sensors = append(e.Sensors, equipment.SensorMapping{SensorID: sd.SensorID, Channel: sd.Channel})
	}
	return e, nil
}

func parseConfidence(s string) equipment.ConfidenceLevel {
	switch s {
	case "estimated":
		return equipment.ConfidenceEstimated
	case "low":
		return equipment.ConfidenceLow
	case "medium":
		return equipment.ConfidenceMedium
	case "high":
		return equipment.ConfidenceHigh
	case "scanned":
		return equipment.ConfidenceScanned
	case "surveyed":
		return equipment.ConfidenceSurveyed
	default:
		return equipment.ConfidenceUnknown
	}
}
