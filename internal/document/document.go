// Package document implements the canonical document serializer (4.H): a
// hierarchical record format for the Building tree with deterministic key
// order, ISO-8601 UTC dates, and enumerations rendered as display names.
package document

import (
	"time"

	"github.com/arx-os/arxos/internal/domain/equipment"
	domaintypes "github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/internal/spatial"
)

const timeLayout = time.RFC3339

// Document is the top-level record written to the canonical file: four
// keys in the fixed order building/metadata/floors/coordinate_systems, per
// 6.3.
type Document struct {
	Building          buildingDoc      `yaml:"building"`
	Metadata          Metadata         `yaml:"metadata"`
	Floors            []floorDoc       `yaml:"floors"`
	CoordinateSystems []NamedTransform `yaml:"coordinate_systems"`
}

// Metadata carries provenance about the source IFC file and the parse that
// produced this document.
type Metadata struct {
	SourceFile       string   `yaml:"source_file"`
	ParserVersion    string   `yaml:"parser_version"`
	TotalEntities    int      `yaml:"total_entities"`
	SpatialEntities  int      `yaml:"spatial_entities"`
	CoordinateSystem string   `yaml:"coordinate_system"`
	Units            string   `yaml:"units"`
	Tags             []string `yaml:"tags,omitempty"`
}

// NamedTransform is one entry of coordinate_systems: a placement transform
// identified by name (e.g. "building_local").
type NamedTransform struct {
	Name        string  `yaml:"name"`
	Translation point3D `yaml:"translation"`
	Rotation    float64 `yaml:"rotation"`
	Scale       float64 `yaml:"scale"`
}

type buildingDoc struct {
	ID                string       `yaml:"id"`
	Name              string       `yaml:"name"`
	Description       string       `yaml:"description,omitempty"`
	CreatedAt         string       `yaml:"created_at"`
	UpdatedAt         string       `yaml:"updated_at"`
	Version           int          `yaml:"version"`
	GlobalBoundingBox *boundingBox `yaml:"global_bounding_box,omitempty"`
}

type floorDoc struct {
	ID            string       `yaml:"id"`
	DisplayName   string       `yaml:"display_name"`
	Level         int          `yaml:"level"`
	Elevation     *float64     `yaml:"elevation,omitempty"`
	BoundingBox   *boundingBox `yaml:"bounding_box,omitempty"`
	Wings         []wingDoc    `yaml:"wings"`
	Equipment     []equipDoc   `yaml:"equipment"`
	Properties    propertyMap  `yaml:"properties,omitempty"`
	CanonicalPath string       `yaml:"canonical_path"`
}

type wingDoc struct {
	ID            string      `yaml:"id"`
	DisplayName   string      `yaml:"display_name"`
	Rooms         []roomDoc   `yaml:"rooms"`
	Equipment     []equipDoc  `yaml:"equipment"`
	Properties    propertyMap `yaml:"properties,omitempty"`
	CanonicalPath string      `yaml:"canonical_path"`
}

type roomDoc struct {
	ID            string          `yaml:"id"`
	DisplayName   string          `yaml:"display_name"`
	RoomType      string          `yaml:"room_type"`
	Equipment     []equipDoc      `yaml:"equipment"`
	Spatial       spatialPropsDoc `yaml:"spatial_properties"`
	Properties    propertyMap     `yaml:"properties,omitempty"`
	CanonicalPath string          `yaml:"canonical_path"`
	FloorPolygon  string          `yaml:"floor_polygon,omitempty"`
}

type spatialPropsDoc struct {
	Position    point3D     `yaml:"position"`
	Width       float64     `yaml:"width"`
	Depth       float64     `yaml:"depth"`
	Height      float64     `yaml:"height"`
	BoundingBox boundingBox `yaml:"bounding_box"`
}

type equipDoc struct {
	ID                string      `yaml:"id"`
	DisplayName       string      `yaml:"display_name"`
	CanonicalPath     string      `yaml:"canonical_path"`
	Address           *addressDoc `yaml:"address,omitempty"`
	EquipmentType     string      `yaml:"equipment_type"`
	Position          positionDoc `yaml:"position"`
	Confidence        string      `yaml:"confidence"`
	Properties        propertyMap `yaml:"properties,omitempty"`
	OperationalStatus string      `yaml:"operational_status"`
	HealthStatus      *string     `yaml:"health_status,omitempty"`
	RoomID            *string     `yaml:"room_id,omitempty"`
	Sensors           []sensorDoc `yaml:"sensors,omitempty"`
}

type sensorDoc struct {
	SensorID string `yaml:"sensor_id"`
	Channel  string `yaml:"channel"`
}

type addressDoc struct {
	Country  string `yaml:"country"`
	Region   string `yaml:"region"`
	City     string `yaml:"city"`
	Building string `yaml:"building"`
	Floor    string `yaml:"floor"`
	System   string `yaml:"system"`
	Fixture  string `yaml:"fixture"`
}

type positionDoc struct {
	Point            point3D `yaml:"point"`
	CoordinateSystem string  `yaml:"coordinate_system"`
}

type point3D struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type boundingBox struct {
	Min point3D `yaml:"min"`
	Max point3D `yaml:"max"`
}

type propertyMap map[string]string

func toPoint3D(p spatial.Point3D) point3D { return point3D{X: p.X, Y: p.Y, Z: p.Z} }
func fromPoint3D(p point3D) spatial.Point3D {
	return spatial.Point3D{X: p.X, Y: p.Y, Z: p.Z}
}

func toBoundingBox(b spatial.BoundingBox) boundingBox {
	return boundingBox{Min: toPoint3D(b.Min), Max: toPoint3D(b.Max)}
}
func fromBoundingBox(b boundingBox) spatial.BoundingBox {
	return spatial.BoundingBox{Min: fromPoint3D(b.Min), Max: fromPoint3D(b.Max)}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func idString(id domaintypes.ID) string { return id.String() }

func confidenceString(c equipment.ConfidenceLevel) string { return c.String() }
