// Package building holds the Building→Floor→Wing→Room→Equipment tree
// produced by the hierarchy builder, per the data model in 3.
package building

import (
	"time"

	"github.com/arx-os/arxos/internal/domain/equipment"
	"github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/internal/spatial"
)

// Equipment is an alias for the equipment package's type, kept local so
// tree nodes can reference it without every caller importing equipment too.
type Equipment = equipment.Equipment

// RoomType enumerates recognized room categories; anything not on this list
// is carried as OtherRoomType(raw).
type RoomType string

const (
	RoomOffice     RoomType = "Office"
	RoomConference RoomType = "Conference"
	RoomBathroom   RoomType = "Bathroom"
	RoomKitchen    RoomType = "Kitchen"
	RoomLaboratory RoomType = "Laboratory"
	RoomClassroom  RoomType = "Classroom"
)

// OtherRoomType renders an unrecognized room type as "Other(<raw>)".
func OtherRoomType(raw string) RoomType {
	return RoomType("Other(" + raw + ")")
}

// SpatialProperties captures a room's position, footprint, and AABB, all in
// the "building_local" coordinate system.
type SpatialProperties struct {
	Position    spatial.Point3D
	Width       float64
	Depth       float64
	Height      float64
	BoundingBox spatial.BoundingBox
}

// Building is the root of the tree produced by the hierarchy builder.
type Building struct {
	ID            types.ID
	DisplayName   string
	CanonicalPath string // "/building/<slug>"
	Floors        []*Floor
	BoundingBox   *spatial.BoundingBox
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
}

// Floor is a storey of the building, identified by an integer level. The
// hierarchy builder assigns the level from the storey's position in source
// order; the storey's name is not parsed for a level.
type Floor struct {
	ID            types.ID
	DisplayName   string
	Level         int
	Elevation     *float64
	BoundingBox   *spatial.BoundingBox
	Wings         []*Wing
	Equipment     []*Equipment // floor-level equipment, not in any wing/room
	Properties    map[string]string
	CanonicalPath string
}

// Wing groups rooms within a floor. Every floor has at least one; when IFC
// carries no wing partition, a synthetic "Default" wing is created.
type Wing struct {
	ID            types.ID
	DisplayName   string
	Rooms         []*Room
	Equipment     []*Equipment
	Properties    map[string]string
	CanonicalPath string
}

// Room is a bounded space within a wing.
type Room struct {
	ID            types.ID
	DisplayName   string
	RoomType      RoomType
	Equipment     []*Equipment
	Spatial       SpatialProperties
	Properties    map[string]string
	CanonicalPath string
	FloorPolygon  string // "x1,y1;x2,y2;..."
}
