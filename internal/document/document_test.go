package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/domain/equipment"
	domaintypes "github.com/arx-os/arxos/internal/domain/types"
	"github.com/arx-os/arxos/internal/spatial"
)

func sampleBuilding() *domainbuilding.Building {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	eq := &equipment.Equipment{
		ID:            domaintypes.NewIDWithLegacy("fan-1"),
		DisplayName:   "Ceiling Fan",
		CanonicalPath: "/building/main-tower/ground-floor/default/conference-room/ceiling-fan",
		EquipmentType: equipment.TypeHVAC,
		Position:      equipment.Position{Point: spatial.Point3D{X: 1, Y: 2, Z: 3}, CoordinateSystem: "building_local"},
		Confidence:    equipment.ConfidenceHigh,
		Status:        equipment.StatusActive,
		Properties:    map[string]string{"manufacturer": "Acme"},
	}
	room := &domainbuilding.Room{
		ID:            domaintypes.NewIDWithLegacy("conference-room"),
		DisplayName:   "Conference Room",
		RoomType:      domainbuilding.RoomConference,
		CanonicalPath: "/building/main-tower/ground-floor/default/conference-room",
		Equipment:     []*equipment.Equipment{eq},
		Properties:    map[string]string{},
	}
	wing := &domainbuilding.Wing{
		ID:            domaintypes.NewIDWithLegacy("default"),
		DisplayName:   "Default",
		CanonicalPath: "/building/main-tower/ground-floor/default",
		Rooms:         []*domainbuilding.Room{room},
		Properties:    map[string]string{},
	}
	floor := &domainbuilding.Floor{
		ID:            domaintypes.NewIDWithLegacy("ground-floor"),
		DisplayName:   "Ground Floor",
		Level:         0,
		CanonicalPath: "/building/main-tower/ground-floor",
		Wings:         []*domainbuilding.Wing{wing},
		Properties:    map[string]string{},
	}
	return &domainbuilding.Building{
		ID:            domaintypes.NewIDWithLegacy("main-tower"),
		DisplayName:   "Main Tower",
		CanonicalPath: "/building/main-tower",
		Floors:        []*domainbuilding.Floor{floor},
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	b := sampleBuilding()
	meta := Metadata{SourceFile: "tower.ifc", ParserVersion: "1.0", TotalEntities: 10, CoordinateSystem: "building_local", Units: "m"}

	out, err := Marshal(b, meta, nil)
	require.NoError(t, err)

	got, gotMeta, _, err := Unmarshal(out)
	require.NoError(t, err)

	assert.Equal(t, b.DisplayName, got.DisplayName)
	assert.Equal(t, b.CanonicalPath, got.CanonicalPath)
	assert.Equal(t, b.Version, got.Version)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, meta, *gotMeta)

	require.Len(t, got.Floors, 1)
	require.Len(t, got.Floors[0].Wings, 1)
	require.Len(t, got.Floors[0].Wings[0].Rooms, 1)
	gotRoom := got.Floors[0].Wings[0].Rooms[0]
	assert.Equal(t, "Conference Room", gotRoom.DisplayName)
	assert.Equal(t, domainbuilding.RoomConference, gotRoom.RoomType)

	require.Len(t, gotRoom.Equipment, 1)
	gotEq := gotRoom.Equipment[0]
	assert.Equal(t, "Ceiling Fan", gotEq.DisplayName)
	assert.Equal(t, equipment.TypeHVAC, gotEq.EquipmentType)
	assert.Equal(t, equipment.ConfidenceHigh, gotEq.Confidence)
	assert.InDelta(t, 1.0, gotEq.Position.Point.X, 1e-9)
}

func TestUnmarshal_RejectsUnknownField(t *testing.T) {
	src := []byte(`
building:
  id: x
  name: X
  created_at: "2026-01-15T12:00:00Z"
  updated_at: "2026-01-15T12:00:00Z"
  version: 1
  bogus_field: true
metadata:
  source_file: ""
  parser_version: ""
  total_entities: 0
  spatial_entities: 0
  coordinate_system: ""
  units: ""
floors: []
coordinate_systems: []
`)
	_, _, _, err := Unmarshal(src)
	require.Error(t, err)
}
