package hierarchy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbuilding "github.com/arx-os/arxos/internal/domain/building"
	"github.com/arx-os/arxos/internal/ifc"
)

func mustBuild(t *testing.T, src string) *domainbuilding.Building {
	t.Helper()
	parsed, err := ifc.Parse(strings.NewReader(src), 0)
	require.NoError(t, err)
	return Build(parsed)
}

// S1: a minimal file with just a project/site/building/storey aggregation
// produces one building with one floor at level 0, a synthetic "Default"
// wing, and no rooms or equipment.
const s1Minimal = `ISO-10303-21;
DATA;
#1 = IFCPROJECT('prj','Proj',$,$,$,$,$,$,$);
#2 = IFCSITE('st','Site',$,$,$,$,$,$,$,$,$,$,$,$);
#3 = IFCBUILDING('b','Main Tower',$,$,$,$,$,$,$,$,$);
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#5 = IFCRELAGGREGATES('r1','',$,$,#3,(#4));
ENDSEC;
`

func TestBuild_S1_MinimalBuilding(t *testing.T) {
	b := mustBuild(t, s1Minimal)

	assert.Equal(t, "Main Tower", b.DisplayName)
	assert.Equal(t, "/building/main-tower", b.CanonicalPath)
	require.Len(t, b.Floors, 1)

	floor := b.Floors[0]
	assert.Equal(t, "Ground Floor", floor.DisplayName)
	assert.Equal(t, 0, floor.Level)
	assert.Equal(t, "/building/main-tower/ground-floor", floor.CanonicalPath)

	require.Len(t, floor.Wings, 1)
	assert.Equal(t, "Default", floor.Wings[0].DisplayName)
	assert.Empty(t, floor.Wings[0].Rooms)
	assert.Empty(t, floor.Equipment)
}

// S2: two rooms sharing the same raw name get unique canonical paths via
// the "-2" suffix.
const s2DuplicateRooms = `ISO-10303-21;
DATA;
#3 = IFCBUILDING('b','Main Tower',$,$,$,$,$,$,$,$,$);
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#5 = IFCRELAGGREGATES('r1','',$,$,#3,(#4));
#10 = IFCSPACE('sp1','Room',$,$,$,$,$,$,$,$);
#11 = IFCSPACE('sp2','Room',$,$,$,$,$,$,$,$);
#12 = IFCRELCONTAINEDINSPATIALSTRUCTURE('c1','',$,$,(#10,#11),#4);
ENDSEC;
`

func TestBuild_S2_DuplicateRoomNamesGetUniquePaths(t *testing.T) {
	b := mustBuild(t, s2DuplicateRooms)

	require.Len(t, b.Floors, 1)
	wing := b.Floors[0].Wings[0]
	require.Len(t, wing.Rooms, 2)

	paths := []string{wing.Rooms[0].CanonicalPath, wing.Rooms[1].CanonicalPath}
	assert.Contains(t, paths, "/building/main-tower/ground-floor/room")
	assert.Contains(t, paths, "/building/main-tower/ground-floor/room-2")
}

// S3 end-to-end: a fan nested two local placements deep resolves to world
// position (10, 5, 0) and is attached to its containing floor.
const s3EndToEnd = `ISO-10303-21;
DATA;
#3 = IFCBUILDING('b','Main Tower',$,$,$,$,$,$,$,$,$);
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#5 = IFCRELAGGREGATES('r1','',$,$,#3,(#4));
#10 = IFCCARTESIANPOINT((10.0,0.0,0.0));
#11 = IFCAXIS2PLACEMENT3D(#10,$,$);
#12 = IFCLOCALPLACEMENT($,#11);
#20 = IFCCARTESIANPOINT((0.0,5.0,0.0));
#21 = IFCAXIS2PLACEMENT3D(#20,$,$);
#22 = IFCLOCALPLACEMENT(#12,#21);
#30 = IFCFLOWTERMINAL('fan','Fan',$,$,#22,$,$,.ELEMENT.,$);
#31 = IFCRELCONTAINEDINSPATIALSTRUCTURE('c1','',$,$,(#30),#4);
ENDSEC;
`

func TestBuild_S3_EquipmentPlacementComposesThroughFloor(t *testing.T) {
	b := mustBuild(t, s3EndToEnd)

	require.Len(t, b.Floors, 1)
	floor := b.Floors[0]
	require.Len(t, floor.Equipment, 1)

	eq := floor.Equipment[0]
	assert.Equal(t, "Fan", eq.DisplayName)
	assert.InDelta(t, 10.0, eq.Position.Point.X, 1e-6)
	assert.InDelta(t, 5.0, eq.Position.Point.Y, 1e-6)
	assert.InDelta(t, 0.0, eq.Position.Point.Z, 1e-6)
}

func TestBuild_EquipmentInRoomGetsRoomIDAndNestedPath(t *testing.T) {
	src := `ISO-10303-21;
DATA;
#3 = IFCBUILDING('b','Main Tower',$,$,$,$,$,$,$,$,$);
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#5 = IFCRELAGGREGATES('r1','',$,$,#3,(#4));
#10 = IFCSPACE('sp1','Conference Room',$,$,$,$,$,$,$,$);
#11 = IFCRELCONTAINEDINSPATIALSTRUCTURE('c1','',$,$,(#10),#4);
#30 = IFCFAN('fan','Ceiling Fan',$,$,$,$,$,.ELEMENT.,$);
#31 = IFCRELCONTAINEDINSPATIALSTRUCTURE('c2','',$,$,(#30),#10);
ENDSEC;
`
	b := mustBuild(t, src)
	wing := b.Floors[0].Wings[0]
	require.Len(t, wing.Rooms, 1)
	room := wing.Rooms[0]
	require.Len(t, room.Equipment, 1)
	require.NotNil(t, room.Equipment[0].RoomID)
	assert.True(t, room.ID.Equal(*room.Equipment[0].RoomID))
	assert.Equal(t, "/building/main-tower/ground-floor/conference-room/ceiling-fan", room.Equipment[0].CanonicalPath)
}

func TestBuild_NoStoreysFallsBackToDefaultFloor(t *testing.T) {
	src := `ISO-10303-21;
DATA;
#3 = IFCBUILDING('b','Annex',$,$,$,$,$,$,$,$,$);
ENDSEC;
`
	b := mustBuild(t, src)
	require.Len(t, b.Floors, 1)
	assert.Equal(t, "Ground Floor", b.Floors[0].DisplayName)
	assert.Equal(t, 0, b.Floors[0].Level)
}
