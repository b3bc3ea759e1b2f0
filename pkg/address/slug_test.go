package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Main Tower":         "main-tower",
		"  Conference Room ": "conference-room",
		"Room #101!!":        "room-101",
		"":                   "",
		"---":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugify_MatchesPattern(t *testing.T) {
	for _, in := range []string{"Main Tower", "Room 101", "B2 / Sub-basement"} {
		s := Slugify(in)
		if s != "" {
			assert.Regexp(t, SlugPattern, s)
		}
	}
}

func TestDeriveIdentifiers_FallsBackOnUnknown(t *testing.T) {
	name, slug := DeriveIdentifiers("Unknown", "Building 1")
	assert.Equal(t, "Building 1", name)
	assert.Equal(t, "building-1", slug)
}

func TestDeriveIdentifiers_EmptyFallsBackToBuilding(t *testing.T) {
	_, slug := DeriveIdentifiers("", "")
	assert.Equal(t, "building", slug)
}

func TestPathSet_Uniqueness(t *testing.T) {
	ps := NewPathSet()
	p1 := ps.Unique("/building/main-tower/ground-floor", "room")
	p2 := ps.Unique("/building/main-tower/ground-floor", "room")
	assert.Equal(t, "/building/main-tower/ground-floor/room", p1)
	assert.Equal(t, "/building/main-tower/ground-floor/room-2", p2)
}

func TestEquipmentAddress_RoundTrip(t *testing.T) {
	a := Equipment{
		Country: "usa", Region: "ca", City: "san-francisco", Building: "main-tower",
		Floor: FloorSegment(3), System: "hvac", Fixture: "vav-301",
	}
	require := assert.New(t)
	require.NoError(a.Validate())

	parsed, err := ParseEquipmentAddress(a.String())
	require.NoError(err)
	require.Equal(a, parsed)
}

func TestEquipmentAddress_RejectsEmptySegment(t *testing.T) {
	a := Equipment{Country: "usa", Region: "ca", City: "sf", Building: "main", Floor: "floor-01", System: "hvac"}
	assert.Error(t, a.Validate())
}
