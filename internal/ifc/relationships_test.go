package ifc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const s1Scenario = `ISO-10303-21;
DATA;
#1 = IFCPROJECT('prj','Proj',$,$,$,$,$,$,$);
#2 = IFCSITE('st','Site',$,$,$,$,$,$,$,$,$,$,$,$);
#3 = IFCBUILDING('b','Main Tower',$,$,$,$,$,$,$,$,$);
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#5 = IFCRELAGGREGATES('r','',$,$,#3,(#4));
ENDSEC;
`

func TestExtractRelationships_Aggregates(t *testing.T) {
	res := mustParse(t, s1Scenario)
	require.Contains(t, res.Relationships.Aggregates, uint64(3))
	assert.Equal(t, []uint64{4}, res.Relationships.Aggregates[3])
}

func TestExtractRelationships_Containment(t *testing.T) {
	src := `ISO-10303-21;
DATA;
#4 = IFCBUILDINGSTOREY('s1','Ground Floor',$,$,$,$,$,$,$,0.0);
#10 = IFCSPACE('sp','Room',$,$,$,$,$,$,$,$);
#11 = IFCRELCONTAINEDINSPATIALSTRUCTURE('c','',$,$,(#10),#4);
ENDSEC;
`
	res := mustParse(t, src)
	assert.Equal(t, []uint64{10}, res.Relationships.Containment[4])
	assert.Equal(t, uint64(4), res.Relationships.ElementParents[10])
	assert.Equal(t, uint64(4), res.Relationships.RoomParents[10])
	assert.Equal(t, []uint64{10}, res.Relationships.RoomsByStructure[4])
}

func TestIsEquipmentType(t *testing.T) {
	assert.True(t, IsEquipmentType("IFCFAN"))
	assert.True(t, IsEquipmentType("IFCFLOWTERMINAL"))
	assert.False(t, IsEquipmentType("IFCFLOWTERMINALTYPE"))
	assert.False(t, IsEquipmentType("IFCWALL"))
}
