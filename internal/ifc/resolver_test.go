package ifc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// s3Scenario is the placement-composition scenario from the testable
// properties: a fan at a nested local placement resolves to (10, 5, 0).
const s3Scenario = `ISO-10303-21;
DATA;
#10 = IFCCARTESIANPOINT((10.0,0.0,0.0));
#11 = IFCAXIS2PLACEMENT3D(#10,$,$);
#12 = IFCLOCALPLACEMENT($,#11);
#20 = IFCCARTESIANPOINT((0.0,5.0,0.0));
#21 = IFCAXIS2PLACEMENT3D(#20,$,$);
#22 = IFCLOCALPLACEMENT(#12,#21);
#30 = IFCFLOWTERMINAL('fan','Fan',$,$,#22,$,$,.ELEMENT.,$);
ENDSEC;
`

func mustParse(t *testing.T, src string) *ParseResult {
	t.Helper()
	res, err := Parse(strings.NewReader(src), 0)
	require.NoError(t, err)
	return res
}

func TestResolver_PlacementComposition(t *testing.T) {
	res := mustParse(t, s3Scenario)
	resolver := NewResolver(res.Registry)

	pos, ok := resolver.ResolveProductPosition(30)
	require.True(t, ok)
	assert.InDelta(t, 10.0, pos.X, 1e-6)
	assert.InDelta(t, 5.0, pos.Y, 1e-6)
	assert.InDelta(t, 0.0, pos.Z, 1e-6)
}

func TestResolver_DetectsCyclicPlacement(t *testing.T) {
	src := `ISO-10303-21;
DATA;
#1 = IFCLOCALPLACEMENT(#2,#3);
#2 = IFCLOCALPLACEMENT(#1,#3);
#3 = IFCAXIS2PLACEMENT3D($,$,$);
ENDSEC;
`
	res := mustParse(t, src)
	resolver := NewResolver(res.Registry)

	// The cyclic reference must not cause infinite recursion; the resolver
	// breaks the cycle at the repeated entry and still returns a result.
	done := make(chan struct{})
	go func() {
		resolver.ResolvePlacement(1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ResolvePlacement did not terminate on a cyclic chain")
	}
}

func TestResolver_MissingPlacementReturnsFalse(t *testing.T) {
	res := mustParse(t, "ISO-10303-21;\nDATA;\nENDSEC;\n")
	resolver := NewResolver(res.Registry)
	_, ok := resolver.ResolveProductPosition(99)
	assert.False(t, ok)
}
