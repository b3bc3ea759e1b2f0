package spatial

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTree_InsertAndQuery_AcrossSplits(t *testing.T) {
	tr := NewRTree()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("e%d", i)
		tr.Insert(id, BoundingBox{
			Min: Point3D{float64(i), float64(i), 0},
			Max: Point3D{float64(i) + 0.5, float64(i) + 0.5, 1},
		})
	}
	assert.Equal(t, 50, tr.Len())

	got := tr.Query(BoundingBox{Min: Point3D{10, 10, -1}, Max: Point3D{12, 12, 2}})
	assert.Contains(t, got, "e10")
	assert.Contains(t, got, "e11")
	assert.NotContains(t, got, "e40")
}

func TestRTree_EmptyQuery(t *testing.T) {
	tr := NewRTree()
	got := tr.Query(BoundingBox{Min: Point3D{0, 0, 0}, Max: Point3D{1, 1, 1}})
	assert.Empty(t, got)
}
