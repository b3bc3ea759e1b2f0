package ifc

import (
	"math"

	"github.com/arx-os/arxos/internal/spatial"
)

// matrix4 is a column-major 4x4 homogeneous transform: indices 0-2, 4-6 and
// 8-10 hold the 3x3 rotation/scale basis columns, 12-14 the translation.
type matrix4 [16]float64

func identity4() matrix4 {
	return matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// multiply composes a then b (b applied after a), i.e. result = b ∘ a.
func multiply(a, b matrix4) matrix4 {
	var r matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 3; row++ {
			r[col*4+row] = b[0*4+row]*a[col*4+0] + b[1*4+row]*a[col*4+1] + b[2*4+row]*a[col*4+2]
			if col == 3 {
				r[col*4+row] += b[3*4+row]
			}
		}
	}
	r[3], r[7], r[11], r[15] = 0, 0, 0, 1
	return r
}

func translate(m matrix4, p spatial.Point3D) spatial.Point3D {
	return spatial.Point3D{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

func cross(a, b spatial.Point3D) spatial.Point3D {
	return spatial.Point3D{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func sub(a, b spatial.Point3D) spatial.Point3D {
	return spatial.Point3D{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scaleVec(a spatial.Point3D, s float64) spatial.Point3D {
	return spatial.Point3D{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

func dot(a, b spatial.Point3D) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func normalize(a spatial.Point3D) spatial.Point3D {
	n := math.Sqrt(dot(a, a))
	if n == 0 {
		return spatial.Point3D{}
	}
	return scaleVec(a, 1/n)
}

// rotationMatrix builds the rotation+translation matrix from an axis2
// placement's location, Z axis, and X reference direction, via
// Gram-Schmidt: X' = normalize(X - (Z·X)Z), Y' = Z x X'.
func rotationMatrix(location, zAxis, xRef spatial.Point3D) matrix4 {
	z := normalize(zAxis)
	xProj := sub(xRef, scaleVec(z, dot(z, xRef)))
	x := normalize(xProj)
	y := cross(z, x)

	return matrix4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		location.X, location.Y, location.Z, 1,
	}
}

// Resolver follows IFC reference chains to compute placement transforms
// and bounding boxes, per 4.C. Placement transforms are memoized by
// placement-entity id; the memo is filled single-threaded during one parse
// and is immutable once filled.
type Resolver struct {
	reg          *Registry
	placementMemo map[uint64]matrix4
}

// NewResolver returns a resolver over reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg, placementMemo: make(map[uint64]matrix4)}
}

// ResolvePlacement composes the transform chain for an IFCLOCALPLACEMENT
// entity, following PlacementRelTo recursively. Cyclic chains (observed
// from buggy exporters) are detected via a visited set on the current
// chain and resolved to identity at the cyclic entry rather than recursing.
func (r *Resolver) ResolvePlacement(placementID uint64) (matrix4, bool) {
	return r.resolvePlacement(placementID, make(map[uint64]bool))
}

func (r *Resolver) resolvePlacement(placementID uint64, visiting map[uint64]bool) (matrix4, bool) {
	if m, ok := r.placementMemo[placementID]; ok {
		return m, true
	}
	if visiting[placementID] {
		return identity4(), false
	}
	visiting[placementID] = true

	typ, ok := r.reg.Type(placementID)
	if !ok || typ != "IFCLOCALPLACEMENT" {
		return identity4(), false
	}
	paramStr, _ := r.reg.Params(placementID)
	vals := ParseParams(paramStr)
	if len(vals) < 2 {
		return identity4(), false
	}

	parentMatrix := identity4()
	if vals[0].Kind == KindRef {
		if m, ok := r.resolvePlacement(vals[0].Ref, visiting); ok {
			parentMatrix = m
		}
	}

	relative := identity4()
	if vals[1].Kind == KindRef {
		if m, ok := r.resolveAxis2Placement3D(vals[1].Ref); ok {
			relative = m
		}
	}

	// Apply the relative placement in the object's own frame first, then
	// carry the result through the parent's transform into world space.
	result := multiply(relative, parentMatrix)
	r.placementMemo[placementID] = result
	return result, true
}

func (r *Resolver) resolveAxis2Placement3D(id uint64) (matrix4, bool) {
	typ, ok := r.reg.Type(id)
	if !ok || typ != "IFCAXIS2PLACEMENT3D" {
		return identity4(), false
	}
	paramStr, _ := r.reg.Params(id)
	vals := ParseParams(paramStr)
	if len(vals) < 1 {
		return identity4(), false
	}

	location := spatial.Point3D{}
	if vals[0].Kind == KindRef {
		if p, ok := r.resolveCartesianPoint(vals[0].Ref); ok {
			location = p
		}
	}
	zAxis := spatial.Point3D{Z: 1}
	if len(vals) > 1 && vals[1].Kind == KindRef {
		if d, ok := r.resolveDirection(vals[1].Ref); ok {
			zAxis = d
		}
	}
	xRef := spatial.Point3D{X: 1}
	if len(vals) > 2 && vals[2].Kind == KindRef {
		if d, ok := r.resolveDirection(vals[2].Ref); ok {
			xRef = d
		}
	}
	return rotationMatrix(location, zAxis, xRef), true
}

func (r *Resolver) resolveCartesianPoint(id uint64) (spatial.Point3D, bool) {
	typ, ok := r.reg.Type(id)
	if !ok || typ != "IFCCARTESIANPOINT" {
		return spatial.Point3D{}, false
	}
	paramStr, _ := r.reg.Params(id)
	vals := ParseParams(paramStr)
	if len(vals) < 1 || vals[0].Kind != KindList {
		return spatial.Point3D{}, false
	}
	return coordsToPoint(vals[0].List), true
}

func (r *Resolver) resolveDirection(id uint64) (spatial.Point3D, bool) {
	typ, ok := r.reg.Type(id)
	if !ok || typ != "IFCDIRECTION" {
		return spatial.Point3D{}, false
	}
	paramStr, _ := r.reg.Params(id)
	vals := ParseParams(paramStr)
	if len(vals) < 1 || vals[0].Kind != KindList {
		return spatial.Point3D{}, false
	}
	return coordsToPoint(vals[0].List), true
}

func coordsToPoint(coords []Value) spatial.Point3D {
	var p spatial.Point3D
	if len(coords) > 0 {
		p.X, _ = coords[0].AsFloat()
	}
	if len(coords) > 1 {
		p.Y, _ = coords[1].AsFloat()
	}
	if len(coords) > 2 {
		p.Z, _ = coords[2].AsFloat()
	}
	return p
}

// ResolveProductPosition finds a product entity's ObjectPlacement (index 4
// of its parameter list, the common position across IFC product entities)
// and returns its resolved global position. Entities with no resolvable
// placement return the origin and ok=false, per the spatial-extraction
// error policy in 7 (use (0,0,0), continue).
func (r *Resolver) ResolveProductPosition(entityID uint64) (spatial.Point3D, bool) {
	paramStr, ok := r.reg.Params(entityID)
	if !ok {
		return spatial.Point3D{}, false
	}
	vals := ParseParams(paramStr)
	placementRef, ok := refAt(vals, 4)
	if !ok {
		return spatial.Point3D{}, false
	}
	m, ok := r.ResolvePlacement(placementRef)
	if !ok {
		return spatial.Point3D{}, false
	}
	return translate(m, spatial.Point3D{}), true
}
