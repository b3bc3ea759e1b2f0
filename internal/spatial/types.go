// Package spatial implements the R-tree spatial index over entity bounding
// boxes plus the auxiliary hash indices, clustering, and nearest-neighbor
// queries described in 4.G.
package spatial

import "math"

// Point3D is a point in the "building_local" coordinate system.
type Point3D struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point3D) DistanceTo(o Point3D) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (p Point3D) Add(o Point3D) Point3D { return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point3D) Sub(o Point3D) Point3D { return Point3D{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

// BoundingBox is an axis-aligned bounding box.
type BoundingBox struct {
	Min Point3D
	Max Point3D
}

// Contains reports whether p lies within the box (inclusive).
func (b BoundingBox) Contains(p Point3D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap (full intersection, not
// merely containment, per the find_within_bbox contract in 4.G).
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point3D{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Point3D{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Volume returns the box's volume (0 for degenerate boxes).
func (b BoundingBox) Volume() float64 {
	dx := math.Max(0, b.Max.X-b.Min.X)
	dy := math.Max(0, b.Max.Y-b.Min.Y)
	dz := math.Max(0, b.Max.Z-b.Min.Z)
	return dx * dy * dz
}

// Center returns the box's centroid.
func (b BoundingBox) Center() Point3D {
	return Point3D{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// enlargement returns how much b's volume would grow to include o, used by
// the R-tree insertion heuristic (choose the child needing least growth).
func (b BoundingBox) enlargement(o BoundingBox) float64 {
	return b.Union(o).Volume() - b.Volume()
}

// Transform is a placement transform: rotation angle about Z plus scale and
// translation, as produced by the reference resolver's placement chain.
type Transform struct {
	Translation Point3D
	Rotation    float64 // radians about Z
	Scale       float64
}

// Apply applies scale, then rotation about Z, then translation.
func (t Transform) Apply(p Point3D) Point3D {
	x := p.X * t.Scale
	y := p.Y * t.Scale
	z := p.Z * t.Scale

	cos, sin := math.Cos(t.Rotation), math.Sin(t.Rotation)
	rx := x*cos - y*sin
	ry := x*sin + y*cos

	return Point3D{rx + t.Translation.X, ry + t.Translation.Y, z + t.Translation.Z}
}

// ConfidenceLevel records how directly an entity's spatial data was derived.
type ConfidenceLevel int

const (
	ConfidenceLow ConfidenceLevel = iota
	ConfidenceMedium
	ConfidenceHigh
)
