package ifc

import (
	"math"

	"github.com/arx-os/arxos/internal/spatial"
)

// ResolveProductBoundingBox walks
// IfcProductDefinitionShape -> IfcShapeRepresentation -> IfcExtrudedAreaSolid
// to compute an entity's bounding box, per 4.C. Only IfcRectangleProfileDef
// and IfcArbitraryClosedProfileDef (via IfcPolyline) profiles are
// supported, matching the non-goal that excludes a full geometry engine.
// Missing or unsupported geometry returns (nil, false); callers fall back
// to a degenerate box at the entity's position per the spatial-extraction
// error policy in 7.
func (r *Resolver) ResolveProductBoundingBox(entityID uint64) (*spatial.BoundingBox, bool) {
	paramStr, ok := r.reg.Params(entityID)
	if !ok {
		return nil, false
	}
	vals := ParseParams(paramStr)
	// Representation is product param 5, right after ObjectPlacement (4).
	repRef, ok := refAt(vals, 5)
	if !ok {
		return nil, false
	}

	solidID, ok := r.findExtrudedSolid(repRef, make(map[uint64]bool))
	if !ok {
		return nil, false
	}

	polygon, profilePlacement, ok := r.resolveProfile(solidID)
	if !ok || len(polygon) == 0 {
		return nil, false
	}

	direction, depth, ok := r.extrusionParams(solidID)
	if !ok {
		return nil, false
	}

	var box spatial.BoundingBox
	first := true
	for _, pt2d := range polygon {
		for _, height := range []float64{0, depth} {
			local := spatial.Point3D{
				X: pt2d.X + direction.X*height,
				Y: pt2d.Y + direction.Y*height,
				Z: pt2d.Z + direction.Z*height,
			}
			global := translate(profilePlacement, local)
			if first {
				box = spatial.BoundingBox{Min: global, Max: global}
				first = false
			} else {
				box = box.Union(spatial.BoundingBox{Min: global, Max: global})
			}
		}
	}
	if first {
		return nil, false
	}

	// Apply the entity's own placement transform last.
	if placementRef, ok := refAt(vals, 4); ok {
		if m, ok := r.ResolvePlacement(placementRef); ok {
			box = spatial.BoundingBox{Min: translate(m, box.Min), Max: translate(m, box.Max)}
			box = normalizeBox(box)
		}
	}
	return &box, true
}

func normalizeBox(b spatial.BoundingBox) spatial.BoundingBox {
	return spatial.BoundingBox{
		Min: spatial.Point3D{X: math.Min(b.Min.X, b.Max.X), Y: math.Min(b.Min.Y, b.Max.Y), Z: math.Min(b.Min.Z, b.Max.Z)},
		Max: spatial.Point3D{X: math.Max(b.Min.X, b.Max.X), Y: math.Max(b.Min.Y, b.Max.Y), Z: math.Max(b.Min.Z, b.Max.Z)},
	}
}

// findExtrudedSolid walks IfcProductDefinitionShape -> IfcShapeRepresentation
// to find the first IfcExtrudedAreaSolid referenced.
func (r *Resolver) findExtrudedSolid(id uint64, visited map[uint64]bool) (uint64, bool) {
	if visited[id] {
		return 0, false
	}
	visited[id] = true

	typ, ok := r.reg.Type(id)
	if !ok {
		return 0, false
	}
	paramStr, _ := r.reg.Params(id)
	vals := ParseParams(paramStr)

	switch typ {
	case "IFCEXTRUDEDAREASOLID":
		return id, true
	case "IFCPRODUCTDEFINITIONSHAPE":
		if len(vals) < 3 || vals[2].Kind != KindList {
			return 0, false
		}
		for _, rep := range vals[2].List {
			if rep.Kind == KindRef {
				if found, ok := r.findExtrudedSolid(rep.Ref, visited); ok {
					return found, true
				}
			}
		}
	case "IFCSHAPEREPRESENTATION":
		if len(vals) < 4 || vals[3].Kind != KindList {
			return 0, false
		}
		for _, item := range vals[3].List {
			if item.Kind == KindRef {
				if found, ok := r.findExtrudedSolid(item.Ref, visited); ok {
					return found, true
				}
			}
		}
	}
	return 0, false
}

// resolveProfile returns the 2D profile's vertices (lifted into 3D, Z=0 in
// profile-local space) and the profile's own placement transform.
func (r *Resolver) resolveProfile(solidID uint64) ([]spatial.Point3D, matrix4, bool) {
	paramStr, _ := r.reg.Params(solidID)
	vals := ParseParams(paramStr)
	if len(vals) < 1 || vals[0].Kind != KindRef {
		return nil, identity4(), false
	}
	profileID := vals[0].Ref

	placement := identity4()
	if len(vals) > 1 && vals[1].Kind == KindRef {
		if m, ok := r.resolveAxis2Placement3D(vals[1].Ref); ok {
			placement = m
		}
	}

	profileType, ok := r.reg.Type(profileID)
	if !ok {
		return nil, placement, false
	}
	profileParamStr, _ := r.reg.Params(profileID)
	profileVals := ParseParams(profileParamStr)

	switch profileType {
	case "IFCRECTANGLEPROFILEDEF":
		if len(profileVals) < 4 {
			return nil, placement, false
		}
		xdim, _ := profileVals[2].AsFloat()
		ydim, _ := profileVals[3].AsFloat()
		hx, hy := xdim/2, ydim/2
		return []spatial.Point3D{
			{X: -hx, Y: -hy}, {X: hx, Y: -hy}, {X: hx, Y: hy}, {X: -hx, Y: hy},
		}, placement, true
	case "IFCARBITRARYCLOSEDPROFILEDEF":
		if len(profileVals) < 2 || profileVals[1].Kind != KindRef {
			return nil, placement, false
		}
		points, ok := r.resolvePolyline(profileVals[1].Ref)
		return points, placement, ok
	default:
		return nil, placement, false
	}
}

func (r *Resolver) resolvePolyline(id uint64) ([]spatial.Point3D, bool) {
	typ, ok := r.reg.Type(id)
	if !ok || typ != "IFCPOLYLINE" {
		return nil, false
	}
	paramStr, _ := r.reg.Params(id)
	vals := ParseParams(paramStr)
	if len(vals) < 1 || vals[0].Kind != KindList {
		return nil, false
	}
	points := make([]spatial.Point3D, 0, len(vals[0].List))
	for _, item := range vals[0].List {
		if item.Kind != KindRef {
			continue
		}
		if p, ok := r.resolveCartesianPoint(item.Ref); ok {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, false
	}
	return points, true
}

// extrusionParams returns the extrusion direction and depth of an
// IfcExtrudedAreaSolid: (ExtrudedDirection, Depth).
func (r *Resolver) extrusionParams(solidID uint64) (spatial.Point3D, float64, bool) {
	paramStr, _ := r.reg.Params(solidID)
	vals := ParseParams(paramStr)
	if len(vals) < 4 {
		return spatial.Point3D{}, 0, false
	}
	direction := spatial.Point3D{Z: 1}
	if vals[2].Kind == KindRef {
		if d, ok := r.resolveDirection(vals[2].Ref); ok {
			direction = d
		}
	}
	depth, ok := vals[3].AsFloat()
	if !ok {
		return direction, 0, false
	}
	return direction, depth, true
}
