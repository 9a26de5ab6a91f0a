package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CellHit struct {
	Hit bool
	// Distance from the ray start to the entry point.
	Distance float64
	Point    mgl32.Vec3
	Cell     Int3
	Previous Int3
	// Face is the side of Cell the ray entered through. It is invalid when
	// the ray starts inside a solid cell.
	Face FaceType
}

// RaycastCells walks the cells along rayStart..rayEnd and stops at the first
// solid one. Cell (x,y,z) spans x-0.5..x+0.5 on each axis, like the cubes of
// the chunk mesh.
func RaycastCells(o Occupancy, rayStart, rayEnd mgl32.Vec3) CellHit {
	// adapted from: https://github.com/fenomas/fast-voxel-raycast/blob/master/index.js
	gridStart := rayStart.Add(mgl32.Vec3{0.5, 0.5, 0.5})
	ix := int32(math.Floor(float64(gridStart.X())))
	iy := int32(math.Floor(float64(gridStart.Y())))
	iz := int32(math.Floor(float64(gridStart.Z())))

	ray := rayEnd.Sub(rayStart)
	maxRayLength := float64(ray.Len())
	if maxRayLength == 0 {
		if o.IsSolid(ix, iy, iz) {
			return CellHit{Hit: true, Point: rayStart, Cell: Int3{ix, iy, iz}, Previous: Int3{ix, iy, iz}, Face: -1}
		}
		return CellHit{}
	}
	rayDir := ray.Normalize()

	stepx := int32(-1)
	if rayDir.X() > 0 {
		stepx = 1
	}
	stepy := int32(-1)
	if rayDir.Y() > 0 {
		stepy = 1
	}
	stepz := int32(-1)
	if rayDir.Z() > 0 {
		stepz = 1
	}

	txDelta := math.Abs(1.0 / float64(rayDir.X()))
	tyDelta := math.Abs(1.0 / float64(rayDir.Y()))
	tzDelta := math.Abs(1.0 / float64(rayDir.Z()))

	xdist := float64(gridStart.X()) - float64(ix)
	if stepx > 0 {
		xdist = float64(ix+1) - float64(gridStart.X())
	}
	ydist := float64(gridStart.Y()) - float64(iy)
	if stepy > 0 {
		ydist = float64(iy+1) - float64(gridStart.Y())
	}
	zdist := float64(gridStart.Z()) - float64(iz)
	if stepz > 0 {
		zdist = float64(iz+1) - float64(gridStart.Z())
	}

	txMax := math.Inf(1)
	if !math.IsInf(txDelta, 1) {
		txMax = txDelta * xdist
	}
	tyMax := math.Inf(1)
	if !math.IsInf(tyDelta, 1) {
		tyMax = tyDelta * ydist
	}
	tzMax := math.Inf(1)
	if !math.IsInf(tzDelta, 1) {
		tzMax = tzDelta * zdist
	}

	t := 0.0
	steppedIndex := -1
	for t <= maxRayLength {
		if o.IsSolid(ix, iy, iz) {
			cell := Int3{ix, iy, iz}
			hit := CellHit{
				Hit:      true,
				Distance: t,
				Point:    rayStart.Add(rayDir.Mul(float32(t))),
				Cell:     cell,
				Previous: cell,
				Face:     -1,
			}
			switch steppedIndex {
			case 0:
				if stepx > 0 {
					hit.Face = Left
				} else {
					hit.Face = Right
				}
			case 1:
				if stepy > 0 {
					hit.Face = Bottom
				} else {
					hit.Face = Top
				}
			case 2:
				if stepz > 0 {
					hit.Face = Front
				} else {
					hit.Face = Back
				}
			}
			if hit.Face.Valid() {
				hit.Previous = cell.Add(hit.Face.Direction())
			}
			return hit
		}

		if txMax < tyMax {
			if txMax < tzMax {
				ix += stepx
				t = txMax
				txMax += txDelta
				steppedIndex = 0
			} else {
				iz += stepz
				t = tzMax
				tzMax += tzDelta
				steppedIndex = 2
			}
		} else {
			if tyMax < tzMax {
				iy += stepy
				t = tyMax
				tyMax += tyDelta
				steppedIndex = 1
			} else {
				iz += stepz
				t = tzMax
				tzMax += tzDelta
				steppedIndex = 2
			}
		}
	}

	return CellHit{}
}
