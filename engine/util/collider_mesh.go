package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MeshCollider is a static triangle-mesh collision shape built from an
// indexed triangle list.
type MeshCollider struct {
	Positions     []mgl32.Vec3
	Indices       []uint32
	TransformFunc func() mgl32.Mat4
	name          string
}

type RayHit struct {
	Point    mgl32.Vec3
	Distance float32
	Triangle int
}

// NewMeshCollider copies the triangle list so later edits to the source mesh
// do not change the shape.
func NewMeshCollider(positions []mgl32.Vec3, indices []uint32) (*MeshCollider, error) {
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("%d indices do not form whole triangles", len(indices))
	}
	for i, index := range indices {
		if int(index) >= len(positions) {
			return nil, errors.Errorf("index %d at position %d out of range (%d vertices)", index, i, len(positions))
		}
	}
	return &MeshCollider{
		Positions:     append([]mgl32.Vec3(nil), positions...),
		Indices:       append([]uint32(nil), indices...),
		TransformFunc: mgl32.Ident4,
	}, nil
}

func (m *MeshCollider) SetName(name string) {
	m.name = name
}

func (m *MeshCollider) GetName() string {
	return m.name
}

func (m *MeshCollider) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *MeshCollider) IterateTrianglesTransformed(callback func(index int, triangle [3]mgl32.Vec3)) {
	transformMatrix := m.TransformFunc()
	transformVertex := func(v mgl32.Vec3) mgl32.Vec3 {
		return transformMatrix.Mul4x1(v.Vec4(1)).Vec3()
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := transformVertex(m.Positions[m.Indices[i]])
		b := transformVertex(m.Positions[m.Indices[i+1]])
		c := transformVertex(m.Positions[m.Indices[i+2]])
		callback(i/3, [3]mgl32.Vec3{a, b, c})
	}
}

// IntersectsRay reports the hit closest to rayStart along the segment
// rayStart..rayEnd.
func (m *MeshCollider) IntersectsRay(rayStart, rayEnd mgl32.Vec3) (bool, RayHit) {
	minDist := float32(math.MaxFloat32)
	doesIntersect := false
	nearest := RayHit{}
	m.IterateTrianglesTransformed(func(index int, triangle [3]mgl32.Vec3) {
		intersection, atPoint := intersectLineSegmentTriangle(rayStart, rayEnd, triangle[0], triangle[1], triangle[2])
		if !intersection {
			return
		}
		dist := atPoint.Sub(rayStart).Len()
		if dist < minDist {
			doesIntersect = true
			minDist = dist
			nearest = RayHit{Point: atPoint, Distance: dist, Triangle: index}
		}
	})
	return doesIntersect, nearest
}

// CastRay casts from origin along direction for at most maxDistance.
func (m *MeshCollider) CastRay(origin, direction mgl32.Vec3, maxDistance float32) (bool, RayHit) {
	if direction.Len() == 0 || maxDistance <= 0 {
		return false, RayHit{}
	}
	return m.IntersectsRay(origin, origin.Add(direction.Normalize().Mul(maxDistance)))
}

// Bounds returns the transformed axis aligned box of the shape.
func (m *MeshCollider) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	inf := float32(math.Inf(1))
	minPos := mgl32.Vec3{inf, inf, inf}
	maxPos := mgl32.Vec3{-inf, -inf, -inf}
	empty := true
	m.IterateTrianglesTransformed(func(_ int, triangle [3]mgl32.Vec3) {
		empty = false
		for _, v := range triangle {
			for axis := 0; axis < 3; axis++ {
				minPos[axis] = min(minPos[axis], v[axis])
				maxPos[axis] = max(maxPos[axis], v[axis])
			}
		}
	})
	if empty {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	return minPos, maxPos
}

func (m *MeshCollider) ToString() string {
	return fmt.Sprintf("MeshCollider{Name = %s, Triangles = %d}", m.name, m.TriangleCount())
}

// bench: no allocs, 65ns/op
func intersectLineSegmentTriangle(rayStart, rayEnd mgl32.Vec3, v0, v1, v2 mgl32.Vec3) (bool, mgl32.Vec3) {
	const EPSILON = 0.000001

	direction := rayEnd.Sub(rayStart)
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -EPSILON && a < EPSILON {
		return false, mgl32.Vec3{} // parallel
	}

	f := 1.0 / a
	s := rayStart.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false, mgl32.Vec3{}
	}

	q := s.Cross(edge1)
	v := f * direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false, mgl32.Vec3{}
	}

	t := f * edge2.Dot(q)
	if t > EPSILON && t <= 1.0 {
		return true, rayStart.Add(direction.Mul(t))
	}
	return false, mgl32.Vec3{}
}
