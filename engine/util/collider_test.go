package util

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// two triangles covering the unit square at y=0.5, wound to face +Y
func topQuad() ([]mgl32.Vec3, []uint32) {
	positions := []mgl32.Vec3{{-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}
	return positions, []uint32{0, 3, 1, 1, 3, 2}
}

func TestCastRayHitsTopFace(t *testing.T) {
	collider, err := NewMeshCollider(topQuad())
	if err != nil {
		t.Fatal(err)
	}
	hit, info := collider.CastRay(mgl32.Vec3{0.1, 3, 0.2}, mgl32.Vec3{0, -1, 0}, 4)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !info.Point.ApproxEqualThreshold(mgl32.Vec3{0.1, 0.5, 0.2}, 1e-4) {
		t.Errorf("hit at %v", info.Point)
	}
	if !mgl32.FloatEqualThreshold(info.Distance, 2.5, 1e-4) {
		t.Errorf("distance %v, want 2.5", info.Distance)
	}
}

func TestCastRayOutOfReach(t *testing.T) {
	collider, err := NewMeshCollider(topQuad())
	if err != nil {
		t.Fatal(err)
	}
	if hit, _ := collider.CastRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, -1, 0}, 4); hit {
		t.Error("hit beyond max distance")
	}
	if hit, _ := collider.CastRay(mgl32.Vec3{2, 3, 0}, mgl32.Vec3{0, -1, 0}, 4); hit {
		t.Error("hit outside the quad")
	}
	if hit, _ := collider.CastRay(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{}, 4); hit {
		t.Error("zero direction hit")
	}
}

func TestIntersectsRayNearest(t *testing.T) {
	positions, indices := topQuad()
	for _, p := range positions[:4] {
		positions = append(positions, p.Sub(mgl32.Vec3{0, 2, 0}))
	}
	for _, index := range indices[:6] {
		indices = append(indices, index+4)
	}
	collider, err := NewMeshCollider(positions, indices)
	if err != nil {
		t.Fatal(err)
	}
	hit, info := collider.IntersectsRay(mgl32.Vec3{0.2, 5, 0.2}, mgl32.Vec3{0.2, -5, 0.2})
	if !hit || !mgl32.FloatEqualThreshold(info.Point.Y(), 0.5, 1e-4) {
		t.Fatalf("expected the upper quad, got %v %+v", hit, info)
	}
	if info.Triangle > 1 {
		t.Errorf("hit triangle %d belongs to the lower quad", info.Triangle)
	}
}

func TestColliderTransform(t *testing.T) {
	collider, err := NewMeshCollider(topQuad())
	if err != nil {
		t.Fatal(err)
	}
	collider.TransformFunc = func() mgl32.Mat4 {
		return mgl32.Translate3D(0, -16, 0)
	}
	minPos, maxPos := collider.Bounds()
	if !mgl32.FloatEqualThreshold(minPos.Y(), -15.5, 1e-4) || !mgl32.FloatEqualThreshold(maxPos.Y(), -15.5, 1e-4) {
		t.Errorf("bounds %v %v", minPos, maxPos)
	}
	hit, info := collider.CastRay(mgl32.Vec3{0.1, -13, 0.2}, mgl32.Vec3{0, -1, 0}, 4)
	if !hit || !mgl32.FloatEqualThreshold(info.Point.Y(), -15.5, 1e-4) {
		t.Errorf("expected hit at y=-15.5, got %v %+v", hit, info)
	}
}

func TestNewMeshColliderValidates(t *testing.T) {
	positions, _ := topQuad()
	if _, err := NewMeshCollider(positions, []uint32{0, 1}); err == nil {
		t.Error("partial triangle accepted")
	}
	if _, err := NewMeshCollider(positions, []uint32{0, 1, 4}); err == nil {
		t.Error("out of range index accepted")
	}
}

// execute with: go test -bench=. -test.benchmem -test.benchtime=10s
func BenchmarkTriangleSegmentIntersection(b *testing.B) {
	triangle := [3]mgl32.Vec3{
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
	}
	rayStart := mgl32.Vec3{0.25, 0.25, 1}
	rayEnd := mgl32.Vec3{0.25, 0.25, -1}
	for i := 0; i < b.N; i++ {
		_, _ = intersectLineSegmentTriangle(rayStart, rayEnd, triangle[0], triangle[1], triangle[2])
	}
}
