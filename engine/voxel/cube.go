package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// CubeFragment is the geometry of a single cube cell, holding only the
// enabled faces. Indices refer to the fragment's own vertex arrays.
type CubeFragment struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// BuildCube emits the enabled faces in template order (top, bottom, right,
// left, back, front). An empty set yields an empty fragment.
func BuildCube(enabled FaceSet) *CubeFragment {
	if enabled&^AllFaces != 0 {
		panic(errors.Errorf("face set %06b names faces outside 0..%d", uint8(enabled), FaceCount-1))
	}
	faceCount := enabled.Len()
	fragment := &CubeFragment{
		Positions: make([]mgl32.Vec3, 0, faceCount*4),
		Normals:   make([]mgl32.Vec3, 0, faceCount*4),
		UVs:       make([]mgl32.Vec2, 0, faceCount*4),
		Indices:   make([]uint32, 0, faceCount*6),
	}
	for face := Top; face <= Front; face++ {
		if !enabled.Has(face) {
			continue
		}
		side := &faceTemplates[face]
		base := uint32(len(fragment.Positions))
		for i := 0; i < 4; i++ {
			fragment.Positions = append(fragment.Positions, side.positions[i])
			fragment.Normals = append(fragment.Normals, side.normal)
			fragment.UVs = append(fragment.UVs, faceUVs[i])
		}
		for _, index := range side.indices {
			fragment.Indices = append(fragment.Indices, index+base)
		}
	}
	return fragment
}

// BuildCubeFaces is BuildCube for an explicit face list. It panics on an
// invalid face.
func BuildCubeFaces(faces ...FaceType) *CubeFragment {
	return BuildCube(NewFaceSet(faces...))
}

func (c *CubeFragment) VertexCount() int {
	if c == nil {
		return 0
	}
	return len(c.Positions)
}

func (c *CubeFragment) TriangleCount() int {
	if c == nil {
		return 0
	}
	return len(c.Indices) / 3
}

func (c *CubeFragment) IsEmpty() bool {
	return c.VertexCount() == 0
}

// Validate checks that the fragment is made of whole quads and that every
// index stays inside the fragment.
func (c *CubeFragment) Validate() error {
	if c == nil {
		return nil
	}
	vertexCount := len(c.Positions)
	if len(c.Normals) != vertexCount || len(c.UVs) != vertexCount {
		return errors.Errorf("attribute length mismatch: %d positions, %d normals, %d uvs", vertexCount, len(c.Normals), len(c.UVs))
	}
	if vertexCount%4 != 0 {
		return errors.Errorf("%d vertices do not form whole faces", vertexCount)
	}
	if len(c.Indices)%6 != 0 {
		return errors.Errorf("%d indices do not form whole faces", len(c.Indices))
	}
	for i, index := range c.Indices {
		if int(index) >= vertexCount {
			return errors.Errorf("index %d at position %d out of range (%d vertices)", index, i, vertexCount)
		}
	}
	return nil
}
