package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MeshBuffer accumulates fragments into one shared index space. The running
// vertex count lives in the buffer, so separate buffers can be filled
// independently and merged afterwards.
type MeshBuffer struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	indices   []uint32
}

func NewMeshBuffer() *MeshBuffer {
	return &MeshBuffer{}
}

func (m *MeshBuffer) VertexCount() int {
	return len(m.positions)
}

func (m *MeshBuffer) TriangleCount() int {
	return len(m.indices) / 3
}

// AppendFragment adds the fragment with its positions moved by offset.
// Normals and UVs are copied unchanged.
func (m *MeshBuffer) AppendFragment(fragment *CubeFragment, offset Int3) {
	if fragment.IsEmpty() {
		return
	}
	base := m.reserve(len(fragment.Positions))
	shift := offset.ToVec3()
	for _, p := range fragment.Positions {
		m.positions = append(m.positions, p.Add(shift))
	}
	m.normals = append(m.normals, fragment.Normals...)
	m.uvs = append(m.uvs, fragment.UVs...)
	for _, index := range fragment.Indices {
		m.indices = append(m.indices, index+base)
	}
}

// MergeBuffer appends the contents of other, rebasing its indices onto the
// end of this buffer. other is left untouched.
func (m *MeshBuffer) MergeBuffer(other *MeshBuffer) {
	if other == nil || other.VertexCount() == 0 {
		return
	}
	base := m.reserve(other.VertexCount())
	m.positions = append(m.positions, other.positions...)
	m.normals = append(m.normals, other.normals...)
	m.uvs = append(m.uvs, other.uvs...)
	for _, index := range other.indices {
		m.indices = append(m.indices, index+base)
	}
}

func (m *MeshBuffer) reserve(vertexCount int) uint32 {
	base := len(m.positions)
	if uint64(base)+uint64(vertexCount) > math.MaxUint32 {
		panic(errors.Errorf("mesh buffer overflow: %d + %d vertices exceed uint32 indices", base, vertexCount))
	}
	return uint32(base)
}

func (m *MeshBuffer) Reset() {
	m.positions = nil
	m.normals = nil
	m.uvs = nil
	m.indices = nil
}

// ChunkMesh hands the accumulated arrays to a new mesh. The buffer is reset
// and keeps no reference to them.
func (m *MeshBuffer) ChunkMesh() *ChunkMesh {
	mesh := &ChunkMesh{
		Positions: m.positions,
		Normals:   m.normals,
		UVs:       m.uvs,
		Indices:   m.indices,
	}
	if mesh.Positions == nil {
		mesh.Positions = []mgl32.Vec3{}
		mesh.Normals = []mgl32.Vec3{}
		mesh.UVs = []mgl32.Vec2{}
		mesh.Indices = []uint32{}
	}
	m.Reset()
	return mesh
}
