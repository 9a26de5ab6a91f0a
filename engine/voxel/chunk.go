package voxel

import (
	"math"
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/pkg/errors"
)

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// Volume is the cell count of a box with these extents. It saturates at
// math.MaxInt instead of wrapping.
func (i Int3) Volume() int {
	if i.X <= 0 || i.Y <= 0 || i.Z <= 0 {
		return 0
	}
	hi, area := bits.Mul64(uint64(i.X), uint64(i.Y))
	if hi != 0 {
		return math.MaxInt
	}
	hi, volume := bits.Mul64(area, uint64(i.Z))
	if hi != 0 || volume > math.MaxInt {
		return math.MaxInt
	}
	return int(volume)
}

// CubeGrid holds one fragment per cell, indexed [x][y][z]. The extents do not
// have to match and inner slices may be ragged. A nil cell counts as empty.
type CubeGrid [][][]*CubeFragment

func NewCubeGrid(size Int3) CubeGrid {
	grid := make(CubeGrid, max(size.X, 0))
	for x := range grid {
		grid[x] = make([][]*CubeFragment, max(size.Y, 0))
		for y := range grid[x] {
			grid[x][y] = make([]*CubeFragment, max(size.Z, 0))
			for z := range grid[x][y] {
				grid[x][y][z] = BuildCube(0)
			}
		}
	}
	return grid
}

// Size reports the extents of the first row on each axis.
func (g CubeGrid) Size() Int3 {
	size := Int3{X: int32(len(g))}
	if len(g) > 0 {
		size.Y = int32(len(g[0]))
		if len(g[0]) > 0 {
			size.Z = int32(len(g[0][0]))
		}
	}
	return size
}

// ChunkMesh is the merged triangle list of a whole grid in chunk space.
type ChunkMesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// Assemble walks the grid x, then y, then z and appends every cell's
// fragment shifted by the cell coordinate. A malformed fragment aborts the
// whole assembly.
func Assemble(grid CubeGrid) (*ChunkMesh, error) {
	buffer := NewMeshBuffer()
	if err := appendSlabs(buffer, grid, 0, len(grid)); err != nil {
		return nil, err
	}
	mesh := buffer.ChunkMesh()
	util.LogMeshDebug("assembled %d vertices, %d triangles from %v cells", mesh.VertexCount(), mesh.TriangleCount(), grid.Size())
	return mesh, nil
}

func appendSlabs(buffer *MeshBuffer, grid CubeGrid, fromX, toX int) error {
	for x := fromX; x < toX; x++ {
		for y := range grid[x] {
			for z, fragment := range grid[x][y] {
				if err := fragment.Validate(); err != nil {
					return errors.Wrapf(err, "cell (%d,%d,%d)", x, y, z)
				}
				buffer.AppendFragment(fragment, Int3{int32(x), int32(y), int32(z)})
			}
		}
	}
	return nil
}

func (c *ChunkMesh) VertexCount() int {
	return len(c.Positions)
}

func (c *ChunkMesh) TriangleCount() int {
	return len(c.Indices) / 3
}

// Validate checks the merged-buffer invariants: matching attribute lengths,
// whole triangles and every index inside the vertex arrays.
func (c *ChunkMesh) Validate() error {
	vertexCount := len(c.Positions)
	if len(c.Normals) != vertexCount || len(c.UVs) != vertexCount {
		return errors.Errorf("attribute length mismatch: %d positions, %d normals, %d uvs", vertexCount, len(c.Normals), len(c.UVs))
	}
	if len(c.Indices)%3 != 0 {
		return errors.Errorf("%d indices do not form whole triangles", len(c.Indices))
	}
	for i, index := range c.Indices {
		if int(index) >= vertexCount {
			return errors.Errorf("index %d at position %d out of range (%d vertices)", index, i, vertexCount)
		}
	}
	return nil
}

// Translate moves the whole mesh, e.g. to place a chunk in the world.
func (c *ChunkMesh) Translate(offset mgl32.Vec3) {
	for i := range c.Positions {
		c.Positions[i] = c.Positions[i].Add(offset)
	}
}

func (c *ChunkMesh) Triangle(i int) [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{
		c.Positions[c.Indices[i*3]],
		c.Positions[c.Indices[i*3+1]],
		c.Positions[c.Indices[i*3+2]],
	}
}

// Bounds returns the axis aligned box around all positions. An empty mesh
// has zero bounds.
func (c *ChunkMesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(c.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	inf := float32(math.Inf(1))
	minPos := mgl32.Vec3{inf, inf, inf}
	maxPos := mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range c.Positions {
		for axis := 0; axis < 3; axis++ {
			minPos[axis] = min(minPos[axis], p[axis])
			maxPos[axis] = max(maxPos[axis], p[axis])
		}
	}
	return minPos, maxPos
}
