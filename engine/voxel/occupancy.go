package voxel

// Occupancy answers whether a cell is solid. Coordinates outside Size() are
// never solid, which makes the grid boundary an exposed surface.
type Occupancy interface {
	Size() Int3
	IsSolid(x, y, z int32) bool
}

func contains(size Int3, x, y, z int32) bool {
	return x >= 0 && x < size.X && y >= 0 && y < size.Y && z >= 0 && z < size.Z
}

// EnabledFaces returns the faces of cell (x,y,z) that border a non-solid
// neighbour or the edge of the volume. Empty cells have no faces.
func EnabledFaces(o Occupancy, x, y, z int32) FaceSet {
	if !o.IsSolid(x, y, z) {
		return 0
	}
	var enabled FaceSet
	for face := Top; face <= Front; face++ {
		n := Int3{x, y, z}.Add(face.Direction())
		if !o.IsSolid(n.X, n.Y, n.Z) {
			enabled = enabled.With(face)
		}
	}
	return enabled
}

// FacePolicy decides the enabled faces of one cell.
type FacePolicy func(o Occupancy, x, y, z int32) FaceSet

// LegacyShellFaces reproduces the first demo world's hand-written rule for a
// completely solid box: the top only on the highest layer, the four walls on
// the outer columns and never the bottom.
func LegacyShellFaces(o Occupancy, x, y, z int32) FaceSet {
	if !o.IsSolid(x, y, z) {
		return 0
	}
	size := o.Size()
	var enabled FaceSet
	if y == size.Y-1 {
		enabled = enabled.With(Top)
	}
	if x == size.X-1 {
		enabled = enabled.With(Right)
	} else if x == 0 {
		enabled = enabled.With(Left)
	}
	if z == size.Z-1 {
		enabled = enabled.With(Back)
	} else if z == 0 {
		enabled = enabled.With(Front)
	}
	return enabled
}

// FixedFaces gives every solid cell the same faces.
func FixedFaces(enabled FaceSet) FacePolicy {
	return func(o Occupancy, x, y, z int32) FaceSet {
		if !o.IsSolid(x, y, z) {
			return 0
		}
		return enabled
	}
}

// BuildCubeGrid runs the face policy and the cube builder for every cell of
// the volume. A nil policy means EnabledFaces.
func BuildCubeGrid(o Occupancy, policy FacePolicy) CubeGrid {
	if policy == nil {
		policy = EnabledFaces
	}
	grid := NewCubeGrid(o.Size())
	for x := range grid {
		for y := range grid[x] {
			for z := range grid[x][y] {
				grid[x][y][z] = BuildCube(policy(o, int32(x), int32(y), int32(z)))
			}
		}
	}
	return grid
}

// BuildChunkMesh is the whole pipeline from occupancy to merged mesh.
func BuildChunkMesh(o Occupancy, policy FacePolicy) (*ChunkMesh, error) {
	return Assemble(BuildCubeGrid(o, policy))
}

// SparseOccupancy stores only the solid cells inside fixed bounds.
type SparseOccupancy struct {
	size  Int3
	solid map[Int3]struct{}
}

func NewSparseOccupancy(size Int3) *SparseOccupancy {
	return &SparseOccupancy{size: size, solid: make(map[Int3]struct{})}
}

func (s *SparseOccupancy) Size() Int3 {
	return s.size
}

// Set ignores cells outside the bounds.
func (s *SparseOccupancy) Set(x, y, z int32, solid bool) {
	if !contains(s.size, x, y, z) {
		return
	}
	if solid {
		s.solid[Int3{x, y, z}] = struct{}{}
	} else {
		delete(s.solid, Int3{x, y, z})
	}
}

func (s *SparseOccupancy) IsSolid(x, y, z int32) bool {
	_, ok := s.solid[Int3{x, y, z}]
	return ok
}

func (s *SparseOccupancy) SolidCount() int {
	return len(s.solid)
}
