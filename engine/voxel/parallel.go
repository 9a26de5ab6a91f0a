package voxel

import (
	"github.com/alitto/pond/v2"
	"github.com/memmaker/cubemesh/engine/util"
)

// AssembleParallel builds every x-slab into its own MeshBuffer on a worker
// pool and merges the slabs in x order afterwards. The result is identical to
// Assemble.
func AssembleParallel(grid CubeGrid, workers int) (*ChunkMesh, error) {
	if workers <= 1 || len(grid) <= 1 {
		return Assemble(grid)
	}

	pool := pond.NewResultPool[*MeshBuffer](workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for x := range grid {
		slab := x
		group.SubmitErr(func() (*MeshBuffer, error) {
			buffer := NewMeshBuffer()
			if err := appendSlabs(buffer, grid, slab, slab+1); err != nil {
				return nil, err
			}
			return buffer, nil
		})
	}
	slabs, err := group.Wait()
	if err != nil {
		return nil, err
	}

	// index offsets depend on everything before a slab, so the merge stays
	// sequential
	merged := NewMeshBuffer()
	for _, slab := range slabs {
		merged.MergeBuffer(slab)
	}
	mesh := merged.ChunkMesh()
	util.LogMeshDebug("assembled %d vertices, %d triangles from %d slabs on %d workers", mesh.VertexCount(), mesh.TriangleCount(), len(slabs), workers)
	return mesh, nil
}
