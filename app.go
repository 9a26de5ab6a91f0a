package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/cubemesh/config"
	"github.com/memmaker/cubemesh/engine/export"
	"github.com/memmaker/cubemesh/engine/store"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/memmaker/cubemesh/engine/voxel"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// facePolicy also returns the name the mesh cache keys on; fixed face lists
// get their own entry per set.
func facePolicy(settings *config.Settings) (voxel.FacePolicy, string, error) {
	switch settings.Policy {
	case config.PolicyExposed:
		return voxel.EnabledFaces, settings.Policy, nil
	case config.PolicyLegacyShell:
		return voxel.LegacyShellFaces, settings.Policy, nil
	case config.PolicyFixed:
		enabled, err := voxel.ParseFaceSet(settings.Faces...)
		if err != nil {
			return nil, "", errors.Wrap(err, "fixed policy")
		}
		return voxel.FixedFaces(enabled), fmt.Sprintf("%s-%06b", settings.Policy, uint8(enabled)), nil
	}
	return nil, "", errors.Errorf("unknown policy %q", settings.Policy)
}

func loadOccupancy(settings *config.Settings) (*voxel.Map, error) {
	if settings.SchematicPath != "" {
		return voxel.LoadSchematicFile(settings.SchematicPath)
	}
	if settings.MapPath != "" {
		return voxel.LoadMapFromDisk(settings.MapPath)
	}
	size := voxel.Int3{X: settings.GridSize[0], Y: settings.GridSize[1], Z: settings.GridSize[2]}
	if err := voxel.CheckMapSize(size); err != nil {
		return nil, err
	}
	return voxel.NewSolidMap(size), nil
}

type chunkReport struct {
	Mesh    *voxel.ChunkMesh
	MeshHit bool
	Hit     util.RayHit
	Cell    voxel.CellHit
}

// runMesher opens the cache when configured and runs the whole pipeline.
func runMesher(settings *config.Settings) error {
	level, err := util.ParseLogLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	util.GLOBAL_LOG_LEVEL = level

	if settings.OutputPath == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write binary glb to a terminal")
	}

	var meshStore *store.MeshStore
	if settings.CachePath != "" {
		meshStore, err = store.OpenMeshStore(settings.CachePath)
		if err != nil {
			return err
		}
		defer meshStore.Close()
	}
	_, err = generateChunk(settings, meshStore)
	return err
}

// generateChunk loads or generates the volume, builds the chunk mesh (through
// meshStore unless it is nil), places it in the world, writes it as glb and
// casts the configured ray against it.
func generateChunk(settings *config.Settings, meshStore *store.MeshStore) (*chunkReport, error) {
	policy, policyKey, err := facePolicy(settings)
	if err != nil {
		return nil, err
	}
	occupancy, err := loadOccupancy(settings)
	if err != nil {
		return nil, err
	}
	if settings.SaveMapPath != "" {
		if err = occupancy.SaveToDisk(settings.SaveMapPath); err != nil {
			return nil, err
		}
	}
	build := func() (*voxel.ChunkMesh, error) {
		return voxel.AssembleParallel(voxel.BuildCubeGrid(occupancy, policy), settings.Workers)
	}

	var mesh *voxel.ChunkMesh
	if meshStore != nil {
		mesh, err = meshStore.GetOrBuild(store.OccupancyKey(occupancy, policyKey), build)
	} else {
		mesh, err = build()
	}
	if err != nil {
		return nil, err
	}
	util.LogMeshInfo("chunk mesh: %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())

	mesh.Translate(mgl32.Vec3(settings.ChunkOffset))
	if settings.OutputPath == "-" {
		err = export.WriteChunkMeshGLB(os.Stdout, mesh, "chunk")
	} else {
		err = export.SaveChunkMeshGLB(settings.OutputPath, mesh, "chunk")
	}
	if err != nil {
		return nil, err
	}

	report := &chunkReport{Mesh: mesh}
	if err = castChunkRay(report, occupancy, settings); err != nil {
		return nil, err
	}
	return report, nil
}

// castChunkRay casts the configured ray against the placed mesh and, in chunk
// space, against the occupancy grid.
func castChunkRay(report *chunkReport, occupancy voxel.Occupancy, settings *config.Settings) error {
	if settings.RayMaxDistance == 0 {
		return nil
	}
	collider, err := util.NewMeshCollider(report.Mesh.Positions, report.Mesh.Indices)
	if err != nil {
		return errors.Wrap(err, "build chunk collider")
	}
	collider.SetName("chunk")
	origin := mgl32.Vec3(settings.RayOrigin)
	direction := mgl32.Vec3(settings.RayDirection)
	report.MeshHit, report.Hit = collider.CastRay(origin, direction, settings.RayMaxDistance)
	if report.MeshHit {
		util.LogSystemInfo("ray from %v hits %s triangle %d at %v (distance %.3f)", origin, collider.GetName(), report.Hit.Triangle, report.Hit.Point, report.Hit.Distance)
	} else {
		util.LogSystemInfo("ray from %v misses %s within %.1f", origin, collider.ToString(), settings.RayMaxDistance)
	}

	if direction.Len() == 0 {
		return nil
	}
	offset := mgl32.Vec3(settings.ChunkOffset)
	start := origin.Sub(offset)
	end := start.Add(direction.Normalize().Mul(settings.RayMaxDistance))
	report.Cell = voxel.RaycastCells(occupancy, start, end)
	if report.Cell.Hit {
		report.Cell.Point = report.Cell.Point.Add(offset)
		util.LogSystemInfo("ray enters cell %v through its %v face at %v", report.Cell.Cell, report.Cell.Face, report.Cell.Point)
	}
	return nil
}
