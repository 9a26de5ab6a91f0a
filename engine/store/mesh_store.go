package store

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/memmaker/cubemesh/engine/voxel"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

const meshFormatVersion uint32 = 1

const (
	// position, normal and uv
	vertexSize = 3*4 + 3*4 + 2*4
	indexSize  = 4
	// 1 GiB of decompressed arrays per entry
	maxMeshPayload = 1 << 30
)

// MeshStore caches assembled chunk meshes in LevelDB.
type MeshStore struct {
	db *leveldb.DB
}

func OpenMeshStore(path string) (*MeshStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open mesh store %s", path)
	}
	return NewMeshStore(db), nil
}

func NewMeshStore(db *leveldb.DB) *MeshStore {
	return &MeshStore{db: db}
}

func (s *MeshStore) Close() error {
	return s.db.Close()
}

func (s *MeshStore) Put(key string, mesh *voxel.ChunkMesh) error {
	if mesh == nil {
		return errors.New("mesh cannot be nil")
	}
	data, err := encodeMesh(mesh)
	if err != nil {
		return err
	}
	if err = s.db.Put([]byte(key), data, nil); err != nil {
		return errors.Wrapf(err, "save mesh %s", key)
	}
	util.LogStoreDebug("stored mesh %s (%d vertices, %d bytes)", key, mesh.VertexCount(), len(data))
	return nil
}

// Get returns false without an error when the key is unknown.
func (s *MeshStore) Get(key string) (*voxel.ChunkMesh, bool, error) {
	data, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "load mesh %s", key)
	}
	mesh, err := decodeMesh(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decode mesh %s", key)
	}
	return mesh, true, nil
}

func (s *MeshStore) Delete(key string) error {
	return errors.Wrapf(s.db.Delete([]byte(key), nil), "delete mesh %s", key)
}

// GetOrBuild returns the cached mesh for key or builds, stores and returns a
// new one.
func (s *MeshStore) GetOrBuild(key string, build func() (*voxel.ChunkMesh, error)) (*voxel.ChunkMesh, error) {
	mesh, found, err := s.Get(key)
	if err != nil {
		util.LogStoreWarning("ignoring unreadable cache entry: %v", err)
	} else if found {
		util.LogStoreDebug("cache hit %s", key)
		return mesh, nil
	}
	mesh, err = build()
	if err != nil {
		return nil, err
	}
	if err = s.Put(key, mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

// OccupancyKey derives a cache key from the volume size, the solid cells and
// the name of the face policy.
func OccupancyKey(o voxel.Occupancy, policy string) string {
	size := o.Size()
	hash := sha256.New()
	binary.Write(hash, binary.LittleEndian, [3]int32{size.X, size.Y, size.Z})
	hash.Write([]byte(policy))
	var bits byte
	n := 0
	for x := int32(0); x < size.X; x++ {
		for y := int32(0); y < size.Y; y++ {
			for z := int32(0); z < size.Z; z++ {
				if o.IsSolid(x, y, z) {
					bits |= 1 << (n % 8)
				}
				n++
				if n%8 == 0 {
					hash.Write([]byte{bits})
					bits = 0
				}
			}
		}
	}
	if n%8 != 0 {
		hash.Write([]byte{bits})
	}
	return "mesh-" + hex.EncodeToString(hash.Sum(nil))
}

// encodeMesh writes version, vertex count and index count as little-endian
// uint32 followed by positions, normals, uvs and indices, gzip compressed.
func encodeMesh(mesh *voxel.ChunkMesh) ([]byte, error) {
	if err := mesh.Validate(); err != nil {
		return nil, errors.Wrap(err, "refusing to store invalid mesh")
	}
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	header := [3]uint32{meshFormatVersion, uint32(mesh.VertexCount()), uint32(len(mesh.Indices))}
	for _, part := range []any{header, mesh.Positions, mesh.Normals, mesh.UVs, mesh.Indices} {
		if err := binary.Write(gzipWriter, binary.LittleEndian, part); err != nil {
			return nil, errors.Wrap(err, "encode mesh")
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, errors.Wrap(err, "compress mesh")
	}
	return buf.Bytes(), nil
}

func decodeMesh(data []byte) (*voxel.ChunkMesh, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gzipReader.Close()

	var header [3]uint32
	if err = binary.Read(gzipReader, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header[0] != meshFormatVersion {
		return nil, errors.Errorf("unsupported mesh format version %d", header[0])
	}
	vertexCount, indexCount := uint64(header[1]), uint64(header[2])
	expected := vertexCount*vertexSize + indexCount*indexSize
	if expected > maxMeshPayload {
		return nil, errors.Errorf("header claims %d vertices and %d indices, more than a mesh entry may hold", vertexCount, indexCount)
	}
	// one extra byte exposes trailing data
	payload, err := io.ReadAll(io.LimitReader(gzipReader, int64(expected)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) != expected {
		return nil, errors.Errorf("mesh payload is %d bytes, header needs %d", len(payload), expected)
	}

	mesh := &voxel.ChunkMesh{
		Positions: make([]mgl32.Vec3, vertexCount),
		Normals:   make([]mgl32.Vec3, vertexCount),
		UVs:       make([]mgl32.Vec2, vertexCount),
		Indices:   make([]uint32, indexCount),
	}
	payloadReader := bytes.NewReader(payload)
	for _, part := range []any{mesh.Positions, mesh.Normals, mesh.UVs, mesh.Indices} {
		if err = binary.Read(payloadReader, binary.LittleEndian, part); err != nil {
			return nil, err
		}
	}
	if err = mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}
