package export

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/memmaker/cubemesh/engine/voxel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ChunkMeshToGLTF wraps the mesh in a single-node glTF document: one
// triangle-list primitive with POSITION, NORMAL, TEXCOORD_0 and uint32
// indices, using one material for the whole chunk. An empty mesh produces a
// node without geometry.
func ChunkMeshToGLTF(mesh *voxel.ChunkMesh, name string) (*gltf.Document, error) {
	if err := mesh.Validate(); err != nil {
		return nil, errors.Wrap(err, "export invalid chunk mesh")
	}
	doc := gltf.NewDocument()
	node := &gltf.Node{Name: name}

	if mesh.VertexCount() > 0 && len(mesh.Indices) > 0 {
		positions := make([][3]float32, len(mesh.Positions))
		normals := make([][3]float32, len(mesh.Normals))
		uvs := make([][2]float32, len(mesh.UVs))
		for i := range mesh.Positions {
			positions[i] = mesh.Positions[i]
			normals[i] = mesh.Normals[i]
			uvs[i] = mesh.UVs[i]
		}

		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:      name + "-material",
			AlphaMode: gltf.AlphaBlend,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{1, 1, 1, 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
		})
		primitive := &gltf.Primitive{
			Mode:     gltf.PrimitiveTriangles,
			Material: gltf.Index(uint32(len(doc.Materials) - 1)),
			Indices:  gltf.Index(modeler.WriteIndices(doc, append([]uint32(nil), mesh.Indices...))),
			Attributes: map[string]uint32{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{primitive}})
		node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
	}

	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	return doc, nil
}

// WriteChunkMeshGLB encodes the mesh as binary glTF.
func WriteChunkMeshGLB(w io.Writer, mesh *voxel.ChunkMesh, name string) error {
	doc, err := ChunkMeshToGLTF(mesh, name)
	if err != nil {
		return err
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err = encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "encode glb")
	}
	return nil
}

func SaveChunkMeshGLB(filename string, mesh *voxel.ChunkMesh, name string) error {
	doc, err := ChunkMeshToGLTF(mesh, name)
	if err != nil {
		return err
	}
	if err = gltf.SaveBinary(doc, filename); err != nil {
		return errors.Wrapf(err, "save %s", filename)
	}
	util.LogIOInfo("wrote %s: %d vertices, %d triangles", filename, mesh.VertexCount(), mesh.TriangleCount())
	return nil
}

// ChunkMeshFromGLTF reads the first triangle primitive of the document back
// into a chunk mesh.
func ChunkMeshFromGLTF(doc *gltf.Document) (*voxel.ChunkMesh, error) {
	mesh := &voxel.ChunkMesh{
		Positions: []mgl32.Vec3{},
		Normals:   []mgl32.Vec3{},
		UVs:       []mgl32.Vec2{},
		Indices:   []uint32{},
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return mesh, nil
	}
	primitive := doc.Meshes[0].Primitives[0]
	if primitive.Mode != gltf.PrimitiveTriangles {
		return nil, errors.Errorf("unsupported primitive mode %v", primitive.Mode)
	}
	if primitive.Indices == nil {
		return nil, errors.New("primitive has no indices")
	}
	for _, attribute := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
		if _, ok := primitive.Attributes[attribute]; !ok {
			return nil, errors.Errorf("primitive has no %s attribute", attribute)
		}
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[primitive.Attributes[gltf.POSITION]], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}
	normals, err := modeler.ReadNormal(doc, doc.Accessors[primitive.Attributes[gltf.NORMAL]], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read normals")
	}
	uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[primitive.Attributes[gltf.TEXCOORD_0]], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read uvs")
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
	if err != nil {
		return nil, errors.Wrap(err, "read indices")
	}

	for _, p := range positions {
		mesh.Positions = append(mesh.Positions, mgl32.Vec3(p))
	}
	for _, n := range normals {
		mesh.Normals = append(mesh.Normals, mgl32.Vec3(n))
	}
	for _, uv := range uvs {
		mesh.UVs = append(mesh.UVs, mgl32.Vec2(uv))
	}
	mesh.Indices = append(mesh.Indices, indices...)
	if err = mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}
