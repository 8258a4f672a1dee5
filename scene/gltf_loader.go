package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

// LoadGLTFMesh opens a .glb or .gltf file and returns the first triangle
// primitive of its first mesh, with tangents generated. Materials and the
// node hierarchy are ignored; the renderer draws a single material.
func LoadGLTFMesh(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: fmt.Errorf("gltf open: %w", err)}
	}
	for _, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			topology, ok := gltfTopology(prim.Mode)
			if !ok {
				continue
			}
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, topology)
			if err != nil {
				return nil, &core.AssetError{Asset: path, Err: err}
			}
			ComputeTangents(m)
			return m, nil
		}
	}
	return nil, core.NewAssetError(path, "no triangle primitive found")
}

func gltfTopology(mode gltf.PrimitiveMode) (Topology, bool) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return TriangleList, true
	case gltf.PrimitiveTriangleStrip:
		return TriangleStrip, true
	default:
		return 0, false
	}
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, topology Topology) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("%s: no POSITION attribute", name)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("%s positions: %w", name, err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("%s normals: %w", name, err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("%s uvs: %w", name, err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3(p),
			Normal:   math.Vec3Up,
		}
		if i < len(normals) {
			v.Normal = math.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = math.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("%s indices: %w", name, err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return CreateMeshFromData(name, verts, indices, topology), nil
}
