package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

// LoadModel picks the loader from the file extension: .obj, or .gltf/.glb.
func LoadModel(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJMesh(path)
	case ".gltf", ".glb":
		return LoadGLTFMesh(path)
	default:
		return nil, core.NewAssetError(path, "unsupported model format %q", filepath.Ext(path))
	}
}

func LoadOBJMesh(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: err}
	}
	defer f.Close()
	m, err := DecodeOBJMesh(filepath.Base(path), f)
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: err}
	}
	return m, nil
}

// DecodeOBJMesh reads a Wavefront OBJ stream into one triangle-list mesh.
// Groups are merged and material statements ignored. Polygons are fan
// triangulated; vertices without a normal get the area-weighted average of
// their faces' normals. Tangents are generated.
func DecodeOBJMesh(name string, r io.Reader) (*Mesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
		vertices  []core.Vertex
		indices   []uint32
		hasNormal []bool
	)
	seen := make(map[objRef]uint32)

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "v", "vn":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if parts[0] == "v" {
				positions = append(positions, math.Vec3{v[0], v[1], v[2]})
			} else {
				normals = append(normals, math.Vec3{v[0], v[1], v[2]})
			}
		case "vt":
			v, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math.Vec2{v[0], v[1]})
		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", lineNo, len(parts)-1)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				ref, err := parseFaceVertex(spec, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if idx, ok := seen[ref]; ok {
					face = append(face, idx)
					continue
				}
				v := core.Vertex{Position: positions[ref.v]}
				if ref.vt >= 0 {
					v.UV = uvs[ref.vt]
				}
				if ref.vn >= 0 {
					v.Normal = math.Normalize(normals[ref.vn])
				}
				idx := uint32(len(vertices))
				vertices = append(vertices, v)
				hasNormal = append(hasNormal, ref.vn >= 0)
				seen[ref] = idx
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				indices = append(indices, face[0], face[i-1], face[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no faces")
	}

	fillMissingNormals(vertices, indices, hasNormal)
	m := CreateMeshFromData(name, vertices, indices, TriangleList)
	ComputeTangents(m)
	return m, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// objIndex resolves a 1-based, possibly negative, OBJ reference.
func objIndex(field string, n int) (int, error) {
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", field, n)
	}
	return i - 1, nil
}

// objRef is a face vertex with every index resolved to 0-based absolute
// form; -1 marks an absent UV or normal. Relative indices only mean the same
// vertex when they resolve to the same objRef.
type objRef struct {
	v, vt, vn int
}

func parseFaceVertex(spec string, nPos, nUV, nNormal int) (objRef, error) {
	ref := objRef{vt: -1, vn: -1}
	parts := strings.Split(spec, "/")

	var err error
	if ref.v, err = objIndex(parts[0], nPos); err != nil {
		return ref, fmt.Errorf("position: %w", err)
	}
	if len(parts) >= 2 && parts[1] != "" {
		if ref.vt, err = objIndex(parts[1], nUV); err != nil {
			return ref, fmt.Errorf("uv: %w", err)
		}
	}
	if len(parts) >= 3 && parts[2] != "" {
		if ref.vn, err = objIndex(parts[2], nNormal); err != nil {
			return ref, fmt.Errorf("normal: %w", err)
		}
	}
	return ref, nil
}

func fillMissingNormals(vertices []core.Vertex, indices []uint32, hasNormal []bool) {
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		p0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		for _, i := range []uint32{i0, i1, i2} {
			if !hasNormal[i] {
				vertices[i].Normal = vertices[i].Normal.Add(n)
			}
		}
	}
	for i := range vertices {
		if !hasNormal[i] {
			vertices[i].Normal = math.Normalize(vertices[i].Normal)
		}
	}
}
