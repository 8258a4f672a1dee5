package scene

import (
	"deferred-pbr/core"
	"deferred-pbr/math"
)

// Topology selects how indices are assembled into triangles.
type Topology int

const (
	TriangleList  Topology = iota // every 3 indices form a triangle
	TriangleStrip                 // each index after the first two forms a triangle with the previous two
)

func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "triangle list"
	case TriangleStrip:
		return "triangle strip"
	default:
		return "unknown topology"
	}
}

type AABB struct {
	Min, Max math.Vec3
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32
	Topology   Topology

	LocalAABB    AABB
	HasLocalAABB bool
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32, topology Topology) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
		Topology:   topology,
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
		m.HasLocalAABB = true
	}
	return m
}

func computeLocalAABB(vertices []core.Vertex) AABB {
	lo := vertices[0].Position
	hi := vertices[0].Position
	for _, v := range vertices[1:] {
		for c := 0; c < 3; c++ {
			if v.Position[c] < lo[c] {
				lo[c] = v.Position[c]
			}
			if v.Position[c] > hi[c] {
				hi[c] = v.Position[c]
			}
		}
	}
	return AABB{Min: lo, Max: hi}
}

// ForEachTriangle calls fn with the vertex indices of every non-degenerate
// triangle in draw order. Strip triangles at odd positions are emitted with
// their first two indices swapped so that all triangles share one winding.
func (m *Mesh) ForEachTriangle(fn func(i0, i1, i2 uint32)) {
	idx := m.Indices[:m.IndexCount]
	switch m.Topology {
	case TriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			a, b, c := idx[i], idx[i+1], idx[i+2]
			if a == b || b == c || a == c {
				continue
			}
			if i%2 == 1 {
				a, b = b, a
			}
			fn(a, b, c)
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			fn(idx[i], idx[i+1], idx[i+2])
		}
	}
}

// TriangleCount counts the triangles ForEachTriangle visits.
func (m *Mesh) TriangleCount() int {
	n := 0
	m.ForEachTriangle(func(_, _, _ uint32) { n++ })
	return n
}

// ValidateLayout checks that the mesh can feed the geometry pass: indices in
// range, enough of them for the topology, and a usable normal and tangent
// frame on every vertex. It is meant to run once at upload time.
func (m *Mesh) ValidateLayout() error {
	component := "mesh " + m.Name
	if len(m.Vertices) == 0 {
		return core.NewPipelineConfigError(component, "no vertices")
	}
	if int(m.IndexCount) > len(m.Indices) {
		return core.NewPipelineConfigError(component, "index count %d exceeds %d indices", m.IndexCount, len(m.Indices))
	}
	if m.IndexCount < 3 {
		return core.NewPipelineConfigError(component, "%s needs at least 3 indices, got %d", m.Topology, m.IndexCount)
	}
	if m.Topology == TriangleList && m.IndexCount%3 != 0 {
		return core.NewPipelineConfigError(component, "triangle list index count %d is not a multiple of 3", m.IndexCount)
	}
	for i, ix := range m.Indices[:m.IndexCount] {
		if int(ix) >= len(m.Vertices) {
			return core.NewPipelineConfigError(component, "index %d at %d out of range (%d vertices)", ix, i, len(m.Vertices))
		}
	}
	for i, v := range m.Vertices {
		if !math.IsFinite(v.Position) || !math.IsFinite(v.Normal) || !math.IsFinite(v.Tangent) || !math.IsFinite(v.Bitangent) {
			return core.NewPipelineConfigError(component, "vertex %d has non-finite attributes", i)
		}
		if v.Normal.LenSqr() == 0 {
			return core.NewPipelineConfigError(component, "vertex %d has no normal", i)
		}
		if v.Tangent.LenSqr() == 0 || v.Bitangent.LenSqr() == 0 {
			return core.NewPipelineConfigError(component, "vertex %d has no tangent frame (run ComputeTangents)", i)
		}
	}
	return nil
}
