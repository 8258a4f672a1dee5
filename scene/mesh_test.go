package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

func TestSphereStripIsValid(t *testing.T) {
	s := CreateSphere(1, 16, 8)
	require.NoError(t, s.ValidateLayout())
	assert.Equal(t, TriangleStrip, s.Topology)
	assert.Equal(t, uint32(8*17*2), s.IndexCount)

	for _, v := range s.Vertices {
		assert.InDelta(t, 1, v.Position.Len(), 1e-5)
		assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), 1e-5)
	}
}

// Every strip triangle must face outwards once odd triangles are re-wound.
func TestSphereStripConsistentWinding(t *testing.T) {
	s := CreateSphere(1, 16, 8)
	outward, inward := 0, 0
	s.ForEachTriangle(func(i0, i1, i2 uint32) {
		p0, p1, p2 := s.Vertices[i0].Position, s.Vertices[i1].Position, s.Vertices[i2].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if n.LenSqr() < 1e-12 {
			return
		}
		centroid := p0.Add(p1).Add(p2)
		d := n.Dot(centroid)
		// seam slivers lie in a plane through the centre
		if d*d < 1e-8*n.LenSqr()*centroid.LenSqr() {
			return
		}
		if d > 0 {
			outward++
		} else {
			inward++
		}
	})
	assert.Greater(t, outward+inward, 0)
	assert.True(t, outward == 0 || inward == 0, "mixed winding: %d out, %d in", outward, inward)
}

func TestStripSkipsDegenerateTriangles(t *testing.T) {
	verts := make([]core.Vertex, 5)
	m := CreateMeshFromData("strip", verts, []uint32{0, 1, 2, 2, 3, 4}, TriangleStrip)
	var tris [][3]uint32
	m.ForEachTriangle(func(a, b, c uint32) { tris = append(tris, [3]uint32{a, b, c}) })
	// (1,2,2) and (2,2,3) are degenerate; the fourth triangle is odd and re-wound
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {3, 2, 4}}, tris)
}

func TestCubeLayout(t *testing.T) {
	c := CreateCube(2)
	require.NoError(t, c.ValidateLayout())
	assert.Equal(t, 12, c.TriangleCount())
	assert.Equal(t, math.Vec3{-1, -1, -1}, c.LocalAABB.Min)
	assert.Equal(t, math.Vec3{1, 1, 1}, c.LocalAABB.Max)

	c.ForEachTriangle(func(i0, i1, i2 uint32) {
		p0, p1, p2 := c.Vertices[i0].Position, c.Vertices[i1].Position, c.Vertices[i2].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		assert.Greater(t, n.Dot(c.Vertices[i0].Normal), float32(0))
	})
}

func TestValidateLayoutRejectsBadMeshes(t *testing.T) {
	noTangents := CreateMeshFromData("tri", []core.Vertex{
		{Normal: math.Vec3Up}, {Normal: math.Vec3Up}, {Normal: math.Vec3Up},
	}, []uint32{0, 1, 2}, TriangleList)
	outOfRange := CreateMeshFromData("oob", CreateScreenQuad().Vertices, []uint32{0, 1, 9}, TriangleList)
	ragged := CreateMeshFromData("ragged", CreateScreenQuad().Vertices, []uint32{0, 1, 2, 3}, TriangleList)

	for _, m := range []*Mesh{noTangents, outOfRange, ragged} {
		err := m.ValidateLayout()
		var cfgErr *core.PipelineConfigError
		assert.True(t, errors.As(err, &cfgErr), "%s: %v", m.Name, err)
	}

	ComputeTangents(noTangents)
	noTangents.Vertices[1].Position = math.Vec3{1, 0, 0}
	noTangents.Vertices[2].Position = math.Vec3{0, 0, 1}
	assert.NoError(t, noTangents.ValidateLayout())
}

func TestComputeTangentsFollowsUV(t *testing.T) {
	q := CreateScreenQuad()
	ComputeTangents(q)
	for _, v := range q.Vertices {
		assert.InDelta(t, 1, v.Tangent[0], 1e-5)
		assert.InDelta(t, 1, v.Bitangent[1], 1e-5)
	}
}

const quadOBJ = `# unit quad facing +Z
o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 -1/4
`

func TestDecodeOBJMesh(t *testing.T) {
	m, err := DecodeOBJMesh("quad", strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, TriangleList, m.Topology)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	require.NoError(t, m.ValidateLayout())
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Z(), 1e-6, "normals generated from the faces")
		assert.InDelta(t, 1, v.Tangent.X(), 1e-5)
	}
}

func TestDecodeOBJMeshRelativeIndices(t *testing.T) {
	const src = `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 5 5 5
v 6 5 5
v 5 6 5
f -3 -2 -1
f 4 5 6
`
	m, err := DecodeOBJMesh("relative", strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 6, "same text, different vertices")
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 3, 4, 5}, m.Indices)
	assert.Equal(t, math.Vec3{0, 0, 0}, m.Vertices[0].Position)
	assert.Equal(t, math.Vec3{5, 5, 5}, m.Vertices[3].Position)
	assert.Equal(t, math.Vec3{5, 6, 5}, m.Vertices[5].Position)
}

func TestDecodeOBJMeshErrors(t *testing.T) {
	_, err := DecodeOBJMesh("bad", strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = DecodeOBJMesh("empty", strings.NewReader("v 0 0 0\n"))
	assert.Error(t, err)

	_, err = LoadModel("mesh.stl")
	assert.Error(t, err)
}
