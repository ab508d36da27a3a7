package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeCube(t *testing.T) {
	m := MakeCube()
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	assert.Equal(t, 12, m.TriangleCount())
	for _, i := range m.Indices {
		assert.Less(t, i, uint32(24))
	}
	require.NoError(t, m.Validate())
	assertTangentBasis(t, m)
}

func TestBrokenPrimitiveTablePanics(t *testing.T) {
	m := &Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:  []uint32{0, 1, 2},
	}
	assert.Panics(t, func() { m.finish() })
	assert.NotPanics(t, func() { MakePyramid() })
}

func TestPrimitiveNormalsFaceOutward(t *testing.T) {
	for name, m := range map[string]*Mesh{
		"triangle":  MakeTriangle(),
		"rectangle": MakeRectangle(),
		"cube":      MakeCube(),
		"pyramid":   MakePyramid(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.Validate())
			for tri := 0; tri < len(m.Indices); tri += 3 {
				i0, i1, i2 := m.Indices[tri], m.Indices[tri+1], m.Indices[tri+2]
				n := FaceNormal(m.Vertices[i0], m.Vertices[i1], m.Vertices[i2])
				assert.True(t, n.ApproxEqual(m.Normals[i0]), "triangle %d: winding %v, normal %v", tri/3, n, m.Normals[i0])
			}
		})
	}
}

func TestPrimitiveSizes(t *testing.T) {
	cases := []struct {
		name     string
		mesh     *Mesh
		vertices int
		indices  int
	}{
		{"triangle", MakeTriangle(), 3, 3},
		{"rectangle", MakeRectangle(), 4, 6},
		{"pyramid", MakePyramid(), 16, 18},
	}
	for _, c := range cases {
		assert.Len(t, c.mesh.Vertices, c.vertices, c.name)
		assert.Len(t, c.mesh.Indices, c.indices, c.name)
		assertTangentBasis(t, c.mesh)
	}
}

func TestCubeVerticesOnUnitBox(t *testing.T) {
	for _, v := range MakeCube().Vertices {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, 1, abs(v[c]), epsilon)
		}
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
