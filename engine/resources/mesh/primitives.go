package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// quad corners in (u, v) and the two triangles over them, counter clockwise around u × v.
var (
	quadCorners = [4]mgl32.Vec2{{-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
	quadIndices = [6]uint32{0, 1, 2, 0, 3, 1}
)

// appendQuad adds a 2x2 square centered at c, spanned by u and v, facing u × v.
func (m *Mesh) appendQuad(c, u, v mgl32.Vec3) {
	base := uint32(len(m.Vertices))
	n := u.Cross(v).Normalize()
	for _, q := range quadCorners {
		m.Vertices = append(m.Vertices, c.Add(u.Mul(q.X())).Add(v.Mul(q.Y())))
		m.Normals = append(m.Normals, n)
		m.UVs = append(m.UVs, mgl32.Vec2{(q.X() + 1) / 2, (q.Y() + 1) / 2})
	}
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, base+i)
	}
}

// finish computes the tangent basis of a builtin primitive. The primitive tables always carry
// normals and UVs, so a failure here is a broken table.
func (m *Mesh) finish() *Mesh {
	if err := m.GenerateTangentBasis(); err != nil {
		panic(fmt.Sprintf("mesh: builtin primitive is malformed: %s", err))
	}
	return m
}

// MakeTriangle returns a single triangle in the z=0 plane facing +z.
func MakeTriangle() *Mesh {
	m := &Mesh{
		Vertices: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:      []mgl32.Vec2{{0, 0}, {1, 0}, {0.5, 1}},
		Indices:  []uint32{0, 1, 2},
	}
	return m.finish()
}

// MakeRectangle returns a 2x2 plane in the z=0 plane facing +z.
func MakeRectangle() *Mesh {
	m := &Mesh{}
	m.appendQuad(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	return m.finish()
}

// MakeCube returns a cube spanning [-1, 1] on every axis with flat shaded faces.
func MakeCube() *Mesh {
	x, y, z := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
	faces := [6][2]mgl32.Vec3{
		{y, z}, // +x
		{z, y}, // -x
		{z, x}, // +y
		{x, z}, // -y
		{x, y}, // +z
		{y, x}, // -z
	}

	m := &Mesh{}
	for _, f := range faces {
		u, v := f[0], f[1]
		m.appendQuad(u.Cross(v), u, v)
	}
	return m.finish()
}

// MakePyramid returns a square based pyramid with its base at y=-1 and its apex at (0, 1, 0).
func MakePyramid() *Mesh {
	apex := mgl32.Vec3{0, 1, 0}
	// base edges, counter clockwise seen from outside
	sides := [4][2]mgl32.Vec3{
		{{-1, -1, 1}, {1, -1, 1}},
		{{1, -1, 1}, {1, -1, -1}},
		{{1, -1, -1}, {-1, -1, -1}},
		{{-1, -1, -1}, {-1, -1, 1}},
	}

	m := &Mesh{}
	for _, s := range sides {
		base := uint32(len(m.Vertices))
		n := FaceNormal(s[0], s[1], apex)
		m.Vertices = append(m.Vertices, s[0], s[1], apex)
		m.Normals = append(m.Normals, n, n, n)
		m.UVs = append(m.UVs, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0.5, 1})
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	m.appendQuad(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1})
	return m.finish()
}
