package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/math"
)

// ErrNoTextureCoordinates is returned when a tangent basis is requested for a mesh without UVs.
var ErrNoTextureCoordinates = errors.New("mesh has no texture coordinates")

// uvEpsilon is the smallest UV determinant treated as a non-degenerate parameterization.
const uvEpsilon = 1e-8

// FaceNormal returns the unit normal of a counter clockwise triangle.
func FaceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	return math.Normalized(v2.Sub(v1).Cross(v0.Sub(v1)))
}

// GenerateTangentBasis computes per-vertex tangents and bitangents from the UV layout.
// Vertices, normals and UVs must be final: every triangle contributes to its three vertices before
// anything is normalized.
func (m *Mesh) GenerateTangentBasis() error {
	n := len(m.Vertices)
	if len(m.UVs) != n || n == 0 {
		return ErrNoTextureCoordinates
	}
	if len(m.Normals) != n {
		return fmt.Errorf("func GenerateTangentBasis - %d normals for %d vertices", len(m.Normals), n)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	tangents := make([]mgl32.Vec3, n)
	bitangents := make([]mgl32.Vec3, n)

	for t := 0; t < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]

		dp1 := m.Vertices[i1].Sub(m.Vertices[i0])
		dp2 := m.Vertices[i2].Sub(m.Vertices[i0])
		duv1 := m.UVs[i1].Sub(m.UVs[i0])
		duv2 := m.UVs[i2].Sub(m.UVs[i0])

		det := duv1.X()*duv2.Y() - duv2.X()*duv1.Y()
		if det > -uvEpsilon && det < uvEpsilon {
			continue
		}
		r := 1 / det

		tangent := dp1.Mul(duv2.Y()).Sub(dp2.Mul(duv1.Y())).Mul(r)
		bitangent := dp2.Mul(duv1.X()).Sub(dp1.Mul(duv2.X())).Mul(r)

		for _, i := range [3]uint32{i0, i1, i2} {
			tangents[i] = tangents[i].Add(tangent)
			bitangents[i] = bitangents[i].Add(bitangent)
		}
	}

	for i := 0; i < n; i++ {
		normal := m.Normals[i]
		tangent := math.Normalized(tangents[i])
		bitangent := math.Normalized(bitangents[i])

		// Gram-Schmidt
		tangent = math.Normalized(tangent.Sub(normal.Mul(normal.Dot(tangent))))
		if normal.Cross(tangent).Dot(bitangent) < 0 {
			tangent = tangent.Mul(-1)
		}

		tangents[i] = tangent
		bitangents[i] = bitangent
	}

	m.Tangents = tangents
	m.Bitangents = bitangents
	return nil
}
