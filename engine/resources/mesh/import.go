package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets/loaders"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

type ImportOptions struct {
	/** @brief Weld compatible face vertices instead of emitting one vertex per face corner. */
	Optimize bool
	Weld     WeldOptions
}

func DefaultImportOptions() ImportOptions {
	return ImportOptions{Optimize: true, Weld: DefaultWeldOptions()}
}

// Import builds a mesh from parsed OBJ data. Faces without normals get their face normal.
func Import(obj *loaders.ObjData, opts ImportOptions, log core.Logger) (*Mesh, error) {
	if len(obj.Faces) == 0 {
		return nil, fmt.Errorf("mesh: %s has no faces: %w", obj.Name, core.ErrMalformedAsset)
	}

	hasUV := len(obj.UVs) > 0
	missingUV := 0
	m := &Mesh{}
	welder := NewWelder(m, opts.Weld)

	for _, face := range obj.Faces {
		var positions [3]mgl32.Vec3
		for i, fv := range face {
			positions[i] = obj.Positions[fv.Position]
		}
		faceNormal := FaceNormal(positions[0], positions[1], positions[2])

		for i, fv := range face {
			n := faceNormal
			if fv.Normal != loaders.NoIndex {
				n = obj.Normals[fv.Normal]
			}
			var uv mgl32.Vec2
			if fv.UV != loaders.NoIndex {
				uv = obj.UVs[fv.UV]
			} else if hasUV {
				missingUV++
			}

			if opts.Optimize {
				m.Indices = append(m.Indices, welder.Add(positions[i], n, uv, hasUV))
				continue
			}
			m.Vertices = append(m.Vertices, positions[i])
			m.Normals = append(m.Normals, n)
			if hasUV {
				m.UVs = append(m.UVs, uv)
			}
			m.Indices = append(m.Indices, uint32(len(m.Vertices)-1))
		}
	}

	if missingUV > 0 {
		log.Warnf("mesh: %s: %d face vertices have no texture coordinate, using (0, 0)", obj.Name, missingUV)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh: import %s: %w", obj.Name, err)
	}

	if err := m.GenerateTangentBasis(); err != nil {
		if !errors.Is(err, ErrNoTextureCoordinates) {
			return nil, fmt.Errorf("mesh: import %s: %w", obj.Name, err)
		}
		log.Warnf("mesh: %s has no texture coordinates, tangents are not generated", obj.Name)
	}

	log.Debugf("mesh: imported %s with %d vertices and %d triangles", obj.Name, len(m.Vertices), m.TriangleCount())
	return m, nil
}
