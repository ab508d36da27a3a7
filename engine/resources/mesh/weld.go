package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/math"
)

/** @brief Tolerances deciding whether two face vertices become one mesh vertex. */
type WeldOptions struct {
	PositionTolerance float32
	UVTolerance       float32
	/** @brief Normals further apart than this many degrees keep a hard edge. */
	MaxNormalAngle float32
}

func DefaultWeldOptions() WeldOptions {
	return WeldOptions{
		PositionTolerance: DefaultWeldTolerance,
		UVTolerance:       0.001,
		MaxNormalAngle:    80,
	}
}

/**
 * @brief Appends face vertices to a mesh, merging each one into an earlier compatible vertex.
 * Merged normals are the renormalized sum, merged UVs the arithmetic mean of all contributions.
 */
type Welder struct {
	mesh *Mesh
	opts WeldOptions
	// per vertex: unnormalized normal sum, uv sum and contribution count
	normalSums []mgl32.Vec3
	uvSums     []mgl32.Vec2
	counts     []int
}

// NewWelder starts welding into m. Vertices already in m count as single contributions.
func NewWelder(m *Mesh, opts WeldOptions) *Welder {
	w := &Welder{mesh: m, opts: opts}
	for i := range m.Vertices {
		var n mgl32.Vec3
		var uv mgl32.Vec2
		if i < len(m.Normals) {
			n = m.Normals[i]
		} else {
			m.Normals = append(m.Normals, n)
		}
		if i < len(m.UVs) {
			uv = m.UVs[i]
		}
		w.normalSums = append(w.normalSums, n)
		w.uvSums = append(w.uvSums, uv)
		w.counts = append(w.counts, 1)
	}
	return w
}

// Add returns the index of the vertex representing (p, n, uv). uv is ignored when hasUV is false.
func (w *Welder) Add(p, n mgl32.Vec3, uv mgl32.Vec2, hasUV bool) uint32 {
	m := w.mesh
	for i, v := range m.Vertices {
		if v.Sub(p).Len() > w.opts.PositionTolerance || !w.compatible(i, n, uv, hasUV) {
			continue
		}
		w.counts[i]++
		w.normalSums[i] = w.normalSums[i].Add(n)
		m.Normals[i] = math.Normalized(w.normalSums[i])
		if hasUV {
			w.uvSums[i] = w.uvSums[i].Add(uv)
			m.UVs[i] = w.uvSums[i].Mul(1 / float32(w.counts[i]))
		}
		return uint32(i)
	}

	m.Vertices = append(m.Vertices, p)
	m.Normals = append(m.Normals, n)
	if hasUV {
		m.UVs = append(m.UVs, uv)
	}
	w.normalSums = append(w.normalSums, n)
	w.uvSums = append(w.uvSums, uv)
	w.counts = append(w.counts, 1)
	return uint32(len(m.Vertices) - 1)
}

func (w *Welder) compatible(i int, n mgl32.Vec3, uv mgl32.Vec2, hasUV bool) bool {
	if math.AngleBetween(w.mesh.Normals[i], n) >= w.opts.MaxNormalAngle {
		return false
	}
	if hasUV && w.mesh.UVs[i].Sub(uv).Len() > w.opts.UVTolerance {
		return false
	}
	return true
}
