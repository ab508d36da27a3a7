package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/slices"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
)

// DefaultWeldTolerance is the distance below which two positions are the same vertex.
const DefaultWeldTolerance float32 = 0.001

/** @brief The attribute streams of a mesh, each backed by its own GPU buffer. */
type Stream int

const (
	StreamVertices Stream = iota
	StreamNormals
	StreamUVs
	StreamTangents
	StreamBitangents
	StreamIndices
	streamCount
)

func (s Stream) String() string {
	switch s {
	case StreamVertices:
		return "vertices"
	case StreamNormals:
		return "normals"
	case StreamUVs:
		return "uvs"
	case StreamTangents:
		return "tangents"
	case StreamBitangents:
		return "bitangents"
	case StreamIndices:
		return "indices"
	default:
		return "unknown"
	}
}

/**
 * @brief An indexed triangle list. Every per-vertex stream is either empty or
 * exactly as long as Vertices.
 */
type Mesh struct {
	Vertices   []mgl32.Vec3
	Normals    []mgl32.Vec3
	UVs        []mgl32.Vec2
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3
	Indices    []uint32

	buffers [streamCount]renderer.BufferHandle
}

// VertexIndex returns the index of the first vertex within DefaultWeldTolerance of p,
// or len(m.Vertices) if there is none.
func (m *Mesh) VertexIndex(p mgl32.Vec3) int {
	return m.VertexIndexWithin(p, DefaultWeldTolerance)
}

func (m *Mesh) VertexIndexWithin(p mgl32.Vec3, tolerance float32) int {
	for i, v := range m.Vertices {
		if v.Sub(p).Len() <= tolerance {
			return i
		}
	}
	return len(m.Vertices)
}

// TriangleCount returns the number of complete triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// RemoveVertex deletes vertex i with all its attributes. Triangles using it are dropped and
// indices above it are shifted down. Tangents are not recomputed; call GenerateTangentBasis afterwards.
func (m *Mesh) RemoveVertex(i int) error {
	if i < 0 || i >= len(m.Vertices) {
		return fmt.Errorf("func RemoveVertex - vertex %d out of range (count=%d)", i, len(m.Vertices))
	}
	idx := uint32(i)

	kept := m.Indices[:0]
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if a == idx || b == idx || c == idx {
			continue
		}
		kept = append(kept, shiftIndex(a, idx), shiftIndex(b, idx), shiftIndex(c, idx))
	}
	m.Indices = kept

	n := len(m.Vertices)
	m.Vertices = slices.Delete(m.Vertices, i, i+1)
	m.Normals = deleteAttribute(m.Normals, i, n)
	m.UVs = deleteAttribute(m.UVs, i, n)
	m.Tangents = deleteAttribute(m.Tangents, i, n)
	m.Bitangents = deleteAttribute(m.Bitangents, i, n)
	return nil
}

func shiftIndex(v, removed uint32) uint32 {
	if v > removed {
		return v - 1
	}
	return v
}

func deleteAttribute[E any](s []E, i, n int) []E {
	if len(s) != n {
		return s
	}
	return slices.Delete(s, i, i+1)
}

// Validate checks the structural invariants of the mesh.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: %d indices do not form triangles: %w", len(m.Indices), core.ErrMalformedAsset)
	}
	count := len(m.Vertices)
	for i, idx := range m.Indices {
		if int(idx) >= count {
			return fmt.Errorf("mesh: index %d at %d out of range (vertices=%d): %w", idx, i, count, core.ErrMalformedAsset)
		}
	}
	for _, s := range []struct {
		stream Stream
		n      int
	}{
		{StreamNormals, len(m.Normals)},
		{StreamUVs, len(m.UVs)},
		{StreamTangents, len(m.Tangents)},
		{StreamBitangents, len(m.Bitangents)},
	} {
		if s.n != 0 && s.n != count {
			return fmt.Errorf("mesh: %s has %d entries for %d vertices: %w", s.stream, s.n, count, core.ErrMalformedAsset)
		}
	}
	return nil
}

// Buffer returns the GPU buffer of a stream, if one was created.
func (m *Mesh) Buffer(s Stream) renderer.BufferHandle {
	if s < 0 || s >= streamCount {
		return renderer.BufferHandle{}
	}
	return m.buffers[s]
}

func (m *Mesh) encode(s Stream) []byte {
	switch s {
	case StreamVertices:
		return renderer.EncodeVec3s(m.Vertices)
	case StreamNormals:
		return renderer.EncodeVec3s(m.Normals)
	case StreamUVs:
		return renderer.EncodeVec2s(m.UVs)
	case StreamTangents:
		return renderer.EncodeVec3s(m.Tangents)
	case StreamBitangents:
		return renderer.EncodeVec3s(m.Bitangents)
	case StreamIndices:
		return renderer.EncodeUint32s(m.Indices)
	}
	return nil
}

// UpdateBuffers creates or refreshes one GPU buffer per non-empty stream.
// Buffers of streams that became empty are deleted.
func (m *Mesh) UpdateBuffers(backend renderer.RendererBackend) error {
	for s := Stream(0); s < streamCount; s++ {
		data := m.encode(s)
		id, ok := m.buffers[s].Get()

		if len(data) == 0 {
			if ok {
				backend.DeleteBuffer(id)
				m.buffers[s] = renderer.BufferHandle{}
			}
			continue
		}

		if ok {
			if err := backend.UploadBuffer(id, data); err != nil {
				return fmt.Errorf("mesh: upload %s buffer: %w", s, err)
			}
			continue
		}

		bufferType := renderer.BufferTypeVertex
		if s == StreamIndices {
			bufferType = renderer.BufferTypeIndex
		}
		id, err := backend.CreateBuffer(bufferType, data)
		if err != nil {
			return fmt.Errorf("mesh: create %s buffer: %w", s, err)
		}
		m.buffers[s] = renderer.NewBufferHandle(id)
	}
	return nil
}

// Release deletes every GPU buffer owned by the mesh. The CPU side data is kept.
func (m *Mesh) Release(backend renderer.RendererBackend) {
	for s := range m.buffers {
		if id, ok := m.buffers[s].Get(); ok {
			backend.DeleteBuffer(id)
		}
		m.buffers[s] = renderer.BufferHandle{}
	}
}
