package renderer

import (
	"fmt"
	"strings"
	"sync"
)

type headlessBuffer struct {
	bufferType BufferType
	data       []byte
}

type headlessTexture struct {
	width, height uint32
	pixels        []uint8
}

// Headless is a RendererBackend that keeps every object in memory. It backs
// tools and tests which run without a graphics context.
type Headless struct {
	mutex      sync.Mutex
	nextID     uint32
	buffers    map[BufferID]*headlessBuffer
	textures   map[TextureID]*headlessTexture
	shaders    map[ShaderID][]ShaderSource
	uploads    int
	failShader bool
}

func NewHeadless() *Headless {
	return &Headless{
		nextID:   1,
		buffers:  make(map[BufferID]*headlessBuffer),
		textures: make(map[TextureID]*headlessTexture),
		shaders:  make(map[ShaderID][]ShaderSource),
	}
}

func (h *Headless) id() uint32 {
	id := h.nextID
	h.nextID++
	return id
}

func (h *Headless) CreateBuffer(bufferType BufferType, data []byte) (BufferID, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	id := BufferID(h.id())
	h.buffers[id] = &headlessBuffer{bufferType: bufferType, data: append([]byte(nil), data...)}
	h.uploads++
	return id, nil
}

func (h *Headless) UploadBuffer(id BufferID, data []byte) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	b, ok := h.buffers[id]
	if !ok {
		return fmt.Errorf("headless: upload to unknown buffer %d", id)
	}
	b.data = append(b.data[:0], data...)
	h.uploads++
	return nil
}

func (h *Headless) DeleteBuffer(id BufferID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.buffers, id)
}

func (h *Headless) CreateTexture(width, height uint32, pixels []uint8) (TextureID, error) {
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("headless: texture size %dx%d is empty", width, height)
	}
	if want := uint64(width) * uint64(height) * 4; uint64(len(pixels)) != want {
		return 0, fmt.Errorf("headless: expected %d bytes of RGBA data, got %d", want, len(pixels))
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	id := TextureID(h.id())
	h.textures[id] = &headlessTexture{width: width, height: height, pixels: append([]uint8(nil), pixels...)}
	return id, nil
}

func (h *Headless) DeleteTexture(id TextureID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.textures, id)
}

// CompileShader accepts any program with a non-empty vertex and fragment stage.
func (h *Headless) CompileShader(stages []ShaderSource) (ShaderID, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.failShader {
		return 0, fmt.Errorf("headless: shader compilation disabled")
	}
	seen := map[ShaderStage]bool{}
	for _, s := range stages {
		if strings.TrimSpace(s.Source) == "" {
			return 0, fmt.Errorf("headless: %s stage '%s' is empty", s.Stage, s.Name)
		}
		seen[s.Stage] = true
	}
	if !seen[ShaderStageVertex] || !seen[ShaderStageFragment] {
		return 0, fmt.Errorf("headless: program needs a vertex and a fragment stage")
	}
	id := ShaderID(h.id())
	h.shaders[id] = append([]ShaderSource(nil), stages...)
	return id, nil
}

func (h *Headless) DeleteShader(id ShaderID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.shaders, id)
}

// FailShaders makes every following CompileShader call fail.
func (h *Headless) FailShaders(fail bool) {
	h.mutex.Lock()
	h.failShader = fail
	h.mutex.Unlock()
}

func (h *Headless) BufferCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.buffers)
}

// BufferData returns a copy of the buffer contents.
func (h *Headless) BufferData(id BufferID) ([]byte, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	b, ok := h.buffers[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b.data...), true
}

func (h *Headless) Uploads() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.uploads
}

func (h *Headless) TextureCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.textures)
}

// TextureSize reports the dimensions of a live texture.
func (h *Headless) TextureSize(id TextureID) (uint32, uint32, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	t, ok := h.textures[id]
	if !ok {
		return 0, 0, false
	}
	return t.width, t.height, true
}

func (h *Headless) ShaderCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.shaders)
}
