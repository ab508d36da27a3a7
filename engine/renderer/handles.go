package renderer

type BufferID uint32
type TextureID uint32
type ShaderID uint32

// BufferHandle is a GPU buffer which may not exist yet.
type BufferHandle struct {
	id    BufferID
	valid bool
}

func NewBufferHandle(id BufferID) BufferHandle {
	return BufferHandle{id: id, valid: true}
}

// Get returns the id and whether a buffer exists.
func (h BufferHandle) Get() (BufferID, bool) {
	return h.id, h.valid
}

func (h BufferHandle) Valid() bool {
	return h.valid
}

// TextureHandle is a GPU texture which may not exist yet.
type TextureHandle struct {
	id    TextureID
	valid bool
}

func NewTextureHandle(id TextureID) TextureHandle {
	return TextureHandle{id: id, valid: true}
}

func (h TextureHandle) Get() (TextureID, bool) {
	return h.id, h.valid
}

func (h TextureHandle) Valid() bool {
	return h.valid
}

// ShaderHandle is a compiled shader program which may not exist.
type ShaderHandle struct {
	id    ShaderID
	valid bool
}

func NewShaderHandle(id ShaderID) ShaderHandle {
	return ShaderHandle{id: id, valid: true}
}

func (h ShaderHandle) Get() (ShaderID, bool) {
	return h.id, h.valid
}

func (h ShaderHandle) Valid() bool {
	return h.valid
}
