package renderer

/** @brief The kind of data a GPU buffer holds. */
type BufferType int

const (
	/** @brief Per vertex attribute data. */
	BufferTypeVertex BufferType = iota
	/** @brief Triangle list indices. */
	BufferTypeIndex
)

func (t BufferType) String() string {
	switch t {
	case BufferTypeVertex:
		return "vertex"
	case BufferTypeIndex:
		return "index"
	default:
		return "unknown"
	}
}

/** @brief The stage a shader source is compiled for. */
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

/** @brief A single stage source handed to the backend for compilation. */
type ShaderSource struct {
	Stage ShaderStage
	/** @brief The file the source came from, used for error reporting. */
	Name   string
	Source string
}

/**
 * @brief The narrow GPU surface the resource core relies on. The actual API
 * calls (buffer targets, usage hints, compile/link sequences) belong to the implementation.
 */
type RendererBackend interface {
	CreateBuffer(bufferType BufferType, data []byte) (BufferID, error)
	UploadBuffer(id BufferID, data []byte) error
	DeleteBuffer(id BufferID)

	CreateTexture(width, height uint32, pixels []uint8) (TextureID, error)
	DeleteTexture(id TextureID)

	CompileShader(stages []ShaderSource) (ShaderID, error)
	DeleteShader(id ShaderID)
}
