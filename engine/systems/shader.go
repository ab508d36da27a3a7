package systems

import (
	"fmt"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets/loaders"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
)

type ShaderParams struct {
	/** @brief Vertex stage source relative to the asset base path. */
	Vertex string `toml:"vertex"`
	/** @brief Fragment stage source relative to the asset base path. */
	Fragment string `toml:"fragment"`
}

func (p ShaderParams) Hash() uint64 {
	return core.HashFields(p.Vertex, p.Fragment)
}

/**
 * @brief A compiled shader program. There is no fallback: a failed load leaves
 * the resource unloaded and reports ErrShaderUnavailable.
 */
type ShaderResource struct {
	resourceBase[ShaderParams]
	shader renderer.ShaderHandle
}

type ShaderManager = ResourceManager[*ShaderResource, ShaderParams]

func NewShaderResource(ctx LoadContext) Constructor[*ShaderResource, ShaderParams] {
	return func(h ResourceHandle, p ShaderParams) *ShaderResource {
		return &ShaderResource{resourceBase: resourceBase[ShaderParams]{ctx: ctx, handle: h, params: p}}
	}
}

func (r *ShaderResource) Identify(p ShaderParams) bool {
	return r.params == p
}

func (r *ShaderResource) Load() error {
	if r.alreadyLoaded("shader") {
		return nil
	}

	id, err := r.compile()
	if err != nil {
		r.ctx.Logger.Errorf("failed to load shader '%s' + '%s': %s", r.params.Vertex, r.params.Fragment, err)
		return fmt.Errorf("shader '%s' + '%s': %v: %w", r.params.Vertex, r.params.Fragment, err, core.ErrShaderUnavailable)
	}

	r.shader = renderer.NewShaderHandle(id)
	r.loaded = true
	return nil
}

func (r *ShaderResource) compile() (renderer.ShaderID, error) {
	stages := []renderer.ShaderSource{
		{Stage: renderer.ShaderStageVertex, Name: r.params.Vertex},
		{Stage: renderer.ShaderStageFragment, Name: r.params.Fragment},
	}
	for i := range stages {
		src, err := loaders.LoadShaderSource(r.ctx.path(stages[i].Name))
		if err != nil {
			return 0, err
		}
		stages[i].Source = src
	}
	return r.ctx.Backend.CompileShader(stages)
}

func (r *ShaderResource) Unload() {
	if !r.loaded {
		return
	}
	if id, ok := r.shader.Get(); ok {
		r.ctx.Backend.DeleteShader(id)
	}
	r.shader = renderer.ShaderHandle{}
	r.loaded = false
}

func (r *ShaderResource) DependsOn(path string) bool {
	return samePath(r.params.Vertex, path) || samePath(r.params.Fragment, path)
}

// Shader returns the program; it is empty unless the resource is loaded.
func (r *ShaderResource) Shader() renderer.ShaderHandle {
	return r.shader
}
