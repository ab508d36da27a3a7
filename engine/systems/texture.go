package systems

import (
	"fmt"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets/loaders"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
)

// FallbackTexturePixels is the single magenta RGBA pixel used when a texture cannot be loaded.
var FallbackTexturePixels = []uint8{255, 0, 255, 255}

type TextureParams struct {
	/** @brief Image file relative to the asset base path. */
	Filename string `toml:"filename"`
}

func (p TextureParams) Hash() uint64 {
	return core.HashFields(p.Filename)
}

/**
 * @brief An RGBA texture. Unreadable images are replaced by a 1x1 magenta texture.
 */
type TextureResource struct {
	resourceBase[TextureParams]
	texture renderer.TextureHandle
	width   uint32
	height  uint32
}

type TextureManager = ResourceManager[*TextureResource, TextureParams]

func NewTextureResource(ctx LoadContext) Constructor[*TextureResource, TextureParams] {
	return func(h ResourceHandle, p TextureParams) *TextureResource {
		return &TextureResource{resourceBase: resourceBase[TextureParams]{ctx: ctx, handle: h, params: p}}
	}
}

func (r *TextureResource) Identify(p TextureParams) bool {
	return r.params == p
}

func (r *TextureResource) Load() error {
	if r.alreadyLoaded("texture") {
		return nil
	}

	width, height, pixels := uint32(1), uint32(1), FallbackTexturePixels
	degraded := true
	img, err := loaders.LoadImage(r.ctx.path(r.params.Filename))
	if err != nil {
		r.ctx.Logger.Errorf("failed to load texture '%s', using the fallback texture: %s", r.params.Filename, err)
	} else {
		width, height, pixels = img.Width, img.Height, img.Pixels
		degraded = false
	}

	id, err := r.ctx.Backend.CreateTexture(width, height, pixels)
	if err != nil {
		return fmt.Errorf("texture '%s': %w", r.params.Filename, err)
	}

	r.texture = renderer.NewTextureHandle(id)
	r.width, r.height = width, height
	r.loaded = true
	r.degraded = degraded
	return nil
}

func (r *TextureResource) Unload() {
	if !r.loaded {
		return
	}
	if id, ok := r.texture.Get(); ok {
		r.ctx.Backend.DeleteTexture(id)
	}
	r.texture = renderer.TextureHandle{}
	r.width, r.height = 0, 0
	r.loaded = false
	r.degraded = false
}

func (r *TextureResource) DependsOn(path string) bool {
	return samePath(r.params.Filename, path)
}

func (r *TextureResource) Texture() renderer.TextureHandle {
	return r.texture
}

func (r *TextureResource) Size() (uint32, uint32) {
	return r.width, r.height
}
