package systems

import (
	"fmt"
	"path"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets/loaders"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

type FontParams struct {
	/** @brief AngelCode .fnt descriptor relative to the asset base path. */
	Filename string `toml:"filename"`
}

func (p FontParams) Hash() uint64 {
	return core.HashFields(p.Filename)
}

type fontKerningKey struct {
	first, second rune
}

/**
 * @brief A bitmap font. Its page images are textures owned by the texture manager;
 * the font holds one reference to each page while loaded.
 * Fonts have no fallback, a failed load leaves the resource unloaded.
 */
type FontResource struct {
	resourceBase[FontParams]
	textures *TextureManager

	data        *loaders.FontData
	pages       []ResourceHandle
	glyphs      map[rune]int
	kernings    map[fontKerningKey]int16
	tabXAdvance float32
}

type FontManager = ResourceManager[*FontResource, FontParams]

func NewFontResource(ctx LoadContext, textures *TextureManager) Constructor[*FontResource, FontParams] {
	return func(h ResourceHandle, p FontParams) *FontResource {
		return &FontResource{
			resourceBase: resourceBase[FontParams]{ctx: ctx, handle: h, params: p},
			textures:     textures,
		}
	}
}

func (r *FontResource) Identify(p FontParams) bool {
	return r.params == p
}

func (r *FontResource) Load() error {
	if r.alreadyLoaded("font") {
		return nil
	}

	data, err := loaders.LoadBitmapFont(r.ctx.path(r.params.Filename))
	if err != nil {
		r.ctx.Logger.Errorf("failed to load font '%s': %s", r.params.Filename, err)
		return fmt.Errorf("font '%s': %w", r.params.Filename, err)
	}

	pages := make([]ResourceHandle, 0, len(data.Pages))
	for _, p := range data.Pages {
		name := path.Join(path.Dir(r.params.Filename), p.File)
		h, err := r.textures.Add(TextureParams{Filename: name})
		if err != nil {
			releaseAll(pages)
			return fmt.Errorf("font '%s': page %d: %w", r.params.Filename, p.ID, err)
		}
		pages = append(pages, h)
		if _, err := r.textures.Request(h, true); err != nil {
			releaseAll(pages)
			return fmt.Errorf("font '%s': page %d: %w", r.params.Filename, p.ID, err)
		}
	}

	r.data = data
	r.pages = pages
	r.glyphs = make(map[rune]int, len(data.Glyphs))
	for i, g := range data.Glyphs {
		r.glyphs[g.Codepoint] = i
	}
	r.kernings = make(map[fontKerningKey]int16, len(data.Kernings))
	for _, k := range data.Kernings {
		r.kernings[fontKerningKey{k.Codepoint0, k.Codepoint1}] = k.Amount
	}
	r.tabXAdvance = r.computeTabAdvance()
	r.loaded = true
	return nil
}

// computeTabAdvance uses the tab glyph when the font has one, otherwise four spaces.
func (r *FontResource) computeTabAdvance() float32 {
	if g, ok := r.Glyph('\t'); ok {
		return float32(g.XAdvance)
	}
	if g, ok := r.Glyph(' '); ok {
		return float32(g.XAdvance) * 4
	}
	// If a space isn't there either, just hardcode something.
	return float32(r.data.Size * 4)
}

func (r *FontResource) Unload() {
	if !r.loaded {
		return
	}
	// The textures stay with the texture manager, only the font's references go.
	releaseAll(r.pages)
	r.data = nil
	r.pages = nil
	r.glyphs = nil
	r.kernings = nil
	r.loaded = false
}

func releaseAll(handles []ResourceHandle) {
	for _, h := range handles {
		h.Release()
	}
}

func (r *FontResource) DependsOn(path string) bool {
	return samePath(r.params.Filename, path)
}

// Data returns the glyph layout, or nil while unloaded.
func (r *FontResource) Data() *loaders.FontData {
	return r.data
}

// Pages returns the texture handles of the page images in page order.
func (r *FontResource) Pages() []ResourceHandle {
	return r.pages
}

func (r *FontResource) Glyph(c rune) (loaders.FontGlyph, bool) {
	i, ok := r.glyphs[c]
	if !ok {
		return loaders.FontGlyph{}, false
	}
	return r.data.Glyphs[i], true
}

func (r *FontResource) Kerning(first, second rune) int16 {
	return r.kernings[fontKerningKey{first, second}]
}

// MeasureText returns the width of the widest line and the total height of text in pixels.
// Codepoints without a glyph fall back to the glyph for -1 and are skipped if there is none.
func (r *FontResource) MeasureText(text string) (float32, float32) {
	if !r.loaded {
		return 0, 0
	}
	lineHeight := float32(r.data.LineHeight)
	x, width, height := float32(0), float32(0), lineHeight

	runes := []rune(text)
	for i, c := range runes {
		switch c {
		case '\n':
			x = 0
			height += lineHeight
			continue
		case '\t':
			x += r.tabXAdvance
		default:
			g, ok := r.Glyph(c)
			if !ok {
				if g, ok = r.Glyph(-1); !ok {
					r.ctx.Logger.Debugf("font '%s' has no glyph for %q", r.params.Filename, c)
					continue
				}
			}
			x += float32(g.XAdvance)
			if i+1 < len(runes) {
				x += float32(r.Kerning(c, runes[i+1]))
			}
		}
		if x > width {
			width = x
		}
	}
	return width, height
}
