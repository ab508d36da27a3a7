package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type FontPage struct {
	ID int8
	// File is relative to the directory of the font descriptor.
	File string
}

/** @brief The glyph layout of a bitmap font. Page images are loaded separately as textures. */
type FontData struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     []FontGlyph
	Kernings   []FontKerning
	Pages      []FontPage
}

// PagePath returns the path of a page image next to the descriptor at fontPath.
func (fd *FontData) PagePath(fontPath string, page FontPage) string {
	return filepath.Join(filepath.Dir(fontPath), page.File)
}

// LoadBitmapFont reads an AngelCode .fnt descriptor.
func LoadBitmapFont(path string) (*FontData, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("font: %s: %w", path, core.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("font: stat %s: %w", path, err)
	}

	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("font: load %s: %v: %w", path, err, core.ErrMalformedAsset)
	}

	desc := font.Descriptor
	out := &FontData{
		Face:       desc.Info.Face,
		Size:       uint32(desc.Info.Size),
		LineHeight: int32(desc.Common.LineHeight),
		Baseline:   int32(desc.Common.Base),
		AtlasSizeX: int32(desc.Common.ScaleW),
		AtlasSizeY: int32(desc.Common.ScaleH),
		Glyphs:     make([]FontGlyph, 0, len(desc.Chars)),
		Kernings:   make([]FontKerning, 0, len(desc.Kerning)),
		Pages:      make([]FontPage, 0, len(desc.Pages)),
	}

	for _, p := range desc.Pages {
		out.Pages = append(out.Pages, FontPage{ID: int8(p.ID), File: p.File})
	}
	for _, g := range desc.Chars {
		out.Glyphs = append(out.Glyphs, FontGlyph{
			Codepoint: rune(g.ID),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		})
	}
	for p, k := range desc.Kerning {
		out.Kernings = append(out.Kernings, FontKerning{
			Codepoint0: rune(p.First),
			Codepoint1: rune(p.Second),
			Amount:     int16(k.Amount),
		})
	}

	// The descriptor keeps chars and kernings in maps; order them for stable output.
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].ID < out.Pages[j].ID })
	sort.Slice(out.Glyphs, func(i, j int) bool { return out.Glyphs[i].Codepoint < out.Glyphs[j].Codepoint })
	sort.Slice(out.Kernings, func(i, j int) bool {
		if out.Kernings[i].Codepoint0 != out.Kernings[j].Codepoint0 {
			return out.Kernings[i].Codepoint0 < out.Kernings[j].Codepoint0
		}
		return out.Kernings[i].Codepoint1 < out.Kernings[j].Codepoint1
	})
	return out, nil
}
