package assets

import (
	"path/filepath"
	"strings"
)

type AssetKind int

const (
	AssetKindNone AssetKind = iota
	AssetKindMesh
	AssetKindTexture
	AssetKindShader
	AssetKindFont
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindMesh:
		return "mesh"
	case AssetKindTexture:
		return "texture"
	case AssetKindShader:
		return "shader"
	case AssetKindFont:
		return "font"
	default:
		return "none"
	}
}

// KindOf classifies a file by its extension.
func KindOf(path string) AssetKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return AssetKindMesh
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".tga":
		return AssetKindTexture
	case ".vert", ".frag", ".glsl", ".vs", ".fs":
		return AssetKindShader
	case ".fnt":
		return AssetKindFont
	default:
		return AssetKindNone
	}
}
