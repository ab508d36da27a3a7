package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	// Decoders register themselves with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

// ImageData is a decoded image as tightly packed RGBA8 rows, top row first.
type ImageData struct {
	Width  uint32
	Height uint32
	Format string
	Pixels []uint8
}

// LoadImage decodes png, jpeg, gif, bmp, tiff, webp and tga files.
func LoadImage(path string) (*ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("image: %s: %w", path, core.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %v: %w", path, err, core.ErrMalformedAsset)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image: %s has no pixels: %w", path, core.ErrMalformedAsset)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return &ImageData{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Format: format,
		Pixels: rgba.Pix,
	}, nil
}
