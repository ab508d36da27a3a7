package loaders

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

// LoadShaderSource reads the source of a single shader stage.
func LoadShaderSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("shader: %s: %w", path, core.ErrAssetNotFound)
		}
		return "", fmt.Errorf("shader: read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("shader: %s is empty: %w", path, core.ErrMalformedAsset)
	}
	return string(data), nil
}
