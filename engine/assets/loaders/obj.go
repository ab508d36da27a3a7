package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

// NoIndex marks a face attribute the file did not provide.
const NoIndex = -1

// ObjFaceVertex holds 0-based indices into the position, uv and normal lists of an ObjData.
type ObjFaceVertex struct {
	Position int
	UV       int
	Normal   int
}

// ObjData is the raw content of a Wavefront OBJ file. Faces are triangles.
type ObjData struct {
	Name      string
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Faces     [][3]ObjFaceVertex
}

// LoadOBJ reads and parses the OBJ file at path.
func LoadOBJ(path string, log core.Logger) (*ObjData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("obj: %s: %w", path, core.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("obj: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseOBJ(f, path, log)
}

// ParseOBJ parses OBJ text. name is only used in messages.
// Missing components are an error for the whole file; surplus components are dropped with a warning.
func ParseOBJ(r io.Reader, name string, log core.Logger) (*ObjData, error) {
	data := &ObjData{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		args := fields[1:]
		switch fields[0] {
		case "v":
			v, err := parseFloats(args, 3, name, lineNo, "vertex", log)
			if err != nil {
				return nil, err
			}
			data.Positions = append(data.Positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(args, 2, name, lineNo, "texture coordinate", log)
			if err != nil {
				return nil, err
			}
			data.UVs = append(data.UVs, mgl32.Vec2{v[0], v[1]})
		case "vn":
			v, err := parseFloats(args, 3, name, lineNo, "normal", log)
			if err != nil {
				return nil, err
			}
			data.Normals = append(data.Normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("obj: %s:%d: face needs 3 vertices, got %d: %w", name, lineNo, len(args), core.ErrMalformedAsset)
			}
			if len(args) > 3 {
				log.Warnf("obj: %s:%d: face has %d vertices, only triangles are supported. Dropping the rest.", name, lineNo, len(args))
				args = args[:3]
			}
			var face [3]ObjFaceVertex
			for i, tok := range args {
				fv, err := data.parseFaceVertex(tok, name, lineNo)
				if err != nil {
					return nil, err
				}
				face[i] = fv
			}
			data.Faces = append(data.Faces, face)
		default:
			// Groups, objects, smoothing groups and materials carry nothing the mesh needs.
			log.Debugf("obj: %s:%d: ignoring '%s' statement", name, lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: read %s: %w", name, err)
	}
	return data, nil
}

func parseFloats(args []string, want int, name string, lineNo int, what string, log core.Logger) ([]float32, error) {
	if len(args) < want {
		return nil, fmt.Errorf("obj: %s:%d: %s needs %d components, got %d: %w", name, lineNo, what, want, len(args), core.ErrMalformedAsset)
	}
	if len(args) > want {
		log.Warnf("obj: %s:%d: %s has %d components, only %d are used", name, lineNo, what, len(args), want)
		args = args[:want]
	}
	out := make([]float32, want)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("obj: %s:%d: invalid %s component '%s': %w", name, lineNo, what, a, core.ErrMalformedAsset)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex understands v, v/t, v//n and v/t/n with 1-based or negative relative indices.
func (d *ObjData) parseFaceVertex(tok, name string, lineNo int) (ObjFaceVertex, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return ObjFaceVertex{}, fmt.Errorf("obj: %s:%d: invalid face vertex '%s': %w", name, lineNo, tok, core.ErrMalformedAsset)
	}
	fv := ObjFaceVertex{Position: NoIndex, UV: NoIndex, Normal: NoIndex}

	var err error
	if fv.Position, err = resolveIndex(parts[0], len(d.Positions)); err != nil || fv.Position == NoIndex {
		return ObjFaceVertex{}, fmt.Errorf("obj: %s:%d: invalid position index in '%s': %w", name, lineNo, tok, core.ErrMalformedAsset)
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.UV, err = resolveIndex(parts[1], len(d.UVs)); err != nil {
			return ObjFaceVertex{}, fmt.Errorf("obj: %s:%d: invalid texture coordinate index in '%s': %w", name, lineNo, tok, core.ErrMalformedAsset)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.Normal, err = resolveIndex(parts[2], len(d.Normals)); err != nil {
			return ObjFaceVertex{}, fmt.Errorf("obj: %s:%d: invalid normal index in '%s': %w", name, lineNo, tok, core.ErrMalformedAsset)
		}
	}
	return fv, nil
}

func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return NoIndex, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return NoIndex, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return NoIndex, fmt.Errorf("index 0 is not valid")
	}
	if i < 0 || i >= count {
		return NoIndex, fmt.Errorf("index out of range")
	}
	return i, nil
}
