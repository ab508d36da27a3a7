package renderer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EncodeVec3s packs vectors as tightly laid out little-endian float32 triples.
func EncodeVec3s(v []mgl32.Vec3) []byte {
	out := make([]byte, len(v)*12)
	for i, e := range v {
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(out[i*12+c*4:], math.Float32bits(e[c]))
		}
	}
	return out
}

// EncodeVec2s packs vectors as tightly laid out little-endian float32 pairs.
func EncodeVec2s(v []mgl32.Vec2) []byte {
	out := make([]byte, len(v)*8)
	for i, e := range v {
		binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(e[0]))
		binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(e[1]))
	}
	return out
}

func EncodeUint32s(v []uint32) []byte {
	out := make([]byte, len(v)*4)
	for i, e := range v {
		binary.LittleEndian.PutUint32(out[i*4:], e)
	}
	return out
}
