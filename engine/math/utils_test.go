package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(5, -1, 1))
	assert.Equal(t, float32(-1), Clamp(float32(-3), -1, 1))
	assert.Equal(t, uint8(4), Clamp(uint8(4), 0, 9))
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, 90, AngleBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 2, 0}), 1e-4)
	assert.InDelta(t, 0, AngleBetween(mgl32.Vec3{1, 1, 0}, mgl32.Vec3{2, 2, 0}), 0.1)
	assert.InDelta(t, 180, AngleBetween(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, -1}), 1e-4)
	assert.Equal(t, float32(0), AngleBetween(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}))
}

func TestNormalized(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, Normalized(mgl32.Vec3{}))
	assert.InDelta(t, 1, Normalized(mgl32.Vec3{3, 4, 0}).Len(), 1e-6)
}
