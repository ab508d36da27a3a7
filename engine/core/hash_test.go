package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFieldsOrderMatters(t *testing.T) {
	assert.Equal(t, HashFields("a", "b"), HashFields("a", "b"))
	assert.NotEqual(t, HashFields("a", "b"), HashFields("b", "a"))
	assert.NotEqual(t, HashFields("ab"), HashFields("a", "b"))
}
