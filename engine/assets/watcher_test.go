package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

type change struct {
	rel  string
	kind AssetKind
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, AssetKindMesh, KindOf("models/cube.OBJ"))
	assert.Equal(t, AssetKindTexture, KindOf("textures/wall.tga"))
	assert.Equal(t, AssetKindShader, KindOf("shaders/basic.frag"))
	assert.Equal(t, AssetKindFont, KindOf("fonts/sans.fnt"))
	assert.Equal(t, AssetKindNone, KindOf("README"))
	assert.Equal(t, "texture", AssetKindTexture.String())
}

func TestWatcherReportsRelativePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0o755))

	changes := make(chan change, 16)
	w, err := NewWatcher(root, func(rel string, kind AssetKind) {
		changes <- change{rel, kind}
	}, core.NopLogger)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "cube.obj"), []byte("v 0 0 0\n"), 0o644))

	select {
	case c := <-changes:
		assert.Equal(t, change{"models/cube.obj", AssetKindMesh}, c)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	changes := make(chan change, 16)
	w, err := NewWatcher(root, func(rel string, kind AssetKind) {
		changes <- change{rel, kind}
	}, core.NopLogger)
	require.NoError(t, err)
	defer w.Close()

	dir := filepath.Join(root, "textures")
	require.NoError(t, os.Mkdir(dir, 0o755))

	// The new directory is only watched once its create event was handled.
	path := filepath.Join(dir, "wall.png")
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		select {
		case c := <-changes:
			assert.Equal(t, change{"textures/wall.png", AssetKindTexture}, c)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), func(string, AssetKind) {}, core.NopLogger)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())
}
