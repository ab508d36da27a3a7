package systems

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core/logtest"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/resources/mesh"
)

const quadOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
`

const fontFNT = `info face="Test" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=36 base=29 scaleW=4 scaleH=2 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="test_0.png"
chars count=2
char id=65   x=0     y=0     width=1     height=1     xoffset=0     yoffset=0     xadvance=10    page=0  chnl=15
char id=66   x=1     y=0     width=1     height=1     xoffset=0     yoffset=0     xadvance=11    page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`

func writeAsset(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, dir, rel string, w, h int) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))))
}

type fixture struct {
	dir      string
	backend  *renderer.Headless
	log      *logtest.Recorder
	ctx      LoadContext
	meshes   *MeshManager
	textures *TextureManager
	shaders  *ShaderManager
	fonts    *FontManager
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{dir: t.TempDir(), backend: renderer.NewHeadless(), log: &logtest.Recorder{}}
	f.ctx = LoadContext{BasePath: f.dir, Backend: f.backend, Logger: f.log}
	cfg := func(name string) ResourceManagerConfig {
		return ResourceManagerConfig{Name: name, LoadOnDemand: true, PendingCapacity: 4}
	}
	f.meshes = NewResourceManager(cfg("mesh"), NewMeshResource(f.ctx, mesh.DefaultWeldOptions()), f.log)
	f.textures = NewResourceManager(cfg("texture"), NewTextureResource(f.ctx), f.log)
	f.shaders = NewResourceManager(cfg("shader"), NewShaderResource(f.ctx), f.log)
	f.fonts = NewResourceManager(cfg("font"), NewFontResource(f.ctx, f.textures), f.log)
	return f
}

func TestMeshResourceLoadsOBJ(t *testing.T) {
	f := newFixture(t)
	writeAsset(t, f.dir, "models/quad.obj", quadOBJ)

	h, err := f.meshes.Add(MeshParams{Filename: "models/quad.obj", Optimize: true})
	require.NoError(t, err)
	res, err := f.meshes.Request(h, false)
	require.NoError(t, err)

	require.NotNil(t, res.Mesh())
	assert.Len(t, res.Mesh().Vertices, 4)
	assert.False(t, res.Degraded())
	assert.True(t, res.Mesh().Buffer(mesh.StreamVertices).Valid())
	assert.Positive(t, f.backend.BufferCount())

	require.NoError(t, f.meshes.Unload(h))
	assert.Nil(t, res.Mesh())
	assert.Equal(t, 0, f.backend.BufferCount())
}

func TestMeshResourceFallsBackToCube(t *testing.T) {
	f := newFixture(t)
	h, err := f.meshes.Add(MeshParams{Filename: "missing.obj"})
	require.NoError(t, err)

	res, err := f.meshes.Request(h, false)
	require.NoError(t, err)
	require.NotNil(t, res.Mesh())

	cube := mesh.MakeCube()
	assert.Len(t, res.Mesh().Vertices, len(cube.Vertices))
	assert.Len(t, res.Mesh().Indices, len(cube.Indices))
	assert.True(t, res.IsLoaded())
	assert.True(t, res.Degraded())
	assert.True(t, f.log.Contains("error", "missing.obj"))
	assert.Equal(t, uint64(1), f.meshes.Metrics().Fallbacks)

	// A forced request retries once the file exists.
	writeAsset(t, f.dir, "missing.obj", quadOBJ)
	res, err = f.meshes.Request(h, true)
	require.NoError(t, err)
	assert.False(t, res.Degraded())
	assert.Len(t, res.Mesh().Vertices, 6)
}

func TestMeshResourceMalformedFallsBack(t *testing.T) {
	f := newFixture(t)
	writeAsset(t, f.dir, "bad.obj", "v 1 2\n")
	h, err := f.meshes.Add(MeshParams{Filename: "bad.obj"})
	require.NoError(t, err)

	res, err := f.meshes.Request(h, false)
	require.NoError(t, err)
	assert.True(t, res.Degraded())
	assert.True(t, f.log.Contains("error", "bad.obj:1"))
}

func TestResourceLoadTwiceWarns(t *testing.T) {
	f := newFixture(t)
	h, err := f.meshes.Add(MeshParams{Filename: "missing.obj"})
	require.NoError(t, err)
	res, err := f.meshes.Request(h, false)
	require.NoError(t, err)
	buffers := f.backend.BufferCount()

	require.NoError(t, res.Load())
	assert.True(t, f.log.Contains("warn", "already loaded"))
	assert.Equal(t, buffers, f.backend.BufferCount())
}

func TestMeshParamsIdentity(t *testing.T) {
	f := newFixture(t)
	a, err := f.meshes.Add(MeshParams{Filename: "a.obj", Optimize: true})
	require.NoError(t, err)
	b, err := f.meshes.Add(MeshParams{Filename: "a.obj", Optimize: false})
	require.NoError(t, err)
	c, err := f.meshes.Add(MeshParams{Filename: "a.obj", Optimize: true})
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(c))
}

func TestTextureResource(t *testing.T) {
	f := newFixture(t)
	writePNG(t, f.dir, "textures/wall.png", 2, 3)

	h, err := f.textures.Add(TextureParams{Filename: "textures/wall.png"})
	require.NoError(t, err)
	res, err := f.textures.Request(h, false)
	require.NoError(t, err)

	w, hgt := res.Size()
	assert.Equal(t, uint32(2), w)
	assert.Equal(t, uint32(3), hgt)
	assert.False(t, res.Degraded())
	id, ok := res.Texture().Get()
	require.True(t, ok)
	_, _, live := f.backend.TextureSize(id)
	assert.True(t, live)

	require.NoError(t, f.textures.Unload(h))
	assert.False(t, res.Texture().Valid())
	assert.Equal(t, 0, f.backend.TextureCount())
}

func TestTextureResourceFallsBack(t *testing.T) {
	f := newFixture(t)
	h, err := f.textures.Add(TextureParams{Filename: "nope.png"})
	require.NoError(t, err)
	res, err := f.textures.Request(h, false)
	require.NoError(t, err)

	assert.True(t, res.Degraded())
	id, ok := res.Texture().Get()
	require.True(t, ok)
	w, hgt, _ := f.backend.TextureSize(id)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), hgt)
	assert.True(t, f.log.Contains("error", "nope.png"))
}

func TestShaderResource(t *testing.T) {
	f := newFixture(t)
	writeAsset(t, f.dir, "shaders/basic.vert", "void main() {}\n")
	writeAsset(t, f.dir, "shaders/basic.frag", "void main() {}\n")

	h, err := f.shaders.Add(ShaderParams{Vertex: "shaders/basic.vert", Fragment: "shaders/basic.frag"})
	require.NoError(t, err)
	res, err := f.shaders.Request(h, false)
	require.NoError(t, err)
	assert.True(t, res.Shader().Valid())
	assert.Equal(t, 1, f.backend.ShaderCount())
	assert.True(t, res.DependsOn("shaders/basic.frag"))

	require.NoError(t, f.shaders.Unload(h))
	assert.False(t, res.Shader().Valid())
	assert.Equal(t, 0, f.backend.ShaderCount())
}

func TestShaderResourceFailsHard(t *testing.T) {
	f := newFixture(t)
	writeAsset(t, f.dir, "basic.vert", "void main() {}\n")

	h, err := f.shaders.Add(ShaderParams{Vertex: "basic.vert", Fragment: "missing.frag"})
	require.NoError(t, err)
	res, err := f.shaders.Request(h, false)
	assert.ErrorIs(t, err, core.ErrShaderUnavailable)
	assert.Nil(t, res)
	assert.True(t, f.log.Contains("error", "missing.frag"))
	assert.Equal(t, 0, f.backend.ShaderCount())

	// Compile errors fail the same way.
	writeAsset(t, f.dir, "missing.frag", "void main() {}\n")
	f.backend.FailShaders(true)
	_, err = f.shaders.Request(h, false)
	assert.ErrorIs(t, err, core.ErrShaderUnavailable)

	f.backend.FailShaders(false)
	res, err = f.shaders.Request(h, false)
	require.NoError(t, err)
	assert.True(t, res.Shader().Valid())
}

func TestFontResource(t *testing.T) {
	f := newFixture(t)
	writeAsset(t, f.dir, "fonts/test.fnt", fontFNT)
	writePNG(t, f.dir, "fonts/test_0.png", 4, 2)

	h, err := f.fonts.Add(FontParams{Filename: "fonts/test.fnt"})
	require.NoError(t, err)
	res, err := f.fonts.Request(h, false)
	require.NoError(t, err)

	require.Len(t, res.Pages(), 1)
	page, err := f.textures.Request(res.Pages()[0], false)
	require.NoError(t, err)
	assert.True(t, page.IsLoaded())
	assert.False(t, page.Degraded())
	pageHandle := f.textures.Identify(TextureParams{Filename: "fonts/test_0.png"})
	assert.True(t, pageHandle.Equal(res.Pages()[0]))
	// the texture slot, the font and pageHandle
	assert.Equal(t, uint32(3), pageHandle.RefCount())

	g, ok := res.Glyph('B')
	require.True(t, ok)
	assert.Equal(t, int16(11), g.XAdvance)
	assert.Equal(t, int16(-1), res.Kerning('A', 'B'))

	w, hgt := res.MeasureText("AB")
	assert.Equal(t, float32(20), w)
	assert.Equal(t, float32(36), hgt)

	w, hgt = res.MeasureText("A\nB")
	assert.Equal(t, float32(11), w)
	assert.Equal(t, float32(72), hgt)

	// no tab or space glyph: four times the font size
	w, _ = res.MeasureText("\t")
	assert.Equal(t, float32(128), w)

	require.NoError(t, f.fonts.Unload(h))
	assert.Nil(t, res.Data())
	assert.True(t, page.IsLoaded(), "pages belong to the texture manager")
	assert.Equal(t, uint32(2), pageHandle.RefCount())
	assert.True(t, pageHandle.Valid())
}

func TestFontResourceFailsHard(t *testing.T) {
	f := newFixture(t)
	h, err := f.fonts.Add(FontParams{Filename: "fonts/none.fnt"})
	require.NoError(t, err)

	res, err := f.fonts.Request(h, false)
	assert.ErrorIs(t, err, core.ErrAssetNotFound)
	assert.Nil(t, res)
	assert.Equal(t, 0, f.textures.Len())
}
