package systems

import (
	"fmt"
	"strconv"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets/loaders"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/resources/mesh"
)

type MeshParams struct {
	/** @brief OBJ file relative to the asset base path. */
	Filename string `toml:"filename"`
	/** @brief Weld vertices while importing. */
	Optimize bool `toml:"optimize"`
}

func (p MeshParams) Hash() uint64 {
	return core.HashFields(p.Filename, strconv.FormatBool(p.Optimize))
}

/**
 * @brief A mesh loaded from an OBJ file. When the file cannot be used the
 * builtin cube takes its place so there is still something to draw.
 */
type MeshResource struct {
	resourceBase[MeshParams]
	weld mesh.WeldOptions
	mesh *mesh.Mesh
}

type MeshManager = ResourceManager[*MeshResource, MeshParams]

func NewMeshResource(ctx LoadContext, weld mesh.WeldOptions) Constructor[*MeshResource, MeshParams] {
	return func(h ResourceHandle, p MeshParams) *MeshResource {
		return &MeshResource{
			resourceBase: resourceBase[MeshParams]{ctx: ctx, handle: h, params: p},
			weld:         weld,
		}
	}
}

func (r *MeshResource) Identify(p MeshParams) bool {
	return r.params == p
}

func (r *MeshResource) Load() error {
	if r.alreadyLoaded("mesh") {
		return nil
	}

	m, err := r.importFile()
	degraded := false
	if err != nil {
		r.ctx.Logger.Errorf("failed to load mesh '%s', using the default cube: %s", r.params.Filename, err)
		m = mesh.MakeCube()
		degraded = true
	}

	if err := m.UpdateBuffers(r.ctx.Backend); err != nil {
		m.Release(r.ctx.Backend)
		return fmt.Errorf("mesh '%s': %w", r.params.Filename, err)
	}

	r.mesh = m
	r.loaded = true
	r.degraded = degraded
	return nil
}

func (r *MeshResource) importFile() (*mesh.Mesh, error) {
	obj, err := loaders.LoadOBJ(r.ctx.path(r.params.Filename), r.ctx.Logger)
	if err != nil {
		return nil, err
	}
	return mesh.Import(obj, mesh.ImportOptions{Optimize: r.params.Optimize, Weld: r.weld}, r.ctx.Logger)
}

func (r *MeshResource) Unload() {
	if !r.loaded {
		return
	}
	r.mesh.Release(r.ctx.Backend)
	r.mesh = nil
	r.loaded = false
	r.degraded = false
}

func (r *MeshResource) DependsOn(path string) bool {
	return samePath(r.params.Filename, path)
}

// Mesh returns the loaded geometry, or nil while unloaded.
func (r *MeshResource) Mesh() *mesh.Mesh {
	return r.mesh
}
