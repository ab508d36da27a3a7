package systems

import (
	"path/filepath"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
)

/** @brief What every resource wrapper needs to load its files and talk to the GPU. */
type LoadContext struct {
	/** @brief Directory asset file names are relative to. */
	BasePath string
	Backend  renderer.RendererBackend
	Logger   core.Logger
}

func (c LoadContext) path(rel string) string {
	return filepath.Join(c.BasePath, filepath.FromSlash(rel))
}

// resourceBase carries the state shared by all resource wrappers.
type resourceBase[P Params] struct {
	ctx      LoadContext
	handle   ResourceHandle
	params   P
	loaded   bool
	degraded bool
}

func (r *resourceBase[P]) Handle() ResourceHandle {
	return r.handle
}

func (r *resourceBase[P]) Params() P {
	return r.params
}

func (r *resourceBase[P]) IsLoaded() bool {
	return r.loaded
}

func (r *resourceBase[P]) Degraded() bool {
	return r.degraded
}

// alreadyLoaded warns when a loaded resource is asked to load again.
func (r *resourceBase[P]) alreadyLoaded(kind string) bool {
	if r.loaded {
		r.ctx.Logger.Warnf("%s %s is already loaded", kind, r.handle)
	}
	return r.loaded
}

// samePath compares a stored asset name with a changed asset path, both relative to the base path.
func samePath(name, changed string) bool {
	return filepath.ToSlash(filepath.Clean(name)) == filepath.ToSlash(filepath.Clean(changed))
}
