package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/assets"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/config"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/resources/mesh"
)

/** @brief Owns one resource manager per asset kind and the optional asset watcher. */
type SystemManager struct {
	Meshes   *MeshManager
	Textures *TextureManager
	Shaders  *ShaderManager
	Fonts    *FontManager

	config  *config.Config
	logger  core.Logger
	watcher *assets.Watcher
	// identifies the manifest this state was restored from or last saved to
	manifestID uuid.UUID
}

func NewSystemManager(cfg *config.Config, backend renderer.RendererBackend, logger core.Logger) (*SystemManager, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if backend == nil {
		return nil, errors.New("func NewSystemManager - a renderer backend is required")
	}

	ctx := LoadContext{BasePath: cfg.Assets.BasePath, Backend: backend, Logger: logger}
	managerConfig := func(name string) ResourceManagerConfig {
		return ResourceManagerConfig{
			Name:            name,
			LoadOnDemand:    cfg.Resources.LoadOnDemand,
			PendingCapacity: cfg.Resources.PendingCapacity,
		}
	}
	weld := mesh.WeldOptions{
		PositionTolerance: cfg.Mesh.WeldTolerance,
		UVTolerance:       cfg.Mesh.UVTolerance,
		MaxNormalAngle:    cfg.Mesh.MaxNormalAngle,
	}

	sm := &SystemManager{config: cfg, logger: logger}
	sm.Textures = NewResourceManager(managerConfig("texture"), NewTextureResource(ctx), logger)
	sm.Meshes = NewResourceManager(managerConfig("mesh"), NewMeshResource(ctx, weld), logger)
	sm.Shaders = NewResourceManager(managerConfig("shader"), NewShaderResource(ctx), logger)
	sm.Fonts = NewResourceManager(managerConfig("font"), NewFontResource(ctx, sm.Textures), logger)

	if cfg.Assets.Watch {
		w, err := assets.NewWatcher(cfg.Assets.BasePath, sm.OnAssetChanged, logger)
		if err != nil {
			return nil, fmt.Errorf("func NewSystemManager - %w", err)
		}
		sm.watcher = w
		logger.Infof("Watching '%s' for asset changes.", cfg.Assets.BasePath)
	}

	logger.Infof("Resource systems initialized with base path '%s'.", cfg.Assets.BasePath)
	return sm, nil
}

// RegisterConfigured adds every asset listed in the resources section of the configuration.
// The managers keep the resources, no handles are held on to.
func (sm *SystemManager) RegisterConfigured() error {
	res := sm.config.Resources
	for _, f := range res.Meshes {
		h, err := sm.Meshes.Add(MeshParams{Filename: f, Optimize: sm.config.Mesh.Optimize})
		if err != nil {
			return err
		}
		h.Release()
	}
	for _, f := range res.Textures {
		h, err := sm.Textures.Add(TextureParams{Filename: f})
		if err != nil {
			return err
		}
		h.Release()
	}
	for _, s := range res.Shaders {
		h, err := sm.Shaders.Add(ShaderParams{Vertex: s[0], Fragment: s[1]})
		if err != nil {
			return err
		}
		h.Release()
	}
	for _, f := range res.Fonts {
		h, err := sm.Fonts.Add(FontParams{Filename: f})
		if err != nil {
			return err
		}
		h.Release()
	}
	return nil
}

// OnAssetChanged marks every resource using the changed file pending. Safe to call from any goroutine.
func (sm *SystemManager) OnAssetChanged(rel string, kind assets.AssetKind) {
	n := 0
	switch kind {
	case assets.AssetKindMesh:
		n = sm.Meshes.MarkChanged(rel)
	case assets.AssetKindTexture:
		n = sm.Textures.MarkChanged(rel)
	case assets.AssetKindShader:
		n = sm.Shaders.MarkChanged(rel)
	case assets.AssetKindFont:
		n = sm.Fonts.MarkChanged(rel)
	}
	if n > 0 {
		sm.logger.Infof("Asset '%s' changed, reloading %d %s resource(s) on next update.", rel, n, kind)
	}
}

// Update processes pending work of every manager and returns how many resources were processed.
// Textures go first so fonts find their pages loaded.
func (sm *SystemManager) Update() int {
	return sm.Textures.ProcessPending() +
		sm.Meshes.ProcessPending() +
		sm.Shaders.ProcessPending() +
		sm.Fonts.ProcessPending()
}

func (sm *SystemManager) Metrics() map[string]core.MetricsSnapshot {
	return map[string]core.MetricsSnapshot{
		sm.Meshes.Name():   sm.Meshes.Metrics(),
		sm.Textures.Name(): sm.Textures.Metrics(),
		sm.Shaders.Name():  sm.Shaders.Metrics(),
		sm.Fonts.Name():    sm.Fonts.Metrics(),
	}
}

// ManifestID returns the id of the manifest last loaded or saved, or uuid.Nil.
func (sm *SystemManager) ManifestID() uuid.UUID {
	return sm.manifestID
}

func (sm *SystemManager) Shutdown() error {
	var err error
	if sm.watcher != nil {
		err = sm.watcher.Close()
		sm.watcher = nil
	}
	sm.Fonts.Shutdown()
	sm.Shaders.Shutdown()
	sm.Meshes.Shutdown()
	sm.Textures.Shutdown()
	sm.logger.Infof("Resource systems shut down.")
	return err
}
