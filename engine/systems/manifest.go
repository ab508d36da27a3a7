package systems

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

type ManifestEntry[P any] struct {
	ID     uint32 `toml:"id"`
	Params P      `toml:"params"`
}

/**
 * @brief A snapshot of every registered resource and its handle value, so handles
 * written to disk by the application resolve to the same resources after a restart.
 */
type Manifest struct {
	ID       string                         `toml:"id"`
	Saved    time.Time                      `toml:"saved"`
	Textures []ManifestEntry[TextureParams] `toml:"textures"`
	Meshes   []ManifestEntry[MeshParams]    `toml:"meshes"`
	Shaders  []ManifestEntry[ShaderParams]  `toml:"shaders"`
	Fonts    []ManifestEntry[FontParams]    `toml:"fonts"`
}

func entriesOf[T Resource[P], P Params](rm *ResourceManager[T, P]) []ManifestEntry[P] {
	resources := rm.Resources()
	out := make([]ManifestEntry[P], 0, len(resources))
	for _, r := range resources {
		out = append(out, ManifestEntry[P]{ID: r.Handle().Value(), Params: r.Params()})
	}
	return out
}

func restore[T Resource[P], P Params](rm *ResourceManager[T, P], entries []ManifestEntry[P]) error {
	for _, e := range entries {
		h, err := rm.AddWithID(uint64(e.ID), e.Params)
		if err != nil {
			return err
		}
		h.Release()
	}
	return nil
}

// Manifest captures the current registrations.
func (sm *SystemManager) Manifest() *Manifest {
	if sm.manifestID == uuid.Nil {
		sm.manifestID = uuid.New()
	}
	return &Manifest{
		ID:       sm.manifestID.String(),
		Saved:    time.Now().UTC().Truncate(time.Second),
		Textures: entriesOf(sm.Textures),
		Meshes:   entriesOf(sm.Meshes),
		Shaders:  entriesOf(sm.Shaders),
		Fonts:    entriesOf(sm.Fonts),
	}
}

func (sm *SystemManager) SaveManifest(path string) error {
	data, err := toml.Marshal(sm.Manifest())
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	sm.logger.Infof("Saved resource manifest %s to '%s'.", sm.manifestID, path)
	return nil
}

// LoadManifest registers every resource of the manifest at path under its recorded handle value.
// Nothing is loaded; restored resources are pending like freshly added ones.
func (sm *SystemManager) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return fmt.Errorf("manifest: %s has an invalid id '%s': %w", path, m.ID, err)
	}

	if err := restore(sm.Textures, m.Textures); err != nil {
		return fmt.Errorf("manifest: %s: %w", path, err)
	}
	if err := restore(sm.Meshes, m.Meshes); err != nil {
		return fmt.Errorf("manifest: %s: %w", path, err)
	}
	if err := restore(sm.Shaders, m.Shaders); err != nil {
		return fmt.Errorf("manifest: %s: %w", path, err)
	}
	if err := restore(sm.Fonts, m.Fonts); err != nil {
		return fmt.Errorf("manifest: %s: %w", path, err)
	}

	sm.manifestID = id
	sm.logger.Infof("Restored resource manifest %s from '%s'.", id, path)
	return nil
}
