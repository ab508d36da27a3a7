package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

/** @brief Logging configuration. */
type LogConfig struct {
	/** @brief One of debug, info, warn, error. */
	Level        string `toml:"level"`
	Prefix       string `toml:"prefix"`
	ReportCaller bool   `toml:"report_caller"`
}

/** @brief Where assets live and whether changes on disk are picked up. */
type AssetsConfig struct {
	/** @brief The relative base path for assets. */
	BasePath string `toml:"base_path"`
	/** @brief Reload resources whose files change on disk. */
	Watch bool `toml:"watch"`
}

/** @brief Resource manager policy. */
type ResourcesConfig struct {
	/** @brief Load unloaded resources on first request. When false only forced requests load. */
	LoadOnDemand bool `toml:"load_on_demand"`
	/** @brief Initial capacity of the pending work queue. */
	PendingCapacity int `toml:"pending_capacity"`
	/** @brief Meshes registered at startup, relative to the asset base path. */
	Meshes []string `toml:"meshes,omitempty"`
	/** @brief Textures registered at startup. */
	Textures []string `toml:"textures,omitempty"`
	/** @brief Shader programs registered at startup, each a vertex and a fragment file. */
	Shaders [][2]string `toml:"shaders,omitempty"`
	/** @brief Bitmap fonts registered at startup. */
	Fonts []string `toml:"fonts,omitempty"`
}

/** @brief Mesh import settings. */
type MeshConfig struct {
	/** @brief Weld vertices while importing. */
	Optimize bool `toml:"optimize"`
	/** @brief Maximum distance between two positions considered equal. */
	WeldTolerance float32 `toml:"weld_tolerance"`
	/** @brief Maximum distance between two texture coordinates considered equal. */
	UVTolerance float32 `toml:"uv_tolerance"`
	/** @brief Normals diverging by this many degrees or more keep their vertices apart. */
	MaxNormalAngle float32 `toml:"max_normal_angle"`
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Assets    AssetsConfig    `toml:"assets"`
	Resources ResourcesConfig `toml:"resources"`
	Mesh      MeshConfig      `toml:"mesh"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:        "debug",
			Prefix:       "Engine 🏎️ ",
			ReportCaller: true,
		},
		Assets: AssetsConfig{
			BasePath: "assets",
			Watch:    false,
		},
		Resources: ResourcesConfig{
			LoadOnDemand:    true,
			PendingCapacity: 64,
		},
		Mesh: MeshConfig{
			Optimize:       true,
			WeldTolerance:  0.001,
			UVTolerance:    0.001,
			MaxNormalAngle: 80,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file yields the defaults.
// A .env file next to it is loaded first and environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DBGL_ASSET_PATH"); ok {
		c.Assets.BasePath = v
	}
	if v, ok := os.LookupEnv("DBGL_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("DBGL_WATCH_ASSETS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid DBGL_WATCH_ASSETS value: %s", v)
		}
		c.Assets.Watch = b
	}
	if v, ok := os.LookupEnv("DBGL_LOAD_ON_DEMAND"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid DBGL_LOAD_ON_DEMAND value: %s", v)
		}
		c.Resources.LoadOnDemand = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Mesh.WeldTolerance < 0 {
		return fmt.Errorf("config: mesh.weld_tolerance must be non-negative")
	}
	if c.Mesh.UVTolerance < 0 {
		return fmt.Errorf("config: mesh.uv_tolerance must be non-negative")
	}
	if c.Mesh.MaxNormalAngle <= 0 || c.Mesh.MaxNormalAngle > 180 {
		return fmt.Errorf("config: mesh.max_normal_angle must be in (0, 180]")
	}
	if c.Resources.PendingCapacity < 1 {
		c.Resources.PendingCapacity = 1
	}
	return nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
