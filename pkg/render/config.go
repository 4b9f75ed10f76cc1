package render

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid render config")
	// ErrInvalidSize is returned for a non-positive output resolution.
	ErrInvalidSize = errors.New("invalid output size")
)

// maxConfigSize caps the size of a config file.
const maxConfigSize = 1 << 20

// Config holds the camera and light constants of a render pass.
type Config struct {
	// CameraDistance is the distance c of the camera from the origin along
	// +z. Vertices are scaled by 1/(1 - z/c).
	CameraDistance float64 `yaml:"camera_distance"`

	// LightDirection is the unit direction light travels in.
	LightDirection math3d.Vec3 `yaml:"light_direction"`

	// DepthResolution is the depth range D the viewport maps z into.
	DepthResolution float64 `yaml:"depth_resolution"`

	// TextureRowFix drops the historical "-1" from the sampled texture
	// row. Off by default so output matches the reference renderer.
	TextureRowFix bool `yaml:"texture_row_fix"`

	// Workers > 1 fills horizontal bands of the framebuffer with at most
	// that many in flight. Output is identical to a sequential pass.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the classic setup: camera at z=3, light along -z,
// depth resolution 255, one worker.
func DefaultConfig() Config {
	return Config{
		CameraDistance:  3,
		LightDirection:  math3d.V3(0, 0, -1),
		DepthResolution: 255,
		Workers:         1,
	}
}

// Validate reports whether the config can drive a render pass.
func (c Config) Validate() error {
	switch {
	case !(c.CameraDistance > 0) || math.IsInf(c.CameraDistance, 0):
		return fmt.Errorf("%w: camera_distance must be > 0, got %v", ErrInvalidConfig, c.CameraDistance)
	case !(c.DepthResolution > 0) || math.IsInf(c.DepthResolution, 0):
		return fmt.Errorf("%w: depth_resolution must be > 0, got %v", ErrInvalidConfig, c.DepthResolution)
	case !c.LightDirection.IsFinite() || c.LightDirection.Len() == 0:
		return fmt.Errorf("%w: light_direction must be a non-zero vector", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// normalize makes the light a unit vector and maps zero workers to one.
func (c *Config) normalize() {
	if l := c.LightDirection.Len(); l != 0 && math.Abs(l-1) > 1e-12 {
		slogger().Warn("normalizing light direction", "length", l)
		c.LightDirection = c.LightDirection.Normalize()
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// fileConfig mirrors Config with optional fields so that a file only
// overrides the keys it sets.
type fileConfig struct {
	CameraDistance  *float64     `yaml:"camera_distance"`
	LightDirection  *math3d.Vec3 `yaml:"light_direction"`
	DepthResolution *float64     `yaml:"depth_resolution"`
	TextureRowFix   *bool        `yaml:"texture_row_fix"`
	Workers         *int         `yaml:"workers"`
}

// LoadConfig reads a YAML render config. Keys the file omits keep their
// DefaultConfig values. The light direction is normalized and the result
// validated.
func LoadConfig(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%w: %s is %d bytes", ErrInvalidConfig, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML render config from memory. See LoadConfig.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.CameraDistance != nil {
		cfg.CameraDistance = *fc.CameraDistance
	}
	if fc.LightDirection != nil {
		cfg.LightDirection = *fc.LightDirection
	}
	if fc.DepthResolution != nil {
		cfg.DepthResolution = *fc.DepthResolution
	}
	if fc.TextureRowFix != nil {
		cfg.TextureRowFix = *fc.TextureRowFix
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

// SaveConfig writes cfg as YAML, in the format LoadConfig reads.
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
