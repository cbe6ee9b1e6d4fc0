package ink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Pipeline defaults.
const (
	DefaultBezierResolution     = 60
	DefaultCapResolution        = 30
	DefaultMaxVerticesPerStroke = 200_000
	DefaultMinPointDistSq       = 9
	DefaultChunkSizePoints      = 70
	DefaultContinuityPoints     = 3
	DefaultFrameInterval        = 16 * time.Millisecond
	DefaultSampleCount          = 4
	DefaultStrokeWidth          = 4
)

// Duration is a time.Duration that reads and writes as text ("16ms"),
// so it round-trips through TOML and YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds the tunables of the capture, tessellation and render
// stages. The zero value is not usable; start from DefaultConfig.
//
// Example TOML:
//
//	tension = 0.3
//	bezier_resolution = 60
//	frame_interval = "16ms"
//	clear_color = "#FFFFFFFF"
//	tool = "highlighter"
type Config struct {
	// Tension scales curve-fit handles (see Fitter).
	Tension float32 `toml:"tension" yaml:"tension"`

	// BezierResolution is the number of samples per Bezier segment.
	BezierResolution int `toml:"bezier_resolution" yaml:"bezier_resolution"`

	// CapResolution is the triangle count of a cap or tap dot.
	CapResolution int `toml:"cap_resolution" yaml:"cap_resolution"`

	// MaxVerticesPerStroke is the upload ceiling per stroke.
	MaxVerticesPerStroke int `toml:"max_vertices_per_stroke" yaml:"max_vertices_per_stroke"`

	// MinPointDistSq drops move samples closer than this squared distance
	// to the last accepted sample.
	MinPointDistSq float32 `toml:"min_point_dist_sq" yaml:"min_point_dist_sq"`

	// ChunkSizePoints is the raw point count at which a stroke is split.
	ChunkSizePoints int `toml:"chunk_size_points" yaml:"chunk_size_points"`

	// ContinuityPoints is how many trailing points seed the next chunk.
	ContinuityPoints int `toml:"continuity_points" yaml:"continuity_points"`

	// FrameInterval is the minimum spacing of throttled render requests.
	FrameInterval Duration `toml:"frame_interval" yaml:"frame_interval"`

	// SampleCount is the MSAA sample count (1 or 4).
	SampleCount int `toml:"sample_count" yaml:"sample_count"`

	// ClearColor is the background color.
	ClearColor Color `toml:"clear_color" yaml:"clear_color"`

	// ShaderSPIRV compiles the stroke shader to SPIR-V with naga instead
	// of handing WGSL to the backend.
	ShaderSPIRV bool `toml:"shader_spirv" yaml:"shader_spirv"`

	// Default stroke properties for new gestures.
	Color Color   `toml:"color" yaml:"color"`
	Width float32 `toml:"width" yaml:"width"`
	Tool  Tool    `toml:"tool" yaml:"tool"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Tension:              DefaultTension,
		BezierResolution:     DefaultBezierResolution,
		CapResolution:        DefaultCapResolution,
		MaxVerticesPerStroke: DefaultMaxVerticesPerStroke,
		MinPointDistSq:       DefaultMinPointDistSq,
		ChunkSizePoints:      DefaultChunkSizePoints,
		ContinuityPoints:     DefaultContinuityPoints,
		FrameInterval:        Duration(DefaultFrameInterval),
		SampleCount:          DefaultSampleCount,
		ClearColor:           White,
		Color:                Black,
		Width:                DefaultStrokeWidth,
		Tool:                 ToolPen,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Tension < 0:
		return fmt.Errorf("%w: tension %v is negative", ErrInvalidConfig, c.Tension)
	case c.BezierResolution < 1:
		return fmt.Errorf("%w: bezier_resolution %d < 1", ErrInvalidConfig, c.BezierResolution)
	case c.CapResolution < 3:
		return fmt.Errorf("%w: cap_resolution %d < 3", ErrInvalidConfig, c.CapResolution)
	case c.MaxVerticesPerStroke < 3:
		return fmt.Errorf("%w: max_vertices_per_stroke %d < 3", ErrInvalidConfig, c.MaxVerticesPerStroke)
	case c.MinPointDistSq < 0:
		return fmt.Errorf("%w: min_point_dist_sq %v is negative", ErrInvalidConfig, c.MinPointDistSq)
	case c.ContinuityPoints < 2:
		return fmt.Errorf("%w: continuity_points %d < 2", ErrInvalidConfig, c.ContinuityPoints)
	case c.ChunkSizePoints <= c.ContinuityPoints:
		return fmt.Errorf("%w: chunk_size_points %d must exceed continuity_points %d",
			ErrInvalidConfig, c.ChunkSizePoints, c.ContinuityPoints)
	case c.FrameInterval < 0:
		return fmt.Errorf("%w: frame_interval is negative", ErrInvalidConfig)
	case c.SampleCount != 1 && c.SampleCount != 4:
		return fmt.Errorf("%w: sample_count %d (want 1 or 4)", ErrInvalidConfig, c.SampleCount)
	case c.Width <= 0:
		return fmt.Errorf("%w: width %v must be positive", ErrInvalidConfig, c.Width)
	}
	return nil
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig and validates the result. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = DecodeTOML(f, &cfg)
	case ".yaml", ".yml":
		err = DecodeYAML(f, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrConfigFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeTOML decodes TOML from r into cfg, leaving absent keys untouched.
func DecodeTOML(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// DecodeYAML decodes YAML from r into cfg, leaving absent keys untouched.
// An empty document is not an error.
func DecodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
