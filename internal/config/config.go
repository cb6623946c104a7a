package config

import (
	"fmt"
	"math"
	"strings"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/interact"
	"github.com/marben/escapetime/palette"
	"github.com/marben/escapetime/render"
)

// Config holds the complete application configuration
type Config struct {
	Render      RenderConfig      `yaml:"render" json:"render"`
	Julia       JuliaConfig       `yaml:"julia" json:"julia"`
	Interaction InteractionConfig `yaml:"interaction" json:"interaction"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// RenderConfig configures what is rendered and how
type RenderConfig struct {
	Width         int    `yaml:"width" json:"width"`                   // one of mandel.SurfaceWidths
	MaxIterations int    `yaml:"max_iterations" json:"max_iterations"` // one of mandel.IterationChoices
	Variant       string `yaml:"variant" json:"variant"`               // mandelbrot|burning-ship|julia
	Scheme        string `yaml:"scheme" json:"scheme"`                 // palette scheme name
	Workers       int    `yaml:"workers" json:"workers"`               // <= 1 renders sequentially
	TileSize      int    `yaml:"tile_size" json:"tile_size"`
}

// JuliaConfig holds the initial Julia seed
type JuliaConfig struct {
	SeedRe float64 `yaml:"seed_re" json:"seed_re"`
	SeedIm float64 `yaml:"seed_im" json:"seed_im"`
}

// InteractionConfig configures pointer handling on the primary surface
type InteractionConfig struct {
	ClickPolicy      string  `yaml:"click_policy" json:"click_policy"` // seed|zoom|ignore
	StaticZoomFactor float64 `yaml:"static_zoom_factor" json:"static_zoom_factor"`
}

// ServerConfig configures the websocket server
type ServerConfig struct {
	Port      int    `yaml:"port" json:"port"`
	StaticDir string `yaml:"static_dir" json:"static_dir"` // holds main.wasm and wasm_exec.js
}

// OutputConfig configures export and diagnostics
type OutputConfig struct {
	Filename string `yaml:"filename" json:"filename"` // empty means per-variant default
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:         mandel.DefaultWidth,
			MaxIterations: mandel.DefaultMaxIterations,
			Variant:       mandel.Mandelbrot.String(),
			Scheme:        palette.DefaultScheme.String(),
			Workers:       1,
			TileSize:      render.DefaultTileSize,
		},
		Julia: JuliaConfig{
			SeedRe: mandel.DefaultSeed.Re,
			SeedIm: mandel.DefaultSeed.Im,
		},
		Interaction: InteractionConfig{
			ClickPolicy:      interact.ClickPickSeed.String(),
			StaticZoomFactor: coords.StaticZoomFactor,
		},
		Server: ServerConfig{
			Port:      8080,
			StaticDir: "./static",
		},
		Output: OutputConfig{
			Filename: "",
			Verbose:  false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := c.Julia.Validate(); err != nil {
		return fmt.Errorf("julia config: %w", err)
	}
	if err := c.Interaction.Validate(); err != nil {
		return fmt.Errorf("interaction config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	return nil
}

// Validate validates render configuration
func (r *RenderConfig) Validate() error {
	if !mandel.IsSurfaceWidth(r.Width) {
		return fmt.Errorf("width %d not one of %v", r.Width, mandel.SurfaceWidths)
	}
	if !mandel.IsIterationChoice(r.MaxIterations) {
		return fmt.Errorf("max_iterations %d not one of %v", r.MaxIterations, mandel.IterationChoices)
	}
	if _, err := mandel.ParseVariant(r.Variant); err != nil {
		return err
	}
	if _, err := palette.Parse(r.Scheme); err != nil {
		return err
	}
	if r.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if r.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive")
	}
	return nil
}

// Validate validates the Julia seed
func (j *JuliaConfig) Validate() error {
	if !finite(j.SeedRe) || !finite(j.SeedIm) {
		return fmt.Errorf("seed must be finite")
	}
	return nil
}

// Validate validates interaction configuration
func (i *InteractionConfig) Validate() error {
	if _, err := interact.ParseClickPolicy(i.ClickPolicy); err != nil {
		return err
	}
	if !finite(i.StaticZoomFactor) || i.StaticZoomFactor <= 0 || i.StaticZoomFactor > 1 {
		return fmt.Errorf("static_zoom_factor must be in (0, 1]")
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	return nil
}

// Validate validates output configuration
func (o *OutputConfig) Validate() error {
	if strings.ContainsAny(o.Filename, "\x00") {
		return fmt.Errorf("invalid filename")
	}
	return nil
}

// Params assembles the primary-surface parameters. The configuration must
// have been validated.
func (c *Config) Params() mandel.Params {
	variant, _ := mandel.ParseVariant(c.Render.Variant)
	return mandel.Params{
		Variant:       variant,
		MaxIterations: c.Render.MaxIterations,
		Seed:          mandel.Point{Re: c.Julia.SeedRe, Im: c.Julia.SeedIm},
	}
}

// Scheme returns the configured palette scheme.
func (c *Config) Scheme() palette.Scheme {
	s, _ := palette.Parse(c.Render.Scheme)
	return s
}

// ClickPolicy returns the configured primary-surface click policy.
func (c *Config) ClickPolicy() interact.ClickPolicy {
	p, _ := interact.ParseClickPolicy(c.Interaction.ClickPolicy)
	return p
}

// Renderer builds the renderer described by the render section.
func (c *Config) Renderer() render.Renderer {
	return render.Renderer{Workers: c.Render.Workers, TileSize: c.Render.TileSize}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
