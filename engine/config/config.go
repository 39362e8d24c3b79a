// Package config loads the demo and engine settings from a TOML file layered over built-in
// defaults, and converts each section into the builder options of the component it configures.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation and unknown-key error.
var ErrInvalid = errors.New("config: invalid")

// Present mode names accepted by [renderer] present_mode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the full settings file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Light    LightConfig    `toml:"light"`
	Input    InputConfig    `toml:"input"`
	Engine   EngineConfig   `toml:"engine"`
}

// WindowConfig is the [window] section.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// MinSize and MaxSize bound interactive resizing as [width, height].
	MinSize [2]int `toml:"min_size"`
	MaxSize [2]int `toml:"max_size"`
}

// RendererConfig is the [renderer] section.
type RendererConfig struct {
	PresentMode   string     `toml:"present_mode"`
	ClearColor    [4]float64 `toml:"clear_color"`
	ShadowMapSize uint32     `toml:"shadow_map_size"`
	ForceSoftware bool       `toml:"force_software"`
}

// CameraConfig is the [camera] section. Rotation is in radians.
type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	Rotation [3]float32 `toml:"rotation"`
	Fovy     float32    `toml:"fovy"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
}

// LightConfig is the [light] section. Bounds are left, right, bottom, top, near, far.
type LightConfig struct {
	Position [3]float32 `toml:"position"`
	Bounds   [6]float32 `toml:"bounds"`
}

// InputConfig is the [input] section.
type InputConfig struct {
	RotateDivisor float32 `toml:"rotate_divisor"`
	ZoomDivisor   float32 `toml:"zoom_divisor"`
}

// EngineConfig is the [engine] section. Zero workers selects runtime.NumCPU()-1.
type EngineConfig struct {
	Workers   int  `toml:"workers"`
	Profiling bool `toml:"profiling"`
}

// Default returns the built-in settings.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	b := light.DefaultBounds
	return Config{
		Window: WindowConfig{
			Title:   "oxy-shadow",
			Width:   1280,
			Height:  720,
			MinSize: [2]int{320, 200},
			MaxSize: [2]int{3840, 2160},
		},
		Renderer: RendererConfig{
			PresentMode:   PresentModeVSync,
			ClearColor:    [4]float64{0.5, 0.5, 0.5, 1},
			ShadowMapSize: light.ShadowMapResolution,
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 0, -7},
			Fovy:     camera.DefaultFovy,
			Near:     camera.DefaultNear,
			Far:      camera.DefaultFar,
		},
		Light: LightConfig{
			Position: [3]float32(light.DefaultPosition),
			Bounds:   [6]float32{b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far},
		},
		Input: InputConfig{
			RotateDivisor: camera.DefaultInputDivisor,
			ZoomDivisor:   camera.DefaultInputDivisor,
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the result.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged settings
//   - error: a read or parse error, or an error wrapping ErrInvalid
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Decode over an in-memory document.
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a TOML document over the defaults and validates the result. Keys that are
// absent keep their default value; unknown keys are rejected.
//
// Parameters:
//   - r: the TOML document
//
// Returns:
//   - Config: the merged settings
//   - error: a parse error, or an error wrapping ErrInvalid
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(strict.String()))
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting, each wrapping ErrInvalid.
//
// Returns:
//   - error: nil, or the joined validation errors
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	minSize, maxSize := c.Window.MinSize, c.Window.MaxSize
	if minSize[0] <= 0 || minSize[1] <= 0 || minSize[0] > maxSize[0] || minSize[1] > maxSize[1] {
		invalid("window.min_size %v must be positive and not exceed window.max_size %v", minSize, maxSize)
	} else if c.Window.Width < minSize[0] || c.Window.Width > maxSize[0] ||
		c.Window.Height < minSize[1] || c.Window.Height > maxSize[1] {
		invalid("window size %dx%d is outside the limits %v..%v", c.Window.Width, c.Window.Height, minSize, maxSize)
	}
	switch c.Renderer.PresentMode {
	case PresentModeVSync, PresentModeUncapped:
	default:
		invalid("renderer.present_mode %q is not %q or %q", c.Renderer.PresentMode, PresentModeVSync, PresentModeUncapped)
	}
	if c.Renderer.ShadowMapSize == 0 {
		invalid("renderer.shadow_map_size must be positive")
	}
	if c.Camera.Fovy <= 0 || c.Camera.Fovy >= math32.Pi {
		invalid("camera.fovy %v must be in (0, pi)", c.Camera.Fovy)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		invalid("camera near %v and far %v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	}
	b := c.Light.Bounds
	if b[0] >= b[1] || b[2] >= b[3] || b[4] >= b[5] {
		invalid("light.bounds %v must be increasing pairs", b)
	}
	if c.Input.RotateDivisor <= 0 || c.Input.ZoomDivisor <= 0 {
		invalid("input divisors must be positive")
	}
	if c.Engine.Workers < 0 {
		invalid("engine.workers %d must not be negative", c.Engine.Workers)
	}
	return errors.Join(errs...)
}
