// Package config provides configuration loading and access for the background.
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml profiles/*.yaml
var embedded embed.FS

// DefaultProfile is the density profile baked into defaults.yaml.
const DefaultProfile = "dense"

// Bounds every spawn range must stay inside.
const (
	MinBaseOpacity = 0.2
	MaxBaseOpacity = 1.0
	MinBaseSize    = 0.5
	MaxBaseSize    = 4.0
)

// Boundary policies.
const (
	BoundaryWrap   = "wrap"
	BoundaryBounce = "bounce"
)

// Config holds all configuration parameters.
type Config struct {
	Profile   string          `yaml:"profile"`
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex color behind the field
}

// FieldConfig holds everything the particle field needs.
type FieldConfig struct {
	Color       string           `yaml:"color"` // hex accent color
	Grid        GridConfig       `yaml:"grid"`
	Scattered   ScatterConfig    `yaml:"scattered"`
	Clusters    ClusterConfig    `yaml:"clusters"`
	Edges       EdgeConfig       `yaml:"edges"`
	Animation   AnimationConfig  `yaml:"animation"`
	GridLines   GridLinesConfig  `yaml:"grid_lines"`
	Glow        []GlowLayer      `yaml:"glow"`
	Connections ConnectionConfig `yaml:"connections"`

	// Derived values computed after loading
	Derived FieldDerived `yaml:"-"`
}

// FieldDerived holds values computed from FieldConfig.
type FieldDerived struct {
	RGB [3]uint8
}

// SpawnConfig holds attribute ranges for one recipe subset.
type SpawnConfig struct {
	Opacity    Range   `yaml:"opacity"`
	Size       Range   `yaml:"size"`
	Drift      float64 `yaml:"drift"` // velocity components drawn from [-drift, drift]
	PulseSpeed Range   `yaml:"pulse_speed"`
}

// GridConfig places one particle per grid intersection.
type GridConfig struct {
	Step   float64     `yaml:"step"`
	Margin int         `yaml:"margin"` // extra cells beyond each surface edge
	Spawn  SpawnConfig `yaml:"spawn"`
}

// ScatterConfig places uniformly random particles.
type ScatterConfig struct {
	Count int         `yaml:"count"`
	Spawn SpawnConfig `yaml:"spawn"`
}

// ClusterConfig places particles around random centers.
type ClusterConfig struct {
	Count  int         `yaml:"count"`
	Size   int         `yaml:"size"` // particles per cluster
	Radius float64     `yaml:"radius"`
	Spawn  SpawnConfig `yaml:"spawn"`
}

// EdgeConfig places particles inside a band along each edge.
type EdgeConfig struct {
	Count int         `yaml:"count"`
	Band  float64     `yaml:"band"`
	Spawn SpawnConfig `yaml:"spawn"`
}

// AnimationConfig holds per-tick motion and pulse parameters.
type AnimationConfig struct {
	TimeStep      float64 `yaml:"time_step"`
	PulseOpacity  float64 `yaml:"pulse_opacity"`
	PulseSize     float64 `yaml:"pulse_size"`
	MinOpacity    float64 `yaml:"min_opacity"`
	MinSize       float64 `yaml:"min_size"`
	Boundary      string  `yaml:"boundary"`
	WrapMargin    float64 `yaml:"wrap_margin"`
	BounceDamping float64 `yaml:"bounce_damping"`
}

// GridLinesConfig holds the shimmering background grid parameters.
type GridLinesConfig struct {
	Step        float64 `yaml:"step"`
	BaseOpacity float64 `yaml:"base_opacity"`
	Amplitude   float64 `yaml:"amplitude"`
	Frequency   float64 `yaml:"frequency"`
	Width       float64 `yaml:"width"`
}

// GlowLayer is a faint concentric circle drawn beneath every Every-th particle.
type GlowLayer struct {
	Every       int     `yaml:"every"`
	RadiusScale float64 `yaml:"radius_scale"`
	AlphaScale  float64 `yaml:"alpha_scale"`
	AlphaFloor  float64 `yaml:"alpha_floor"`
}

// ConnectionConfig holds proximity line parameters.
type ConnectionConfig struct {
	Threshold  float64 `yaml:"threshold"`
	MaxOpacity float64 `yaml:"max_opacity"`
	Window     int     `yaml:"window"` // subsequent particles checked per particle
	Stride     int     `yaml:"stride"` // only every Stride-th particle starts a scan
	Width      float64 `yaml:"width"`
}

// TerminalConfig holds terminal rendering parameters.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`  // pixels per column
	CellHeight float64 `yaml:"cell_height"` // pixels per row
	LogFile    string  `yaml:"log_file"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int     `yaml:"stats_window"` // frames per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	FrameBudgetMS       float64 `yaml:"frame_budget_ms"`
}

// WatchConfig holds config reload parameters.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Load builds a configuration from the embedded defaults, the named profile
// and the YAML file at path, in that order. Empty path or profile skip the
// respective layer.
func Load(path, profile string) (*Config, error) {
	cfg := &Config{}

	data, err := embedded.ReadFile("defaults.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if profile != "" && profile != DefaultProfile {
		if err := cfg.applyProfile(profile); err != nil {
			return nil, err
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Profiles lists the embedded density profiles.
func Profiles() []string {
	names := []string{DefaultProfile}
	entries, err := embedded.ReadDir("profiles")
	if err != nil {
		return names
	}
	for _, e := range entries {
		name := e.Name()
		names = append(names, name[:len(name)-len(path.Ext(name))])
	}
	return names
}

func (c *Config) applyProfile(profile string) error {
	data, err := embedded.ReadFile("profiles/" + profile + ".yaml")
	if err != nil {
		return fmt.Errorf("unknown profile %q", profile)
	}
	// A profile replaces the whole field section.
	c.Field = FieldConfig{}
	if err := yaml.Unmarshal(data, &c.Field); err != nil {
		return fmt.Errorf("parsing profile %q: %w", profile, err)
	}
	c.Profile = profile
	return nil
}

func (c *Config) computeDerived() error {
	rgb, err := ParseColor(c.Field.Color)
	if err != nil {
		return fmt.Errorf("field.color: %w", err)
	}
	c.Field.Derived.RGB = rgb
	return nil
}

// ParseColor parses a hex color such as "#dc3545".
func ParseColor(hex string) ([3]uint8, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return [3]uint8{}, err
	}
	r, g, b := col.RGB255()
	return [3]uint8{r, g, b}, nil
}

// Validate checks every bound the field relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, errors.New("screen.target_fps must be positive"))
	}
	if _, err := ParseColor(c.Screen.Background); err != nil {
		errs = append(errs, fmt.Errorf("screen.background: %w", err))
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		errs = append(errs, errors.New("terminal cell size must be positive"))
	}
	if err := c.Field.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the field parameters.
func (f *FieldConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(f.Grid.Step > 0, "field.grid.step must be positive, got %v", f.Grid.Step)
	check(f.Grid.Margin >= 0, "field.grid.margin must not be negative")
	check(f.Scattered.Count >= 0, "field.scattered.count must not be negative")
	check(f.Clusters.Count >= 0 && f.Clusters.Size >= 0, "field.clusters counts must not be negative")
	check(f.Clusters.Radius >= 0, "field.clusters.radius must not be negative")
	check(f.Edges.Count >= 0, "field.edges.count must not be negative")
	check(f.Edges.Band >= 0, "field.edges.band must not be negative")

	// Empty subsets may leave their spawn ranges unset.
	spawns := map[string]SpawnConfig{"grid": f.Grid.Spawn}
	if f.Scattered.Count > 0 {
		spawns["scattered"] = f.Scattered.Spawn
	}
	if f.Clusters.Count > 0 && f.Clusters.Size > 0 {
		spawns["clusters"] = f.Clusters.Spawn
	}
	if f.Edges.Count > 0 {
		spawns["edges"] = f.Edges.Spawn
	}
	for name, s := range spawns {
		check(s.Opacity.Within(MinBaseOpacity, MaxBaseOpacity),
			"field.%s.spawn.opacity %v outside [%v, %v]", name, s.Opacity, MinBaseOpacity, MaxBaseOpacity)
		check(s.Size.Within(MinBaseSize, MaxBaseSize),
			"field.%s.spawn.size %v outside [%v, %v]", name, s.Size, MinBaseSize, MaxBaseSize)
		check(s.Drift >= 0, "field.%s.spawn.drift must not be negative", name)
		check(s.PulseSpeed.Min > 0 && s.PulseSpeed.Min <= s.PulseSpeed.Max,
			"field.%s.spawn.pulse_speed %v must be positive and ordered", name, s.PulseSpeed)
	}

	a := f.Animation
	check(a.TimeStep > 0, "field.animation.time_step must be positive")
	check(a.MinOpacity > 0 && a.MinOpacity <= 1, "field.animation.min_opacity must be in (0, 1]")
	check(a.MinSize > 0, "field.animation.min_size must be positive")
	switch a.Boundary {
	case BoundaryWrap:
		check(a.WrapMargin >= 0, "field.animation.wrap_margin must not be negative")
	case BoundaryBounce:
		check(a.BounceDamping > 0 && a.BounceDamping <= 1, "field.animation.bounce_damping must be in (0, 1]")
	default:
		errs = append(errs, fmt.Errorf("field.animation.boundary %q is not %q or %q", a.Boundary, BoundaryWrap, BoundaryBounce))
	}

	check(f.GridLines.Step > 0, "field.grid_lines.step must be positive")

	outer := -1
	for i, g := range f.Glow {
		check(g.Every >= 1, "field.glow[%d].every must be at least 1", i)
		if outer < 0 || g.RadiusScale > f.Glow[outer].RadiusScale {
			outer = i
		}
	}
	if outer >= 0 {
		check(f.Glow[outer].Every >= 4, "field.glow[%d] is the strongest glow and must apply to at most every 4th particle", outer)
	}

	cn := f.Connections
	check(cn.Threshold > 0, "field.connections.threshold must be positive")
	check(cn.MaxOpacity > 0 && cn.MaxOpacity <= 1, "field.connections.max_opacity must be in (0, 1]")
	check(cn.Window >= 1, "field.connections.window must be at least 1")
	check(cn.Stride >= 1, "field.connections.stride must be at least 1")

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
