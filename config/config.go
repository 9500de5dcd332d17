// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/landscape"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed config.schema.json
var schemaJSON string

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation   SimulationConfig   `yaml:"simulation"`
	Landscape    LandscapeConfig    `yaml:"landscape"`
	Agents       AgentsConfig       `yaml:"agents"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Senescence   SenescenceConfig   `yaml:"senescence"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bookmarks    BookmarksConfig    `yaml:"bookmarks"`
	Render       RenderConfig       `yaml:"render"`
	Screen       ScreenConfig       `yaml:"screen"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds run-level settings.
type SimulationConfig struct {
	Seed    uint64  `yaml:"seed"`
	Horizon float64 `yaml:"horizon"` // stop once the next event is later than this
}

// LandscapeConfig holds grid generation parameters.
type LandscapeConfig struct {
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	Alpha      float64 `yaml:"alpha"`       // sugar regrown per unit of time
	MaxSugar   int     `yaml:"max_sugar"`   // largest cell capacity
	MaxHeight  int     `yaml:"max_height"`  // largest terrain level
	Generator  string  `yaml:"generator"`   // uniform or simplex
	NoiseScale float64 `yaml:"noise_scale"` // simplex sampling frequency
}

// AgentsConfig holds initial population and trait ranges.
type AgentsConfig struct {
	Initial       int     `yaml:"initial"`
	MinMetabolism float64 `yaml:"min_metabolism"`
	MaxMetabolism float64 `yaml:"max_metabolism"`
	MinVision     float64 `yaml:"min_vision"`
	MaxVision     float64 `yaml:"max_vision"`
	MoveRate      float64 `yaml:"move_rate"`
}

// ReproductionConfig holds mating and gestation parameters.
type ReproductionConfig struct {
	Rate            float64 `yaml:"rate"`        // lambda between mating attempts
	FertileAge      float64 `yaml:"fertile_age"` // delay before a mother's first attempt
	GestationMean   float64 `yaml:"gestation_mean"`
	GestationStdDev float64 `yaml:"gestation_std_dev"`
}

// SenescenceConfig holds the max-age distribution.
type SenescenceConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow    float64 `yaml:"stats_window"`      // simulated time per stats window
	PerfWindow     int     `yaml:"perf_window"`       // events in the rolling perf window
	HallOfFameSize int     `yaml:"hall_of_fame_size"` // agents kept in the hall of fame
	TraceBatch     int     `yaml:"trace_batch"`       // records buffered before a trace flush
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	Enabled        bool    `yaml:"enabled"`
	HistoryWindows int     `yaml:"history_windows"`
	CrashDrop      float64 `yaml:"crash_drop"`      // fraction below recent peak
	BoomMultiplier float64 `yaml:"boom_multiplier"` // births over rolling average
	StableWindows  int     `yaml:"stable_windows"`
	StableCV       float64 `yaml:"stable_cv"`
}

// RenderConfig holds the glyphs used by the text renderer.
type RenderConfig struct {
	AgentHealthy  string   `yaml:"agent_healthy"`
	AgentCritical string   `yaml:"agent_critical"`
	Empty         string   `yaml:"empty"`
	Sugar         []string `yaml:"sugar"`   // four quartile glyphs
	Terrain       []string `yaml:"terrain"` // four quartile glyphs
	ShowSugar     bool     `yaml:"show_sugar"`
	NumberLines   bool     `yaml:"number_lines"`
}

// ScreenConfig holds graphical viewer settings.
type ScreenConfig struct {
	CellSize       int `yaml:"cell_size"`
	HUDHeight      int `yaml:"hud_height"`
	TargetFPS      int `yaml:"target_fps"`
	EventsPerFrame int `yaml:"events_per_frame"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells        int // Landscape.Rows * Landscape.Cols
	ScreenWidth  int // Cols * CellSize
	ScreenHeight int // Rows * CellSize + HUDHeight
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse merges a YAML document over the embedded defaults and validates
// the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Landscape.Rows * c.Landscape.Cols
	c.Derived.ScreenWidth = c.Landscape.Cols * c.Screen.CellSize
	c.Derived.ScreenHeight = c.Landscape.Rows*c.Screen.CellSize + c.Screen.HUDHeight
}

// Validate checks the config against the embedded JSON schema and then
// applies the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	schema, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	doc, err := c.document()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	switch {
	case c.Agents.MinMetabolism > c.Agents.MaxMetabolism:
		return fmt.Errorf("%w: min_metabolism %v exceeds max_metabolism %v", ErrInvalid, c.Agents.MinMetabolism, c.Agents.MaxMetabolism)
	case c.Agents.MinVision > c.Agents.MaxVision:
		return fmt.Errorf("%w: min_vision %v exceeds max_vision %v", ErrInvalid, c.Agents.MinVision, c.Agents.MaxVision)
	case c.Agents.Initial > c.Landscape.Rows*c.Landscape.Cols:
		return fmt.Errorf("%w: %d agents do not fit on a %dx%d landscape", ErrInvalid, c.Agents.Initial, c.Landscape.Rows, c.Landscape.Cols)
	}
	return nil
}

// document converts the config into the generic JSON value the schema
// validator expects.
func (c *Config) document() (any, error) {
	y, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(y, &generic); err != nil {
		return nil, fmt.Errorf("re-reading config: %w", err)
	}
	j, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("encoding config as json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(j, &doc); err != nil {
		return nil, fmt.Errorf("decoding config json: %w", err)
	}
	return doc, nil
}

// LandscapeParams converts the landscape section for landscape.New.
func (c *Config) LandscapeParams() landscape.Params {
	l := c.Landscape
	return landscape.Params{
		Rows:       l.Rows,
		Cols:       l.Cols,
		Alpha:      l.Alpha,
		MaxSugar:   l.MaxSugar,
		MaxHeight:  l.MaxHeight,
		Generator:  l.Generator,
		NoiseScale: l.NoiseScale,
	}
}

// AgentParams converts the agent, reproduction and senescence sections.
func (c *Config) AgentParams() agent.Params {
	return agent.Params{
		MinMetabolism:    c.Agents.MinMetabolism,
		MaxMetabolism:    c.Agents.MaxMetabolism,
		MinVision:        c.Agents.MinVision,
		MaxVision:        c.Agents.MaxVision,
		MoveRate:         c.Agents.MoveRate,
		ReproductionRate: c.Reproduction.Rate,
		FertileAge:       c.Reproduction.FertileAge,
		GestationMean:    c.Reproduction.GestationMean,
		GestationStdDev:  c.Reproduction.GestationStdDev,
		SenescenceMean:   c.Senescence.Mean,
		SenescenceStdDev: c.Senescence.StdDev,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Render.Sugar = append([]string(nil), c.Render.Sugar...)
	cp.Render.Terrain = append([]string(nil), c.Render.Terrain...)
	return &cp
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
