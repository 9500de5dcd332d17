package main

import (
	"github.com/Rodrun/sugarscape/config"
)

// ParamSpec is one tunable model parameter bound to its config field.
type ParamSpec struct {
	Name     string // column name in calibrate_log.csv
	Path     string // YAML path, for reports
	Min, Max float64
	Default  float64
	field    func(*config.Config) *float64
}

// span maps v onto [0,1] within the bounds.
func (p ParamSpec) span(v float64) float64 { return (v - p.Min) / (p.Max - p.Min) }

// at maps u in [0,1] back onto the bounds.
func (p ParamSpec) at(u float64) float64 { return p.Min + u*(p.Max-p.Min) }

// ParamVector is the ordered set of parameters the search moves through.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the regrowth, fertility and lifespan parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "alpha", Path: "landscape.alpha",
			Min: 0.05, Max: 2.0, Default: 0.33,
			field: func(c *config.Config) *float64 { return &c.Landscape.Alpha },
		},
		{
			Name: "reproduction_rate", Path: "reproduction.rate",
			Min: 0.01, Max: 1.0, Default: 0.1,
			field: func(c *config.Config) *float64 { return &c.Reproduction.Rate },
		},
		{
			Name: "gestation_mean", Path: "reproduction.gestation_mean",
			Min: 0.5, Max: 10.0, Default: 3.0,
			field: func(c *config.Config) *float64 { return &c.Reproduction.GestationMean },
		},
		{
			Name: "senescence_mean", Path: "senescence.mean",
			Min: 10.0, Max: 150.0, Default: 60.0,
			field: func(c *config.Config) *float64 { return &c.Senescence.Mean },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

func (pv *ParamVector) each(fn func(i int, p ParamSpec) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, p := range pv.Specs {
		out[i] = fn(i, p)
	}
	return out
}

// DefaultVector returns the default raw values.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(func(_ int, p ParamSpec) float64 { return p.Default })
}

// Normalize maps raw values onto the unit cube the optimizer searches.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(func(i int, p ParamSpec) float64 { return p.span(raw[i]) })
}

// Denormalize maps unit-cube values back to raw values. The result may lie
// outside the bounds; see Clamp.
func (pv *ParamVector) Denormalize(u []float64) []float64 {
	return pv.each(func(i int, p ParamSpec) float64 { return p.at(u[i]) })
}

// Clamp limits every value to its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(func(i int, p ParamSpec) float64 { return min(max(v[i], p.Min), p.Max) })
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(func(_ int, p ParamSpec) float64 { return *p.field(cfg) })
}
