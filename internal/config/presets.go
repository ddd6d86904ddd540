package config

import "sort"

// Presets holds named plants keyed by order, then name.
var Presets = map[string]map[string]*Config{
	"first": {
		"lag":      withPlant(PlantConfig{Order: "first", K: 1, Tau: 1}),
		"fast":     withPlant(PlantConfig{Order: "first", K: 2, Tau: 0.2}),
		"unstable": withPlant(PlantConfig{Order: "first", K: 1, Tau: -0.5}),
	},
	"second": {
		"underdamped": withPlant(PlantConfig{Order: "second", K: 1, Wn: 2, Zeta: 0.5}),
		"critical":    withPlant(PlantConfig{Order: "second", K: 1, Wn: 2, Zeta: 1}),
		"overdamped":  withPlant(PlantConfig{Order: "second", K: 1, Wn: 2, Zeta: 1.5}),
		"undamped":    withPlant(PlantConfig{Order: "second", K: 1, Wn: 2, Zeta: 0}),
		"resonant":    withPlant(PlantConfig{Order: "second", K: 1, Wn: 5, Zeta: 0.1}),
	},
	"higher": {
		"triple-pole": withPlant(PlantConfig{Order: "higher", K: 1, Num: []float64{1}, Den: []float64{1, 3, 3, 1}}),
		"unstable":    withPlant(PlantConfig{Order: "higher", K: 1, Num: []float64{1}, Den: []float64{1, 1, 2, 8}}),
		"marginal":    withPlant(PlantConfig{Order: "higher", K: 1, Num: []float64{1}, Den: []float64{1, 1, 1, 1}}),
		"lead-zero":   withPlant(PlantConfig{Order: "higher", K: 2, Num: []float64{1, 2}, Den: []float64{1, 6, 11, 6}}),
	},
}

func withPlant(p PlantConfig) *Config {
	cfg := DefaultConfig()
	cfg.Plant = p
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(order, name string) *Config {
	if presets, ok := Presets[order]; ok {
		if cfg, ok := presets[name]; ok {
			return cfg.Clone()
		}
	}
	return nil
}

// ListPresets returns the preset names for order in sorted order.
func ListPresets(order string) []string {
	presets, ok := Presets[order]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Orders lists the preset groups.
func Orders() []string {
	out := make([]string, 0, len(Presets))
	for o := range Presets {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}
