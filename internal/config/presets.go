package config

// Presets are built-in systems usable anywhere a problem file is
// expected, handy for trying the tool without writing YAML first.
var Presets = map[string]*Document{
	"rossler": {
		States: []string{"x", "y", "z"},
		Equations: map[string]string{
			"x": "-y - z",
			"y": "x + a*y",
			"z": "b + z*(x - c)",
		},
		Parameters: map[string]float64{"a": 0.2, "b": 0.2, "c": 5.7},
		Initial:    []float64{1, 0, 0},
		Span:       []float64{0, 25},
	},
	"lorenz": {
		States: []string{"x", "y", "z"},
		Equations: map[string]string{
			"x": "sigma*(y - x)",
			"y": "x*(rho - z) - y",
			"z": "x*y - beta*z",
		},
		Parameters: map[string]float64{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0},
		Initial:    []float64{1, 1, 1},
		Span:       []float64{0, 40},
	},
	"vanderpol": {
		States: []string{"x", "y"},
		Equations: map[string]string{
			"x": "y",
			"y": "mu*(1 - x^2)*y - x",
		},
		Parameters: map[string]float64{"mu": 5},
		Initial:    []float64{2, 0},
		Span:       []float64{0, 30},
	},
	"oscillator": {
		States: []string{"x", "v"},
		Equations: map[string]string{
			"x": "v",
			"v": "-omega^2*x",
		},
		Parameters: map[string]float64{"omega": 2},
		Initial:    []float64{1, 0},
		Span:       []float64{0, 10},
	},
}

// GetPreset returns the named built-in system, or nil.
func GetPreset(name string) *Document {
	return Presets[name]
}

// ListPresets returns the names of all built-in systems.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
