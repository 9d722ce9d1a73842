package deq

// Integration methods.
const (
	MethodRK45 = "rk45" // adaptive Dormand-Prince, the default
	MethodRK4  = "rk4"  // fixed-step classic Runge-Kutta
)

// Options configures the numerical solver. The zero value selects the
// defaults below. Keys a particular solver does not recognize are kept
// in Extra and carried through unchanged, so configuration written for
// a newer solver survives a round trip.
type Options struct {
	Method      string  `yaml:"method" mapstructure:"method"`
	InitialStep float64 `yaml:"initial_step" mapstructure:"initial_step"`
	MinStep     float64 `yaml:"min_step" mapstructure:"min_step"`
	MaxStep     float64 `yaml:"max_step" mapstructure:"max_step"`
	Rtol        float64 `yaml:"rtol" mapstructure:"rtol"`
	Atol        float64 `yaml:"atol" mapstructure:"atol"`
	MaxSteps    int     `yaml:"max_steps" mapstructure:"max_steps"`

	// Extra holds unrecognized option keys verbatim.
	Extra map[string]any `yaml:"extra,omitempty" mapstructure:"-"`
}

// Solver defaults, chosen to keep sampled peak estimates within a
// fraction of a percent of the true supremum for smooth systems.
const (
	DefaultRtol     = 1e-9
	DefaultAtol     = 1e-9
	DefaultMaxStep  = 0.1
	DefaultMinStep  = 1e-12
	DefaultMaxSteps = 10_000_000
)

// WithDefaults fills unset fields and returns the result.
func (o Options) WithDefaults() Options {
	if o.Method == "" {
		o.Method = MethodRK45
	}
	if o.Rtol <= 0 {
		o.Rtol = DefaultRtol
	}
	if o.Atol <= 0 {
		o.Atol = DefaultAtol
	}
	if o.MaxStep <= 0 {
		o.MaxStep = DefaultMaxStep
	}
	if o.MinStep <= 0 {
		o.MinStep = DefaultMinStep
	}
	if o.InitialStep <= 0 {
		o.InitialStep = o.MaxStep / 10
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}

// Clone deep-copies the options, including Extra.
func (o Options) Clone() Options {
	c := o
	if o.Extra != nil {
		c.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
