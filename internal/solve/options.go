package solve

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/san-kum/odescale/internal/deq"
)

// OptionsFromMap decodes a loosely-typed option mapping (as it arrives
// from a YAML document or a CLI) into [deq.Options]. Recognized keys
// fill the typed fields; everything else is preserved verbatim in
// Extra so options meant for a newer solver survive the round trip.
func OptionsFromMap(raw map[string]any) (deq.Options, error) {
	var opts deq.Options
	if len(raw) == 0 {
		return opts, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("solve: decode options: %w", err)
	}

	for _, key := range md.Unused {
		if opts.Extra == nil {
			opts.Extra = make(map[string]any)
		}
		opts.Extra[key] = raw[key]
	}
	return opts, nil
}

// OptionsToMap is the inverse of [OptionsFromMap]: a flat mapping with
// the Extra keys merged back in, suitable for writing to a problem
// file. Zero-valued fields are omitted.
func OptionsToMap(opts deq.Options) map[string]any {
	out := make(map[string]any)
	if opts.Method != "" {
		out["method"] = opts.Method
	}
	if opts.InitialStep > 0 {
		out["initial_step"] = opts.InitialStep
	}
	if opts.MinStep > 0 {
		out["min_step"] = opts.MinStep
	}
	if opts.MaxStep > 0 {
		out["max_step"] = opts.MaxStep
	}
	if opts.Rtol > 0 {
		out["rtol"] = opts.Rtol
	}
	if opts.Atol > 0 {
		out["atol"] = opts.Atol
	}
	if opts.MaxSteps > 0 {
		out["max_steps"] = opts.MaxSteps
	}
	for k, v := range opts.Extra {
		out[k] = v
	}
	return out
}
