// Package scale rescales ODE systems so every state variable's
// trajectory fits the normalized interval [-1, 1], the form required
// by fixed-range hardware such as analog computers.
//
// The pipeline has two halves. [DetermineMax] reduces a sampled
// trajectory to one peak absolute value per state variable.
// [Rescale] turns those peaks into scale factors, substitutes the
// scaled variables into the symbolic right-hand sides (with the
// chain-rule correction for the derivatives), and emits a new,
// independently usable problem whose peaks land at 1/MaxScaleFactor.
//
// Rescaling never mutates its input: the source problem, its model,
// and any maxima cached for it remain valid afterwards. Repeating a
// rescale from the same source yields algebraically identical output.
package scale
