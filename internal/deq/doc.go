// Package deq provides the core value types for magnitude rescaling of
// ODE systems:
//
//   - [Model]: immutable symbolic description of dy/dt = f(t, y) with
//     named parameters
//   - [Problem]: a Model together with a time span, initial values,
//     solver options and the rescaling safety margin
//   - [Trajectory]: a discretely sampled numeric solution
//   - [Options]: solver configuration, with passthrough of
//     unrecognized keys
//
// Models and Problems are value objects. Rescaling never mutates its
// input; it returns a fresh Problem, so the original system and any
// maxima computed for it stay valid and inspectable.
//
// # Thread Safety
//
// Models are safe for concurrent reads. The numeric evaluation closure
// returned by [Model.Func] reuses internal scratch state and must not
// be shared between goroutines; obtain one closure per goroutine.
package deq
