// Package solve numerically integrates symbolic ODE systems.
//
// [Integrate] drives a model's derivative function over a time span
// and returns the sampled trajectory. The default method is an
// adaptive Dormand-Prince Runge-Kutta 4(5) scheme; a fixed-step
// classic RK4 is available for step-size studies. Tighter tolerances
// yield denser sampling and peak estimates closer to the true
// supremum of the trajectory.
package solve
