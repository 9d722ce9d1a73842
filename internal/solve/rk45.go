package solve

import "math"

// Dormand-Prince coefficients (RK45).
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Step-size controller constants.
const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
)

// rk45 holds scratch state for one integration run.
type rk45 struct {
	f                          func(t float64, y, dy []float64)
	k1, k2, k3, k4, k5, k6, k7 []float64
	stage, yNew                []float64
}

func newRK45(f func(t float64, y, dy []float64), n int) *rk45 {
	return &rk45{
		f:     f,
		k1:    make([]float64, n),
		k2:    make([]float64, n),
		k3:    make([]float64, n),
		k4:    make([]float64, n),
		k5:    make([]float64, n),
		k6:    make([]float64, n),
		k7:    make([]float64, n),
		stage: make([]float64, n),
		yNew:  make([]float64, n),
	}
}

// step advances y by dt and returns the 5th-order solution together
// with the error ratio errMax/tol: values <= 1 mean the step is
// acceptable at the given tolerances.
func (r *rk45) step(t float64, y []float64, dt, atol, rtol float64) (yNew []float64, errRatio float64) {
	n := len(y)

	r.f(t, y, r.k1)

	for i := 0; i < n; i++ {
		r.stage[i] = y[i] + dt*b21*r.k1[i]
	}
	r.f(t+a2*dt, r.stage, r.k2)

	for i := 0; i < n; i++ {
		r.stage[i] = y[i] + dt*(b31*r.k1[i]+b32*r.k2[i])
	}
	r.f(t+a3*dt, r.stage, r.k3)

	for i := 0; i < n; i++ {
		r.stage[i] = y[i] + dt*(b41*r.k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	r.f(t+a4*dt, r.stage, r.k4)

	for i := 0; i < n; i++ {
		r.stage[i] = y[i] + dt*(b51*r.k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	r.f(t+a5*dt, r.stage, r.k5)

	for i := 0; i < n; i++ {
		r.stage[i] = y[i] + dt*(b61*r.k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	r.f(t+dt, r.stage, r.k6)

	for i := 0; i < n; i++ {
		r.yNew[i] = y[i] + dt*(c1*r.k1[i]+c3*r.k3[i]+c4*r.k4[i]+c5*r.k5[i]+c6*r.k6[i])
	}

	r.f(t+dt, r.yNew, r.k7)

	errRatio = 0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*r.k1[i] + dc3*r.k3[i] + dc4*r.k4[i] + dc5*r.k5[i] + dc6*r.k6[i] + dc7*r.k7[i])
		scale := atol + rtol*math.Max(math.Abs(y[i]), math.Abs(r.yNew[i]))
		errRatio = math.Max(errRatio, math.Abs(errEst)/scale)
	}

	return r.yNew, errRatio
}

// nextStep adjusts the step size: shrink hard on rejection, grow
// cautiously on acceptance.
func nextStep(dt, errRatio float64) float64 {
	if errRatio > 1 {
		return dt * math.Max(minScale, safety*math.Pow(errRatio, -0.25))
	}
	if errRatio > 0 {
		return dt * math.Min(maxScale, safety*math.Pow(errRatio, -0.2))
	}
	return dt * maxScale
}
