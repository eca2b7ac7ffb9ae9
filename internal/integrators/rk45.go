package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
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

// DormandPrince is an embedded 5(4) Runge-Kutta solver with first-same-as-last
// stage reuse and a mixed relative/absolute max-norm error control.
type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *DormandPrince) Solve(ctx context.Context, sys dynamo.System, t0, t1 float64, x0 dynamo.State, opts Options) (*dynamo.Series, error) {
	if err := checkSpan(sys, t0, t1, x0); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	out := dynamo.NewSeries(16)
	out.Append(t0, x0)
	if t1 == t0 {
		return out, nil
	}
	opts = opts.withDefaults(t1 - t0)

	x := x0.Clone()
	t := t0
	k1 := sys.Derive(x, nil, t)
	if !k1.IsValid() {
		return out, fmt.Errorf("derivative at t=%v: %w", t, dynamo.ErrInvalidState)
	}

	h := math.Min(opts.InitialStep, opts.MaxStep)
	for attempts := 0; t < t1; attempts++ {
		if err := canceled(ctx); err != nil {
			return out, err
		}
		if attempts >= opts.MaxSteps {
			return out, fmt.Errorf("%d attempts, reached t=%v of %v: %w", attempts, t, t1, dynamo.ErrStepBudget)
		}

		last := false
		if t+h >= t1 || t1-(t+h) < opts.MinStep {
			h = t1 - t
			last = true
		}

		xNew, k7, errNorm := r.attempt(sys, x, k1, t, h, opts)
		if !xNew.IsValid() || !k7.IsValid() || math.IsNaN(errNorm) {
			h *= r.minScale
			if h < opts.MinStep {
				return out, fmt.Errorf("non-finite stage near t=%v: %w", t, dynamo.ErrInvalidState)
			}
			continue
		}

		if errNorm <= 1 {
			if last {
				t = t1
			} else {
				t += h
			}
			x, k1 = xNew, k7
			out.Append(t, x)

			scale := r.maxScale
			if errNorm > 0 {
				scale = math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
			}
			h = math.Min(h*scale, opts.MaxStep)
			continue
		}

		h *= math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.25))
		if h < opts.MinStep {
			return out, fmt.Errorf("h=%e at t=%v: %w", h, t, dynamo.ErrStepTooSmall)
		}
	}
	return out, nil
}

// attempt takes one trial step of size h from (t, x) with k1 = f(t, x). It
// returns the fifth-order solution, the derivative there and the scaled
// error norm; a norm <= 1 means the step meets tolerance.
func (r *DormandPrince) attempt(sys dynamo.System, x, k1 dynamo.State, t, h float64, opts Options) (dynamo.State, dynamo.State, float64) {
	n := len(x)
	tmp := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*b21*k1[i]
	}
	k2 := sys.Derive(tmp, nil, t+a2*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(tmp, nil, t+a3*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(tmp, nil, t+a4*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(tmp, nil, t+a5*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(tmp, nil, t+h)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, nil, t+h)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := opts.AbsTol + opts.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	return xNew, k7, errMax
}

var _ AdaptiveSolver = (*DormandPrince)(nil)
