package sim_test

import (
	"context"
	"math"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/control"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/integrators"
	"github.com/san-kum/dartsim/internal/physics"
	"github.com/san-kum/dartsim/internal/sim"
)

var _ = Describe("Dart damping scenario", Ordered, func() {
	var (
		result *dynamo.Result
		x0     dynamo.State
	)

	BeforeAll(func() {
		if testing.Short() {
			Skip("full 80000 s propagation skipped in short mode")
		}
		sat := physics.NewSatellite(
			physics.Diag(0.038, 0.04, 0.0066667),
			control.NewBDot(-1e4),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		x0 = dynamo.NewSatState(
			r3.Vec{X: 6878},
			r3.Vec{Y: 5.38, Z: 5.38},
			[4]float64{1, 0, 0, 0},
			r3.Vec{X: 0.1, Y: 0.25, Z: 0.03},
		)
		cfg := dynamo.DefaultConfig()
		Expect(cfg.Horizon).To(Equal(80000.0))
		Expect(cfg.Increment).To(Equal(15.0))

		var err error
		result, err = sim.New(sat, integrators.NewDormandPrince()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reaches the horizon", func() {
		tEnd, _, ok := result.Series.Last()
		Expect(ok).To(BeTrue())
		Expect(tEnd).To(BeNumerically(">=", 80000.0))
		Expect(result.Segments).To(Equal(5334))
	})

	It("keeps a strictly increasing time axis", func() {
		Expect(result.Series.Monotonic()).To(BeTrue())
		Expect(result.Series.Times[0]).To(Equal(0.0))
	})

	It("keeps the attitude quaternion at unit norm", func() {
		for _, x := range result.States() {
			q := x.Attitude()
			n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
			Expect(n).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("damps the body rate", func() {
		_, xEnd, _ := result.Series.Last()
		Expect(r3.Norm(xEnd.Rate())).To(BeNumerically("<", r3.Norm(x0.Rate())))
	})
})

var _ = Describe("Torque-free orbit", func() {
	It("conserves orbital energy and angular momentum", func() {
		sat := physics.NewSatellite(physics.Diag(0.038, 0.04, 0.0066667), control.NewNone(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		sat.Aero = nil
		x0 := dynamo.NewSatState(
			r3.Vec{X: 6878},
			r3.Vec{Y: 5.38, Z: 5.38},
			[4]float64{1, 0, 0, 0},
			r3.Vec{X: 0.01, Y: 0.02, Z: 0.005},
		)
		cfg := dynamo.DefaultConfig()
		cfg.Horizon = 900
		cfg.AbsTolerance = 1e-9

		result, err := sim.New(sat, integrators.NewDormandPrince()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		e0, h0 := sat.Energy(x0), sat.OrbitalMomentum(x0)
		for _, x := range result.States() {
			Expect(sat.Energy(x)).To(BeNumerically("~", e0, 1e-7*math.Abs(e0)))
			Expect(sat.OrbitalMomentum(x)).To(BeNumerically("~", h0, 1e-7*h0))
		}
	})
})
