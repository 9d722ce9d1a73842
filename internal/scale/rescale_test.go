package scale

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
)

// rosslerProblem builds the chaotic reference system
//
//	x' = -y - z
//	y' = x + a*y
//	z' = b + z*(x - c)     a = b = 0.2, c = 5.7
//
// integrated from (1, 0, 0) over t in (0, 25). Its peaks are known to
// be roughly x: 10.44, y: 9.58, z: 2.34.
func rosslerProblem(maxScaleFactor float64) *deq.Problem {
	m, err := deq.NewModel("t",
		[]expr.Symbol{"x", "y", "z"},
		[]expr.Expr{
			expr.MustParse("-y - z"),
			expr.MustParse("x + a*y"),
			expr.MustParse("b + z*(x - c)"),
		},
		map[expr.Symbol]float64{"a": 0.2, "b": 0.2, "c": 5.7},
	)
	Expect(err).NotTo(HaveOccurred())

	p, err := deq.NewProblem(m, deq.Span{T0: 0, TF: 25}, []float64{1, 0, 0},
		deq.Options{Rtol: 1e-9, Atol: 1e-9, MaxStep: 0.05}, maxScaleFactor)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Rescale", func() {
	var (
		ctx context.Context
		p   *deq.Problem
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = rosslerProblem(1.0)
	})

	It("finds the known peaks of the reference system", func() {
		maxima, err := ComputeMaxima(ctx, p)
		Expect(err).NotTo(HaveOccurred())

		Expect(maxima).To(HaveLen(3))
		Expect(maxima[expr.Symbol("x")]).To(BeNumerically("~", 10.44, 0.16))
		Expect(maxima[expr.Symbol("y")]).To(BeNumerically("~", 9.58, 0.15))
		Expect(maxima[expr.Symbol("z")]).To(BeNumerically("~", 2.34, 0.05))
	})

	It("drives every recomputed peak to 1 with the default margin", func() {
		rescaled, err := Rescale(ctx, p, nil)
		Expect(err).NotTo(HaveOccurred())

		maxima, err := ComputeMaxima(ctx, rescaled)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range rescaled.Model.States() {
			Expect(maxima[s]).To(BeNumerically("~", 1.0, 0.005),
				"peak of %s after rescaling", s)
		}
	})

	It("pushes peaks strictly below 1 with a margin above 1", func() {
		p = rosslerProblem(1.01)

		rescaled, err := Rescale(ctx, p, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(rescaled.MaxScaleFactor).To(Equal(1.01), "margin carries forward")

		maxima, err := ComputeMaxima(ctx, rescaled)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range rescaled.Model.States() {
			Expect(maxima[s]).To(BeNumerically("<", 1.0))
			Expect(maxima[s]).To(BeNumerically("~", 1/1.01, 0.005))
		}
	})

	It("does not mutate the source problem or its maxima", func() {
		before, err := ComputeMaxima(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		y0Before := append([]float64(nil), p.Y0...)
		rhsBefore := make([]string, 0, 3)
		for _, e := range p.Model.RHS() {
			rhsBefore = append(rhsBefore, e.String())
		}

		_, err = Rescale(ctx, p, before)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Y0).To(Equal(y0Before))
		for i, e := range p.Model.RHS() {
			Expect(e.String()).To(Equal(rhsBefore[i]))
		}

		// The same pipeline on the untouched source reproduces the
		// identical maxima, bit for bit.
		after, err := ComputeMaxima(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(Equal(before))
	})

	It("is deterministic: two rescalings from the same source agree", func() {
		maxima, err := ComputeMaxima(ctx, p)
		Expect(err).NotTo(HaveOccurred())

		r1, err := Rescale(ctx, p, maxima)
		Expect(err).NotTo(HaveOccurred())
		r2, err := Rescale(ctx, p, maxima)
		Expect(err).NotTo(HaveOccurred())

		Expect(r1.Y0).To(Equal(r2.Y0))
		rhs1, rhs2 := r1.Model.RHS(), r2.Model.RHS()
		for i := range rhs1 {
			Expect(rhs1[i].String()).To(Equal(rhs2[i].String()))
		}
		Expect(r1.Model.Fingerprint()).To(Equal(r2.Model.Fingerprint()))
	})

	It("composes: rescaling twice keeps peaks at 1", func() {
		once, err := Rescale(ctx, p, nil)
		Expect(err).NotTo(HaveOccurred())

		twice, err := Rescale(ctx, once, nil)
		Expect(err).NotTo(HaveOccurred())

		maxima, err := ComputeMaxima(ctx, twice)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range twice.Model.States() {
			Expect(maxima[s]).To(BeNumerically("~", 1.0, 0.01))
		}

		// The second pass starts from peaks near 1, so its factors are
		// near 1 and the initial values barely move.
		for i := range twice.Y0 {
			Expect(twice.Y0[i]).To(BeNumerically("~", once.Y0[i], 0.01))
		}
	})

	It("honors manually supplied maxima verbatim", func() {
		trueMaxima, err := ComputeMaxima(ctx, p)
		Expect(err).NotTo(HaveOccurred())

		supplied := MaximaMap{"x": 12, "y": 11, "z": 2.7}
		rescaled, err := Rescale(ctx, p, supplied)
		Expect(err).NotTo(HaveOccurred())

		recomputed, err := ComputeMaxima(ctx, rescaled)
		Expect(err).NotTo(HaveOccurred())

		// Peaks land at true/supplied, not at 1: the caller's maxima
		// were deliberately not the real ones.
		for s, sup := range supplied {
			want := trueMaxima[s] / sup
			Expect(recomputed[s]).To(BeNumerically("~", want, 0.01*want))
		}
	})

	It("rejects a zero maximum instead of producing an infinite factor", func() {
		_, err := Rescale(ctx, p, MaximaMap{"x": 10.44, "y": 0, "z": 2.34})
		Expect(err).To(MatchError(ErrZeroMaximum))

		var sErr *ScalingError
		Expect(errors.As(err, &sErr)).To(BeTrue())
		Expect(sErr.Symbol).To(Equal(expr.Symbol("y")))
	})

	It("rejects a margin below 1", func() {
		bad := p.Clone()
		bad.MaxScaleFactor = 0.9
		_, err := Rescale(ctx, bad, MaximaMap{"x": 1, "y": 1, "z": 1})
		Expect(err).To(MatchError(ErrBadScaleFactor))
	})
})
