package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestResponse_IdentityIsUnity(t *testing.T) {
	c := Identity()

	for _, f := range []float64{0, 10, 100, 200} {
		h := c.Response(f, 500)
		if math.Abs(cmplx.Abs(h)-1) > 1e-12 {
			t.Fatalf("identity |H(%g)| = %g, want 1", f, cmplx.Abs(h))
		}
	}
}

func TestMagnitudeSquared_MatchesComplexResponse(t *testing.T) {
	c := Coefficients{B0: 0.3, B1: 0.6, B2: 0.3, A1: -0.4, A2: 0.25}

	for _, f := range []float64{1, 10, 50, 100, 240} {
		want := cmplx.Abs(c.Response(f, 500))
		got := math.Sqrt(c.MagnitudeSquared(f, 500))

		if math.Abs(got-want) > 1e-10 {
			t.Fatalf("f=%g: closed-form=%g, complex=%g", f, got, want)
		}
	}
}

func TestChainMagnitudeDB_SumsSectionResponses(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 0.3, B1: 0.6, B2: 0.3, A1: -0.4, A2: 0.25},
		{B0: 0.5, B1: 0.2, B2: 0.1, A1: -0.1, A2: 0.05},
	}
	chain := NewChain(coeffs)

	for _, f := range []float64{5, 60, 120} {
		sum := 0.0
		for i := range coeffs {
			sum += coeffs[i].MagnitudeDB(f, 500)
		}

		if got := chain.MagnitudeDB(f, 500); math.Abs(got-sum) > 1e-9 {
			t.Fatalf("f=%g: chain=%g dB, section sum=%g dB", f, got, sum)
		}
	}
}
