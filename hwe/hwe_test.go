package hwe

import (
	"math"
	"testing"
)

type expectations struct {
	P float64

	AA float64
	Aa float64
	aa float64

	Mean     float64
	Variance float64
}

func TestGenotypeFreqs(t *testing.T) {
	for _, v := range []expectations{
		{P: 0.5, AA: 0.25, Aa: 0.5, aa: 0.25, Mean: 1.0, Variance: 0.5},
		{P: 0.369, AA: 0.136161, Aa: 0.465678, aa: 0.398161, Mean: 0.738, Variance: 0.465678},
		{P: 0.0, AA: 0, Aa: 0, aa: 1, Mean: 0, Variance: 0},
		{P: 1.0, AA: 1, Aa: 0, aa: 0, Mean: 2, Variance: 0},
		{P: 0.1, AA: 0.01, Aa: 0.18, aa: 0.81, Mean: 0.2, Variance: 0.18},
	} {
		AA, Aa, aa := GenotypeFreqs(v.P)
		if math.Abs(AA-v.AA) > 1e-9 || math.Abs(Aa-v.Aa) > 1e-9 || math.Abs(aa-v.aa) > 1e-9 {
			t.Fatalf("GenotypeFreqs(%v) = %v, %v, %v; expected %v, %v, %v", v.P, AA, Aa, aa, v.AA, v.Aa, v.aa)
		}

		if sum := AA + Aa + aa; math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("GenotypeFreqs(%v) sums to %v, not 1", v.P, sum)
		}

		if m := DosageMean(v.P); math.Abs(m-v.Mean) > 1e-9 {
			t.Fatalf("DosageMean(%v) = %v; expected %v", v.P, m, v.Mean)
		}

		if vr := DosageVariance(v.P); math.Abs(vr-v.Variance) > 1e-9 {
			t.Fatalf("DosageVariance(%v) = %v; expected %v", v.P, vr, v.Variance)
		}
	}
}

func TestScoreMoments(t *testing.T) {
	// MTHFR C677T in the East Asian reference: p=0.369, beta=0.30
	mean, variance := ScoreMoments(0.369, 0.30)

	if expected := 0.2214; math.Abs(mean-expected) > 1e-9 {
		t.Fatalf("mean = %v; expected %v", mean, expected)
	}

	if expected := 0.04191102; math.Abs(variance-expected) > 1e-9 {
		t.Fatalf("variance = %v; expected %v", variance, expected)
	}
}

func TestScoreMomentsScaleQuadratically(t *testing.T) {
	_, v1 := ScoreMoments(0.25, 0.1)
	_, v2 := ScoreMoments(0.25, 0.2)

	if math.Abs(v2-4*v1) > 1e-12 {
		t.Fatalf("doubling beta should quadruple variance: %v vs %v", v1, v2)
	}
}
