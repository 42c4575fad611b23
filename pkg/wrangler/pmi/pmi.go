package pmi

import "math"

// DefaultEpsilon keeps log arguments positive without visibly shifting
// scores for real co-occurrences.
const DefaultEpsilon = 1e-12

// Calculator handles PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a PMI calculator. Non-positive epsilon falls back to
// DefaultEpsilon.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the pointwise mutual information between two terms
//
// PMI(a,b) = log((N_ab + ε) * N / (N_a * N_b))
//
// Where:
//   - N_ab = number of documents containing both a and b
//   - N_a, N_b = number of documents containing each term
//   - N = total number of documents
func (c *Calculator) PMI(nAB, nA, nB, N int64) float64 {
	if N == 0 || nA == 0 || nB == 0 {
		return 0
	}

	numerator := (float64(nAB) + c.epsilon) * float64(N)
	denominator := float64(nA) * float64(nB)
	return math.Log(numerator / denominator)
}

// NPMI calculates normalized PMI, clamped to [-1, 1].
// NPMI(a,b) = PMI(a,b) / -log(P(a,b))
//
// Terms that never co-occur score -1; terms present in every document
// together score 1.
func (c *Calculator) NPMI(nAB, nA, nB, N int64) float64 {
	if N == 0 || nA == 0 || nB == 0 {
		return 0
	}
	if nAB == 0 {
		return -1
	}

	logPAB := math.Log((float64(nAB) + c.epsilon) / float64(N))
	if logPAB >= 0 {
		return 1
	}

	return clamp(c.PMI(nAB, nA, nB, N) / -logPAB)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
