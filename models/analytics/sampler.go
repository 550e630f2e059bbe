package analytics

import "math/rand"

// WeightedLabel is one entry of an ordered cumulative-probability table.
// Weights are treated as listed; they need not sum to exactly 1.
type WeightedLabel struct {
	Label  string
	Weight float64
}

// WeightedSampler draws categorical outcomes from cumulative tables. The
// rand source is injected so a caller can make the whole engine reproducible
// by seeding it.
type WeightedSampler struct {
	rng *rand.Rand
}

func NewWeightedSampler(rng *rand.Rand) *WeightedSampler {
	return &WeightedSampler{rng: rng}
}

// Sample draws one uniform value in [0,1) and returns the first label whose
// cumulative weight exceeds it. If floating-point drift leaves the draw
// unassigned the LAST label wins; that is an explicit fallback, not an
// error.
func (s *WeightedSampler) Sample(weights []WeightedLabel) string {
	if len(weights) == 0 {
		return ""
	}
	draw := s.rng.Float64()
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Weight
		if draw < cumulative {
			return w.Label
		}
	}
	return weights[len(weights)-1].Label
}

// Chance reports a single Bernoulli draw with probability p.
func (s *WeightedSampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// IntBetween draws uniformly from [lo, hi] inclusive.
func (s *WeightedSampler) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// FloatBetween draws uniformly from [lo, hi).
func (s *WeightedSampler) FloatBetween(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// Pick returns a uniform element of a non-empty string slice.
func (s *WeightedSampler) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[s.rng.Intn(len(options))]
}
