// Package worldrng holds the process-wide deterministic random source.
// Every probabilistic decision in the simulation draws from one xorshift64
// stream so that a seed plus a command journal replays bit-for-bit.
package worldrng

// Rng is a xorshift64 generator. The zero value is invalid; use New.
type Rng struct {
	state uint64
}

func New(seed uint64) *Rng {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Rng{state: seed}
}

// State exposes the current state for persistence.
func (r *Rng) State() uint64 { return r.state }

// Restore overwrites the state, mapping zero to the default seed.
func (r *Rng) Restore(state uint64) {
	if state == 0 {
		state = 0x9E3779B97F4A7C15
	}
	r.state = state
}

func (r *Rng) NextU64() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Float64 returns a value in [0, 1).
func (r *Rng) Float64() float64 {
	return float64(r.NextU64()>>11) / float64(1<<53)
}

// IntN returns a value in [0, n). n must be positive.
func (r *Rng) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

// Chance returns true with probability p (clamped to [0, 1]).
func (r *Rng) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Range returns a value in [lo, hi).
func (r *Rng) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
