package quiz

import "unicode/utf16"

// hashSeed folds a seed string into 32 bits with the classic
// multiply-by-31 string hash over UTF-16 code units. The result matches
// seeds produced by existing clients, so it must not change.
func hashSeed(s string) uint32 {
	var h uint32
	for _, cu := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(cu)
	}
	return h
}

// rng is a mulberry32 generator. It is small, fast and reproducible
// across platforms, which is all quiz selection needs.
type rng struct {
	state uint32
}

func newRNG(seed uint32) *rng {
	return &rng{state: seed}
}

// Float64 returns the next value in [0, 1).
func (r *rng) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// shuffle performs an in-place Fisher–Yates shuffle driven by r.
func shuffle(ids []int, r *rng) {
	for i := len(ids) - 1; i > 0; i-- {
		j := int(r.Float64() * float64(i+1))
		ids[i], ids[j] = ids[j], ids[i]
	}
}
