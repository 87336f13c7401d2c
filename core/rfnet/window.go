package rfnet

import (
	"sort"
)

// edgeToleranceHz is the inclusive tolerance applied around the clamped
// window bounds, guarding against floating rounding at the edges.
const edgeToleranceHz = 1.0

// Window restricts a network to the inclusive frequency range
// [fMinGHz, fMaxGHz]. Reversed bounds are swapped and both bounds are
// clamped to the measured domain; the window never extrapolates beyond
// measured data. The output grid is every original sample inside the
// clamped range plus the two clamped boundary frequencies, with S values
// produced by linear interpolation (real and imaginary parts
// independently) against the original grid.
//
// An empty network is returned as a deep copy, unchanged.
func Window(n *Network, fMinGHz, fMaxGHz float64) *Network {
	if n.NPoints() == 0 {
		return n.Copy()
	}

	loHz := fMinGHz * GHz
	hiHz := fMaxGHz * GHz
	if loHz > hiHz {
		loHz, hiHz = hiHz, loHz
	}

	// Clamp to the measured domain.
	if loHz < n.MinFrequencyHz() {
		loHz = n.MinFrequencyHz()
	}
	if loHz > n.MaxFrequencyHz() {
		loHz = n.MaxFrequencyHz()
	}
	if hiHz < n.MinFrequencyHz() {
		hiHz = n.MinFrequencyHz()
	}
	if hiHz > n.MaxFrequencyHz() {
		hiHz = n.MaxFrequencyHz()
	}

	// Target grid: interior samples plus both clamped bounds, deduped.
	targets := make([]float64, 0, n.NPoints()+2)
	for _, f := range n.freqs {
		if f >= loHz && f <= hiHz {
			targets = append(targets, f)
		}
	}
	targets = append(targets, loHz, hiHz)
	sort.Float64s(targets)
	targets = dedupe(targets)

	// Inclusive tolerance around the bounds.
	kept := targets[:0]
	for _, f := range targets {
		if f >= loHz-edgeToleranceHz && f <= hiHz+edgeToleranceHz {
			kept = append(kept, f)
		}
	}
	targets = kept

	nPorts := n.NPorts()
	s := make([][][]complex128, len(targets))
	for i := range s {
		s[i] = make([][]complex128, nPorts)
		for r := range s[i] {
			s[i][r] = make([]complex128, nPorts)
		}
	}

	for out := 0; out < nPorts; out++ {
		for in := 0; in < nPorts; in++ {
			for i, f := range targets {
				s[i][out][in] = n.interpolate(f, out, in)
			}
		}
	}

	return &Network{
		freqs: append([]float64(nil), targets...),
		s:     s,
	}
}

// interpolate evaluates S[out][in] at frequency f (Hz) by linear
// interpolation on the original grid. f must lie within the measured
// domain; callers clamp before interpolating.
func (n *Network) interpolate(f float64, out, in int) complex128 {
	freqs := n.freqs
	idx := sort.SearchFloat64s(freqs, f)
	if idx < len(freqs) && freqs[idx] == f {
		return n.s[idx][out][in]
	}
	if idx == 0 {
		return n.s[0][out][in]
	}
	if idx >= len(freqs) {
		return n.s[len(freqs)-1][out][in]
	}

	f0, f1 := freqs[idx-1], freqs[idx]
	v0, v1 := n.s[idx-1][out][in], n.s[idx][out][in]
	t := (f - f0) / (f1 - f0)

	re := real(v0) + t*(real(v1)-real(v0))
	im := imag(v0) + t*(imag(v1)-imag(v0))
	return complex(re, im)
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:0]
	for i, f := range sorted {
		if i == 0 || f != sorted[i-1] {
			out = append(out, f)
		}
	}
	return out
}
