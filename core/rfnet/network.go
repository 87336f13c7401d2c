// Package rfnet holds the in-memory representation of a swept S-parameter
// measurement and frequency-domain windowing over it.
//
// The package does not read measurement files; it operates on data an
// external Touchstone reader has already parsed. Frequencies are stored in
// Hz; the public windowing API takes bounds in GHz because that is the unit
// device specifications are written in.
package rfnet

import (
	"math"

	"rf-compliance/internal/errors"
)

// GHz converts gigahertz to hertz.
const GHz = 1e9

// Network is an immutable swept S-parameter measurement: a strictly
// increasing frequency grid and one P×P complex matrix per grid point.
// Construct it with NewNetwork and treat it as read-only afterwards;
// concurrent readers need no synchronization.
type Network struct {
	freqs []float64        // Hz, strictly increasing
	s     [][][]complex128 // [point][outPort][inPort], 0-indexed
}

// NewNetwork validates and wraps a frequency grid and S-parameter matrix.
// The inputs are copied so later caller mutations cannot corrupt the
// network. Validation failures return a VALIDATION_ERROR.
func NewNetwork(freqsHz []float64, s [][][]complex128) (*Network, error) {
	if len(freqsHz) != len(s) {
		return nil, errors.Validationf("frequency count %d does not match matrix count %d", len(freqsHz), len(s))
	}

	nPorts := 0
	if len(s) > 0 {
		nPorts = len(s[0])
		if nPorts < 1 {
			return nil, errors.Validation("network must have at least one port")
		}
	}

	for i, f := range freqsHz {
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return nil, errors.Validationf("frequency at index %d is not a positive finite value: %v", i, f)
		}
		if i > 0 && f <= freqsHz[i-1] {
			return nil, errors.Validationf("frequencies must be strictly increasing (index %d: %v after %v)", i, f, freqsHz[i-1])
		}
	}

	for i, matrix := range s {
		if len(matrix) != nPorts {
			return nil, errors.Validationf("matrix at point %d has %d rows, want %d", i, len(matrix), nPorts)
		}
		for r, row := range matrix {
			if len(row) != nPorts {
				return nil, errors.Validationf("matrix at point %d row %d has %d columns, want %d", i, r, len(row), nPorts)
			}
			for c, v := range row {
				if !isFinite(v) {
					return nil, errors.Validationf("S(%d,%d) at point %d is not finite", r+1, c+1, i)
				}
			}
		}
	}

	return &Network{
		freqs: append([]float64(nil), freqsHz...),
		s:     copyMatrix(s),
	}, nil
}

// NPoints returns the number of frequency points.
func (n *Network) NPoints() int {
	return len(n.freqs)
}

// NPorts returns the port count, or 0 for an empty network.
func (n *Network) NPorts() int {
	if len(n.s) == 0 {
		return 0
	}
	return len(n.s[0])
}

// FrequencyHz returns the frequency of point i in Hz.
func (n *Network) FrequencyHz(i int) float64 {
	return n.freqs[i]
}

// Frequencies returns a copy of the frequency grid in Hz.
func (n *Network) Frequencies() []float64 {
	return append([]float64(nil), n.freqs...)
}

// MinFrequencyHz returns the first (lowest) grid frequency.
// Panics on an empty network.
func (n *Network) MinFrequencyHz() float64 {
	return n.freqs[0]
}

// MaxFrequencyHz returns the last (highest) grid frequency.
// Panics on an empty network.
func (n *Network) MaxFrequencyHz() float64 {
	return n.freqs[len(n.freqs)-1]
}

// SElem returns S[out][in] at frequency point i. Ports are 0-indexed here;
// the 1-indexed engineering labels are resolved by core/sparam.
func (n *Network) SElem(i, out, in int) complex128 {
	return n.s[i][out][in]
}

// STrace returns the per-point values of a single S-parameter as a fresh
// slice aligned with the frequency grid. Ports are 0-indexed.
func (n *Network) STrace(out, in int) []complex128 {
	trace := make([]complex128, len(n.s))
	for i := range n.s {
		trace[i] = n.s[i][out][in]
	}
	return trace
}

// Copy returns a deep copy of the network.
func (n *Network) Copy() *Network {
	return &Network{
		freqs: append([]float64(nil), n.freqs...),
		s:     copyMatrix(n.s),
	}
}

func copyMatrix(s [][][]complex128) [][][]complex128 {
	out := make([][][]complex128, len(s))
	for i, matrix := range s {
		out[i] = make([][]complex128, len(matrix))
		for r, row := range matrix {
			out[i][r] = append([]complex128(nil), row...)
		}
	}
	return out
}

func isFinite(v complex128) bool {
	re, im := real(v), imag(v)
	return !math.IsNaN(re) && !math.IsInf(re, 0) && !math.IsNaN(im) && !math.IsInf(im, 0)
}
