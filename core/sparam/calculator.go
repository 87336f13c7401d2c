package sparam

import (
	"math"
	"math/cmplx"

	"rf-compliance/core/rfnet"
	"rf-compliance/internal/errors"
)

// magnitudeFloor is the clip floor applied to reflection magnitudes before
// taking log10, avoiding -Inf at a perfect match.
const magnitudeFloor = 1e-10

// Calculator derives scalar and per-frequency metrics from a network.
// It holds no state and is safe for concurrent use.
type Calculator struct{}

// NewCalculator returns a metric calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// GainDB returns 20*log10(|S|) for the labelled transmission parameter at
// every frequency point, aligned with the network's frequency grid.
func (c *Calculator) GainDB(n *rfnet.Network, label string) ([]float64, error) {
	out, in, err := ParseLabel(label)
	if err != nil {
		return nil, err
	}
	if err := checkPort(out, n.NPorts()); err != nil {
		return nil, err
	}
	if err := checkPort(in, n.NPorts()); err != nil {
		return nil, err
	}

	gain := make([]float64, n.NPoints())
	for i := range gain {
		gain[i] = 20 * math.Log10(cmplx.Abs(n.SElem(i, out-1, in-1)))
	}
	return gain, nil
}

// GainRange windows the network to [fMinGHz, fMaxGHz] and returns the
// minimum and maximum gain over the windowed points.
func (c *Calculator) GainRange(n *rfnet.Network, fMinGHz, fMaxGHz float64, label string) (minGain, maxGain float64, err error) {
	windowed := rfnet.Window(n, fMinGHz, fMaxGHz)
	gain, err := c.GainDB(windowed, label)
	if err != nil {
		return 0, 0, err
	}

	minGain, maxGain = gain[0], gain[0]
	for _, g := range gain[1:] {
		if g < minGain {
			minGain = g
		}
		if g > maxGain {
			maxGain = g
		}
	}
	return minGain, maxGain, nil
}

// Flatness returns the gain span (max - min) over the operational range.
// Lower is better; the value is never negative.
func (c *Calculator) Flatness(n *rfnet.Network, fMinGHz, fMaxGHz float64, label string) (float64, error) {
	minGain, maxGain, err := c.GainRange(n, fMinGHz, fMaxGHz, label)
	if err != nil {
		return 0, err
	}
	return maxGain - minGain, nil
}

// LowestInBandGain returns the minimum gain over the operational range.
// This is the reference baseline for out-of-band rejection.
func (c *Calculator) LowestInBandGain(n *rfnet.Network, fMinGHz, fMaxGHz float64, label string) (float64, error) {
	minGain, _, err := c.GainRange(n, fMinGHz, fMaxGHz, label)
	return minGain, err
}

// VSWR returns the voltage standing wave ratio (1+|Γ|)/(1-|Γ|) at every
// frequency point for the given 1-indexed port.
func (c *Calculator) VSWR(n *rfnet.Network, port int) ([]float64, error) {
	if err := checkPort(port, n.NPorts()); err != nil {
		return nil, err
	}

	vswr := make([]float64, n.NPoints())
	for i := range vswr {
		gamma := cmplx.Abs(n.SElem(i, port-1, port-1))
		vswr[i] = (1 + gamma) / (1 - gamma)
	}
	return vswr, nil
}

// WorstVSWR returns the maximum (worst-case) VSWR for a port over the
// inclusive frequency range. Compliance is checked against the worst
// matching point, so a single bad point fails the band.
func (c *Calculator) WorstVSWR(n *rfnet.Network, port int, fMinGHz, fMaxGHz float64) (float64, error) {
	vswr, err := c.VSWR(rfnet.Window(n, fMinGHz, fMaxGHz), port)
	if err != nil {
		return 0, err
	}

	worst := vswr[0]
	for _, v := range vswr[1:] {
		if v > worst {
			worst = v
		}
	}
	return worst, nil
}

// ReturnLoss returns 20*log10(|Γ|) at every frequency point for a port,
// with |Γ| clipped to [1e-10, 1]. More negative is a better match.
func (c *Calculator) ReturnLoss(n *rfnet.Network, port int) ([]float64, error) {
	if err := checkPort(port, n.NPorts()); err != nil {
		return nil, err
	}

	rl := make([]float64, n.NPoints())
	for i := range rl {
		gamma := clip(cmplx.Abs(n.SElem(i, port-1, port-1)), magnitudeFloor, 1.0)
		rl[i] = 20 * math.Log10(gamma)
	}
	return rl, nil
}

// WorstReturnLoss returns the minimum (most negative, worst-case) return
// loss for a port over the inclusive frequency range.
func (c *Calculator) WorstReturnLoss(n *rfnet.Network, port int, fMinGHz, fMaxGHz float64) (float64, error) {
	rl, err := c.ReturnLoss(rfnet.Window(n, fMinGHz, fMaxGHz), port)
	if err != nil {
		return 0, err
	}

	worst := rl[0]
	for _, v := range rl[1:] {
		if v < worst {
			worst = v
		}
	}
	return worst, nil
}

// OOBRejection returns the worst-case out-of-band rejection in dBc for a
// transmission parameter: the minimum over the OOB window of
// (lowest in-band gain - OOB gain). Higher is better isolation; the
// minimum is used so one weak point fails the whole band.
func (c *Calculator) OOBRejection(n *rfnet.Network, oobMinGHz, oobMaxGHz, opMinGHz, opMaxGHz float64, label string) (float64, error) {
	lowestInBand, err := c.LowestInBandGain(n, opMinGHz, opMaxGHz, label)
	if err != nil {
		return 0, err
	}

	oobGain, err := c.GainDB(rfnet.Window(n, oobMinGHz, oobMaxGHz), label)
	if err != nil {
		return 0, err
	}

	worst := lowestInBand - oobGain[0]
	for _, g := range oobGain[1:] {
		if rej := lowestInBand - g; rej < worst {
			worst = rej
		}
	}
	return worst, nil
}

// VSWRToReturnLoss converts a VSWR value to return loss in dB:
// |Γ| = (vswr-1)/(vswr+1), RL = 20*log10(|Γ|). A VSWR below 1.0 is
// outside the function's domain and returns a DOMAIN_ERROR.
func VSWRToReturnLoss(vswr float64) (float64, error) {
	if vswr < 1.0 {
		return 0, errors.Newf(errors.TypeDomain, "VSWR must be >= 1.0, got %v", vswr)
	}

	gamma := (vswr - 1.0) / (vswr + 1.0)
	if gamma < magnitudeFloor {
		gamma = magnitudeFloor
	}
	return 20 * math.Log10(gamma), nil
}

func checkPort(port, nPorts int) error {
	if port < 1 || port > nPorts {
		return errors.Port(port, nPorts)
	}
	return nil
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
