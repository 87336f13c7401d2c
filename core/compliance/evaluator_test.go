package compliance

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/core/rfnet"
)

func fp(v float64) *float64 { return &v }

// amplifierNetwork builds a 4-port network over 1-4 GHz modelled on a
// dual-channel amplifier: inputs 1,2 and outputs 3,4. Transmission paths
// carry gainMag in the 1-2 GHz operational band and oobMag in the 3-4 GHz
// band; every reflection term has magnitude 0.2 (VSWR 1.5).
func amplifierNetwork(t *testing.T, gainMag, oobMag float64) *rfnet.Network {
	t.Helper()

	freqsGHz := []float64{1, 2, 3, 4}
	transMags := []float64{gainMag, gainMag, oobMag, oobMag}

	freqs := make([]float64, len(freqsGHz))
	s := make([][][]complex128, len(freqsGHz))
	for i, f := range freqsGHz {
		freqs[i] = f * rfnet.GHz
		matrix := make([][]complex128, 4)
		for r := range matrix {
			matrix[r] = make([]complex128, 4)
			for c := range matrix[r] {
				switch {
				case r == c:
					matrix[r][c] = complex(0.2, 0)
				case r >= 2 && c < 2:
					// Input -> output transmission.
					matrix[r][c] = complex(transMags[i], 0)
				default:
					matrix[r][c] = complex(0.01, 0)
				}
			}
		}
		s[i] = matrix
	}

	n, err := rfnet.NewNetwork(freqs, s)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	return n
}

func splitterPorts() device.PortConfig {
	return device.PortConfig{InputPorts: []int{1, 2}, OutputPorts: []int{3, 4}}
}

func mustCriterion(t *testing.T, def criteria.Definition) *criteria.Criterion {
	t.Helper()
	c, err := criteria.New(def)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	return c
}

func TestEvaluateGainRangeFansOut(t *testing.T) {
	n := amplifierNetwork(t, 10, 10) // 20 dB everywhere
	crit := mustCriterion(t, criteria.Definition{
		Name: "Gain Range", Kind: criteria.KindRange, Lower: fp(19), Upper: fp(21),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 (S31 S32 S41 S42)", len(results))
	}
	labels := map[string]bool{}
	for _, r := range results {
		labels[r.SParameter] = true
		if !r.Passed {
			t.Errorf("%s failed, want pass", r.SParameter)
		}
		if r.MeasuredValue == nil || math.Abs(*r.MeasuredValue-20) > 1e-9 {
			t.Errorf("%s measured value = %v, want 20 (the windowed maximum)", r.SParameter, r.MeasuredValue)
		}
		if r.CriterionID != crit.ID {
			t.Errorf("%s carries criterion id %v, want %v", r.SParameter, r.CriterionID, crit.ID)
		}
	}
	for _, want := range []string{"S31", "S32", "S41", "S42"} {
		if !labels[want] {
			t.Errorf("missing result for %s", want)
		}
	}
}

func TestEvaluateGainRangeRequiresBothExtremes(t *testing.T) {
	// Gain ramps from 20 dB to ~26 dB inside the band: the minimum
	// satisfies [19,21] but the maximum does not, so the label fails.
	n := amplifierNetwork(t, 10, 10)
	freqs := n.Frequencies()
	s := make([][][]complex128, n.NPoints())
	for i := range s {
		s[i] = make([][]complex128, 4)
		for r := 0; r < 4; r++ {
			s[i][r] = make([]complex128, 4)
			for c := 0; c < 4; c++ {
				s[i][r][c] = n.SElem(i, r, c)
			}
		}
	}
	for r := 2; r < 4; r++ {
		for c := 0; c < 2; c++ {
			s[1][r][c] = complex(20, 0) // 26 dB spike at 2 GHz
		}
	}
	spiked, err := rfnet.NewNetwork(freqs, s)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	crit := mustCriterion(t, criteria.Definition{
		Name: "Gain Range", Kind: criteria.KindRange, Lower: fp(19), Upper: fp(21),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), spiked, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if r.Passed {
			t.Errorf("%s passed, want fail (maximum exceeds the range)", r.SParameter)
		}
		want := 20 * math.Log10(20)
		if r.MeasuredValue == nil || math.Abs(*r.MeasuredValue-want) > 1e-9 {
			t.Errorf("%s measured value = %v, want the maximum %v", r.SParameter, r.MeasuredValue, want)
		}
	}
}

func TestEvaluateVSWRFansOutAcrossAllPorts(t *testing.T) {
	n := amplifierNetwork(t, 10, 10)
	crit := mustCriterion(t, criteria.Definition{
		Name: "VSWR Max", Kind: criteria.KindMax, Upper: fp(2),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 (S11 S22 S33 S44)", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s failed, want pass", r.SParameter)
		}
		if r.MeasuredValue == nil || math.Abs(*r.MeasuredValue-1.5) > 1e-9 {
			t.Errorf("%s VSWR = %v, want 1.5", r.SParameter, r.MeasuredValue)
		}
	}
}

func TestEvaluateFlatness(t *testing.T) {
	n := amplifierNetwork(t, 10, 10)
	crit := mustCriterion(t, criteria.Definition{
		Name: "Flatness", Kind: criteria.KindLessThanEqual, Upper: fp(1),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s failed, flat trace must pass", r.SParameter)
		}
	}
}

func TestEvaluateOOBRejection(t *testing.T) {
	// 20 dB in band, -40 dB out of band: 60 dBc rejection.
	n := amplifierNetwork(t, 10, 0.01)
	crit := mustCriterion(t, criteria.Definition{
		Name: "Rejection", Kind: criteria.KindMin, Lower: fp(55),
		Band: &criteria.Band{MinGHz: 3, MaxGHz: 4},
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s failed, want pass (60 dBc >= 55)", r.SParameter)
		}
		if r.MeasuredValue == nil || math.Abs(*r.MeasuredValue-60) > 1e-9 {
			t.Errorf("%s rejection = %v, want 60", r.SParameter, r.MeasuredValue)
		}
	}
}

func TestEvaluateOOBRejectionFailsWhenInsufficient(t *testing.T) {
	// Only 20 dBc of rejection against a 55 dBc requirement.
	n := amplifierNetwork(t, 10, 1)
	crit := mustCriterion(t, criteria.Definition{
		Name: "Rejection", Kind: criteria.KindMin, Lower: fp(55),
		Band: &criteria.Band{MinGHz: 3, MaxGHz: 4},
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	for _, r := range results {
		if r.Passed {
			t.Errorf("%s passed with insufficient rejection", r.SParameter)
		}
	}
}

func TestEvaluateOOBWithoutLowerBoundFailsClosed(t *testing.T) {
	// An OOB-classified criterion whose kind carries no lower bound can
	// never pass, no matter how good the rejection is.
	n := amplifierNetwork(t, 10, 0.0001)
	crit := mustCriterion(t, criteria.Definition{
		Name: "Spurious", Kind: criteria.KindMax, Upper: fp(100),
		Band: &criteria.Band{MinGHz: 3, MaxGHz: 4},
	})
	if crit.Family() != criteria.FamilyOOB {
		t.Fatalf("family = %v, want oob-rejection", crit.Family())
	}

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if r.Passed {
			t.Errorf("%s passed without a lower bound, must fail closed", r.SParameter)
		}
	}
}

func TestEvaluateUnclassifiedProducesNoResults(t *testing.T) {
	n := amplifierNetwork(t, 10, 10)
	crit := mustCriterion(t, criteria.Definition{
		Name: "Noise Figure", Kind: criteria.KindMax, Upper: fp(3),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 0 {
		t.Errorf("got %d results for an unclassified criterion, want 0", len(results))
	}
}

func TestEvaluatePortsBeyondNetworkAreIsolated(t *testing.T) {
	// The configuration names port 5; the network has 4. Only the labels
	// the network can serve produce results.
	n := amplifierNetwork(t, 10, 10)
	ports := device.PortConfig{InputPorts: []int{1}, OutputPorts: []int{3, 5}}
	crit := mustCriterion(t, criteria.Definition{
		Name: "Gain Range", Kind: criteria.KindRange, Lower: fp(19), Upper: fp(21),
	})

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, ports, []*criteria.Criterion{crit}, 1, 2)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only S31 is measurable)", len(results))
	}
	if results[0].SParameter != "S31" {
		t.Errorf("result label = %s, want S31", results[0].SParameter)
	}
	if !results[0].Passed {
		t.Error("S31 failed, want pass")
	}
}

func TestEvaluateMultipleCriteria(t *testing.T) {
	n := amplifierNetwork(t, 10, 0.01)
	crits := []*criteria.Criterion{
		mustCriterion(t, criteria.Definition{Name: "Gain Range", Kind: criteria.KindRange, Lower: fp(19), Upper: fp(21)}),
		mustCriterion(t, criteria.Definition{Name: "VSWR Max", Kind: criteria.KindMax, Upper: fp(2)}),
		mustCriterion(t, criteria.Definition{Name: "Rejection", Kind: criteria.KindMin, Lower: fp(55), Band: &criteria.Band{MinGHz: 3, MaxGHz: 4}}),
	}

	results := NewEvaluator(nil).Evaluate(uuid.New(), n, splitterPorts(), crits, 1, 2)

	// 4 gain + 4 vswr + 4 oob.
	if len(results) != 12 {
		t.Fatalf("got %d results, want 12", len(results))
	}
	if !AllPassed(results) {
		t.Error("AllPassed = false, want true")
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed(nil) {
		t.Error("AllPassed(nil) = false, empty set must pass")
	}
	passing := newResult(uuid.New(), uuid.New(), "S21", 20, true)
	failing := newResult(uuid.New(), uuid.New(), "S21", 20, false)
	if !AllPassed([]Result{passing}) {
		t.Error("AllPassed with one pass = false")
	}
	if AllPassed([]Result{passing, failing}) {
		t.Error("AllPassed with one failure = true")
	}
}

func TestFresh(t *testing.T) {
	a := Annotated{Result: newResult(uuid.New(), uuid.New(), "S21", 20, true), Stale: false}
	b := Annotated{Result: newResult(uuid.New(), uuid.New(), "S21", 19, false), Stale: true}

	fresh := Fresh([]Annotated{a, b})
	if len(fresh) != 1 {
		t.Fatalf("got %d fresh results, want 1", len(fresh))
	}
	if fresh[0].ID != a.ID {
		t.Error("wrong result survived the stale filter")
	}
}
