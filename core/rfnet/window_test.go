package rfnet

import (
	"math"
	"testing"
)

// rampNetwork builds a 1-port network over the GHz grid where S11 at
// frequency f Hz equals complex(f/1e10, -f/1e10). Linear in frequency, so
// interpolation is exact at any target point.
func rampNetwork(t *testing.T, freqsGHz []float64) *Network {
	t.Helper()

	freqs := make([]float64, len(freqsGHz))
	s := make([][][]complex128, len(freqsGHz))
	for i, f := range freqsGHz {
		hz := f * GHz
		freqs[i] = hz
		s[i] = [][]complex128{{complex(hz/1e10, -hz/1e10)}}
	}

	n, err := NewNetwork(freqs, s)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	return n
}

func TestWindowKeepsInteriorSamplesAndBounds(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	w := Window(n, 2.5, 5.5)

	want := []float64{2.5e9, 3e9, 4e9, 5e9, 5.5e9}
	if w.NPoints() != len(want) {
		t.Fatalf("NPoints = %d, want %d (grid %v)", w.NPoints(), len(want), w.Frequencies())
	}
	for i, f := range want {
		if got := w.FrequencyHz(i); got != f {
			t.Errorf("frequency[%d] = %v, want %v", i, got, f)
		}
	}
}

func TestWindowInterpolatesLinearly(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4})

	w := Window(n, 1.5, 3.5)

	// Linear trace: interpolated values sit exactly on the ramp.
	for i := 0; i < w.NPoints(); i++ {
		f := w.FrequencyHz(i)
		want := complex(f/1e10, -f/1e10)
		got := w.SElem(i, 0, 0)
		if math.Abs(real(got)-real(want)) > 1e-12 || math.Abs(imag(got)-imag(want)) > 1e-12 {
			t.Errorf("S11 at %v Hz = %v, want %v", f, got, want)
		}
	}
}

func TestWindowSwapsReversedBounds(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4, 5})

	forward := Window(n, 2, 4)
	reversed := Window(n, 4, 2)

	if forward.NPoints() != reversed.NPoints() {
		t.Fatalf("point counts differ: %d vs %d", forward.NPoints(), reversed.NPoints())
	}
	for i := 0; i < forward.NPoints(); i++ {
		if forward.FrequencyHz(i) != reversed.FrequencyHz(i) {
			t.Errorf("frequency[%d] differs: %v vs %v", i, forward.FrequencyHz(i), reversed.FrequencyHz(i))
		}
	}
}

func TestWindowClampsToMeasuredDomain(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4, 5})

	w := Window(n, 0.1, 99)

	if w.NPoints() != n.NPoints() {
		t.Fatalf("NPoints = %d, want %d", w.NPoints(), n.NPoints())
	}
	if w.MinFrequencyHz() != 1*GHz || w.MaxFrequencyHz() != 5*GHz {
		t.Errorf("window = %v..%v, want clamped to 1e9..5e9", w.MinFrequencyHz(), w.MaxFrequencyHz())
	}
}

func TestWindowEntirelyOutsideDomainCollapses(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3})

	// Both bounds clamp to the top of the measured domain.
	w := Window(n, 50, 60)

	if w.NPoints() != 1 {
		t.Fatalf("NPoints = %d, want 1 (grid %v)", w.NPoints(), w.Frequencies())
	}
	if w.FrequencyHz(0) != 3*GHz {
		t.Errorf("frequency = %v, want 3e9", w.FrequencyHz(0))
	}
}

func TestWindowIsIdempotent(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4, 5, 6})

	once := Window(n, 2.2, 4.8)
	twice := Window(once, 2.2, 4.8)

	if once.NPoints() != twice.NPoints() {
		t.Fatalf("point counts differ: %d vs %d", once.NPoints(), twice.NPoints())
	}
	for i := 0; i < once.NPoints(); i++ {
		if once.FrequencyHz(i) != twice.FrequencyHz(i) {
			t.Errorf("frequency[%d] differs: %v vs %v", i, once.FrequencyHz(i), twice.FrequencyHz(i))
		}
		if once.SElem(i, 0, 0) != twice.SElem(i, 0, 0) {
			t.Errorf("S11[%d] differs: %v vs %v", i, once.SElem(i, 0, 0), twice.SElem(i, 0, 0))
		}
	}
}

func TestWindowDoesNotMutateSource(t *testing.T) {
	n := rampNetwork(t, []float64{1, 2, 3, 4})
	before := n.Frequencies()

	Window(n, 1.5, 3.5)

	after := n.Frequencies()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("source grid changed at %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestWindowEmptyNetworkReturnsCopy(t *testing.T) {
	n, err := NewNetwork(nil, nil)
	if err != nil {
		t.Fatalf("NewNetwork(empty): %v", err)
	}

	w := Window(n, 1, 2)
	if w == n {
		t.Error("empty window returned the same instance, want a copy")
	}
	if w.NPoints() != 0 {
		t.Errorf("NPoints = %d, want 0", w.NPoints())
	}
}
