package compliance

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"rf-compliance/core/criteria"
)

func TestEvaluateBatch(t *testing.T) {
	good := amplifierNetwork(t, 10, 10)
	weak := amplifierNetwork(t, 5, 5) // ~14 dB, below the range

	items := []BatchItem{
		{MeasurementID: uuid.New(), Network: good},
		{MeasurementID: uuid.New(), Network: weak},
	}
	crit := mustCriterion(t, criteria.Definition{
		Name: "Gain Range", Kind: criteria.KindRange, Lower: fp(19), Upper: fp(21),
	})

	byMeasurement, err := NewEvaluator(nil).EvaluateBatch(
		context.Background(), items, splitterPorts(), []*criteria.Criterion{crit}, 1, 2, 2)
	if err != nil {
		t.Fatalf("EvaluateBatch: %v", err)
	}

	if len(byMeasurement) != 2 {
		t.Fatalf("got %d measurements, want 2", len(byMeasurement))
	}
	if !AllPassed(byMeasurement[items[0].MeasurementID]) {
		t.Error("good measurement failed")
	}
	if AllPassed(byMeasurement[items[1].MeasurementID]) {
		t.Error("weak measurement passed")
	}
	for id, results := range byMeasurement {
		if len(results) != 4 {
			t.Errorf("measurement %s has %d results, want 4", id, len(results))
		}
		for _, r := range results {
			if r.MeasurementID != id {
				t.Errorf("result tagged %s filed under %s", r.MeasurementID, id)
			}
		}
	}
}

func TestEvaluateBatchDefaultsParallelism(t *testing.T) {
	items := []BatchItem{{MeasurementID: uuid.New(), Network: amplifierNetwork(t, 10, 10)}}
	crit := mustCriterion(t, criteria.Definition{
		Name: "VSWR Max", Kind: criteria.KindMax, Upper: fp(2),
	})

	byMeasurement, err := NewEvaluator(nil).EvaluateBatch(
		context.Background(), items, splitterPorts(), []*criteria.Criterion{crit}, 1, 2, 0)
	if err != nil {
		t.Fatalf("EvaluateBatch: %v", err)
	}
	if len(byMeasurement[items[0].MeasurementID]) != 4 {
		t.Errorf("got %d results, want 4", len(byMeasurement[items[0].MeasurementID]))
	}
}

func TestEvaluateBatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []BatchItem{{MeasurementID: uuid.New(), Network: amplifierNetwork(t, 10, 10)}}
	crit := mustCriterion(t, criteria.Definition{
		Name: "VSWR Max", Kind: criteria.KindMax, Upper: fp(2),
	})

	_, err := NewEvaluator(nil).EvaluateBatch(
		ctx, items, splitterPorts(), []*criteria.Criterion{crit}, 1, 2, 1)
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}
