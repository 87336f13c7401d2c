// Package compliance evaluates measured S-parameter networks against
// structured criteria, fanning each criterion out across every applicable
// S-parameter.
//
// The evaluator is a pure function of its inputs: it holds no mutable
// shared state, performs no I/O, and is safe for concurrent use across
// measurements. Results are created fresh on every call and never mutated;
// staleness bookkeeping belongs to the storage layer, not the engine.
package compliance

import (
	"github.com/google/uuid"
)

// Result is the outcome of evaluating one criterion against one
// S-parameter of one measurement. Generic criteria produce one Result per
// applicable S-parameter.
type Result struct {
	ID            uuid.UUID `json:"id"`
	MeasurementID uuid.UUID `json:"measurement_id"`
	CriterionID   uuid.UUID `json:"criterion_id"`

	// SParameter is the label this result applies to (e.g. "S21").
	SParameter string `json:"s_parameter"`

	// MeasuredValue is the metric that was compared against the
	// criterion. Nil when the calculation failed.
	MeasuredValue *float64 `json:"measured_value,omitempty"`

	Passed bool `json:"passed"`
}

func newResult(measurementID, criterionID uuid.UUID, label string, value float64, passed bool) Result {
	return Result{
		ID:            uuid.New(),
		MeasurementID: measurementID,
		CriterionID:   criterionID,
		SParameter:    label,
		MeasuredValue: &value,
		Passed:        passed,
	}
}

// AllPassed reports whether every result passed. An empty set passes:
// with nothing evaluated there is nothing to fail.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
