// Package report assembles per-measurement compliance reports from raw
// evaluation results.
//
// Measured values and pass margins are rendered through fixed-precision
// decimals so report output is stable across runs; raw float64 formatting
// drifts in the last digits and made report diffs noisy.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rf-compliance/core/compliance"
	"rf-compliance/core/criteria"
)

// DefaultDecimals is the display precision for measured values.
const DefaultDecimals int32 = 2

// Entry is one rendered result row.
type Entry struct {
	SParameter    string `json:"s_parameter"`
	MeasuredValue string `json:"measured_value"`

	// Margin is the distance to the nearest bound; negative when the
	// value violates it. Empty when no value was measured.
	Margin string `json:"margin,omitempty"`

	Passed bool `json:"passed"`
}

// CriterionSummary groups the entries of one criterion.
type CriterionSummary struct {
	CriterionID uuid.UUID `json:"criterion_id"`
	Name        string    `json:"name"`
	Family      string    `json:"family"`
	Unit        string    `json:"unit"`
	Entries     []Entry   `json:"entries"`
	Passed      bool      `json:"passed"`
}

// Report is the full compliance report for one measurement.
type Report struct {
	MeasurementID uuid.UUID          `json:"measurement_id"`
	Generated     time.Time          `json:"generated"`
	Criteria      []CriterionSummary `json:"criteria"`
	TotalResults  int                `json:"total_results"`
	PassedCount   int                `json:"passed_count"`
	FailedCount   int                `json:"failed_count"`
	OverallPassed bool               `json:"overall_passed"`
}

// Build groups results by criterion, in the order the criteria are given,
// and aggregates overall pass status. Results referencing unknown criteria
// are ignored.
func Build(measurementID uuid.UUID, results []compliance.Result, crits []*criteria.Criterion) *Report {
	byCriterion := make(map[uuid.UUID][]compliance.Result)
	for _, r := range results {
		byCriterion[r.CriterionID] = append(byCriterion[r.CriterionID], r)
	}

	rep := &Report{
		MeasurementID: measurementID,
		Generated:     time.Now().UTC(),
		OverallPassed: true,
	}

	for _, crit := range crits {
		critResults, ok := byCriterion[crit.ID]
		if !ok {
			continue
		}

		summary := CriterionSummary{
			CriterionID: crit.ID,
			Name:        crit.Name,
			Family:      crit.Family().String(),
			Unit:        crit.Unit,
			Passed:      true,
		}
		for _, r := range critResults {
			entry := Entry{
				SParameter: r.SParameter,
				Passed:     r.Passed,
			}
			if r.MeasuredValue != nil {
				entry.MeasuredValue = FormatValue(*r.MeasuredValue, DefaultDecimals)
				entry.Margin = FormatValue(Margin(crit, *r.MeasuredValue), DefaultDecimals)
			}
			summary.Entries = append(summary.Entries, entry)

			rep.TotalResults++
			if r.Passed {
				rep.PassedCount++
			} else {
				rep.FailedCount++
				summary.Passed = false
				rep.OverallPassed = false
			}
		}
		rep.Criteria = append(rep.Criteria, summary)
	}

	return rep
}

// FormatValue renders a measured value at fixed precision.
func FormatValue(v float64, decimals int32) string {
	return decimal.NewFromFloat(v).Round(decimals).StringFixed(decimals)
}

// Margin returns the distance from a value to the nearest criterion
// bound: positive inside the allowed region, negative outside. For range
// criteria it is the smaller of the two bound distances.
func Margin(crit *criteria.Criterion, value float64) float64 {
	v := decimal.NewFromFloat(value)
	switch crit.Kind {
	case criteria.KindRange:
		lower := v.Sub(decimal.NewFromFloat(*crit.Lower))
		upper := decimal.NewFromFloat(*crit.Upper).Sub(v)
		if lower.LessThan(upper) {
			f, _ := lower.Float64()
			return f
		}
		f, _ := upper.Float64()
		return f
	case criteria.KindMin, criteria.KindGreaterThanEqual:
		f, _ := v.Sub(decimal.NewFromFloat(*crit.Lower)).Float64()
		return f
	case criteria.KindMax, criteria.KindLessThanEqual:
		f, _ := decimal.NewFromFloat(*crit.Upper).Sub(v).Float64()
		return f
	default:
		return 0
	}
}
