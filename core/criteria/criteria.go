// Package criteria models structured pass/fail requirements and their
// classification into metric families.
//
// Requirement names are free text written by test engineers ("Gain Range",
// "VSWR Max", "OOB 1"). Classification into a metric family happens once at
// construction time; evaluation never re-parses the name.
package criteria

import (
	"strings"

	"github.com/google/uuid"

	"rf-compliance/internal/errors"
)

// Kind selects how a criterion's bounds are compared against a value.
type Kind string

const (
	// KindRange requires lower <= value <= upper.
	KindRange Kind = "range"

	// KindMin requires value >= lower.
	KindMin Kind = "min"

	// KindMax requires value <= upper.
	KindMax Kind = "max"

	// KindLessThanEqual requires value <= upper.
	KindLessThanEqual Kind = "less_than_equal"

	// KindGreaterThanEqual requires value >= lower.
	KindGreaterThanEqual Kind = "greater_than_equal"
)

// Family identifies which metric a criterion evaluates. It is decided once
// when the criterion is constructed.
type Family int

const (
	// FamilyUnclassified marks criteria for test types this engine does
	// not model. They are intentionally ignored and produce zero results.
	FamilyUnclassified Family = iota

	// FamilyGainRange checks windowed min/max gain against a range.
	FamilyGainRange

	// FamilyFlatness checks the gain span over the operational band.
	FamilyFlatness

	// FamilyVSWR checks worst-case VSWR per configured port.
	FamilyVSWR

	// FamilyOOB checks worst-case out-of-band rejection over the
	// criterion's own frequency band.
	FamilyOOB
)

// String returns the family name for logs and reports.
func (f Family) String() string {
	switch f {
	case FamilyGainRange:
		return "gain-range"
	case FamilyFlatness:
		return "flatness"
	case FamilyVSWR:
		return "vswr"
	case FamilyOOB:
		return "oob-rejection"
	default:
		return "unclassified"
	}
}

// Band is an inclusive [min,max] frequency band in GHz.
type Band struct {
	MinGHz float64 `json:"min_ghz"`
	MaxGHz float64 `json:"max_ghz"`
}

// Definition carries the raw fields of a criterion. Bounds are pointers so
// "absent" is distinguishable from zero.
type Definition struct {
	ID       uuid.UUID `json:"id"`
	DeviceID uuid.UUID `json:"device_id"`

	// TestType and TestStage key which measurements the criterion
	// applies to (e.g. "S-Parameters" at stage "SIT").
	TestType  string `json:"test_type"`
	TestStage string `json:"test_stage"`

	// Name is the free-text requirement name; generic names let one
	// criterion fan out across every applicable S-parameter.
	Name string `json:"name"`

	Kind  Kind     `json:"kind"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`

	// Unit is for display only, never used in computation.
	Unit string `json:"unit"`

	// Band is the out-of-band window for OOB rejection criteria.
	Band *Band `json:"band,omitempty"`
}

// Criterion is a validated requirement. Instances are always internally
// consistent: exactly the bounds required by Kind are present, and the
// metric family is fixed at construction.
type Criterion struct {
	Definition
	family Family
}

// New validates a definition, classifies it, and returns the criterion.
// Validation failure is fatal for the definition; invalid criteria must
// never reach the evaluator.
func New(def Definition) (*Criterion, error) {
	switch def.Kind {
	case KindRange:
		if def.Lower == nil || def.Upper == nil {
			return nil, errors.Validation("range criterion requires both lower and upper bounds")
		}
		if *def.Lower >= *def.Upper {
			return nil, errors.Validationf("lower bound (%v) must be less than upper bound (%v)", *def.Lower, *def.Upper)
		}
	case KindMin, KindGreaterThanEqual:
		if def.Lower == nil {
			return nil, errors.Validationf("%s criterion requires a lower bound", def.Kind)
		}
		if def.Upper != nil {
			return nil, errors.Validationf("%s criterion must not have an upper bound", def.Kind)
		}
	case KindMax, KindLessThanEqual:
		if def.Upper == nil {
			return nil, errors.Validationf("%s criterion requires an upper bound", def.Kind)
		}
		if def.Lower != nil {
			return nil, errors.Validationf("%s criterion must not have a lower bound", def.Kind)
		}
	default:
		return nil, errors.Validationf("unknown criterion kind: %q", def.Kind)
	}

	if def.Band != nil && def.Band.MinGHz >= def.Band.MaxGHz {
		return nil, errors.Validationf("band min (%v) must be less than band max (%v)", def.Band.MinGHz, def.Band.MaxGHz)
	}

	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}

	return &Criterion{
		Definition: def,
		family:     Classify(def.Name, def.Band),
	}, nil
}

// Family returns the metric family decided at construction.
func (c *Criterion) Family() Family {
	return c.family
}

// Evaluate reports whether a measured value satisfies the criterion.
func (c *Criterion) Evaluate(value float64) bool {
	switch c.Kind {
	case KindRange:
		return *c.Lower <= value && value <= *c.Upper
	case KindMin, KindGreaterThanEqual:
		return value >= *c.Lower
	case KindMax, KindLessThanEqual:
		return value <= *c.Upper
	default:
		// Unreachable for constructed criteria.
		return false
	}
}

// Classify maps a requirement name (and optional OOB band) to a family.
// Matching is case-insensitive substring matching, preserved from the
// requirement-naming conventions of existing test specifications:
// "gain"+"range", "flatness", "vswr", else a set band means OOB.
func Classify(name string, band *Band) Family {
	lowered := strings.ToLower(name)
	switch {
	case strings.Contains(lowered, "gain") && strings.Contains(lowered, "range"):
		return FamilyGainRange
	case strings.Contains(lowered, "flatness"):
		return FamilyFlatness
	case strings.Contains(lowered, "vswr"):
		return FamilyVSWR
	case band != nil:
		return FamilyOOB
	default:
		return FamilyUnclassified
	}
}
