// Package device models the unit under test: identification, frequency
// band specifications and the port-role configuration that determines
// which S-parameters carry gain versus reflection requirements.
package device

import (
	"regexp"

	"github.com/google/uuid"

	"rf-compliance/internal/errors"
)

// Part numbers follow the strict format L followed by exactly six digits.
var partNumberPattern = regexp.MustCompile(`^L\d{6}$`)

// Device is a testable device type. Frequency bounds are in GHz: the
// operational band is where primary gain/flatness requirements apply, the
// wideband range covers extended analysis and plotting.
type Device struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PartNumber  string    `json:"part_number"`

	OperationalFreqMinGHz float64 `json:"operational_freq_min_ghz"`
	OperationalFreqMaxGHz float64 `json:"operational_freq_max_ghz"`
	WidebandFreqMinGHz    float64 `json:"wideband_freq_min_ghz"`
	WidebandFreqMaxGHz    float64 `json:"wideband_freq_max_ghz"`

	// MultiGainMode devices have separate high-gain and low-gain paths,
	// doubling the measurement files per temperature.
	MultiGainMode bool `json:"multi_gain_mode"`

	// TestsPerformed lists the test types this device undergoes,
	// e.g. "S-Parameters".
	TestsPerformed []string `json:"tests_performed,omitempty"`

	Ports PortConfig `json:"ports"`
}

// Validate checks all device invariants: part number format, frequency
// range ordering and positivity, and the port configuration.
func (d *Device) Validate() error {
	if d.Name == "" {
		return errors.Validation("device name must not be empty")
	}
	if !partNumberPattern.MatchString(d.PartNumber) {
		return errors.Validationf("part number must be in format Lnnnnnn (L followed by 6 digits), got: %s", d.PartNumber)
	}

	if d.OperationalFreqMinGHz <= 0 || d.OperationalFreqMaxGHz <= 0 {
		return errors.Validation("operational frequencies must be positive")
	}
	if d.OperationalFreqMinGHz >= d.OperationalFreqMaxGHz {
		return errors.Validationf("operational_freq_min (%v) must be less than operational_freq_max (%v)",
			d.OperationalFreqMinGHz, d.OperationalFreqMaxGHz)
	}

	if d.WidebandFreqMinGHz <= 0 || d.WidebandFreqMaxGHz <= 0 {
		return errors.Validation("wideband frequencies must be positive")
	}
	if d.WidebandFreqMinGHz >= d.WidebandFreqMaxGHz {
		return errors.Validationf("wideband_freq_min (%v) must be less than wideband_freq_max (%v)",
			d.WidebandFreqMinGHz, d.WidebandFreqMaxGHz)
	}

	return d.Ports.Validate()
}

// EnsureID assigns a fresh identity if the device has none.
func (d *Device) EnsureID() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
}
