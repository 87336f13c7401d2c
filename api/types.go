// Package api - API types for compliance evaluation
// These types define the contract for the /evaluate endpoint.
// The API is stateless: callers supply the network, the port roles and
// the criteria; the response is the full compliance report.
package api

import (
	"github.com/google/uuid"

	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/core/rfnet"
	"rf-compliance/internal/errors"
)

// EvaluateRequest is the input to POST /evaluate.
type EvaluateRequest struct {
	// MeasurementID tags the results; a fresh one is generated if empty.
	MeasurementID string `json:"measurement_id,omitempty"`

	// Network is the measured S-parameter data.
	Network NetworkPayload `json:"network"`

	// Ports assigns input and output roles to the network ports.
	Ports device.PortConfig `json:"ports"`

	// Criteria are evaluated against the network.
	Criteria []CriterionPayload `json:"criteria"`

	// Operational band bounds in GHz, used for in-band windowing.
	OperationalFreqMinGHz float64 `json:"operational_freq_min_ghz"`
	OperationalFreqMaxGHz float64 `json:"operational_freq_max_ghz"`
}

// NetworkPayload is the wire form of an S-parameter network. The real and
// imaginary parts travel separately because JSON has no complex type; both
// are indexed [point][outPort][inPort].
type NetworkPayload struct {
	FrequenciesHz []float64     `json:"frequencies_hz"`
	SReal         [][][]float64 `json:"s_real"`
	SImag         [][][]float64 `json:"s_imag"`
}

// CriterionPayload is the wire form of a criterion definition.
type CriterionPayload struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	TestType  string   `json:"test_type,omitempty"`
	TestStage string   `json:"test_stage"`
	Kind      string   `json:"kind"`
	Lower     *float64 `json:"lower,omitempty"`
	Upper     *float64 `json:"upper,omitempty"`
	Unit      string   `json:"unit,omitempty"`

	BandMinGHz *float64 `json:"band_min_ghz,omitempty"`
	BandMaxGHz *float64 `json:"band_max_ghz,omitempty"`
}

// ConvertRequest is the input to POST /convert/vswr-to-return-loss.
type ConvertRequest struct {
	VSWR float64 `json:"vswr"`
}

// ConvertResponse carries the converted value.
type ConvertResponse struct {
	VSWR         float64 `json:"vswr"`
	ReturnLossDB float64 `json:"return_loss_db"`
}

// toNetwork validates the payload and builds the immutable network.
func (p *NetworkPayload) toNetwork() (*rfnet.Network, error) {
	if len(p.SReal) != len(p.FrequenciesHz) || len(p.SImag) != len(p.FrequenciesHz) {
		return nil, errors.Format("s_real and s_imag must have one matrix per frequency point")
	}

	matrices := make([][][]complex128, len(p.FrequenciesHz))
	for i := range p.SReal {
		re, im := p.SReal[i], p.SImag[i]
		if len(re) != len(im) {
			return nil, errors.Formatf("point %d: s_real and s_imag dimensions differ", i)
		}
		matrix := make([][]complex128, len(re))
		for r := range re {
			if len(re[r]) != len(im[r]) {
				return nil, errors.Formatf("point %d row %d: s_real and s_imag dimensions differ", i, r)
			}
			row := make([]complex128, len(re[r]))
			for c := range re[r] {
				row[c] = complex(re[r][c], im[r][c])
			}
			matrix[r] = row
		}
		matrices[i] = matrix
	}

	return rfnet.NewNetwork(p.FrequenciesHz, matrices)
}

// toCriteria validates and classifies every criterion payload.
func toCriteria(payloads []CriterionPayload, deviceID uuid.UUID) ([]*criteria.Criterion, error) {
	crits := make([]*criteria.Criterion, 0, len(payloads))
	for _, p := range payloads {
		def := criteria.Definition{
			DeviceID:  deviceID,
			TestType:  p.TestType,
			TestStage: p.TestStage,
			Name:      p.Name,
			Kind:      criteria.Kind(p.Kind),
			Lower:     p.Lower,
			Upper:     p.Upper,
			Unit:      p.Unit,
		}
		if p.ID != "" {
			id, err := uuid.Parse(p.ID)
			if err != nil {
				return nil, errors.Validationf("criterion %q: invalid id", p.Name)
			}
			def.ID = id
		}
		if (p.BandMinGHz == nil) != (p.BandMaxGHz == nil) {
			return nil, errors.Validationf("criterion %q: band_min_ghz and band_max_ghz must be provided together", p.Name)
		}
		if p.BandMinGHz != nil {
			def.Band = &criteria.Band{MinGHz: *p.BandMinGHz, MaxGHz: *p.BandMaxGHz}
		}

		crit, err := criteria.New(def)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeValidation, err, "criterion %q is invalid", p.Name)
		}
		crits = append(crits, crit)
	}
	return crits, nil
}
