// Package specfile loads device and criteria definitions from HCL files.
//
// Definition files (conventionally *.rfspec.hcl) carry one device block and
// any number of criterion blocks:
//
//	device {
//	  name         = "Ka-band amplifier"
//	  part_number  = "L109908"
//	  input_ports  = [1, 2]
//	  output_ports = [3, 4]
//
//	  operational_band {
//	    min_ghz = 27.0
//	    max_ghz = 31.0
//	  }
//
//	  wideband {
//	    min_ghz = 1.0
//	    max_ghz = 40.0
//	  }
//	}
//
//	criterion "Gain Range" {
//	  test_stage = "SIT"
//	  kind       = "range"
//	  lower      = 27.5
//	  upper      = 31.3
//	  unit       = "dB"
//	}
package specfile

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/internal/errors"
)

// DefaultTestType is assumed for criteria that do not declare one.
const DefaultTestType = "S-Parameters"

type fileHCL struct {
	Device   *deviceHCL     `hcl:"device,block"`
	Criteria []criterionHCL `hcl:"criterion,block"`
}

type deviceHCL struct {
	Name        string `hcl:"name"`
	Description string `hcl:"description,optional"`
	PartNumber  string `hcl:"part_number"`

	InputPorts  []int `hcl:"input_ports"`
	OutputPorts []int `hcl:"output_ports"`
	MultiGain   bool  `hcl:"multi_gain,optional"`

	TestsPerformed []string `hcl:"tests_performed,optional"`

	OperationalBand bandHCL `hcl:"operational_band,block"`
	Wideband        bandHCL `hcl:"wideband,block"`
}

type bandHCL struct {
	MinGHz float64 `hcl:"min_ghz"`
	MaxGHz float64 `hcl:"max_ghz"`
}

type criterionHCL struct {
	Name string `hcl:"name,label"`

	TestType  string   `hcl:"test_type,optional"`
	TestStage string   `hcl:"test_stage"`
	Kind      string   `hcl:"kind"`
	Lower     *float64 `hcl:"lower,optional"`
	Upper     *float64 `hcl:"upper,optional"`
	Unit      string   `hcl:"unit,optional"`

	Band *bandHCL `hcl:"band,block"`
}

// Spec is a parsed definition file: one device plus its criteria, all
// validated and ready for the evaluator.
type Spec struct {
	Device   *device.Device
	Criteria []*criteria.Criterion
}

// Load parses a definition file from disk.
func Load(path string) (*Spec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read definition file", err).WithContext("path", path)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. The filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse definition file", diags)
	}

	var raw fileHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode definition file", diags)
	}
	if raw.Device == nil {
		return nil, errors.Newf(errors.TypeParsing, "%s: definition file must contain a device block", filename)
	}

	dev := &device.Device{
		Name:                  raw.Device.Name,
		Description:           raw.Device.Description,
		PartNumber:            raw.Device.PartNumber,
		OperationalFreqMinGHz: raw.Device.OperationalBand.MinGHz,
		OperationalFreqMaxGHz: raw.Device.OperationalBand.MaxGHz,
		WidebandFreqMinGHz:    raw.Device.Wideband.MinGHz,
		WidebandFreqMaxGHz:    raw.Device.Wideband.MaxGHz,
		MultiGainMode:         raw.Device.MultiGain,
		TestsPerformed:        raw.Device.TestsPerformed,
		Ports: device.PortConfig{
			InputPorts:  raw.Device.InputPorts,
			OutputPorts: raw.Device.OutputPorts,
		},
	}
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	dev.EnsureID()

	spec := &Spec{Device: dev}
	for _, rc := range raw.Criteria {
		def := criteria.Definition{
			DeviceID:  dev.ID,
			TestType:  rc.TestType,
			TestStage: rc.TestStage,
			Name:      rc.Name,
			Kind:      criteria.Kind(rc.Kind),
			Lower:     rc.Lower,
			Upper:     rc.Upper,
			Unit:      rc.Unit,
		}
		if def.TestType == "" {
			def.TestType = DefaultTestType
		}
		if rc.Band != nil {
			def.Band = &criteria.Band{MinGHz: rc.Band.MinGHz, MaxGHz: rc.Band.MaxGHz}
		}

		crit, err := criteria.New(def)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeValidation, err, "criterion %q is invalid", rc.Name)
		}
		spec.Criteria = append(spec.Criteria, crit)
	}

	return spec, nil
}
