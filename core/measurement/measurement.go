// Package measurement models a single loaded RF measurement and the
// filename conventions its metadata is extracted from.
package measurement

import (
	"time"

	"github.com/google/uuid"

	"rf-compliance/core/rfnet"
	"rf-compliance/internal/errors"
)

// Temperature is the environmental condition a measurement was taken at.
type Temperature string

const (
	TempAmbient Temperature = "AMB"
	TempHot     Temperature = "HOT"
	TempCold    Temperature = "COLD"
)

// PathType identifies which signal path a measurement exercises. Multi-gain
// devices add high-gain/low-gain suffixes.
type PathType string

const (
	PathPrimary           PathType = "PRI"
	PathRedundant         PathType = "RED"
	PathPrimaryHighGain   PathType = "PRI_HG"
	PathPrimaryLowGain    PathType = "PRI_LG"
	PathRedundantHighGain PathType = "RED_HG"
	PathRedundantLowGain  PathType = "RED_LG"
)

var validTemperatures = map[Temperature]bool{
	TempAmbient: true,
	TempHot:     true,
	TempCold:    true,
}

var validPathTypes = map[PathType]bool{
	PathPrimary:           true,
	PathRedundant:         true,
	PathPrimaryHighGain:   true,
	PathPrimaryLowGain:    true,
	PathRedundantHighGain: true,
	PathRedundantLowGain:  true,
}

// Measurement is one measurement file loaded for a specific device, serial
// number, temperature and path. The network is the parsed S-parameter data;
// the engine treats it as read-only.
type Measurement struct {
	ID       uuid.UUID `json:"id"`
	DeviceID uuid.UUID `json:"device_id"`

	// SerialNumber is SNnnnn or EMnnnn, extracted from the filename.
	SerialNumber string `json:"serial_number"`

	TestType  string `json:"test_type"`
	TestStage string `json:"test_stage"`

	Temperature Temperature `json:"temperature"`
	PathType    PathType    `json:"path_type"`

	FilePath string    `json:"file_path"`
	Date     time.Time `json:"date"`

	// Network holds the parsed S-parameter sweep. It is nil for
	// measurement records loaded without their data.
	Network *rfnet.Network `json:"-"`

	// Metadata carries extra filename-derived fields (part number,
	// run number).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks the enumerated fields.
func (m *Measurement) Validate() error {
	if !validTemperatures[m.Temperature] {
		return errors.Validationf("temperature must be one of AMB, HOT, COLD, got: %s", m.Temperature)
	}
	if !validPathTypes[m.PathType] {
		return errors.Validationf("invalid path type: %s", m.PathType)
	}
	if m.SerialNumber == "" {
		return errors.Validation("serial number must not be empty")
	}
	return nil
}

// EnsureID assigns a fresh identity if the measurement has none.
func (m *Measurement) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}
