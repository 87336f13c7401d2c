package measurement

import (
	"testing"
	"time"

	"rf-compliance/internal/errors"
)

func TestParseFilenameFull(t *testing.T) {
	meta, err := ParseFilename("20250930_S-Par-SIT_Run1_L109908_SN0001_PRI.s4p")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}

	if want := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC); !meta.Date.Equal(want) {
		t.Errorf("date = %v, want %v", meta.Date, want)
	}
	if meta.SerialNumber != "SN0001" {
		t.Errorf("serial = %q, want SN0001", meta.SerialNumber)
	}
	if meta.PartNumber != "L109908" {
		t.Errorf("part = %q, want L109908", meta.PartNumber)
	}
	if meta.PathType != PathPrimary {
		t.Errorf("path = %q, want PRI", meta.PathType)
	}
	if meta.Temperature != TempAmbient {
		t.Errorf("temperature = %q, want AMB default", meta.Temperature)
	}
	if meta.RunNumber != "Run1" {
		t.Errorf("run = %q, want Run1", meta.RunNumber)
	}
	if meta.TestType != "S-Parameters" {
		t.Errorf("test type = %q, want S-Parameters", meta.TestType)
	}
}

func TestParseFilenameVariants(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		serial string
		path   PathType
		temp   Temperature
	}{
		{
			"engineering model serial normalized",
			"20250101_S-Par_Run2_L123456_EM-1234_RED.s2p",
			"EM1234", PathRedundant, TempAmbient,
		},
		{
			"engineering model without dash",
			"20250101_S-Par_Run2_L123456_EM1234_RED.s2p",
			"EM1234", PathRedundant, TempAmbient,
		},
		{
			"hot temperature",
			"20250315_HOT_S-Par_L654321_SN0042_PRI.s4p",
			"SN0042", PathPrimary, TempHot,
		},
		{
			"cold with high gain path",
			"20250315_COLD_S-Par_L654321_SN0042_PRI_HG.s4p",
			"SN0042", PathPrimaryHighGain, TempCold,
		},
		{
			"redundant low gain",
			"20250315_S-Par_L654321_SN0042_RED_LG.s4p",
			"SN0042", PathRedundantLowGain, TempAmbient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseFilename(tt.file)
			if err != nil {
				t.Fatalf("ParseFilename: %v", err)
			}
			if meta.SerialNumber != tt.serial {
				t.Errorf("serial = %q, want %q", meta.SerialNumber, tt.serial)
			}
			if meta.PathType != tt.path {
				t.Errorf("path = %q, want %q", meta.PathType, tt.path)
			}
			if meta.Temperature != tt.temp {
				t.Errorf("temperature = %q, want %q", meta.Temperature, tt.temp)
			}
		})
	}
}

func TestParseFilenameMissingFields(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"missing date", "S-Par_Run1_L109908_SN0001_PRI.s4p"},
		{"missing serial", "20250930_S-Par_Run1_L109908_PRI.s4p"},
		{"missing part number", "20250930_S-Par_Run1_SN0001_PRI.s4p"},
		{"missing path type", "20250930_S-Par_Run1_L109908_SN0001.s4p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilename(tt.file)
			if !errors.IsType(err, errors.TypeParsing) {
				t.Errorf("got %v, want PARSING_ERROR", err)
			}
		})
	}
}

func TestParseFilenameUsesBaseName(t *testing.T) {
	meta, err := ParseFilename("/data/runs/20250930_S-Par_Run1_L109908_SN0001_PRI.s4p")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if meta.Filename != "20250930_S-Par_Run1_L109908_SN0001_PRI.s4p" {
		t.Errorf("filename = %q, want base name", meta.Filename)
	}
	if meta.FilePath != "/data/runs/20250930_S-Par_Run1_L109908_SN0001_PRI.s4p" {
		t.Errorf("file path = %q, want full path", meta.FilePath)
	}
}

func TestToMeasurement(t *testing.T) {
	meta, err := ParseFilename("20250930_S-Par_Run1_L109908_SN0001_PRI.s4p")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}

	m := meta.ToMeasurement("SIT")
	if m.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("measurement id was not assigned")
	}
	if m.TestStage != "SIT" {
		t.Errorf("stage = %q, want SIT (caller-selected, never parsed)", m.TestStage)
	}
	if m.SerialNumber != "SN0001" || m.PathType != PathPrimary {
		t.Errorf("measurement fields not carried over: %+v", m)
	}
	if m.Metadata["part_number"] != "L109908" {
		t.Errorf("part number metadata = %q", m.Metadata["part_number"])
	}
	if m.Metadata["run_number"] != "Run1" {
		t.Errorf("run number metadata = %q", m.Metadata["run_number"])
	}
}

func TestMeasurementValidate(t *testing.T) {
	valid := Measurement{
		SerialNumber: "SN0001",
		TestType:     "S-Parameters",
		TestStage:    "SIT",
		Temperature:  TempAmbient,
		PathType:     PathPrimary,
		Date:         time.Now(),
	}
	valid.EnsureID()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid measurement rejected: %v", err)
	}

	bad := valid
	bad.Temperature = "WARM"
	if err := bad.Validate(); err == nil {
		t.Error("unknown temperature accepted")
	}

	bad = valid
	bad.PathType = "AUX"
	if err := bad.Validate(); err == nil {
		t.Error("unknown path type accepted")
	}
}
