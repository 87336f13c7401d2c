package measurement

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"rf-compliance/internal/errors"
)

// Filename conventions for measurement files, e.g.
// 20250930_S-Par-SIT_Run1_L109908_SN0001_PRI.s4p. Date, serial number,
// part number and path type are required; temperature defaults to ambient
// when absent. Test stage is never parsed from filenames - callers select
// it explicitly.
var (
	datePattern   = regexp.MustCompile(`(\d{8})`)                  // YYYYMMDD
	serialPattern = regexp.MustCompile(`(SN\d{4}|EM-?\d{4})`)      // SNnnnn / EMnnnn / EM-nnnn
	partPattern   = regexp.MustCompile(`(L\d{6})`)                 // Lnnnnnn
	pathPattern   = regexp.MustCompile(`(?i)[_.-](PRI|RED)(?:_(HG|LG))?(?:[_.]|$)`)
	tempPattern   = regexp.MustCompile(`(?:^|[_.-])(AMB|HOT|COLD)(?:[_.-]|$)`)
	runPattern    = regexp.MustCompile(`(?i)Run(\d+)`)
)

// FileMetadata is the metadata extracted from a measurement filename.
type FileMetadata struct {
	Date         time.Time
	SerialNumber string
	PartNumber   string
	PathType     PathType
	Temperature  Temperature
	TestType     string
	RunNumber    string
	Filename     string
	FilePath     string
}

// ParseFilename extracts measurement metadata from a file path. Missing
// required fields (date, serial number, part number, path type) are a
// PARSING_ERROR naming the field.
func ParseFilename(path string) (*FileMetadata, error) {
	name := filepath.Base(path)
	meta := &FileMetadata{
		Filename:    name,
		FilePath:    path,
		Temperature: TempAmbient,
	}

	if m := datePattern.FindStringSubmatch(name); m != nil {
		date, err := time.Parse("20060102", m[1])
		if err != nil {
			return nil, errors.Parsing("invalid date in filename: "+m[1], err)
		}
		meta.Date = date
	} else {
		return nil, errors.Newf(errors.TypeParsing, "filename missing date (YYYYMMDD): %s", name)
	}

	if m := serialPattern.FindStringSubmatch(name); m != nil {
		// EM-nnnn is normalized to EMnnnn.
		meta.SerialNumber = strings.ReplaceAll(m[1], "-", "")
	} else {
		return nil, errors.Newf(errors.TypeParsing, "filename missing serial number (SNnnnn or EMnnnn): %s", name)
	}

	if m := partPattern.FindStringSubmatch(name); m != nil {
		meta.PartNumber = m[1]
	} else {
		return nil, errors.Newf(errors.TypeParsing, "filename missing part number (Lnnnnnn): %s", name)
	}

	if m := pathPattern.FindStringSubmatch(name); m != nil {
		path := strings.ToUpper(m[1])
		if m[2] != "" {
			path += "_" + strings.ToUpper(m[2])
		}
		meta.PathType = PathType(path)
	} else {
		return nil, errors.Newf(errors.TypeParsing, "filename missing path type (PRI or RED): %s", name)
	}

	if m := tempPattern.FindStringSubmatch(strings.ToUpper(name)); m != nil {
		meta.Temperature = Temperature(m[1])
	}

	if m := runPattern.FindStringSubmatch(name); m != nil {
		meta.RunNumber = "Run" + m[1]
	}

	if strings.Contains(strings.ToLower(name), "s-par") {
		meta.TestType = "S-Parameters"
	}

	return meta, nil
}

// ToMeasurement builds a measurement record from parsed metadata. Test
// stage comes from the caller, never the filename.
func (f *FileMetadata) ToMeasurement(testStage string) *Measurement {
	m := &Measurement{
		SerialNumber: f.SerialNumber,
		TestType:     f.TestType,
		TestStage:    testStage,
		Temperature:  f.Temperature,
		PathType:     f.PathType,
		FilePath:     f.FilePath,
		Date:         f.Date,
		Metadata:     map[string]string{},
	}
	if f.PartNumber != "" {
		m.Metadata["part_number"] = f.PartNumber
	}
	if f.RunNumber != "" {
		m.Metadata["run_number"] = f.RunNumber
	}
	m.EnsureID()
	return m
}
