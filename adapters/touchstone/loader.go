// Package touchstone reads Touchstone v1 S-parameter files (.s1p, .s2p,
// ... .s9p) into rfnet networks.
//
// This is the external measurement-format collaborator of the compliance
// engine: core packages never read files, they consume the networks this
// package produces.
package touchstone

import (
	"bufio"
	"io"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"rf-compliance/core/rfnet"
	"rf-compliance/internal/errors"
)

var extPattern = regexp.MustCompile(`(?i)^\.s(\d+)p$`)

// dataFormat is the value encoding declared on the option line.
type dataFormat string

const (
	formatRI dataFormat = "RI" // real, imaginary
	formatMA dataFormat = "MA" // magnitude, angle in degrees
	formatDB dataFormat = "DB" // 20*log10(magnitude), angle in degrees
)

var unitMultipliers = map[string]float64{
	"HZ":  1,
	"KHZ": 1e3,
	"MHZ": 1e6,
	"GHZ": 1e9,
}

// Load reads a Touchstone file from disk. The port count comes from the
// extension (.s2p = 2 ports).
func Load(path string) (*rfnet.Network, error) {
	nPorts, err := PortCount(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Parsing("failed to open touchstone file", err).WithContext("path", path)
	}
	defer f.Close()

	return Parse(f, nPorts)
}

// PortCount derives the port count from a Touchstone file extension.
func PortCount(path string) (int, error) {
	ext := filepath.Ext(path)
	m := extPattern.FindStringSubmatch(ext)
	if m == nil {
		return 0, errors.Newf(errors.TypeParsing,
			"file does not appear to be a Touchstone file: %s (expected extension like .s2p, .s4p)", path)
	}
	nPorts, err := strconv.Atoi(m[1])
	if err != nil || nPorts < 1 {
		return 0, errors.Newf(errors.TypeParsing, "invalid Touchstone extension: %s", ext)
	}
	return nPorts, nil
}

// Parse reads Touchstone v1 content for a network with nPorts ports.
//
// The option line (# <unit> S <format> R <impedance>) defaults to
// "# GHZ S MA R 50" when absent. Two-port files store data in the
// historical column order S11 S21 S12 S22; all other port counts are
// row-major.
func Parse(r io.Reader, nPorts int) (*rfnet.Network, error) {
	unitScale := unitMultipliers["GHZ"]
	format := formatMA

	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sawOption := false

	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "!"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if sawOption {
				// Touchstone v1 allows only one option line; later
				// ones are ignored like most readers do.
				continue
			}
			sawOption = true
			var err error
			unitScale, format, err = parseOptionLine(line)
			if err != nil {
				return nil, err
			}
			continue
		}

		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Parsing("failed to read touchstone content", err)
	}

	valuesPerRecord := 1 + 2*nPorts*nPorts
	if len(tokens)%valuesPerRecord != 0 {
		return nil, errors.Newf(errors.TypeParsing,
			"touchstone data size %d is not a multiple of record size %d for %d ports",
			len(tokens), valuesPerRecord, nPorts)
	}

	nPoints := len(tokens) / valuesPerRecord
	freqs := make([]float64, 0, nPoints)
	matrices := make([][][]complex128, 0, nPoints)

	for rec := 0; rec < nPoints; rec++ {
		fields := tokens[rec*valuesPerRecord : (rec+1)*valuesPerRecord]

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Parsing("invalid frequency value: "+fields[0], err)
		}
		freqs = append(freqs, freq*unitScale)

		matrix := make([][]complex128, nPorts)
		for i := range matrix {
			matrix[i] = make([]complex128, nPorts)
		}
		for k := 0; k < nPorts*nPorts; k++ {
			a, err := strconv.ParseFloat(fields[1+2*k], 64)
			if err != nil {
				return nil, errors.Parsing("invalid S-parameter value: "+fields[1+2*k], err)
			}
			b, err := strconv.ParseFloat(fields[2+2*k], 64)
			if err != nil {
				return nil, errors.Parsing("invalid S-parameter value: "+fields[2+2*k], err)
			}

			row, col := k/nPorts, k%nPorts
			if nPorts == 2 {
				// Two-port quirk: value order is S11 S21 S12 S22.
				row, col = k%2, k/2
			}
			matrix[row][col] = decodeValue(format, a, b)
		}
		matrices = append(matrices, matrix)
	}

	network, err := rfnet.NewNetwork(freqs, matrices)
	if err != nil {
		return nil, errors.Parsing("touchstone data failed network validation", err)
	}
	return network, nil
}

func parseOptionLine(line string) (float64, dataFormat, error) {
	unitScale := unitMultipliers["GHZ"]
	format := formatMA

	fields := strings.Fields(strings.ToUpper(strings.TrimPrefix(line, "#")))
	for i := 0; i < len(fields); i++ {
		switch f := fields[i]; {
		case f == "S":
			// Scattering parameters, the only type this system measures.
		case f == "Y" || f == "Z" || f == "H" || f == "G":
			return 0, "", errors.Newf(errors.TypeParsing, "unsupported parameter type %s (only S-parameters)", f)
		case f == "R":
			// Reference impedance; value follows, unused here.
			i++
		case f == string(formatRI) || f == string(formatMA) || f == string(formatDB):
			format = dataFormat(f)
		default:
			if scale, ok := unitMultipliers[f]; ok {
				unitScale = scale
			}
		}
	}
	return unitScale, format, nil
}

func decodeValue(format dataFormat, a, b float64) complex128 {
	switch format {
	case formatRI:
		return complex(a, b)
	case formatDB:
		return cmplx.Rect(math.Pow(10, a/20), b*math.Pi/180)
	default: // MA
		return cmplx.Rect(a, b*math.Pi/180)
	}
}
