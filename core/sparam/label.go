// Package sparam derives RF engineering metrics (gain, flatness, VSWR,
// return loss, out-of-band rejection) from a swept S-parameter network.
//
// Transmission metrics are addressed by label strings of the exact form
// S{out}{in} with single decimal digits and 1-indexed ports, matching the
// notation used in device test specifications (S21 = port 1 in, port 2 out).
package sparam

import (
	"fmt"
	"regexp"

	"rf-compliance/internal/errors"
)

var labelPattern = regexp.MustCompile(`^S(\d)(\d)$`)

// ParseLabel splits an S-parameter label into its 1-indexed output and
// input ports. Anything other than exactly "S" followed by two decimal
// digits is a FORMAT_ERROR.
func ParseLabel(label string) (out, in int, err error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, errors.Formatf("invalid S-parameter format: %s", label)
	}
	out = int(m[1][0] - '0')
	in = int(m[2][0] - '0')
	return out, in, nil
}

// TransmissionLabel formats the label for transmission from in to out.
func TransmissionLabel(out, in int) string {
	return fmt.Sprintf("S%d%d", out, in)
}

// ReflectionLabel formats the reflection label for a port (S11, S22, ...).
func ReflectionLabel(port int) string {
	return fmt.Sprintf("S%d%d", port, port)
}
