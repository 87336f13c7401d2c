package device

import (
	"sort"

	"rf-compliance/core/sparam"
	"rf-compliance/internal/errors"
)

// PortConfig declares which ports of a device are signal inputs and which
// are signal outputs. Ports are 1-indexed. The two sets must be disjoint
// and each non-empty; a port cannot be both an input and an output.
//
// The configuration resolves which S-parameters represent gain
// (input → output transmission) versus VSWR (same-port reflection).
type PortConfig struct {
	InputPorts  []int `json:"input_ports"`
	OutputPorts []int `json:"output_ports"`
}

// Validate checks the port configuration invariants.
func (p PortConfig) Validate() error {
	if len(p.InputPorts) == 0 {
		return errors.Validation("at least one input port must be specified")
	}
	if len(p.OutputPorts) == 0 {
		return errors.Validation("at least one output port must be specified")
	}

	inputs := make(map[int]bool, len(p.InputPorts))
	for _, port := range p.InputPorts {
		if port < 1 {
			return errors.Validationf("port numbers must be >= 1 (1-indexed), got %d", port)
		}
		inputs[port] = true
	}
	for _, port := range p.OutputPorts {
		if port < 1 {
			return errors.Validationf("port numbers must be >= 1 (1-indexed), got %d", port)
		}
		if inputs[port] {
			return errors.Validationf("port %d cannot be both input and output", port)
		}
	}
	return nil
}

// AllPorts returns every configured port, sorted and deduplicated.
func (p PortConfig) AllPorts() []int {
	seen := make(map[int]bool, len(p.InputPorts)+len(p.OutputPorts))
	all := make([]int, 0, len(p.InputPorts)+len(p.OutputPorts))
	for _, port := range append(append([]int(nil), p.InputPorts...), p.OutputPorts...) {
		if !seen[port] {
			seen[port] = true
			all = append(all, port)
		}
	}
	sort.Ints(all)
	return all
}

// GainParameters returns the sorted transmission labels S{out}{in} for
// every input/output pair whose ports both fit within nPorts. These are
// the S-parameters gain, flatness and OOB criteria fan out across.
func (p PortConfig) GainParameters(nPorts int) []string {
	var labels []string
	for _, in := range p.InputPorts {
		for _, out := range p.OutputPorts {
			if in <= nPorts && out <= nPorts {
				labels = append(labels, sparam.TransmissionLabel(out, in))
			}
		}
	}
	sort.Strings(labels)
	return labels
}

// VSWRParameters returns the sorted reflection labels S{p}{p} for every
// configured port within nPorts. These are the S-parameters VSWR
// criteria fan out across.
func (p PortConfig) VSWRParameters(nPorts int) []string {
	var labels []string
	for _, port := range p.AllPorts() {
		if port <= nPorts {
			labels = append(labels, sparam.ReflectionLabel(port))
		}
	}
	sort.Strings(labels)
	return labels
}
