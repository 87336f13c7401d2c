// Package stage defines the standard test stages.
//
// Test stages represent phases of device testing; the same test type can
// carry different requirements per stage. Stages are never parsed from
// measurement filenames - callers select them explicitly.
package stage

// Standard test stages. Adding a stage requires updating every criteria
// set that is keyed by stage.
const (
	BoardBringUp = "Board-Bring-Up"
	SIT          = "SIT"
	TestCampaign = "Test-Campaign"
)

// Stages returns the standard test stages in canonical order.
func Stages() []string {
	return []string{BoardBringUp, SIT, TestCampaign}
}

var displayNames = map[string]string{
	BoardBringUp: "Board Bring-Up",
	SIT:          "Select-In-Test",
	TestCampaign: "Test Campaign",
}

// IsValid reports whether s is a standard test stage.
func IsValid(s string) bool {
	_, ok := displayNames[s]
	return ok
}

// DisplayName returns the human-readable name for a stage, falling back
// to the stage identifier itself.
func DisplayName(s string) string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return s
}
