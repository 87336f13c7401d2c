package compliance

// Annotated wraps a stored Result with bookkeeping the engine itself never
// writes. Stale is set by the storage layer when the originating criterion
// changes after the result was computed; stale results must be
// re-evaluated before being used for compliance decisions.
type Annotated struct {
	Result
	Stale bool `json:"stale"`
}

// Fresh filters out stale results.
func Fresh(results []Annotated) []Result {
	fresh := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Stale {
			fresh = append(fresh, r.Result)
		}
	}
	return fresh
}
