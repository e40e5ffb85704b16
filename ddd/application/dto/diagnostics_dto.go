package dto

const (
	CheckPass = "pass"
	CheckWarn = "warn"
	CheckFail = "fail"
)

// CheckDTO outcome of one deployment check
type CheckDTO struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
	Hints   []string `json:"hints,omitempty"`
}

// DiagnosticsDTO report of a setup run. Score counts the security checks
// (API key, CORS, directories) that passed.
type DiagnosticsDTO struct {
	Checks   []CheckDTO `json:"checks"`
	Score    int        `json:"score"`
	MaxScore int        `json:"max_score"`
}

// Passed reports whether no check failed.
func (d *DiagnosticsDTO) Passed() bool {
	for _, c := range d.Checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return d.Score == d.MaxScore
}
