package vo

// Phase pipeline phase of a job
type Phase string

const (
	PhaseCreated     Phase = "created"
	PhaseValidating  Phase = "validating"
	PhaseDownloading Phase = "downloading"
	PhaseTranscoding Phase = "transcoding"
	PhasePublishing  Phase = "publishing"
	PhaseCleaningUp  Phase = "cleaning_up"
	PhaseSucceeded   Phase = "succeeded"
	PhaseFailed      Phase = "failed"
)

// String returns the phase name
func (p Phase) String() string {
	return string(p)
}

// IsFinal reports whether the job has ended
func (p Phase) IsFinal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// CanTransitionTo checks the forward-only phase graph. Any working phase may
// fail; CleaningUp is skipped when the source file is kept.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseFailed {
		return !p.IsFinal() && p != PhaseCreated && p != PhaseCleaningUp
	}
	switch p {
	case PhaseCreated:
		return target == PhaseValidating
	case PhaseValidating:
		return target == PhaseDownloading
	case PhaseDownloading:
		return target == PhaseTranscoding
	case PhaseTranscoding:
		return target == PhasePublishing
	case PhasePublishing:
		return target == PhaseCleaningUp || target == PhaseSucceeded
	case PhaseCleaningUp:
		return target == PhaseSucceeded
	default:
		return false
	}
}
