package colspec

import "fmt"

// IssueSeverity classifies a configuration finding.
type IssueSeverity string

const (
	// SeverityError indicates a finding that should block the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding worth surfacing that does not block
	// the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single configuration finding. Path names the setting it applies
// to ("drop", "labels", "profile.casts", ...); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be handed to callers
// that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}
