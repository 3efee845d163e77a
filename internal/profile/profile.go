// Package profile loads conversion profiles: small JSON documents that carry
// the same column selections the CLI flags do, so a working invocation can be
// checked in and shared instead of retyped.
//
// Example:
//
//	{
//	  "job": "nginx_access",
//	  "drop": "2,5",
//	  "dequote": "3",
//	  "labels": "host,3:bytes",
//	  "casts": "3:int64,4:from_seconds",
//	  "sanitize_labels": true
//	}
//
// List fields use the exact CLI syntax (comma-separated, positional or
// "N:value" pinned entries). Explicit CLI flags override profile values
// field by field.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"csv2opal/internal/colspec"
)

// Profile is a JSON conversion profile.
type Profile struct {
	// Job names the run for metrics and traces.
	Job string `json:"job"`

	// Drop lists 1-based column numbers excluded from all output.
	Drop string `json:"drop"`

	// Dequote lists 1-based column numbers whose values have literal '"'
	// characters removed before embedding.
	Dequote string `json:"dequote"`

	// Labels assigns output field names, dual positional/pinned syntax.
	Labels string `json:"labels"`

	// Casts assigns output type-cast function names, dual syntax.
	Casts string `json:"casts"`

	// SanitizeLabels converts header-derived labels into lowercase ASCII
	// identifiers.
	SanitizeLabels bool `json:"sanitize_labels"`
}

// Load reads and decodes a profile file. Unknown keys are rejected so typos
// surface instead of silently configuring nothing.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: open: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("profile: decode %s: %w", path, err)
	}
	return &p, nil
}

// Apply folds the profile into b. List syntax errors are returned wrapped
// with the field they came from.
func (p *Profile) Apply(b *colspec.Builder) error {
	if p.Drop != "" {
		if err := b.SetDrop(p.Drop); err != nil {
			return fmt.Errorf("profile: drop: %w", err)
		}
	}
	if p.Dequote != "" {
		if err := b.SetDequote(p.Dequote); err != nil {
			return fmt.Errorf("profile: dequote: %w", err)
		}
	}
	if p.Labels != "" {
		if err := b.SetLabels(p.Labels); err != nil {
			return fmt.Errorf("profile: labels: %w", err)
		}
	}
	if p.Casts != "" {
		if err := b.SetCasts(p.Casts); err != nil {
			return fmt.Errorf("profile: casts: %w", err)
		}
	}
	if p.SanitizeLabels {
		b.SanitizeLabels = true
	}
	return nil
}

// Lint reports non-fatal findings about the profile itself.
func (p *Profile) Lint() []colspec.Issue {
	var issues []colspec.Issue
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, colspec.Issue{
			Severity: colspec.SeverityWarning,
			Path:     "profile.job",
			Message:  "job is empty; metrics and traces fall back to the default job name",
		})
	}
	if p.Drop == "" && p.Dequote == "" && p.Labels == "" && p.Casts == "" && !p.SanitizeLabels {
		issues = append(issues, colspec.Issue{
			Severity: colspec.SeverityWarning,
			Path:     "profile",
			Message:  "profile sets nothing; every column passes through with defaults",
		})
	}
	return issues
}
