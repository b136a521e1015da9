package profile

import (
	"errors"
	"strings"
)

// ErrFallback is returned by Resolve when the raw profile failed
// validation and the default profile was substituted. Reinterpretation is
// best-effort; callers log the error and continue with the returned
// profile rather than blocking play.
var ErrFallback = errors.New("profile failed validation, using default")

// Profile is a named set of plain-text semantic fields that reinterpret
// the encounter mechanics for a different genre. The JSON schema of the
// encounter never changes per genre; only these strings do.
type Profile struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Genre           string `json:"genre"`
	Goal            string `json:"goal"`
	Stakes          string `json:"stakes"`
	ResourceMeaning string `json:"resource_meaning"`
	ActionMeaning   string `json:"action_meaning"`
	StatusMeaning   string `json:"status_meaning"`
	SummaryFraming  string `json:"summary_framing"`
}

// SafeProfile carries the sanitized field values. It is immutable once
// produced; Resolve always returns a fresh copy.
type SafeProfile struct {
	Genre           string
	Goal            string
	Stakes          string
	ResourceMeaning string
	ActionMeaning   string
	StatusMeaning   string
	SummaryFraming  string
}

// Default returns the traditional combat profile used when a custom
// profile is absent or fails validation.
func Default() Profile {
	return Profile{
		ID:              "default",
		Name:            "Traditional Combat",
		Genre:           "a fantasy battle",
		Goal:            "defeat all enemies",
		Stakes:          "the lives of the party",
		ResourceMeaning: "hit points representing physical health",
		ActionMeaning:   "attacks, spells and combat maneuvers",
		StatusMeaning:   "combat conditions such as poisoned or stunned",
		SummaryFraming:  "an after-action report of the battle",
	}
}

// Resolve validates and sanitizes a raw profile. On any required field
// missing or empty after sanitization, the default profile is resolved
// instead and ErrFallback is returned alongside it.
func Resolve(raw Profile) (*SafeProfile, error) {
	safe := &SafeProfile{
		Genre:           SanitizeField(raw.Genre),
		Goal:            SanitizeField(raw.Goal),
		Stakes:          SanitizeField(raw.Stakes),
		ResourceMeaning: SanitizeField(raw.ResourceMeaning),
		ActionMeaning:   SanitizeField(raw.ActionMeaning),
		StatusMeaning:   SanitizeField(raw.StatusMeaning),
		SummaryFraming:  SanitizeField(raw.SummaryFraming),
	}

	for _, field := range safe.fields() {
		if field == "" || ContainsOverride(field) {
			def, _ := Resolve(Default())
			return def, ErrFallback
		}
	}
	return safe, nil
}

func (sp *SafeProfile) fields() []string {
	return []string{
		sp.Genre, sp.Goal, sp.Stakes,
		sp.ResourceMeaning, sp.ActionMeaning,
		sp.StatusMeaning, sp.SummaryFraming,
	}
}

// Substitute replaces recognized {placeholder} tokens in a prompt
// template with the sanitized field values. Unrecognized placeholders are
// left untouched.
func (sp *SafeProfile) Substitute(template string) string {
	replacer := strings.NewReplacer(
		"{genre}", sp.Genre,
		"{goal}", sp.Goal,
		"{stakes}", sp.Stakes,
		"{resource_meaning}", sp.ResourceMeaning,
		"{action_meaning}", sp.ActionMeaning,
		"{status_meaning}", sp.StatusMeaning,
		"{summary_framing}", sp.SummaryFraming,
	)
	return replacer.Replace(template)
}
