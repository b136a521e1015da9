package profile

import (
	"regexp"
	"strings"
)

// MaxFieldLength is the per-field cap applied after sanitization.
const MaxFieldLength = 200

// Profile text is user-authored free text that gets injected into prompts
// sent to the oracle. These phrases are the common prompt-override
// openers; they are removed case-insensitively before injection.
var overridePhrases = []string{
	"ignore all previous",
	"ignore previous",
	"ignore the above",
	"disregard",
	"return only",
	"respond only",
	"new instructions",
	"system prompt",
	"you are now",
	"however",
	"instead",
}

// structuralChars are JSON-significant characters stripped from profile
// fields so a profile can never alter the shape of a structured prompt.
const structuralChars = `{}[]":`

var (
	overrideRegexes []*regexp.Regexp
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

func init() {
	overrideRegexes = make([]*regexp.Regexp, 0, len(overridePhrases))
	for _, phrase := range overridePhrases {
		pattern := `(?i)\b` + regexp.QuoteMeta(phrase) + `\b`
		overrideRegexes = append(overrideRegexes, regexp.MustCompile(pattern))
	}
}

// SanitizeField renders one profile field safe for prompt injection:
// structural characters are stripped, override phrases removed, newlines
// collapsed, and the result truncated to MaxFieldLength.
func SanitizeField(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(structuralChars, r) {
			return -1
		}
		return r
	}, s)

	// Removal can splice a denylisted phrase back together
	// ("how{ever}ever"), so repeat until no regex matches.
	for i := 0; i < len(overrideRegexes)*2; i++ {
		matched := false
		for _, re := range overrideRegexes {
			if re.MatchString(s) {
				s = re.ReplaceAllString(s, " ")
				matched = true
			}
		}
		if !matched {
			break
		}
	}

	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > MaxFieldLength {
		s = strings.TrimSpace(string(runes[:MaxFieldLength]))
	}
	return s
}

// ContainsOverride reports whether the text still carries a denylisted
// phrase. Used by tests and by Resolve as a final gate.
func ContainsOverride(s string) bool {
	for _, re := range overrideRegexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
