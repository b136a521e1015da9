package encounter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/encounter-engine/pkg/combatant"
)

// TurnType identifies what kind of oracle exchange produced a reply,
// which determines the required fields of the parsed update.
type TurnType string

const (
	TurnInit    TurnType = "init"
	TurnAction  TurnType = "action"
	TurnSummary TurnType = "summary"
)

// PartialUpdate is the oracle's proposed state change, parsed from its
// reply. Every field is optional and untrusted; reconciliation diffs it
// against the authoritative session rather than replacing anything
// wholesale.
type PartialUpdate struct {
	Narrative  string              `json:"narrative,omitempty"`
	Party      []ProposedCombatant `json:"party,omitempty"`
	Opposition []ProposedCombatant `json:"opposition,omitempty"`
}

// ProposedCombatant is a combatant as described by the oracle. Numeric
// fields are pointers so an absent field is distinguishable from zero.
type ProposedCombatant struct {
	Name        string
	HP          *int
	MaxHP       *int
	Statuses    []combatant.Status
	CustomBars  []ProposedBar
	Attacks     []combatant.Attack
	Sprite      string
	Description string
}

// ProposedBar is an oracle-proposed custom resource bar.
type ProposedBar struct {
	Name      string
	Current   *int
	Max       *int
	ColorHint string
}

// UnmarshalJSON decodes a proposed combatant field by field. Malformed
// values are discarded individually instead of failing the whole payload,
// so one non-numeric hp can't invalidate an otherwise usable update.
func (pc *ProposedCombatant) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("proposed combatant is not an object: %w", err)
	}

	if raw, ok := fields["name"]; ok {
		_ = json.Unmarshal(raw, &pc.Name)
	}
	pc.HP = tryInt(fields["hp"])
	pc.MaxHP = tryInt(fields["max_hp"])
	if pc.MaxHP == nil {
		pc.MaxHP = tryInt(fields["maxHp"])
	}
	if raw, ok := fields["sprite"]; ok {
		_ = json.Unmarshal(raw, &pc.Sprite)
	}
	if raw, ok := fields["description"]; ok {
		_ = json.Unmarshal(raw, &pc.Description)
	}

	if raw, ok := fields["statuses"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				var s combatant.Status
				if err := json.Unmarshal(item, &s); err == nil && s.Name != "" && s.RemainingTurns >= 0 {
					pc.Statuses = append(pc.Statuses, s)
				}
			}
		}
	}

	if raw, ok := fields["custom_bars"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				var bar map[string]json.RawMessage
				if err := json.Unmarshal(item, &bar); err != nil {
					continue
				}
				var pb ProposedBar
				if raw, ok := bar["name"]; ok {
					_ = json.Unmarshal(raw, &pb.Name)
				}
				if raw, ok := bar["color_hint"]; ok {
					_ = json.Unmarshal(raw, &pb.ColorHint)
				}
				pb.Current = tryInt(bar["current"])
				pb.Max = tryInt(bar["max"])
				if pb.Name != "" {
					pc.CustomBars = append(pc.CustomBars, pb)
				}
			}
		}
	}

	if raw, ok := fields["attacks"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				var a combatant.Attack
				if err := json.Unmarshal(item, &a); err == nil && a.Name != "" {
					pc.Attacks = append(pc.Attacks, a)
				}
			}
		}
	}

	return nil
}

// tryInt parses a JSON value as an integer, returning nil for anything
// else. Non-numeric oracle values are discarded, never coerced.
func tryInt(raw json.RawMessage) *int {
	if raw == nil {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

// ExtractJSON locates the JSON object embedded in a raw oracle reply.
// Code fence markers are stripped and the first balanced object is
// returned; the oracle frequently wraps its JSON in prose or fences.
func ExtractJSON(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrOracleParse)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unbalanced JSON object in reply", ErrOracleParse)
}

// ParseUpdate extracts and validates a partial update from a raw oracle
// reply. An action turn requires a narrative; an init turn requires both
// rosters to be populated. On failure the caller must leave the session
// untouched and offer the user a retry.
func ParseUpdate(raw string, turn TurnType) (*PartialUpdate, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var update PartialUpdate
	if err := json.Unmarshal([]byte(doc), &update); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleParse, err)
	}

	switch turn {
	case TurnInit:
		if len(update.Party) == 0 {
			return nil, fmt.Errorf("%w: init reply has no party members", ErrOracleParse)
		}
		if len(update.Opposition) == 0 {
			return nil, fmt.Errorf("%w: init reply has no opposition", ErrOracleParse)
		}
	case TurnAction:
		if strings.TrimSpace(update.Narrative) == "" {
			return nil, fmt.Errorf("%w: action reply has no narrative", ErrOracleParse)
		}
	}

	return &update, nil
}
