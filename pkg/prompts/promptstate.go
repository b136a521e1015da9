package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/combatant"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

// PromptState is the reduced session view sent to the oracle. Pending
// entities, revision counters and the log are deliberately excluded; the
// oracle sees only the approved rosters and the turn number.
type PromptState struct {
	Party      combatant.Roster `json:"party"`
	Opposition combatant.Roster `json:"opposition"`
	Turn       int              `json:"turn"`
}

// ToPromptState projects a session down to the oracle-visible view.
func ToPromptState(s *encounter.Session) *PromptState {
	return &PromptState{
		Party:      s.Party,
		Opposition: s.Opposition,
		Turn:       s.Turn,
	}
}

// MarshalState renders the prompt state as the JSON document embedded in
// oracle requests.
func MarshalState(s *encounter.Session) (json.RawMessage, error) {
	data, err := json.Marshal(ToPromptState(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt state: %w", err)
	}
	return data, nil
}
