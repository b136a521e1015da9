package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

const defaultHistoryLimit = 10

// Builder constructs the message list for one oracle exchange using a
// fluent interface. The engine supplies structured context; wording lives
// in the templates, never in the engine.
type Builder struct {
	session         *encounter.Session
	prof            *profile.SafeProfile
	turn            encounter.TurnType
	action          string
	stateOverride   json.RawMessage
	historyOverride []chat.ChatMessage
	historyLimit    int
	messages        []chat.ChatMessage
}

// New creates a prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: defaultHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithSession sets the encounter session providing state and history.
func (b *Builder) WithSession(s *encounter.Session) *Builder {
	b.session = s
	return b
}

// WithProfile sets the sanitized genre profile used for substitutions.
func (b *Builder) WithProfile(p *profile.SafeProfile) *Builder {
	b.prof = p
	return b
}

// WithTurnType selects the template set: init, action or summary.
func (b *Builder) WithTurnType(t encounter.TurnType) *Builder {
	b.turn = t
	return b
}

// WithAction sets the player action for action turns.
func (b *Builder) WithAction(action string) *Builder {
	b.action = action
	return b
}

// WithStateOverride substitutes a previously captured state snapshot for
// the session's live state. Regeneration uses this so an alternative is
// generated from the state as it was before the originating action.
func (b *Builder) WithStateOverride(state json.RawMessage) *Builder {
	b.stateOverride = state
	return b
}

// WithHistoryOverride substitutes a previously captured conversation for
// the session's live history, windowed like the live history would be.
func (b *Builder) WithHistoryOverride(history []chat.ChatMessage) *Builder {
	b.historyOverride = history
	return b
}

// WithHistoryLimit sets the conversation window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build constructs the final message list for the oracle.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if b.prof == nil {
		return nil, fmt.Errorf("profile is required")
	}

	b.messages = make([]chat.ChatMessage, 0)

	var template string
	switch b.turn {
	case encounter.TurnInit:
		template = InitSystemPrompt
	case encounter.TurnAction:
		template = ActionSystemPrompt
	case encounter.TurnSummary:
		template = SummarySystemPrompt
	default:
		return nil, fmt.Errorf("unknown turn type %q", b.turn)
	}

	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: b.prof.Substitute(template),
	})

	if err := b.addState(); err != nil {
		return nil, err
	}
	b.addHistory()
	b.addAction()
	b.addFinalPrompt()

	return b.messages, nil
}

// addState embeds the authoritative state JSON. Summary turns skip it;
// the conversation history carries enough context for prose.
func (b *Builder) addState() error {
	if b.turn == encounter.TurnSummary {
		return nil
	}

	state := b.stateOverride
	if state == nil {
		var err error
		state, err = MarshalState(b.session)
		if err != nil {
			return err
		}
	}

	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: StatePreamble + "\n\nEncounter State:\n```json\n" + string(state) + "\n```",
	})
	return nil
}

// addHistory adds the windowed oracle conversation.
func (b *Builder) addHistory() {
	history := b.session.HistoryWindow(b.historyLimit)
	if b.historyOverride != nil {
		history = b.historyOverride
		if b.historyLimit > 0 && len(history) > b.historyLimit {
			history = history[len(history)-b.historyLimit:]
		}
	}
	b.messages = append(b.messages, history...)
}

// addAction adds the player's current action for action turns.
func (b *Builder) addAction() {
	if b.turn != encounter.TurnAction || b.action == "" {
		return
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: b.action,
	})
}

// addFinalPrompt appends the strict-output reminder on action turns.
func (b *Builder) addFinalPrompt() {
	if b.turn != encounter.TurnAction {
		return
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: ActionPostPrompt,
	})
}
