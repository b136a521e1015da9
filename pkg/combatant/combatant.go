package combatant

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Targeting describes how an attack selects its victims.
type Targeting string

const (
	TargetSingle Targeting = "single"
	TargetArea   Targeting = "area"
	TargetEither Targeting = "either"
)

// Attack is a named action a combatant can take. Attacks are authored by
// the user or the initializing oracle response and are never modified by
// reconciliation afterward.
type Attack struct {
	Name      string    `json:"name"`
	Targeting Targeting `json:"targeting"`
}

// Status is a temporary condition on a combatant. RemainingTurns counts
// down once per resolved turn; statuses at zero are pruned.
type Status struct {
	Marker         string `json:"marker"` // short glyph or emoji shown next to the name
	Name           string `json:"name"`
	RemainingTurns int    `json:"remaining_turns"`
}

// CustomBar is a genre-defined resource tracked alongside HP,
// e.g. "Composure" in a negotiation or "Distance" in a chase.
type CustomBar struct {
	Name      string `json:"name"`
	Current   int    `json:"current"`
	Max       int    `json:"max"`
	ColorHint string `json:"color_hint,omitempty"`
}

// Combatant is one party member or opposition entity in an encounter.
type Combatant struct {
	Name       string      `json:"name"`
	HP         int         `json:"hp"`
	MaxHP      int         `json:"max_hp"`
	Attacks    []Attack    `json:"attacks,omitempty"`
	Statuses   []Status    `json:"statuses,omitempty"`
	CustomBars []CustomBar `json:"custom_bars,omitempty"`

	// IsProtected is true only for the user's own avatar. A protected
	// combatant is never removed by reconciliation.
	IsProtected bool `json:"is_protected,omitempty"`

	Items []string `json:"items,omitempty"` // party only

	Sprite      string `json:"sprite,omitempty"`      // opposition only
	Description string `json:"description,omitempty"` // opposition only

	// DownTurns counts consecutive resolved turns spent at 0 HP.
	DownTurns int `json:"down_turns,omitempty"`
}

var nameFolder = cases.Fold()

// FoldKey returns the case-insensitive key used to match combatant names.
func FoldKey(name string) string {
	return nameFolder.String(name)
}

// Clamp forces HP and custom bar values back into their legal ranges.
func (c *Combatant) Clamp() {
	if c.MaxHP < 0 {
		c.MaxHP = 0
	}
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	for i := range c.CustomBars {
		b := &c.CustomBars[i]
		if b.Max < 0 {
			b.Max = 0
		}
		if b.Current < 0 {
			b.Current = 0
		}
		if b.Current > b.Max {
			b.Current = b.Max
		}
	}
}

// Validate checks structural requirements for a manually created combatant.
func (c *Combatant) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("combatant name cannot be empty")
	}
	if c.MaxHP < 0 {
		return fmt.Errorf("max_hp cannot be negative")
	}
	if c.HP < 0 || c.HP > c.MaxHP {
		return fmt.Errorf("hp must be within [0, max_hp]")
	}
	for _, b := range c.CustomBars {
		if b.Name == "" {
			return fmt.Errorf("custom bar name cannot be empty")
		}
		if b.Current < 0 || b.Current > b.Max {
			return fmt.Errorf("custom bar %q must be within [0, max]", b.Name)
		}
	}
	for _, s := range c.Statuses {
		if s.RemainingTurns < 0 {
			return fmt.Errorf("status %q remaining_turns cannot be negative", s.Name)
		}
	}
	return nil
}
