package combatant

// Patch is a manual user edit applied directly to a combatant, outside
// the reconciliation path. Nil fields are left unchanged.
type Patch struct {
	Name        *string     `json:"name,omitempty"`
	HP          *int        `json:"hp,omitempty"`
	MaxHP       *int        `json:"max_hp,omitempty"`
	Attacks     []Attack    `json:"attacks,omitempty"`
	Statuses    []Status    `json:"statuses,omitempty"`
	CustomBars  []CustomBar `json:"custom_bars,omitempty"`
	IsProtected *bool       `json:"is_protected,omitempty"`
	Items       []string    `json:"items,omitempty"`
	Sprite      *string     `json:"sprite,omitempty"`
	Description *string     `json:"description,omitempty"`
}

// Apply writes the patch onto a combatant and clamps the result. The
// caller is responsible for rename uniqueness within the roster.
func (p *Patch) Apply(c *Combatant) {
	if p.Name != nil && *p.Name != "" {
		c.Name = *p.Name
	}
	if p.MaxHP != nil {
		c.MaxHP = *p.MaxHP
	}
	if p.HP != nil {
		c.HP = *p.HP
	}
	if p.Attacks != nil {
		c.Attacks = p.Attacks
	}
	if p.Statuses != nil {
		c.Statuses = p.Statuses
	}
	if p.CustomBars != nil {
		c.CustomBars = p.CustomBars
	}
	if p.IsProtected != nil {
		c.IsProtected = *p.IsProtected
	}
	if p.Items != nil {
		c.Items = p.Items
	}
	if p.Sprite != nil {
		c.Sprite = *p.Sprite
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	c.Clamp()
}
