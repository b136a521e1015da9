package combatant

import (
	"testing"
)

func TestFoldKey(t *testing.T) {
	if FoldKey("Goblin Archer") != FoldKey("goblin ARCHER") {
		t.Error("Expected folded keys to match regardless of case")
	}
	if FoldKey("Straße") != FoldKey("STRASSE") {
		t.Error("Expected Unicode case folding, not ASCII lowercasing")
	}
	if FoldKey("Goblin") == FoldKey("Gobelin") {
		t.Error("Distinct names should not collide")
	}
}

func TestCombatant_Clamp(t *testing.T) {
	c := Combatant{
		Name:  "Knight",
		HP:    50,
		MaxHP: 30,
		CustomBars: []CustomBar{
			{Name: "Mana", Current: -5, Max: 10},
			{Name: "Rage", Current: 20, Max: 10},
		},
	}
	c.Clamp()

	if c.HP != 30 {
		t.Errorf("Expected HP clamped to MaxHP 30, got %d", c.HP)
	}
	if c.CustomBars[0].Current != 0 {
		t.Errorf("Expected Mana clamped to 0, got %d", c.CustomBars[0].Current)
	}
	if c.CustomBars[1].Current != 10 {
		t.Errorf("Expected Rage clamped to 10, got %d", c.CustomBars[1].Current)
	}

	c.HP = -4
	c.Clamp()
	if c.HP != 0 {
		t.Errorf("Expected negative HP clamped to 0, got %d", c.HP)
	}
}

func TestCombatant_Validate(t *testing.T) {
	valid := Combatant{Name: "Knight", HP: 10, MaxHP: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid combatant, got error: %v", err)
	}

	noName := Combatant{HP: 10, MaxHP: 10}
	if err := noName.Validate(); err == nil {
		t.Error("Expected error for empty name")
	}

	badMax := Combatant{Name: "Knight", HP: 10, MaxHP: -1}
	if err := badMax.Validate(); err == nil {
		t.Error("Expected error for negative max hp")
	}
}

func TestRoster_FindCaseInsensitive(t *testing.T) {
	r := Roster{
		{Name: "Goblin Archer", HP: 5, MaxHP: 5},
		{Name: "Knight", HP: 20, MaxHP: 20},
	}

	found := r.Find("goblin archer")
	if found == nil {
		t.Fatal("Expected to find combatant by case-insensitive name")
	}
	if found.Name != "Goblin Archer" {
		t.Errorf("Expected canonical name preserved, got %q", found.Name)
	}

	// Find returns a pointer into the roster, not a copy
	found.HP = 3
	if r[0].HP != 3 {
		t.Error("Expected Find to return a pointer into the roster")
	}

	if r.Find("Dragon") != nil {
		t.Error("Expected nil for unknown name")
	}
}

func TestRoster_AddRejectsDuplicates(t *testing.T) {
	r := Roster{}
	if err := r.Add(Combatant{Name: "Knight", HP: 10, MaxHP: 10}); err != nil {
		t.Fatalf("Unexpected error adding combatant: %v", err)
	}
	if err := r.Add(Combatant{Name: "KNIGHT", HP: 5, MaxHP: 5}); err == nil {
		t.Error("Expected error adding duplicate name with different case")
	}
	if len(r) != 1 {
		t.Errorf("Expected 1 combatant, got %d", len(r))
	}
}

func TestRoster_Remove(t *testing.T) {
	r := Roster{
		{Name: "Goblin", HP: 5, MaxHP: 5},
		{Name: "Knight", HP: 20, MaxHP: 20},
	}

	if !r.Remove("goblin") {
		t.Error("Expected Remove to report success")
	}
	if len(r) != 1 || r[0].Name != "Knight" {
		t.Errorf("Expected only Knight to remain, got %v", r.Names())
	}
	if r.Remove("Goblin") {
		t.Error("Expected Remove of missing name to report false")
	}
}

func TestPatch_Apply(t *testing.T) {
	c := Combatant{
		Name:  "Knight",
		HP:    20,
		MaxHP: 20,
		Attacks: []Attack{
			{Name: "Sword", Targeting: TargetSingle},
		},
	}

	newHP := 12
	newName := "Sir Roderick"
	p := Patch{
		Name: &newName,
		HP:   &newHP,
		Statuses: []Status{
			{Marker: "🔥", Name: "Burning", RemainingTurns: 2},
		},
	}
	p.Apply(&c)

	if c.Name != "Sir Roderick" {
		t.Errorf("Expected renamed combatant, got %q", c.Name)
	}
	if c.HP != 12 {
		t.Errorf("Expected HP 12, got %d", c.HP)
	}
	if len(c.Statuses) != 1 || c.Statuses[0].Name != "Burning" {
		t.Errorf("Expected Burning status, got %v", c.Statuses)
	}
	// Fields without patch values are untouched
	if c.MaxHP != 20 || len(c.Attacks) != 1 {
		t.Error("Expected unpatched fields to be preserved")
	}
}

func TestPatch_ApplyClampsHP(t *testing.T) {
	c := Combatant{Name: "Knight", HP: 20, MaxHP: 20}

	tooHigh := 50
	p := Patch{HP: &tooHigh}
	p.Apply(&c)

	if c.HP != 20 {
		t.Errorf("Expected HP clamped to MaxHP, got %d", c.HP)
	}
}
