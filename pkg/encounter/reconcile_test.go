package encounter

import (
	"testing"

	"github.com/jwebster45206/encounter-engine/pkg/combatant"
)

func intp(n int) *int { return &n }

func testSession() *Session {
	s := NewSession()
	s.Party = combatant.Roster{
		{
			Name:        "Sir Roderick",
			HP:          20,
			MaxHP:       20,
			IsProtected: true,
			Items:       []string{"healing potion"},
			Attacks: []combatant.Attack{
				{Name: "Longsword", Targeting: combatant.TargetSingle},
			},
		},
		{Name: "Mira", HP: 14, MaxHP: 14},
	}
	s.Opposition = combatant.Roster{
		{
			Name:        "Goblin Archer",
			HP:          8,
			MaxHP:       8,
			Sprite:      "goblin.png",
			Description: "A wiry goblin with a shortbow.",
		},
	}
	return s
}

func TestWorker_MergeWritesOnlyOwnedFields(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Narrative: "The goblin's arrow grazes Sir Roderick.",
		Party: []ProposedCombatant{
			{
				Name:        "sir roderick",
				HP:          intp(16),
				Attacks:     []combatant.Attack{{Name: "Doom Blast", Targeting: combatant.TargetArea}},
				Description: "now evil",
			},
		},
	}

	result := NewWorker(s, update, nil).Reconcile()
	if result.HasPending() {
		t.Error("Expected no pending entities for matched combatants")
	}

	c := s.Party.Find("Sir Roderick")
	if c.HP != 16 {
		t.Errorf("Expected HP 16, got %d", c.HP)
	}
	// User-owned fields survive whatever the oracle proposes
	if c.Name != "Sir Roderick" {
		t.Errorf("Expected canonical name preserved, got %q", c.Name)
	}
	if len(c.Attacks) != 1 || c.Attacks[0].Name != "Longsword" {
		t.Errorf("Expected attacks untouched, got %v", c.Attacks)
	}
	if len(c.Items) != 1 {
		t.Errorf("Expected items untouched, got %v", c.Items)
	}
	if !c.IsProtected {
		t.Error("Expected protected flag untouched")
	}
}

func TestWorker_ClampsProposedHP(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Party: []ProposedCombatant{
			{Name: "Mira", HP: intp(999)},
			{Name: "Sir Roderick", HP: intp(-5)},
		},
	}

	NewWorker(s, update, nil).Reconcile()

	if hp := s.Party.Find("Mira").HP; hp != 14 {
		t.Errorf("Expected HP clamped to MaxHP 14, got %d", hp)
	}
	if hp := s.Party.Find("Sir Roderick").HP; hp != 0 {
		t.Errorf("Expected negative HP clamped to 0, got %d", hp)
	}
}

func TestWorker_UnknownEntityGoesPending(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Opposition: []ProposedCombatant{
			{
				Name:        "Goblin Shaman",
				MaxHP:       intp(12),
				Sprite:      "shaman.png",
				Description: "Chanting in the back.",
			},
		},
	}

	result := NewWorker(s, update, nil).Reconcile()

	if len(s.Opposition) != 1 {
		t.Errorf("Expected roster unchanged until approval, got %d combatants", len(s.Opposition))
	}
	if len(result.NewOpposition) != 1 {
		t.Fatalf("Expected 1 pending opposition entity, got %d", len(result.NewOpposition))
	}

	pending := s.PendingOpposition[0]
	if pending.Name != "Goblin Shaman" {
		t.Errorf("Unexpected pending name %q", pending.Name)
	}
	// Absent hp defaults to max
	if pending.HP != 12 || pending.MaxHP != 12 {
		t.Errorf("Expected HP defaulted to MaxHP 12, got %d/%d", pending.HP, pending.MaxHP)
	}
	if pending.Sprite != "shaman.png" {
		t.Errorf("Expected sprite carried on opposition candidate, got %q", pending.Sprite)
	}
}

func TestWorker_PendingLatestWins(t *testing.T) {
	s := testSession()

	first := &PartialUpdate{
		Opposition: []ProposedCombatant{{Name: "Goblin Shaman", MaxHP: intp(12)}},
	}
	NewWorker(s, first, nil).Reconcile()

	second := &PartialUpdate{
		Opposition: []ProposedCombatant{{Name: "goblin shaman", MaxHP: intp(15)}},
	}
	NewWorker(s, second, nil).Reconcile()

	if len(s.PendingOpposition) != 1 {
		t.Fatalf("Expected 1 pending entity after repeat proposal, got %d", len(s.PendingOpposition))
	}
	if s.PendingOpposition[0].MaxHP != 15 {
		t.Errorf("Expected latest proposal to win, got MaxHP %d", s.PendingOpposition[0].MaxHP)
	}
}

func TestWorker_PartyCandidateIgnoresOppositionFields(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Party: []ProposedCombatant{
			{Name: "Hired Blade", MaxHP: intp(10), Sprite: "blade.png", Description: "x"},
		},
	}

	NewWorker(s, update, nil).Reconcile()

	pending := s.PendingParty[0]
	if pending.Sprite != "" || pending.Description != "" {
		t.Error("Expected sprite and description dropped for party candidates")
	}
}

func TestWorker_StatusDecay(t *testing.T) {
	s := testSession()
	mira := s.Party.Find("Mira")
	mira.Statuses = []combatant.Status{
		{Marker: "🔥", Name: "Burning", RemainingTurns: 2},
		{Marker: "💫", Name: "Dazed", RemainingTurns: 1},
	}

	NewWorker(s, &PartialUpdate{Narrative: "A quiet turn."}, nil).Reconcile()

	mira = s.Party.Find("Mira")
	if len(mira.Statuses) != 1 {
		t.Fatalf("Expected Dazed to expire, got %v", mira.Statuses)
	}
	if mira.Statuses[0].Name != "Burning" || mira.Statuses[0].RemainingTurns != 1 {
		t.Errorf("Expected Burning at 1 turn, got %+v", mira.Statuses[0])
	}
}

func TestWorker_ReassertedStatusKeepsProposedDuration(t *testing.T) {
	s := testSession()
	mira := s.Party.Find("Mira")
	mira.Statuses = []combatant.Status{
		{Marker: "🔥", Name: "Burning", RemainingTurns: 2},
	}

	update := &PartialUpdate{
		Narrative: "The flames flare up again.",
		Party: []ProposedCombatant{
			{Name: "Mira", Statuses: []combatant.Status{
				{Marker: "🔥", Name: "burning", RemainingTurns: 3},
			}},
		},
	}
	NewWorker(s, update, nil).Reconcile()

	mira = s.Party.Find("Mira")
	if len(mira.Statuses) != 1 {
		t.Fatalf("Expected merged status, got %v", mira.Statuses)
	}
	if mira.Statuses[0].RemainingTurns != 3 {
		t.Errorf("Expected reasserted duration 3, got %d", mira.Statuses[0].RemainingTurns)
	}
}

func TestWorker_DefeatedVisibleOneTurnThenPruned(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Narrative:  "Mira's bolt drops the goblin.",
		Opposition: []ProposedCombatant{{Name: "Goblin Archer", HP: intp(0)}},
	}

	// Turn of the defeat: combatant stays in the roster at 0 HP
	NewWorker(s, update, nil).Reconcile()
	goblin := s.Opposition.Find("Goblin Archer")
	if goblin == nil {
		t.Fatal("Expected freshly defeated combatant to remain visible")
	}
	if goblin.HP != 0 || goblin.DownTurns != 1 {
		t.Errorf("Expected 0 HP with one down turn, got hp=%d down=%d", goblin.HP, goblin.DownTurns)
	}

	// Next resolved turn: pruned before the merge
	NewWorker(s, &PartialUpdate{Narrative: "The dust settles."}, nil).Reconcile()
	if s.Opposition.Find("Goblin Archer") != nil {
		t.Error("Expected defeated combatant pruned on the following turn")
	}
}

func TestWorker_ProtectedNeverPruned(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Narrative: "Sir Roderick falls.",
		Party:     []ProposedCombatant{{Name: "Sir Roderick", HP: intp(0)}},
	}

	NewWorker(s, update, nil).Reconcile()
	NewWorker(s, &PartialUpdate{Narrative: "He does not stir."}, nil).Reconcile()
	NewWorker(s, &PartialUpdate{Narrative: "Still down."}, nil).Reconcile()

	c := s.Party.Find("Sir Roderick")
	if c == nil {
		t.Fatal("Expected protected combatant never pruned")
	}
	if c.HP != 0 {
		t.Errorf("Expected HP to stay at 0, got %d", c.HP)
	}
}

func TestWorker_RecoveryResetsDownTurns(t *testing.T) {
	s := testSession()

	NewWorker(s, &PartialUpdate{
		Narrative:  "Down.",
		Opposition: []ProposedCombatant{{Name: "Goblin Archer", HP: intp(0)}},
	}, nil).Reconcile()

	// Healed before the prune pass runs again
	NewWorker(s, &PartialUpdate{
		Narrative:  "A shaman drags the archer back up.",
		Opposition: []ProposedCombatant{{Name: "Goblin Archer", HP: intp(4)}},
	}, nil).Reconcile()

	goblin := s.Opposition.Find("Goblin Archer")
	if goblin == nil {
		t.Fatal("Expected revived combatant to stay")
	}
	if goblin.DownTurns != 0 {
		t.Errorf("Expected down counter reset, got %d", goblin.DownTurns)
	}
}

func TestWorker_CustomBarMerge(t *testing.T) {
	s := testSession()
	mira := s.Party.Find("Mira")
	mira.CustomBars = []combatant.CustomBar{
		{Name: "Focus", Current: 5, Max: 10},
	}

	update := &PartialUpdate{
		Narrative: "Mira steadies her breathing.",
		Party: []ProposedCombatant{
			{Name: "Mira", CustomBars: []ProposedBar{
				{Name: "focus", Current: intp(8)},
				{Name: "Luck", Current: intp(2), Max: intp(3)},
			}},
		},
	}
	NewWorker(s, update, nil).Reconcile()

	mira = s.Party.Find("Mira")
	if len(mira.CustomBars) != 2 {
		t.Fatalf("Expected 2 bars, got %v", mira.CustomBars)
	}
	if mira.CustomBars[0].Current != 8 || mira.CustomBars[0].Max != 10 {
		t.Errorf("Expected Focus 8/10, got %d/%d", mira.CustomBars[0].Current, mira.CustomBars[0].Max)
	}
	if mira.CustomBars[1].Name != "Luck" || mira.CustomBars[1].Current != 2 {
		t.Errorf("Unexpected new bar: %+v", mira.CustomBars[1])
	}
}

func TestWorker_NilUpdate(t *testing.T) {
	s := testSession()
	result := NewWorker(s, nil, nil).Reconcile()
	if result.HasPending() {
		t.Error("Expected no pending entities for nil update")
	}
	if len(s.Party) != 2 || len(s.Opposition) != 1 {
		t.Error("Expected rosters unchanged")
	}
}

func TestWorker_BlankProposedNameIgnored(t *testing.T) {
	s := testSession()
	update := &PartialUpdate{
		Narrative:  "Something stirs.",
		Opposition: []ProposedCombatant{{Name: "   ", MaxHP: intp(5)}},
	}

	result := NewWorker(s, update, nil).Reconcile()
	if result.HasPending() {
		t.Error("Expected blank-named proposal discarded")
	}
}
