package encounter

import (
	"log/slog"
	"strings"

	"github.com/jwebster45206/encounter-engine/pkg/combatant"
)

// Worker applies an oracle-proposed partial update to a session. The
// caller passes a deep copy of the session and swaps it in only when the
// whole reconciliation succeeds.
//
// Field ownership is the core rule: for a matched combatant only hp,
// max_hp, statuses and custom bars are writable. Name, attacks, items,
// sprite, description and the protected flag belong to the user and are
// never touched, no matter what the oracle proposes.
type Worker struct {
	session *Session
	update  *PartialUpdate
	logger  *slog.Logger
}

// Result reports the entities a reconciliation pass queued for user
// approval.
type Result struct {
	NewParty      []combatant.Combatant
	NewOpposition []combatant.Combatant
}

// HasPending reports whether any new entities await approval.
func (r *Result) HasPending() bool {
	return len(r.NewParty) > 0 || len(r.NewOpposition) > 0
}

// NewWorker creates a reconciliation worker for one oracle update.
func NewWorker(session *Session, update *PartialUpdate, logger *slog.Logger) *Worker {
	return &Worker{
		session: session,
		update:  update,
		logger:  logger,
	}
}

// Reconcile runs the full pass: prune previously defeated opposition,
// decay statuses, then merge the proposed update.
func (w *Worker) Reconcile() *Result {
	w.PruneDefeated()
	w.DecayStatuses()
	return w.Apply()
}

// PruneDefeated removes unprotected combatants that were already at 0 HP
// on the previous resolved turn. Running this before the merge keeps a
// freshly defeated combatant visible through the narrative of the turn
// that defeated it; it disappears only on the following pass. A combatant
// this update revives with positive hp is spared, since it is no longer
// down for a second consecutive turn.
func (w *Worker) PruneDefeated() []string {
	revived := w.revivedNames()

	var removed []string
	for _, roster := range []*combatant.Roster{&w.session.Opposition, &w.session.Party} {
		kept := (*roster)[:0]
		for _, c := range *roster {
			if !c.IsProtected && c.MaxHP > 0 && c.HP == 0 && c.DownTurns >= 1 && !revived[combatant.FoldKey(c.Name)] {
				removed = append(removed, c.Name)
				continue
			}
			kept = append(kept, c)
		}
		*roster = kept
	}
	if len(removed) > 0 && w.logger != nil {
		w.logger.Info("Pruned defeated combatants", "names", removed)
	}
	return removed
}

func (w *Worker) revivedNames() map[string]bool {
	revived := make(map[string]bool)
	if w.update == nil {
		return revived
	}
	for _, side := range [][]ProposedCombatant{w.update.Party, w.update.Opposition} {
		for i := range side {
			p := &side[i]
			if p.HP != nil && *p.HP > 0 {
				revived[combatant.FoldKey(p.Name)] = true
			}
		}
	}
	return revived
}

// DecayStatuses decrements every existing status by exactly one turn and
// drops expired entries. Runs before proposed statuses are merged, so a
// status the oracle re-asserts this turn keeps its proposed duration.
func (w *Worker) DecayStatuses() {
	for _, roster := range []*combatant.Roster{&w.session.Party, &w.session.Opposition} {
		for i := range *roster {
			c := &(*roster)[i]
			kept := c.Statuses[:0]
			for _, s := range c.Statuses {
				s.RemainingTurns--
				if s.RemainingTurns > 0 {
					kept = append(kept, s)
				}
			}
			c.Statuses = kept
		}
	}
}

// Apply merges the proposed update into the session. Matched combatants
// receive owned-field updates with numeric clamps; unmatched proposals
// become pending candidates for explicit user approval, because entity
// creation is a privileged operation the oracle does not get for free.
func (w *Worker) Apply() *Result {
	result := &Result{}
	if w.update == nil {
		return result
	}

	result.NewParty = w.applySide(&w.session.Party, w.update.Party, &w.session.PendingParty, false)
	result.NewOpposition = w.applySide(&w.session.Opposition, w.update.Opposition, &w.session.PendingOpposition, true)

	w.markDownTurns()
	return result
}

func (w *Worker) applySide(roster *combatant.Roster, proposed []ProposedCombatant, pending *[]combatant.Combatant, opposition bool) []combatant.Combatant {
	var added []combatant.Combatant
	for i := range proposed {
		p := &proposed[i]
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		if local := roster.Find(name); local != nil {
			w.mergeCombatant(local, p)
			continue
		}

		candidate := CandidateFromProposal(p, opposition)
		upsertPending(pending, candidate)
		added = append(added, candidate)
		if w.logger != nil {
			w.logger.Info("Oracle proposed unknown combatant, queued for approval",
				"name", candidate.Name, "opposition", opposition)
		}
	}
	return added
}

// mergeCombatant overwrites only the oracle-owned fields of an existing
// combatant, clamping numeric values into range.
func (w *Worker) mergeCombatant(local *combatant.Combatant, p *ProposedCombatant) {
	if p.MaxHP != nil {
		local.MaxHP = *p.MaxHP
	}
	if p.HP != nil {
		local.HP = *p.HP
	}

	for _, s := range p.Statuses {
		key := combatant.FoldKey(s.Name)
		merged := false
		for i := range local.Statuses {
			if combatant.FoldKey(local.Statuses[i].Name) == key {
				local.Statuses[i].RemainingTurns = s.RemainingTurns
				if s.Marker != "" {
					local.Statuses[i].Marker = s.Marker
				}
				merged = true
				break
			}
		}
		if !merged {
			local.Statuses = append(local.Statuses, s)
		}
	}

	for _, pb := range p.CustomBars {
		key := combatant.FoldKey(pb.Name)
		merged := false
		for i := range local.CustomBars {
			if combatant.FoldKey(local.CustomBars[i].Name) == key {
				bar := &local.CustomBars[i]
				if pb.Max != nil {
					bar.Max = *pb.Max
				}
				if pb.Current != nil {
					bar.Current = *pb.Current
				}
				if pb.ColorHint != "" {
					bar.ColorHint = pb.ColorHint
				}
				merged = true
				break
			}
		}
		if !merged {
			local.CustomBars = append(local.CustomBars, barFromProposal(pb))
		}
	}

	local.Clamp()
}

// markDownTurns advances the consecutive-turns-at-zero counters after the
// merge, so the next pass knows which combatants are prunable.
func (w *Worker) markDownTurns() {
	for _, roster := range []*combatant.Roster{&w.session.Party, &w.session.Opposition} {
		for i := range *roster {
			c := &(*roster)[i]
			if c.MaxHP > 0 && c.HP == 0 {
				c.DownTurns++
			} else {
				c.DownTurns = 0
			}
		}
	}
}

// CandidateFromProposal converts an oracle proposal into a clamped
// combatant. Used for pending candidates and for init-turn roster setup.
func CandidateFromProposal(p *ProposedCombatant, opposition bool) combatant.Combatant {
	c := combatant.Combatant{
		Name:     strings.TrimSpace(p.Name),
		Attacks:  p.Attacks,
		Statuses: p.Statuses,
	}
	if p.MaxHP != nil {
		c.MaxHP = *p.MaxHP
	}
	if p.HP != nil {
		c.HP = *p.HP
	} else {
		c.HP = c.MaxHP
	}
	for _, pb := range p.CustomBars {
		c.CustomBars = append(c.CustomBars, barFromProposal(pb))
	}
	if opposition {
		c.Sprite = p.Sprite
		c.Description = p.Description
	}
	c.Clamp()
	return c
}

func barFromProposal(pb ProposedBar) combatant.CustomBar {
	bar := combatant.CustomBar{
		Name:      pb.Name,
		ColorHint: pb.ColorHint,
	}
	if pb.Max != nil {
		bar.Max = *pb.Max
	}
	if pb.Current != nil {
		bar.Current = *pb.Current
	} else {
		bar.Current = bar.Max
	}
	return bar
}

// upsertPending replaces an existing pending candidate with the same name
// or appends a new one. The latest oracle proposal wins until the user
// approves or rejects it.
func upsertPending(pending *[]combatant.Combatant, c combatant.Combatant) {
	key := combatant.FoldKey(c.Name)
	for i := range *pending {
		if combatant.FoldKey((*pending)[i].Name) == key {
			(*pending)[i] = c
			return
		}
	}
	*pending = append(*pending, c)
}
