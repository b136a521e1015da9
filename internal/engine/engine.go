package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jwebster45206/encounter-engine/internal/services"
	"github.com/jwebster45206/encounter-engine/internal/storage"
	"github.com/jwebster45206/encounter-engine/pkg/chat"
	"github.com/jwebster45206/encounter-engine/pkg/combatant"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
	"github.com/jwebster45206/encounter-engine/pkg/prompts"
)

const oracleTimeout = 60 * time.Second

// ConcludeReason identifies what ended the encounter.
type ConcludeReason string

const (
	ConcludeVictory ConcludeReason = "victory"
	ConcludeDefeat  ConcludeReason = "defeat"
	ConcludeManual  ConcludeReason = "manual"
	ConcludeFlee    ConcludeReason = "flee"
)

// Engine is the encounter state machine. It owns the single active
// session, drives the oracle exchange for each turn, reconciles untrusted
// replies against authoritative state, and snapshots the session after
// every completed transition.
//
// The mutex is released while an oracle request is in flight, so swiping
// and manual edits stay available during the busy states. Each outgoing
// request carries the session revision it was built from; a reply that
// arrives after a manual edit bumped the revision is discarded.
type Engine struct {
	mu sync.Mutex

	session *encounter.Session
	prof    profile.Profile
	safe    *profile.SafeProfile

	storage      storage.Storage
	oracle       services.OracleService
	events       *Broadcaster
	logger       *slog.Logger
	historyLimit int
}

// New creates an engine with no active session.
func New(store storage.Storage, oracle services.OracleService, events *Broadcaster, logger *slog.Logger, historyLimit int) *Engine {
	safe, _ := profile.Resolve(profile.Default())
	return &Engine{
		prof:         profile.Default(),
		safe:         safe,
		storage:      store,
		oracle:       oracle,
		events:       events,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Session returns a deep copy of the active session for rendering. Nil
// when no encounter has been started.
func (e *Engine) Session() *encounter.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	snapshot, err := e.session.DeepCopy()
	if err != nil {
		e.logger.Error("Failed to copy session for read", "error", err)
		return nil
	}
	return snapshot
}

// Profile returns the active raw profile.
func (e *Engine) Profile() profile.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prof
}

// Start moves Idle to Configuring. If a persisted session exists its
// snapshot is returned so the caller can offer resume or discard; the
// engine stays in Configuring until Resume or BeginEncounter is called.
func (e *Engine) Start(ctx context.Context) (*encounter.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil && e.session.Status.Busy() {
		return nil, encounter.ErrBusy
	}

	snap, err := e.storage.LoadLatestSession(ctx)
	if err != nil {
		// A broken snapshot store must not block starting a fresh
		// encounter; surface the error in the log and continue.
		e.logger.Error("Failed to load persisted session", "error", err)
	}

	e.session = encounter.NewSession()
	e.session.Status = encounter.StatusConfiguring
	e.publishSessionUpdated()

	if snap != nil && snap.Session != nil && snap.Session.Status != encounter.StatusConcluded {
		return snap.Session, nil
	}
	return nil, nil
}

// Resume adopts the persisted session as the active one.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.storage.LoadLatestSession(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", encounter.ErrPersistence, err)
	}
	if snap == nil || snap.Session == nil {
		return fmt.Errorf("no persisted session to resume")
	}

	e.session = snap.Session
	// A session interrupted mid-exchange resumes playable; the
	// unconfirmed exchange is the at-most-one loss the design accepts.
	if e.session.Status.Busy() {
		e.session.Status = encounter.StatusActive
	}
	if snap.Profile != nil {
		e.setProfile(*snap.Profile)
	}

	e.logger.Info("Resumed persisted session", "session_id", e.session.ID.String(), "turn", e.session.Turn)
	e.publishSessionUpdated()
	return nil
}

// Discard deletes the persisted session and stays in Configuring with a
// fresh one.
func (e *Engine) Discard(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.storage.LoadLatestSession(ctx)
	if err == nil && snap != nil && snap.Session != nil {
		if err := e.storage.DeleteSession(ctx, snap.Session.ID); err != nil {
			e.logger.Error("Failed to delete persisted session", "error", err)
		}
	}

	e.session = encounter.NewSession()
	e.session.Status = encounter.StatusConfiguring
	e.publishSessionUpdated()
	return nil
}

// Configure sets the genre profile for the pending encounter. A profile
// that fails validation falls back to the default; reinterpretation is
// best-effort and never blocks play.
func (e *Engine) Configure(raw profile.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != encounter.StatusConfiguring {
		return fmt.Errorf("can only configure while in %s", encounter.StatusConfiguring)
	}
	e.setProfile(raw)
	e.session.ProfileID = e.prof.ID
	e.publishSessionUpdated()
	return nil
}

func (e *Engine) setProfile(raw profile.Profile) {
	safe, err := profile.Resolve(raw)
	if errors.Is(err, profile.ErrFallback) {
		e.logger.Warn("Profile failed validation, using default", "profile_id", raw.ID)
		raw = profile.Default()
	}
	e.prof = raw
	e.safe = safe
}

// BeginEncounter moves Configuring to Initializing, asks the oracle to
// set up the rosters, and on success lands in Active. On parse or
// validation failure the session returns to Configuring so the user can
// retry or re-edit.
func (e *Engine) BeginEncounter(ctx context.Context, scenario string) error {
	e.mu.Lock()
	if e.session == nil || e.session.Status != encounter.StatusConfiguring {
		e.mu.Unlock()
		return fmt.Errorf("can only begin from %s", encounter.StatusConfiguring)
	}

	e.session.Status = encounter.StatusInitializing
	e.publishSessionUpdated()

	// The scenario rides in the history so the builder includes it; a
	// failed init truncates back so retries don't accumulate copies.
	histLen := len(e.session.ActionHistory)
	if scenario != "" {
		e.session.AppendHistory(chat.ChatRoleUser, scenario)
	}

	messages, err := prompts.New().
		WithSession(e.session).
		WithProfile(e.safe).
		WithTurnType(encounter.TurnInit).
		WithHistoryLimit(e.historyLimit).
		Build()
	if err != nil {
		e.session.ActionHistory = e.session.ActionHistory[:histLen]
		e.session.Status = encounter.StatusConfiguring
		e.mu.Unlock()
		return fmt.Errorf("failed to build init prompt: %w", err)
	}
	rev := e.session.Revision
	e.mu.Unlock()

	raw, oracleErr := e.callOracle(ctx, messages)

	e.mu.Lock()
	defer e.mu.Unlock()

	if oracleErr != nil {
		e.failInit(oracleErr, histLen)
		return oracleErr
	}
	if e.session.Revision != rev {
		err := fmt.Errorf("%w: init reply discarded", encounter.ErrStaleRevision)
		e.failInit(err, histLen)
		return err
	}

	update, err := encounter.ParseUpdate(raw, encounter.TurnInit)
	if err != nil {
		e.failInit(err, histLen)
		return err
	}

	// Init is the one turn where oracle-proposed entities enter the
	// rosters directly: the user approves the whole setup by accepting
	// the rendered encounter, and can edit or delete before acting.
	e.session.Party = rosterFromProposals(update.Party, false)
	e.session.Opposition = rosterFromProposals(update.Opposition, true)
	if len(e.session.Party) > 0 {
		e.session.Party[0].IsProtected = true
	}

	if update.Narrative != "" {
		entry := e.session.Log.AppendEntry(encounter.EntryNarrative, update.Narrative)
		entry.OriginHistoryLen = len(e.session.ActionHistory)
		e.session.AppendHistory(chat.ChatRoleAgent, update.Narrative)
		e.publishEntryAdded(entry)
	}

	e.session.Status = encounter.StatusActive
	e.persist(ctx)
	e.publishSessionUpdated()
	e.logger.Info("Encounter initialized",
		"session_id", e.session.ID.String(),
		"party", len(e.session.Party),
		"opposition", len(e.session.Opposition))
	return nil
}

func (e *Engine) failInit(cause error, historyLen int) {
	e.session.ActionHistory = e.session.ActionHistory[:historyLen]
	e.session.Status = encounter.StatusConfiguring
	entry := e.session.Log.AppendEntry(encounter.EntryError, userFacing(cause))
	e.publishEntryAdded(entry)
	e.publishFailed(cause)
	e.publishSessionUpdated()
}

// SubmitAction plays one turn: Active to AwaitingResolution, oracle
// exchange, reconciliation, back to Active. On any failure the session
// rolls back to its pre-action state and an error entry offers retry.
func (e *Engine) SubmitAction(ctx context.Context, action string) (*encounter.LogEntry, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, fmt.Errorf("%w: action cannot be empty", encounter.ErrValidation)
	}

	e.mu.Lock()
	if e.session == nil || e.session.Status != encounter.StatusActive {
		if e.session != nil && e.session.Status.Busy() {
			e.mu.Unlock()
			return nil, encounter.ErrBusy
		}
		e.mu.Unlock()
		return nil, fmt.Errorf("can only act while %s", encounter.StatusActive)
	}

	e.session.Status = encounter.StatusAwaitingResolution
	e.publishSessionUpdated()

	// Capture the pre-action state so a regeneration of this entry can
	// be derived from the same input.
	originState, err := prompts.MarshalState(e.session)
	if err != nil {
		e.session.Status = encounter.StatusActive
		e.mu.Unlock()
		return nil, err
	}
	originHistoryLen := len(e.session.ActionHistory)

	messages, err := prompts.New().
		WithSession(e.session).
		WithProfile(e.safe).
		WithTurnType(encounter.TurnAction).
		WithAction(action).
		WithHistoryLimit(e.historyLimit).
		Build()
	if err != nil {
		e.session.Status = encounter.StatusActive
		e.mu.Unlock()
		return nil, err
	}
	rev := e.session.Revision
	e.mu.Unlock()

	raw, oracleErr := e.callOracle(ctx, messages)

	e.mu.Lock()
	defer e.mu.Unlock()

	if oracleErr != nil {
		return nil, e.failAction(ctx, oracleErr)
	}
	if e.session.Revision != rev {
		return nil, e.failAction(ctx, fmt.Errorf("%w: reply discarded after manual edit", encounter.ErrStaleRevision))
	}

	update, err := encounter.ParseUpdate(raw, encounter.TurnAction)
	if err != nil {
		return nil, e.failAction(ctx, err)
	}

	// Reconcile against a copy; the session is swapped only on success,
	// so it is never left partially mutated.
	working, err := e.session.DeepCopy()
	if err != nil {
		return nil, e.failAction(ctx, err)
	}
	result := encounter.NewWorker(working, update, e.logger).Reconcile()
	e.session = working

	// Every completed reconcile fences out replies still in flight, the
	// same way manual edits do.
	e.session.Revision++

	e.session.AppendHistory(chat.ChatRoleUser, action)
	e.session.AppendHistory(chat.ChatRoleAgent, update.Narrative)
	e.session.Turn++

	entry := e.session.Log.AppendEntry(encounter.EntryNarrative, update.Narrative)
	entry.OriginAction = action
	entry.OriginState = originState
	entry.OriginHistoryLen = originHistoryLen

	e.session.Status = encounter.StatusActive
	if e.session.OppositionDefeated() || e.session.ProtectedDown() {
		e.session.Status = encounter.StatusConcluding
	}

	e.persist(ctx)
	e.publishEntryAdded(entry)
	if result.HasPending() {
		e.publishPendingChanged()
	}
	e.publishSessionUpdated()
	return entry, nil
}

// failAction rolls the machine back to Active and records an error entry
// offering regenerate. Prior entries are never replaced.
func (e *Engine) failAction(ctx context.Context, cause error) error {
	e.session.Status = encounter.StatusActive
	entry := e.session.Log.AppendEntry(encounter.EntryError, userFacing(cause))
	e.persist(ctx)
	e.publishEntryAdded(entry)
	e.publishFailed(cause)
	e.publishSessionUpdated()
	return cause
}

// RegenerateEntry appends an alternative generation (swipe) to a
// narrative entry. The request is rebuilt from the entry's originating
// action and pre-action state, so the alternative answers the same input.
// Stat changes already applied for this entry are NOT recomputed unless
// alsoReconcile is set; the UI must surface that choice to the user.
func (e *Engine) RegenerateEntry(ctx context.Context, entryID int64, alsoReconcile bool) error {
	e.mu.Lock()
	if e.session == nil || e.session.Status != encounter.StatusActive {
		e.mu.Unlock()
		return fmt.Errorf("can only regenerate while %s", encounter.StatusActive)
	}

	entry := e.session.Log.Entry(entryID)
	if entry == nil {
		e.mu.Unlock()
		return fmt.Errorf("log entry %d not found", entryID)
	}
	if entry.Kind != encounter.EntryNarrative {
		e.mu.Unlock()
		return fmt.Errorf("only narrative entries can be regenerated")
	}

	builder := prompts.New().
		WithSession(e.session).
		WithProfile(e.safe).
		WithTurnType(encounter.TurnAction).
		WithAction(entry.OriginAction).
		WithHistoryOverride(e.session.HistoryPrefix(entry.OriginHistoryLen)).
		WithHistoryLimit(e.historyLimit)
	if entry.OriginState != nil {
		builder = builder.WithStateOverride(entry.OriginState)
	}
	messages, err := builder.Build()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	rev := e.session.Revision
	e.mu.Unlock()

	raw, oracleErr := e.callOracle(ctx, messages)

	e.mu.Lock()
	defer e.mu.Unlock()

	if oracleErr != nil {
		return oracleErr
	}
	if e.session.Revision != rev {
		return fmt.Errorf("%w: regeneration discarded after manual edit", encounter.ErrStaleRevision)
	}

	update, err := encounter.ParseUpdate(raw, encounter.TurnAction)
	if err != nil {
		return err
	}

	if err := e.session.Log.AddSwipe(entryID, update.Narrative); err != nil {
		return err
	}

	if alsoReconcile {
		working, err := e.session.DeepCopy()
		if err != nil {
			return err
		}
		result := encounter.NewWorker(working, update, e.logger).Reconcile()
		e.session = working
		e.session.Revision++
		if result.HasPending() {
			e.publishPendingChanged()
		}
	}

	e.persist(ctx)
	e.publishSessionUpdated()
	return nil
}

// SetActiveSwipe navigates between a log entry's alternatives. Display
// only; reconciliation is never re-triggered.
func (e *Engine) SetActiveSwipe(ctx context.Context, entryID int64, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}
	if err := e.session.Log.SetActiveSwipe(entryID, index); err != nil {
		return err
	}
	e.persist(ctx)
	e.publishSessionUpdated()
	return nil
}

// ApproveEntity moves a pending oracle-proposed combatant into the
// active roster. Creation is privileged; this is the only path in.
func (e *Engine) ApproveEntity(ctx context.Context, name string, opposition bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}

	pending := e.pendingList(opposition)
	key := combatant.FoldKey(name)
	for i := range *pending {
		if combatant.FoldKey((*pending)[i].Name) == key {
			c := (*pending)[i]
			*pending = append((*pending)[:i], (*pending)[i+1:]...)
			if err := e.session.Roster(opposition).Add(c); err != nil {
				return fmt.Errorf("%w: %v", encounter.ErrValidation, err)
			}
			e.persist(ctx)
			e.publishPendingChanged()
			e.publishSessionUpdated()
			return nil
		}
	}
	return fmt.Errorf("no pending entity named %q", name)
}

// RejectEntity drops a pending combatant without adding it.
func (e *Engine) RejectEntity(ctx context.Context, name string, opposition bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}

	pending := e.pendingList(opposition)
	key := combatant.FoldKey(name)
	for i := range *pending {
		if combatant.FoldKey((*pending)[i].Name) == key {
			*pending = append((*pending)[:i], (*pending)[i+1:]...)
			e.persist(ctx)
			e.publishPendingChanged()
			return nil
		}
	}
	return fmt.Errorf("no pending entity named %q", name)
}

// AddCombatant creates a combatant by manual user action.
func (e *Engine) AddCombatant(ctx context.Context, c combatant.Combatant, opposition bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}
	if err := e.session.Roster(opposition).Add(c); err != nil {
		return fmt.Errorf("%w: %v", encounter.ErrValidation, err)
	}
	e.session.Revision++
	e.persist(ctx)
	e.publishSessionUpdated()
	return nil
}

// EditCombatant applies a manual user edit directly, outside the
// reconciliation path, and bumps the session revision so any in-flight
// oracle reply built from the old state is discarded on arrival.
func (e *Engine) EditCombatant(ctx context.Context, name string, patch combatant.Patch, opposition bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}

	roster := e.session.Roster(opposition)
	c := roster.Find(name)
	if c == nil {
		return fmt.Errorf("combatant %q not found", name)
	}

	if patch.Name != nil && combatant.FoldKey(*patch.Name) != combatant.FoldKey(name) && roster.Contains(*patch.Name) {
		return fmt.Errorf("%w: combatant %q already exists", encounter.ErrValidation, *patch.Name)
	}

	patch.Apply(c)
	e.session.Revision++
	e.persist(ctx)
	e.publishSessionUpdated()
	return nil
}

// DeleteCombatant removes a combatant by explicit user action.
func (e *Engine) DeleteCombatant(ctx context.Context, name string, opposition bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return fmt.Errorf("no active session")
	}
	if !e.session.Roster(opposition).Remove(name) {
		return fmt.Errorf("combatant %q not found", name)
	}
	e.session.Revision++
	e.persist(ctx)
	e.publishSessionUpdated()
	return nil
}

// Conclude ends the encounter: a summary is requested from the oracle,
// handed to the host for transcript insertion via the concluded event,
// and the persisted session is cleared. On summary failure the session
// returns to Active so the user can retry or resume play.
func (e *Engine) Conclude(ctx context.Context, reason ConcludeReason) (string, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return "", fmt.Errorf("no active session")
	}
	if e.session.Status != encounter.StatusActive && e.session.Status != encounter.StatusConcluding {
		e.mu.Unlock()
		return "", fmt.Errorf("cannot conclude from %s", e.session.Status)
	}

	e.session.Status = encounter.StatusConcluding
	e.publishSessionUpdated()

	messages, err := prompts.New().
		WithSession(e.session).
		WithProfile(e.safe).
		WithTurnType(encounter.TurnSummary).
		WithHistoryLimit(e.historyLimit).
		Build()
	if err != nil {
		e.session.Status = encounter.StatusActive
		e.mu.Unlock()
		return "", err
	}
	e.mu.Unlock()

	raw, oracleErr := e.callOracle(ctx, messages)

	e.mu.Lock()
	defer e.mu.Unlock()

	if oracleErr != nil {
		e.session.Status = encounter.StatusActive
		entry := e.session.Log.AppendEntry(encounter.EntryError, userFacing(oracleErr))
		e.persist(ctx)
		e.publishEntryAdded(entry)
		e.publishSessionUpdated()
		return "", oracleErr
	}

	// Summary turns are plain prose; best-effort trim of fence markers.
	summary := strings.TrimSpace(strings.ReplaceAll(raw, "```", ""))
	if summary == "" {
		summary = "The encounter has ended."
	}

	entry := e.session.Log.AppendEntry(encounter.EntrySystem, summary)
	e.session.Status = encounter.StatusConcluded

	if err := e.storage.DeleteSession(ctx, e.session.ID); err != nil {
		e.logger.Error("Failed to clear persisted session", "error", err, "session_id", e.session.ID.String())
	}

	e.publishEntryAdded(entry)
	e.publishSessionUpdated()
	e.events.Publish(Event{
		Type:      EventConcluded,
		SessionID: e.session.ID.String(),
		Data: map[string]interface{}{
			"reason":  string(reason),
			"summary": summary,
		},
	})
	e.logger.Info("Encounter concluded", "session_id", e.session.ID.String(), "reason", reason)
	return summary, nil
}

// callOracle sends one request with a timeout, mapping transport
// failures to the retryable taxonomy error.
func (e *Engine) callOracle(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	oracleCtx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	raw, err := e.oracle.Chat(oracleCtx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", encounter.ErrOracleTransport, err)
	}
	return raw, nil
}

// persist snapshots the session. Persistence failures are surfaced in
// the log but non-fatal; the encounter continues in memory.
func (e *Engine) persist(ctx context.Context) {
	if e.session == nil {
		return
	}
	snap := &storage.Snapshot{
		Session: e.session,
		Profile: &e.prof,
	}
	if err := e.storage.SaveSession(ctx, e.session.ID, snap); err != nil {
		e.logger.Error("Failed to persist session", "error", err, "session_id", e.session.ID.String())
	}
}

func (e *Engine) pendingList(opposition bool) *[]combatant.Combatant {
	if opposition {
		return &e.session.PendingOpposition
	}
	return &e.session.PendingParty
}

func (e *Engine) publishSessionUpdated() {
	e.events.Publish(Event{
		Type:      EventSessionUpdated,
		SessionID: e.session.ID.String(),
		Data: map[string]interface{}{
			"status":   string(e.session.Status),
			"revision": e.session.Revision,
			"turn":     e.session.Turn,
		},
	})
}

func (e *Engine) publishEntryAdded(entry *encounter.LogEntry) {
	e.events.Publish(Event{
		Type:      EventEntryAdded,
		SessionID: e.session.ID.String(),
		Data: map[string]interface{}{
			"entry_id": entry.ID,
			"kind":     string(entry.Kind),
		},
	})
}

func (e *Engine) publishFailed(cause error) {
	e.events.Publish(Event{
		Type:      EventEncounterFailed,
		SessionID: e.session.ID.String(),
		Data: map[string]interface{}{
			"error": cause.Error(),
		},
	})
}

func (e *Engine) publishPendingChanged() {
	e.events.Publish(Event{
		Type:      EventPendingChanged,
		SessionID: e.session.ID.String(),
		Data: map[string]interface{}{
			"party":      len(e.session.PendingParty),
			"opposition": len(e.session.PendingOpposition),
		},
	})
}

// userFacing renders an engine error for the log without leaking
// transport details.
func userFacing(err error) string {
	switch {
	case errors.Is(err, encounter.ErrOracleParse):
		return "The referee's response could not be understood. Nothing has changed; try regenerating."
	case errors.Is(err, encounter.ErrOracleTransport):
		return "The referee could not be reached. Nothing has changed; try again."
	case errors.Is(err, encounter.ErrStaleRevision):
		return "The referee's response was based on outdated information and was discarded. Try again."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// rosterFromProposals builds the initial rosters from an init-turn
// update.
func rosterFromProposals(proposed []encounter.ProposedCombatant, opposition bool) combatant.Roster {
	roster := make(combatant.Roster, 0, len(proposed))
	for i := range proposed {
		p := &proposed[i]
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		c := encounter.CandidateFromProposal(p, opposition)
		if roster.Contains(c.Name) {
			continue
		}
		roster = append(roster, c)
	}
	return roster
}
