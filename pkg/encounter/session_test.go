package encounter

import (
	"testing"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
	"github.com/jwebster45206/encounter-engine/pkg/combatant"
)

func TestStatus_Busy(t *testing.T) {
	busy := []Status{StatusInitializing, StatusAwaitingResolution, StatusConcluding}
	for _, st := range busy {
		if !st.Busy() {
			t.Errorf("Expected %s to be busy", st)
		}
	}

	idle := []Status{StatusIdle, StatusConfiguring, StatusActive, StatusConcluded}
	for _, st := range idle {
		if st.Busy() {
			t.Errorf("Expected %s not to be busy", st)
		}
	}
}

func TestSession_DeepCopy(t *testing.T) {
	s := NewSession()
	s.Party = combatant.Roster{{Name: "Knight", HP: 20, MaxHP: 20}}
	s.Log.AppendEntry(EntryNarrative, "The fight begins.")
	s.AppendHistory(chat.ChatRoleUser, "attack")

	cp, err := s.DeepCopy()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cp.Party[0].HP = 5
	cp.Log.Entries[0].Swipes[0] = "changed"
	cp.AppendHistory(chat.ChatRoleAgent, "reply")

	if s.Party[0].HP != 20 {
		t.Error("Expected original roster unaffected by copy mutation")
	}
	if s.Log.Entries[0].Swipes[0] != "The fight begins." {
		t.Error("Expected original log unaffected by copy mutation")
	}
	if len(s.ActionHistory) != 1 {
		t.Error("Expected original history unaffected by copy mutation")
	}
}

func TestSession_HistoryWindow(t *testing.T) {
	s := NewSession()
	for i := 0; i < 6; i++ {
		s.AppendHistory(chat.ChatRoleUser, "msg")
	}

	if got := len(s.HistoryWindow(4)); got != 4 {
		t.Errorf("Expected window of 4, got %d", got)
	}
	if got := len(s.HistoryWindow(0)); got != 6 {
		t.Errorf("Expected full history for zero limit, got %d", got)
	}
	if got := len(s.HistoryWindow(10)); got != 6 {
		t.Errorf("Expected full history for oversized limit, got %d", got)
	}
}

func TestSession_HistoryPrefix(t *testing.T) {
	s := NewSession()
	s.AppendHistory(chat.ChatRoleUser, "first")
	s.AppendHistory(chat.ChatRoleAgent, "second")
	s.AppendHistory(chat.ChatRoleUser, "third")

	prefix := s.HistoryPrefix(2)
	if len(prefix) != 2 || prefix[1].Content != "second" {
		t.Errorf("Unexpected prefix: %+v", prefix)
	}
	if got := len(s.HistoryPrefix(-1)); got != 0 {
		t.Errorf("Expected empty prefix for negative n, got %d", got)
	}
	if got := len(s.HistoryPrefix(10)); got != 3 {
		t.Errorf("Expected clamped prefix, got %d", got)
	}
}

func TestSession_ProtectedDown(t *testing.T) {
	s := NewSession()
	s.Party = combatant.Roster{
		{Name: "Knight", HP: 0, MaxHP: 20, IsProtected: true},
		{Name: "Mira", HP: 10, MaxHP: 10},
	}
	if !s.ProtectedDown() {
		t.Error("Expected ProtectedDown when the avatar is at 0 HP")
	}

	s.Party[0].HP = 1
	if s.ProtectedDown() {
		t.Error("Expected ProtectedDown false when the avatar has HP left")
	}

	// Unprotected members at 0 don't trigger it
	s.Party[1].HP = 0
	if s.ProtectedDown() {
		t.Error("Expected unprotected members not to trigger ProtectedDown")
	}
}

func TestSession_OppositionDefeated(t *testing.T) {
	s := NewSession()
	if !s.OppositionDefeated() {
		t.Error("Expected empty opposition to count as defeated")
	}
	s.Opposition = combatant.Roster{{Name: "Goblin", HP: 1, MaxHP: 5}}
	if s.OppositionDefeated() {
		t.Error("Expected remaining opposition to count as not defeated")
	}
}
