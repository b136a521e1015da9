package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/encounter-engine/pkg/combatant"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

func setupRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	store := NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func snapshotFixture() *Snapshot {
	s := encounter.NewSession()
	s.Status = encounter.StatusActive
	s.Turn = 2
	s.Party = combatant.Roster{
		{Name: "Sir Roderick", HP: 16, MaxHP: 20, IsProtected: true},
	}
	s.Log.AppendEntry(encounter.EntryNarrative, "The cavern is quiet.")

	def := profile.Default()
	return &Snapshot{
		Session: s,
		Profile: &def,
	}
}

func TestRedisStorage_SaveAndLoadSession(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()

	snap := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, snap.Session.ID, snap))

	loaded, err := store.LoadSession(ctx, snap.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, snap.Session.ID, loaded.Session.ID)
	assert.Equal(t, encounter.StatusActive, loaded.Session.Status)
	assert.Equal(t, 2, loaded.Session.Turn)
	assert.Len(t, loaded.Session.Party, 1)
	assert.Equal(t, "Sir Roderick", loaded.Session.Party[0].Name)
	assert.Len(t, loaded.Session.Log.Entries, 1)
	assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, "Traditional Combat", loaded.Profile.Name)
}

func TestRedisStorage_LoadMissingSession(t *testing.T) {
	store, _ := setupRedis(t)

	loaded, err := store.LoadSession(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_UnknownSchemaVersionTreatedAsAbsent(t *testing.T) {
	store, mr := setupRedis(t)
	ctx := context.Background()

	snap := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, snap.Session.ID, snap))

	// Rewrite the stored snapshot with a future schema version
	key := "encounter:" + snap.Session.ID.String()
	raw, err := mr.Get(key)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	doc["schema_version"] = json.RawMessage("99")
	rewritten, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, string(rewritten)))

	loaded, err := store.LoadSession(ctx, snap.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "unknown schema version must read as absent, never coerced")
}

func TestRedisStorage_LoadLatestSession(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()

	loaded, err := store.LoadLatestSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "no latest session before any save")

	first := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, first.Session.ID, first))

	second := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, second.Session.ID, second))

	loaded, err = store.LoadLatestSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, second.Session.ID, loaded.Session.ID)
}

func TestRedisStorage_DeleteSessionClearsLatestPointer(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()

	snap := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, snap.Session.ID, snap))
	require.NoError(t, store.DeleteSession(ctx, snap.Session.ID))

	loaded, err := store.LoadSession(ctx, snap.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	latest, err := store.LoadLatestSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "latest pointer must be cleared with the session")
}

func TestRedisStorage_DeleteKeepsOtherLatestPointer(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()

	first := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, first.Session.ID, first))

	second := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, second.Session.ID, second))

	// Deleting a non-latest session leaves the pointer alone
	require.NoError(t, store.DeleteSession(ctx, first.Session.ID))

	latest, err := store.LoadLatestSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.Session.ID, latest.Session.ID)
}

func TestRedisStorage_SessionTTL(t *testing.T) {
	store, mr := setupRedis(t)
	ctx := context.Background()

	snap := snapshotFixture()
	require.NoError(t, store.SaveSession(ctx, snap.Session.ID, snap))

	mr.FastForward(sessionTTL + time.Hour)

	loaded, err := store.LoadSession(ctx, snap.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired snapshot must read as absent")
}

func TestRedisStorage_ProfileRoundTrip(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()

	p := profile.Profile{
		ID:              "heist",
		Name:            "The Heist",
		Genre:           "a noir heist",
		Goal:            "crack the vault",
		Stakes:          "freedom",
		ResourceMeaning: "nerve",
		ActionMeaning:   "cons and lockpicks",
		StatusMeaning:   "complications",
		SummaryFraming:  "a debrief",
	}
	require.NoError(t, store.SaveProfile(ctx, &p))

	loaded, err := store.LoadProfile(ctx, "heist")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "The Heist", loaded.Name)

	missing, err := store.LoadProfile(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestRedisStorage_SaveProfileRequiresID(t *testing.T) {
	store, _ := setupRedis(t)

	err := store.SaveProfile(context.Background(), &profile.Profile{Name: "anonymous"})
	assert.Error(t, err)
}
