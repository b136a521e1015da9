package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

// SchemaVersion is written into every snapshot. On load, an unknown or
// missing version is treated as no snapshot at all (fresh idle state),
// never coerced.
const SchemaVersion = 1

// Snapshot is the persisted session record: the full session plus the
// active profile, written after every state-mutating operation so play
// resumes exactly where it stopped.
type Snapshot struct {
	Session       *encounter.Session `json:"session"`
	Profile       *profile.Profile   `json:"profile"`
	SchemaVersion int                `json:"schema_version"`
}

// Storage defines a unified interface for all persistence operations
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session snapshot operations
	SaveSession(ctx context.Context, id uuid.UUID, snap *Snapshot) error
	LoadSession(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	// LoadLatestSession returns the most recently saved snapshot, used to
	// offer resume after interruption. Nil when none exists.
	LoadLatestSession(ctx context.Context) (*Snapshot, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Profile operations
	SaveProfile(ctx context.Context, p *profile.Profile) error
	LoadProfile(ctx context.Context, id string) (*profile.Profile, error)
	ListProfiles(ctx context.Context) ([]profile.Profile, error)
}
