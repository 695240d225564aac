// Package viewstate persists per-session screen snapshots so a client can
// restore its list position after a reload. Snapshots are scoped to
// user + session + screen and expire together with the session token.
package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TalentScope-backend/internal/search"
)

// SessionTTL bounds how long a snapshot outlives its last write. It is
// aligned with the access-token lifetime so stale sessions cannot restore.
const SessionTTL = 12 * time.Hour

// Snapshot is everything a screen needs to restore itself.
type Snapshot struct {
	Page           int               `json:"page"`
	Filter         search.FilterSpec `json:"filter"`
	SelectedIDs    []string          `json:"selectedIds"`
	ScrollPosition float64           `json:"scrollPosition"`
	ScrollTarget   string            `json:"scrollTarget"`
}

// Store saves and restores snapshots. Load returns (nil, nil) when no
// snapshot exists for the key; a missing snapshot is not an error.
type Store interface {
	Save(ctx context.Context, userID, sessionID, screen string, snap Snapshot) error
	Load(ctx context.Context, userID, sessionID, screen string) (*Snapshot, error)
	Clear(ctx context.Context, userID, sessionID, screen string) error
}

func key(userID, sessionID, screen string) string {
	return fmt.Sprintf("viewstate:%s:%s:%s", userID, sessionID, screen)
}

func encode(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func decode(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("corrupt view state snapshot: %w", err)
	}
	return &snap, nil
}
