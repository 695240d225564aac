package viewstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/search"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	snap := Snapshot{
		Page: 3,
		Filter: search.FilterSpec{
			Search:   "java 北京",
			Degrees:  []string{"Master"},
			MinYears: "3",
		},
		SelectedIDs:    []string{"a", "b"},
		ScrollPosition: 1204.5,
		ScrollTarget:   "a",
	}

	require.NoError(t, store.Save(ctx, "user1", "sess1", "candidates", snap))

	got, err := store.Load(ctx, "user1", "sess1", "candidates")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)
}

func TestMemoryStoreMissingIsNilNil(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	got, err := store.Load(context.Background(), "user1", "sess1", "candidates")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreScopedBySessionAndScreen(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", "sess1", "candidates", Snapshot{Page: 2}))

	// Same user, different session token: no snapshot.
	got, err := store.Load(ctx, "user1", "sess2", "candidates")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Same session, different screen: no snapshot.
	got, err = store.Load(ctx, "user1", "sess1", "uploads")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", "sess1", "candidates", Snapshot{Page: 2}))
	require.NoError(t, store.Clear(ctx, "user1", "sess1", "candidates"))

	got, err := store.Load(ctx, "user1", "sess1", "candidates")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", "sess1", "candidates", Snapshot{Page: 5}))

	current = current.Add(2 * time.Minute)
	got, err := store.Load(ctx, "user1", "sess1", "candidates")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotKeyFormat(t *testing.T) {
	assert.Equal(t, "viewstate:u:s:candidates", key("u", "s", "candidates"))
}
