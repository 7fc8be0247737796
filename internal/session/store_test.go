package session

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameSession(t *testing.T, want, got *Session) {
	t.Helper()
	w, g := want.Snapshot(), got.Snapshot()
	assert.Equal(t, w.ID, g.ID)
	assert.Equal(t, w.Premium, g.Premium)
	assert.Equal(t, w.Original, g.Original)
	assert.Equal(t, w.Current, g.Current)
	assert.Equal(t, w.Skipped, g.Skipped)
	assert.Equal(t, w.Baseline, g.Baseline)
	assert.Equal(t, w.Simulated, g.Simulated)
	assert.Equal(t, w.IsSimulated, g.IsSimulated)
	assert.Equal(t, w.Slots, g.Slots)
	assert.True(t, w.UpdatedAt.Equal(g.UpdatedAt))
}

func simulatedSession(t *testing.T) *Session {
	t.Helper()
	s := loadedSession(t)
	require.NoError(t, s.SelectCourse(0, "ds"))
	require.NoError(t, s.SetReplacementGrade(0, "A0"))
	_, err := s.Simulate()
	require.NoError(t, err)
	return s
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := simulatedSession(t)

	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assertSameSession(t, s, got)

	// Mutating the loaded copy does not leak into the store.
	got.Reset()
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, again.IsSimulated)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s.ID), errors.ErrSessionNotFound)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	s := loadedSession(t)
	require.NoError(t, store.Save(ctx, s))

	store.now = func() time.Time { return s.UpdatedAt.Add(2 * time.Minute) }
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	assert.Empty(t, store.sessions)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s := loadedSession(t)
	require.NoError(t, store.Save(ctx, s))

	store.now = func() time.Time { return s.UpdatedAt.Add(24 * time.Hour) }
	_, err := store.Get(ctx, s.ID)
	assert.NoError(t, err)
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "test:session:", time.Hour), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	s := simulatedSession(t)
	s.SetPremium(true)

	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("test:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("test:session:s1"))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assertSameSession(t, s, got)
	assert.Equal(t, 5, got.MaxSlots())

	require.NoError(t, store.Delete(ctx, s.ID))
	assert.False(t, mr.Exists("test:session:s1"))
	assert.ErrorIs(t, store.Delete(ctx, s.ID), errors.ErrSessionNotFound)
}

func TestRedisStoreMissingAndExpired(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	s := loadedSession(t)
	require.NoError(t, store.Save(ctx, s))
	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set("test:session:bad", "{not json"))

	_, err := store.Get(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestNewStoreSelectsBackend(t *testing.T) {
	cfg := config.Default()
	store, closeFn, err := NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	cfg.Session.Backend = config.SessionBackendRedis
	cfg.Redis.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis.Port = port

	store, closeFn, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	assert.NoError(t, closeFn())
}

func TestMemoryStoreKeepsSessionSavedDuringExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	stale := loadedSession(t)
	require.NoError(t, store.Save(ctx, stale))

	later := stale.UpdatedAt.Add(10 * time.Minute)
	fresh := FromSnapshot(stale.Snapshot())
	fresh.SetPremium(true)
	fresh.UpdatedAt = later

	// The clock is read between the read and write locks; a Save landing
	// there must win over the expiry.
	store.now = func() time.Time {
		require.NoError(t, store.Save(ctx, fresh))
		store.now = func() time.Time { return later }
		return later
	}

	got, err := store.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, got.Premium)
	assert.Contains(t, store.sessions, stale.ID)
}

func testStoreRejectsStaleSave(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	s := loadedSession(t)
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	first, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, first.SelectCourse(0, "ds"))
	require.NoError(t, store.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	require.NoError(t, second.SelectCourse(1, "os"))
	assert.ErrorIs(t, store.Save(ctx, second), errors.ErrSessionConflict)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ds", got.Slots()[0].CourseID)
	assert.False(t, got.Slots()[1].Occupied())

	// Saving the same in-memory session again keeps working.
	require.NoError(t, first.SetReplacementGrade(0, "A0"))
	require.NoError(t, store.Save(ctx, first))

	require.NoError(t, store.Delete(ctx, s.ID))
	assert.ErrorIs(t, store.Save(ctx, first), errors.ErrSessionNotFound)
}

func TestMemoryStoreRejectsStaleSave(t *testing.T) {
	testStoreRejectsStaleSave(t, NewMemoryStore(time.Hour))
}

func TestRedisStoreRejectsStaleSave(t *testing.T) {
	store, _ := newTestRedisStore(t)
	testStoreRejectsStaleSave(t, store)
}
