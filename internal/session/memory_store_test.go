package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/trapline/internal/pagination"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New("sess-1")
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
	assert.NotNil(t, got.Profile)
	assert.NotNil(t, got.Intel)
}

func TestFinalizeIsOneShot(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, New("sess-1")))

	require.NoError(t, m.Finalize(ctx, "sess-1"))
	assert.ErrorIs(t, m.Finalize(ctx, "sess-1"), ErrAlreadyFinalized)

	assert.ErrorIs(t, m.Finalize(ctx, "nope"), ErrNotFound)
}

func TestActiveCountExcludesFinalized(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, New("a")))
	require.NoError(t, m.Save(ctx, New("b")))
	require.NoError(t, m.Finalize(ctx, "a"))

	n, err := m.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEvictExpired(t *testing.T) {
	m := NewMemoryStore(WithTTL(time.Minute))
	defer m.Close()
	ctx := context.Background()

	old := New("old")
	old.UpdatedAt = time.Now().UTC().Add(-2 * time.Minute)
	require.NoError(t, m.Save(ctx, old))

	fresh := New("fresh")
	require.NoError(t, m.Save(ctx, fresh))

	m.evictExpired(time.Now().UTC())

	_, err := m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSessionJSONRoundTrip(t *testing.T) {
	s := New("sess-json")
	s.Record("scammer", "share the otp", time.Now().UTC())
	s.Engagement.Tactics["otp_request"] = true
	s.Intel.PhoneNumbers["+919876543210"] = true
	s.Quality.RedFlags["urgency"] = true

	blob, err := json.Marshal(s)
	require.NoError(t, err)

	var back Session
	require.NoError(t, json.Unmarshal(blob, &back))

	assert.Equal(t, s.ID, back.ID)
	assert.Len(t, back.History, 1)
	assert.True(t, back.Engagement.Tactics["otp_request"])
	assert.True(t, back.Intel.PhoneNumbers["+919876543210"])
	assert.True(t, back.Quality.RedFlags["urgency"])
	assert.Len(t, back.RankerState.Hidden, 64)
}

func TestListNewestFirstWithCursor(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := New(string(rune('a'+i)) + "-sess")
		s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, m.Save(ctx, s))
	}

	page, err := m.List(ctx, 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "e-sess", page[0].ID)
	assert.Equal(t, "d-sess", page[1].ID)
	assert.Equal(t, "c-sess", page[2].ID)

	cursor := &pagination.Cursor{CreatedAt: page[2].CreatedAt, ID: page[2].ID}
	rest, err := m.List(ctx, 3, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "b-sess", rest[0].ID)
	assert.Equal(t, "a-sess", rest[1].ID)
}

func TestListTieBreaksOnID(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"s1", "s2", "s3"} {
		s := New(id)
		s.CreatedAt = ts
		require.NoError(t, m.Save(ctx, s))
	}

	page, err := m.List(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "s3", page[0].ID)
	assert.Equal(t, "s2", page[1].ID)

	rest, err := m.List(ctx, 2, &pagination.Cursor{CreatedAt: ts, ID: "s2"})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "s1", rest[0].ID)
}

func TestFinalizeOnceUnderConcurrentDuplicates(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, New("sess-race")))

	const n = 32
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.Finalize(ctx, "sess-race")
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch err {
		case nil:
			won++
		case ErrAlreadyFinalized:
			lost++
		default:
			t.Fatalf("Unexpected finalize error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one caller wins the finalize race")
	assert.Equal(t, n-1, lost)
}
