package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/trapline/internal/callback"
	"github.com/mbd888/trapline/internal/detector"
	"github.com/mbd888/trapline/internal/session"
)

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) Notify(event string, _ map[string]any) {
	r.events = append(r.events, event)
}

func newTestEngine(t *testing.T, callbackURL string) (*Engine, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	t.Cleanup(store.Close)
	d := callback.NewDispatcher(callback.Config{
		URL: callbackURL, MaxAttempts: 2, BaseDelay: time.Millisecond,
	})
	return New(detector.New(), store, d, nil, WithReportTrigger(3, 0)), store
}

func TestBenignMessageGetsReplyWithoutDetection(t *testing.T) {
	e, _ := newTestEngine(t, "")

	res, err := e.ProcessTurn(context.Background(), "sess-1", "hello, how are you?", time.Now(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Reply)
	assert.False(t, res.ScamDetected)
	assert.Equal(t, 0.0, res.RiskScore)
	assert.Equal(t, "confused", res.Stage)
	assert.Equal(t, 2, res.TotalMessages)
}

func TestScamEscalationConfirmsAndClassifies(t *testing.T) {
	e, _ := newTestEngine(t, "")
	ctx := context.Background()

	_, err := e.ProcessTurn(ctx, "sess-1", "Hello", time.Now(), nil)
	require.NoError(t, err)

	res, err := e.ProcessTurn(ctx, "sess-1",
		"Share the OTP immediately or your account will be suspended", time.Now(), nil)
	require.NoError(t, err)

	assert.True(t, res.ScamDetected)
	assert.Equal(t, detector.TypePhishing, res.ScamType)
	assert.Greater(t, res.RiskScore, 40.0)
	assert.Greater(t, res.Confidence, 0.5)
	assert.NotEmpty(t, res.Reply)
}

func TestReportFiresOnceWithIntel(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e, _ := newTestEngine(t, srv.URL)
	ctx := context.Background()

	turns := []string{
		"Hello, I am calling from the bank",
		"Share the OTP immediately or your account will be suspended",
		"You must pay the fine now, call me at 9876543210",
		"Why the delay? Transfer to fraud.desk@paytm right now",
	}
	for _, msg := range turns {
		_, err := e.ProcessTurn(ctx, "sess-1", msg, time.Now(), nil)
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), calls.Load(), "final report is one-shot")

	var report callback.FinalReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "sess-1", report.SessionID)
	assert.True(t, report.ScamDetected)
	assert.Contains(t, report.ExtractedIntelligence.PhoneNumbers, "+919876543210")
	assert.NotEmpty(t, report.AgentNotes)
	assert.GreaterOrEqual(t, report.TotalMessagesExchanged, 6)
}

func TestNoReportWithoutConfirmation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e, _ := newTestEngine(t, srv.URL)
	ctx := context.Background()

	for _, msg := range []string{"hi", "my number is 9876543210", "see you at lunch", "ok bye"} {
		_, err := e.ProcessTurn(ctx, "sess-1", msg, time.Now(), nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(0), calls.Load())
}

func TestHistoryReplaySeedsFreshSession(t *testing.T) {
	e, _ := newTestEngine(t, "")
	ctx := context.Background()

	history := []HistoryMessage{
		{Sender: "scammer", Text: "I am calling from the bank, your account will be suspended", Timestamp: time.Now().Add(-2 * time.Minute)},
		{Sender: "agent", Text: "Oh no, what happened?", Timestamp: time.Now().Add(-time.Minute)},
		{Sender: "scammer", Text: "Share the OTP immediately, call me at 9876543210", Timestamp: time.Now()},
	}

	res, err := e.ProcessTurn(ctx, "sess-replay", "are you there?", time.Now(), history)
	require.NoError(t, err)
	assert.True(t, res.ScamDetected, "historical scammer turns count toward detection")
	assert.Equal(t, 5, res.TotalMessages)

	s, err := e.Session(ctx, "sess-replay")
	require.NoError(t, err)
	assert.True(t, s.Intel.PhoneNumbers["+919876543210"], "intel is mined from history")

	// Replay applies only to fresh sessions; resending the same history
	// must not double the score.
	before := s.Profile.CumulativeScore
	res2, err := e.ProcessTurn(ctx, "sess-replay", "ok", time.Now(), history)
	require.NoError(t, err)
	assert.Equal(t, before, res2.RiskScore)
	assert.Equal(t, 7, res2.TotalMessages)
}

func TestNoReportBeforeMinimumDuration(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	t.Cleanup(store.Close)
	d := callback.NewDispatcher(callback.Config{
		URL: srv.URL, MaxAttempts: 2, BaseDelay: time.Millisecond,
	})
	e := New(detector.New(), store, d, nil, WithReportTrigger(3, time.Hour))
	ctx := context.Background()

	turns := []string{
		"Hello, I am calling from the bank",
		"Share the OTP immediately or your account will be suspended",
		"You must pay the fine now, call me at 9876543210",
		"Why the delay? Transfer to fraud.desk@paytm right now",
	}
	for _, msg := range turns {
		_, err := e.ProcessTurn(ctx, "sess-1", msg, time.Now(), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(0), calls.Load(), "report held back while the engagement is young")

	// Backdate the session past the minimum; the next turn reports.
	s, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	s.CreatedAt = s.CreatedAt.Add(-2 * time.Hour)
	require.NoError(t, store.Save(ctx, s))

	_, err = e.ProcessTurn(ctx, "sess-1", "pay the penalty amount now", time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRepliesAreDeterministicPerSession(t *testing.T) {
	turns := []string{
		"Hello sir",
		"This is the cyber cell, a case is registered against you",
		"Share the OTP immediately to avoid arrest",
	}

	run := func() []string {
		e, _ := newTestEngine(t, "")
		var replies []string
		for _, msg := range turns {
			res, err := e.ProcessTurn(context.Background(), "sess-fixed", msg, time.Now(), nil)
			require.NoError(t, err)
			replies = append(replies, res.Reply)
		}
		return replies
	}

	assert.Equal(t, run(), run())
}

func TestEmptyMessageStillGetsReply(t *testing.T) {
	e, _ := newTestEngine(t, "")

	res, err := e.ProcessTurn(context.Background(), "sess-1", "", time.Now(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reply)
	assert.Equal(t, 0.0, res.RiskScore)
}

func TestNotifierReceivesLifecycleEvents(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(store.Close)
	n := &recordingNotifier{}
	e := New(detector.New(), store, callback.NewDispatcher(callback.Config{}), n)

	_, err := e.ProcessTurn(context.Background(), "sess-1",
		"Share the OTP immediately or your account will be suspended", time.Now(), nil)
	require.NoError(t, err)

	assert.Contains(t, n.events, "scam_confirmed")
	assert.Contains(t, n.events, "turn_processed")
}

func TestSessionAndReportViews(t *testing.T) {
	e, _ := newTestEngine(t, "")
	ctx := context.Background()

	_, err := e.ProcessTurn(ctx, "sess-1", "Share the OTP immediately or your account will be suspended", time.Now(), nil)
	require.NoError(t, err)

	s, err := e.Session(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, s.Profile.ScamDetected)
	assert.False(t, s.Finalized)

	report, err := e.Report(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, report.ScamDetected)

	_, err = e.Session(ctx, "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
