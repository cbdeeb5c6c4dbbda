package callback

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *FinalReport {
	return &FinalReport{
		SessionID:              "sess-1",
		ScamDetected:           true,
		ScamType:               "phishing",
		ConfidenceLevel:        0.92,
		TotalMessagesExchanged: 9,
		ExtractedIntelligence: ExtractedIntelligence{
			PhoneNumbers: []string{"+919876543210"},
			UpiIDs:       []string{"refund@paytm"},
		},
		EngagementMetrics: EngagementMetrics{
			EngagementDurationSeconds: 300,
			QuestionsAsked:            6,
			FinalStage:                "extracting",
		},
		AgentNotes: "Classification: Phishing",
	}
}

func TestSendDeliversSignedReport(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Trapline-Signature")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Trapline-Timestamp"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL, Secret: "topsecret"})
	require.NoError(t, d.Send(context.Background(), sampleReport()))

	var decoded FinalReport
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "sess-1", decoded.SessionID)
	assert.Equal(t, []string{"refund@paytm"}, decoded.ExtractedIntelligence.UpiIDs)

	assert.True(t, hmac.Equal([]byte(gotSig), []byte(Sign(gotBody, "topsecret"))))
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL, MaxAttempts: 4, BaseDelay: time.Millisecond})
	require.NoError(t, d.Send(context.Background(), sampleReport()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL, MaxAttempts: 4, BaseDelay: time.Millisecond})
	err := d.Send(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendNoopWithoutURL(t *testing.T) {
	d := NewDispatcher(Config{})
	assert.False(t, d.Enabled())
	assert.NoError(t, d.Send(context.Background(), sampleReport()))
}
