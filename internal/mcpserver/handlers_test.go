package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test helpers ---

func newTestSetup(handler http.Handler) (*Handlers, func()) {
	ts := httptest.NewServer(handler)
	cfg := Config{
		APIURL: ts.URL,
		APIKey: "sk_test_key",
	}
	client := NewTraplineClient(cfg)
	h := NewHandlers(client)
	return h, ts.Close
}

func makeRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	if args == nil {
		args = map[string]any{}
	}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content block")
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

// ============================================================
// Client tests
// ============================================================

func TestClient_DoRequest_AuthHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL, APIKey: "sk_secret123"})
	_, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_secret123", gotAuth)
}

func TestClient_DoRequest_NoKeyNoHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL})
	_, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_DoRequest_HTTPError_WithAPIMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "unauthorized",
			"message": "Invalid API key",
		})
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL, APIKey: "bad"})
	_, err := client.GetSession(context.Background(), "conv-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestClient_DoRequest_HTTPError_NonJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL, APIKey: "k"})
	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestClient_DoRequest_ConnectionRefused(t *testing.T) {
	client := NewTraplineClient(Config{APIURL: "http://127.0.0.1:1", APIKey: "k"})
	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_SendMessage_Body(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/honeypot/message", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"success","reply":"oh no, what happened?"}`))
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL, APIKey: "k"})
	_, err := client.SendMessage(context.Background(), "conv-7", "scammer", "your parcel is seized", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "conv-7", gotBody["sessionId"])
	msg, ok := gotBody["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "scammer", msg["sender"])
	assert.Equal(t, "your parcel is seized", msg["text"])
}

func TestClient_GetSession_EscapesID(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewTraplineClient(Config{APIURL: ts.URL, APIKey: "k"})
	_, err := client.GetSession(context.Background(), "conv-9")
	require.NoError(t, err)
	assert.Equal(t, "/v1/honeypot/sessions/conv-9", gotPath)
}

// ============================================================
// send_message
// ============================================================

func TestHandleSendMessage_Success(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","reply":"Which bank did you say you were from?"}`))
	}))
	defer cleanup()

	result, err := h.HandleSendMessage(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-1",
		"text":       "I am calling from your bank",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Which bank did you say you were from?")
}

func TestHandleSendMessage_MissingArgs(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	}))
	defer cleanup()

	result, err := h.HandleSendMessage(context.Background(), makeRequest(map[string]any{
		"text": "hi",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "session_id is required")

	result, err = h.HandleSendMessage(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-1",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "text is required")
}

func TestHandleSendMessage_APIError(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "validation_failed",
			"message": "sessionId: contains invalid characters",
		})
	}))
	defer cleanup()

	result, err := h.HandleSendMessage(context.Background(), makeRequest(map[string]any{
		"session_id": "bad id",
		"text":       "hi",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid characters")
}

// ============================================================
// get_session
// ============================================================

func TestHandleGetSession_Formats(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/honeypot/sessions/conv-2", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessionId":     "conv-2",
			"scamDetected":  true,
			"scamType":      "phishing",
			"riskScore":     65.0,
			"stage":         "suspicious",
			"totalMessages": 6,
			"finalized":     false,
			"intelCounts":   map[string]int{"phoneNumbers": 1, "upiIds": 0},
		})
	}))
	defer cleanup()

	result, err := h.HandleGetSession(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-2",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "conv-2")
	assert.Contains(t, text, "CONFIRMED (phishing)")
	assert.Contains(t, text, "Risk score: 65.0")
	assert.Contains(t, text, "Stage: suspicious")
	assert.Contains(t, text, "phoneNumbers: 1")
	assert.NotContains(t, text, "upiIds")
}

func TestHandleGetSession_NotFound(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "session_not_found",
			"message": "No session with that id",
		})
	}))
	defer cleanup()

	result, err := h.HandleGetSession(context.Background(), makeRequest(map[string]any{
		"session_id": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No session with that id")
}

// ============================================================
// get_report
// ============================================================

func TestHandleGetReport_Formats(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/honeypot/sessions/conv-3/report", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessionId":              "conv-3",
			"scamDetected":           true,
			"scamType":               "digital_arrest",
			"confidenceLevel":        0.85,
			"totalMessagesExchanged": 14,
			"extractedIntelligence": map[string]any{
				"phoneNumbers": []string{"+919876543210"},
				"upiIds":       []string{"fraud@upi"},
				"bankAccounts": []string{},
			},
			"agentNotes": "Scammer claimed to be cyber police.",
		})
	}))
	defer cleanup()

	result, err := h.HandleGetReport(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-3",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "digital_arrest")
	assert.Contains(t, text, "0.85")
	assert.Contains(t, text, "+919876543210")
	assert.Contains(t, text, "fraud@upi")
	assert.Contains(t, text, "cyber police")
	assert.NotContains(t, text, "bankAccounts")
}

// ============================================================
// replay_transcript
// ============================================================

func TestHandleReplayTranscript_Success(t *testing.T) {
	var turns int
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/honeypot/message" {
			turns++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"reply":  "okay, tell me more",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessionId":     "conv-replay",
			"scamDetected":  true,
			"scamType":      "phishing",
			"riskScore":     55.0,
			"stage":         "verifying",
			"totalMessages": 6,
		})
	}))
	defer cleanup()

	result, err := h.HandleReplayTranscript(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-replay",
		"lines": []any{
			"Hello sir, I am from the bank.",
			"Your account has suspicious activity.",
			"Share the OTP to verify your identity.",
		},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 3, turns)

	text := resultText(t, result)
	assert.Contains(t, text, "Turn 1")
	assert.Contains(t, text, "Turn 3")
	assert.Contains(t, text, "Share the OTP")
	assert.Contains(t, text, "Final state:")
	assert.Contains(t, text, "CONFIRMED (phishing)")
}

func TestHandleReplayTranscript_BadLines(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	}))
	defer cleanup()

	for _, lines := range []any{nil, []any{}, []any{1, 2}, "not an array"} {
		result, err := h.HandleReplayTranscript(context.Background(), makeRequest(map[string]any{
			"session_id": "conv-x",
			"lines":      lines,
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
}

func TestHandleReplayTranscript_StopsOnError(t *testing.T) {
	var turns int
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/honeypot/message" {
			turns++
			if turns == 2 {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":   "internal_error",
					"message": "Failed to process message",
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "reply": "go on"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sessionId": "conv-err"})
	}))
	defer cleanup()

	result, err := h.HandleReplayTranscript(context.Background(), makeRequest(map[string]any{
		"session_id": "conv-err",
		"lines":      []any{"one", "two", "three"},
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, turns)
	text := resultText(t, result)
	assert.Contains(t, text, "Turn 2 failed")
	assert.NotContains(t, text, "Turn 3")
}

// ============================================================
// server_status / whoami
// ============================================================

func TestHandleServerStatus(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "version": "0.1.0"})
	}))
	defer cleanup()

	result, err := h.HandleServerStatus(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "healthy")
}

func TestHandleWhoami(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"owner": "default", "keyId": "static"})
	}))
	defer cleanup()

	result, err := h.HandleWhoami(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "default")
}
