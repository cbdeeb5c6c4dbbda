package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *TraplineClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *TraplineClient) *Handlers {
	return &Handlers{client: client}
}

// HandleSendMessage feeds one message into a session and returns the reply.
func (h *Handlers) HandleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	sender := req.GetString("sender", "scammer")

	raw, err := h.client.SendMessage(ctx, sessionID, sender, text, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	reply, err := extractReply(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse response: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Agent reply:\n%s", reply)), nil
}

// HandleGetSession returns a formatted session state view.
func (h *Handlers) HandleGetSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	raw, err := h.client.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get session: %v", err)), nil
	}

	text, err := formatSession(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse session: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetReport returns a formatted intelligence report.
func (h *Handlers) HandleGetReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	raw, err := h.client.GetReport(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get report: %v", err)), nil
	}

	text, err := formatReport(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse report: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleReplayTranscript replays scammer lines through a session in order.
func (h *Handlers) HandleReplayTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	lines := extractStringSlice(req.GetArguments()["lines"])
	if len(lines) == 0 {
		return mcp.NewToolResultError("lines must be a non-empty array of strings"), nil
	}

	var sb strings.Builder
	ts := time.Now().UTC()
	for i, line := range lines {
		raw, err := h.client.SendMessage(ctx, sessionID, "scammer", line, ts.Add(time.Duration(i)*time.Minute))
		if err != nil {
			fmt.Fprintf(&sb, "Turn %d failed: %v\n", i+1, err)
			break
		}
		reply, err := extractReply(raw)
		if err != nil {
			fmt.Fprintf(&sb, "Turn %d: unparseable response: %v\n", i+1, err)
			break
		}
		fmt.Fprintf(&sb, "Turn %d\n  Scammer: %s\n  Agent:   %s\n\n", i+1, line, reply)
	}

	// Close with the session's final state so the caller sees the outcome.
	if raw, err := h.client.GetSession(ctx, sessionID); err == nil {
		if state, err := formatSession(raw); err == nil {
			sb.WriteString("Final state:\n")
			sb.WriteString(state)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// HandleServerStatus returns the server health summary.
func (h *Handlers) HandleServerStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get server status: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleWhoami returns the authenticated identity.
func (h *Handlers) HandleWhoami(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Whoami(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get identity: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// --- Formatting helpers ---

func extractReply(raw json.RawMessage) (string, error) {
	var resp struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Reply == "" {
		return "", fmt.Errorf("no reply in response: %s", string(raw))
	}
	return resp.Reply, nil
}

func formatSession(raw json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Session ")
	sb.WriteString(getString(m, "sessionId"))
	sb.WriteString("\n")

	if v, ok := m["scamDetected"].(bool); ok {
		if v {
			fmt.Fprintf(&sb, "  Scam: CONFIRMED (%s)\n", getString(m, "scamType"))
		} else {
			sb.WriteString("  Scam: not confirmed\n")
		}
	}
	if v, ok := getFloat(m, "riskScore"); ok {
		fmt.Fprintf(&sb, "  Risk score: %.1f\n", v)
	}
	if v := getString(m, "stage"); v != "" {
		fmt.Fprintf(&sb, "  Stage: %s\n", v)
	}
	if v, ok := getFloat(m, "totalMessages"); ok {
		fmt.Fprintf(&sb, "  Messages: %.0f\n", v)
	}
	if v, ok := m["finalized"].(bool); ok && v {
		sb.WriteString("  Finalized: report already sent\n")
	}

	if counts, ok := m["intelCounts"].(map[string]any); ok && len(counts) > 0 {
		sb.WriteString("  Intel:\n")
		for k, v := range counts {
			if f, ok := v.(float64); ok && f > 0 {
				fmt.Fprintf(&sb, "    %s: %.0f\n", k, f)
			}
		}
	}

	return sb.String(), nil
}

func formatReport(raw json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Intelligence report for ")
	sb.WriteString(getString(m, "sessionId"))
	sb.WriteString("\n")

	if v, ok := m["scamDetected"].(bool); ok && v {
		fmt.Fprintf(&sb, "  Scam type: %s\n", getString(m, "scamType"))
	}
	if v, ok := getFloat(m, "confidenceLevel"); ok {
		fmt.Fprintf(&sb, "  Confidence: %.2f\n", v)
	}
	if v, ok := getFloat(m, "totalMessagesExchanged"); ok {
		fmt.Fprintf(&sb, "  Messages exchanged: %.0f\n", v)
	}

	if intel, ok := m["extractedIntelligence"].(map[string]any); ok {
		sb.WriteString("  Extracted:\n")
		for _, k := range []string{"phoneNumbers", "upiIds", "bankAccounts", "phishingLinks", "emailAddresses", "caseIds", "policyNumbers", "orderNumbers"} {
			if arr, ok := intel[k].([]any); ok && len(arr) > 0 {
				items := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						items = append(items, s)
					}
				}
				fmt.Fprintf(&sb, "    %s: %s\n", k, strings.Join(items, ", "))
			}
		}
	}

	if notes := getString(m, "agentNotes"); notes != "" {
		fmt.Fprintf(&sb, "  Notes: %s\n", notes)
	}

	return sb.String(), nil
}

func formatJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}

func extractStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, it := range arr {
		s, ok := it.(string)
		if !ok || s == "" {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// getString extracts a string value from a map, trying multiple key names.
func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%g", f)
			}
		}
	}
	return ""
}

// getFloat extracts a float64 value from a map, trying multiple key names.
func getFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}
