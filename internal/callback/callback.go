// Package callback delivers the one-shot final report for a finished
// honeypot session to the configured evaluation endpoint.
package callback

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mbd888/trapline/internal/circuitbreaker"
	"github.com/mbd888/trapline/internal/logging"
	"github.com/mbd888/trapline/internal/retry"
)

// ExtractedIntelligence is the reportable identifier set.
type ExtractedIntelligence struct {
	PhoneNumbers   []string `json:"phoneNumbers"`
	BankAccounts   []string `json:"bankAccounts"`
	UpiIDs         []string `json:"upiIds"`
	PhishingLinks  []string `json:"phishingLinks"`
	EmailAddresses []string `json:"emailAddresses"`
	CaseIDs        []string `json:"caseIds"`
	PolicyNumbers  []string `json:"policyNumbers"`
	OrderNumbers   []string `json:"orderNumbers"`
}

// EngagementMetrics summarizes how the conversation went.
type EngagementMetrics struct {
	EngagementDurationSeconds int    `json:"engagementDurationSeconds"`
	QuestionsAsked            int    `json:"questionsAsked"`
	InvestigativeQuestions    int    `json:"investigativeQuestions"`
	RedFlagsIdentified        int    `json:"redFlagsIdentified"`
	ElicitationAttempts       int    `json:"elicitationAttempts"`
	FinalStage                string `json:"finalStage"`
}

// FinalReport is the payload POSTed once per confirmed-scam session.
type FinalReport struct {
	SessionID              string                `json:"sessionId"`
	ScamDetected           bool                  `json:"scamDetected"`
	ScamType               string                `json:"scamType"`
	ConfidenceLevel        float64               `json:"confidenceLevel"`
	TotalMessagesExchanged int                   `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ExtractedIntelligence `json:"extractedIntelligence"`
	EngagementMetrics      EngagementMetrics     `json:"engagementMetrics"`
	AgentNotes             string                `json:"agentNotes"`
}

// Config controls report delivery.
type Config struct {
	URL         string
	Secret      string
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
}

// Dispatcher POSTs final reports with HMAC signing and retry. A circuit
// breaker keyed by the endpoint URL sheds delivery attempts while the
// endpoint is down.
type Dispatcher struct {
	cfg     Config
	client  *http.Client
	breaker *circuitbreaker.Breaker
}

// NewDispatcher creates a report dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(5, 30*time.Second),
	}
}

// Enabled reports whether a callback URL is configured.
func (d *Dispatcher) Enabled() bool { return d.cfg.URL != "" }

// Send delivers the report. Success is any 2xx status; 4xx responses are
// not retried, everything else is retried with backoff.
func (d *Dispatcher) Send(ctx context.Context, report *FinalReport) error {
	if !d.Enabled() {
		return nil
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	log := logging.L(ctx)
	attempt := 0
	err = retry.Do(ctx, d.cfg.MaxAttempts, d.cfg.BaseDelay, func() error {
		attempt++
		if !d.breaker.Allow(d.cfg.URL) {
			return fmt.Errorf("endpoint circuit open")
		}
		if err := d.post(ctx, payload); err != nil {
			d.breaker.RecordFailure(d.cfg.URL)
			log.Warn("report delivery failed",
				"sessionId", report.SessionID, "attempt", attempt, "error", err)
			return err
		}
		d.breaker.RecordSuccess(d.cfg.URL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deliver report for %s: %w", report.SessionID, err)
	}
	log.Info("final report delivered",
		"sessionId", report.SessionID, "scamType", report.ScamType, "attempts", attempt)
	return nil
}

func (d *Dispatcher) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trapline-Timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	if d.cfg.Secret != "" {
		req.Header.Set("X-Trapline-Signature", Sign(payload, d.cfg.Secret))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return retry.Permanent(fmt.Errorf("endpoint rejected report: status %d", resp.StatusCode))
	default:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}

// Sign computes the hex HMAC-SHA256 of the payload.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
