// Package session holds per-conversation honeypot state and its stores.
package session

import (
	"errors"
	"time"

	"github.com/mbd888/trapline/internal/detector"
	"github.com/mbd888/trapline/internal/engage"
	"github.com/mbd888/trapline/internal/extract"
	"github.com/mbd888/trapline/internal/quality"
	"github.com/mbd888/trapline/internal/ranker"
)

// Errors
var (
	ErrNotFound         = errors.New("session: not found")
	ErrAlreadyFinalized = errors.New("session: already finalized")
)

// Message is one conversation turn, either direction.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the full per-conversation state: risk profile, engagement
// context, ranker state, quality metrics, extracted intel, and history.
type Session struct {
	ID          string            `json:"id"`
	Profile     *detector.Profile `json:"profile"`
	Engagement  *engage.Context   `json:"engagement"`
	RankerState *ranker.State     `json:"rankerState"`
	Quality     *quality.Metrics  `json:"quality"`
	Intel       *extract.Intel    `json:"intel"`
	History     []Message         `json:"history"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Finalized   bool              `json:"finalized"`
}

// New creates a fresh session with all component state initialized.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          id,
		Profile:     detector.NewProfile(),
		Engagement:  engage.NewContext(),
		RankerState: ranker.NewState(),
		Quality:     quality.NewMetrics(),
		Intel:       extract.NewIntel(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch refreshes the activity timestamp used for TTL eviction.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Record appends one message to the history.
func (s *Session) Record(sender, text string, ts time.Time) {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	s.History = append(s.History, Message{Sender: sender, Text: text, Timestamp: ts})
}

// Duration is the elapsed engagement time.
func (s *Session) Duration() time.Duration {
	return s.UpdatedAt.Sub(s.CreatedAt)
}
