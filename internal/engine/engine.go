// Package engine orchestrates a full honeypot turn: risk scoring, stage
// control, quality probing, response ranking, intel extraction, and the
// one-shot final report.
package engine

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/mbd888/trapline/internal/callback"
	"github.com/mbd888/trapline/internal/detector"
	"github.com/mbd888/trapline/internal/engage"
	"github.com/mbd888/trapline/internal/extract"
	"github.com/mbd888/trapline/internal/logging"
	"github.com/mbd888/trapline/internal/metrics"
	"github.com/mbd888/trapline/internal/quality"
	"github.com/mbd888/trapline/internal/ranker"
	"github.com/mbd888/trapline/internal/session"
	"github.com/mbd888/trapline/internal/syncutil"
	"github.com/mbd888/trapline/internal/traces"
)

// Notifier receives engine events for live streaming. Implementations
// must not block; the engine calls them inline.
type Notifier interface {
	Notify(event string, data map[string]any)
}

// TurnResult is what one processed turn reports back to the caller.
type TurnResult struct {
	SessionID     string  `json:"sessionId"`
	Reply         string  `json:"reply"`
	RiskScore     float64 `json:"riskScore"`
	Stage         string  `json:"stage"`
	ScamDetected  bool    `json:"scamDetected"`
	ScamType      string  `json:"scamType"`
	Confidence    float64 `json:"confidence"`
	TotalMessages int     `json:"totalMessages"`
}

// HistoryMessage is a prior conversation turn supplied by the caller
// alongside the current message. It seeds context for sessions this
// service has not seen before.
type HistoryMessage struct {
	Sender    string
	Text      string
	Timestamp time.Time
}

// Report trigger defaults.
const (
	DefaultReportMinMessages = 3
	DefaultReportMinDuration = 3 * time.Minute
)

// Config tunes the engine.
type Config struct {
	ReportMinMessages int           // scammer messages required before a report can fire
	ReportMinDuration time.Duration // elapsed engagement time required before a report can fire
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithReportTrigger overrides the minimum conversation size and elapsed
// engagement time required before the final report fires.
func WithReportTrigger(minMessages int, minDuration time.Duration) Option {
	return func(e *Engine) {
		e.cfg.ReportMinMessages = minMessages
		e.cfg.ReportMinDuration = minDuration
	}
}

// Engine runs the turn pipeline against a session store.
type Engine struct {
	scorer     *detector.Scorer
	controller *engage.Controller
	ranker     *ranker.Engine
	tracker    *quality.Tracker
	store      session.Store
	dispatcher *callback.Dispatcher
	notifier   Notifier
	locks      *syncutil.ContextShardedMutex
	cfg        Config
}

// New assembles an engine. notifier may be nil.
func New(scorer *detector.Scorer, store session.Store, dispatcher *callback.Dispatcher, notifier Notifier, opts ...Option) *Engine {
	e := &Engine{
		scorer:     scorer,
		controller: engage.NewController(engage.DefaultCutoffs()),
		ranker:     ranker.New(),
		tracker:    quality.NewTracker(quality.DefaultTargets()),
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		locks:      syncutil.NewContextShardedMutex(),
		cfg: Config{
			ReportMinMessages: DefaultReportMinMessages,
			ReportMinDuration: DefaultReportMinDuration,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn ingests one scammer message and produces the agent's reply.
// Component faults degrade (fallback replies, skipped probes) rather than
// failing the turn; the only returned errors are store failures and lock
// cancellation.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, message string, ts time.Time, history []HistoryMessage) (*TurnResult, error) {
	ctx, span := traces.StartSpan(ctx, "engine.ProcessTurn", traces.SessionID(sessionID))
	defer span.End()

	unlock, err := e.locks.LockContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	fresh := false
	s, err := e.store.Get(ctx, sessionID)
	if err == session.ErrNotFound {
		s = session.New(sessionID)
		fresh = true
		err = nil
	}
	if err != nil {
		return nil, err
	}

	log := logging.L(ctx).With("sessionId", sessionID)

	wasConfirmed := s.Profile.ScamDetected
	if fresh {
		e.replayHistory(s, history)
	}
	s.Record("scammer", message, ts)
	turn := e.scorer.Analyze(s.Profile, message)
	confirmed := s.Profile.ScamDetected

	if confirmed && !wasConfirmed {
		metrics.ScamsConfirmedTotal.WithLabelValues(s.Profile.ScamType).Inc()
		e.notify("scam_confirmed", map[string]any{
			"sessionId": sessionID,
			"scamType":  s.Profile.ScamType,
			"riskScore": s.Profile.CumulativeScore,
		})
		log.Info("scam confirmed",
			"scamType", s.Profile.ScamType,
			"riskScore", s.Profile.CumulativeScore,
			"turnScore", turn.TurnScore)
	}

	tactics := e.controller.Advance(s.Engagement, message,
		s.Profile.CumulativeScore, s.Profile.MessageCount, confirmed)
	s.Quality.RecordTurn()

	rnd := rand.New(rand.NewSource(turnSeed(sessionID, s.Profile.MessageCount)))
	reply, source := e.selectReply(s, rnd, message, tactics, confirmed)
	s.Record("agent", reply, time.Time{})
	s.Touch()

	e.scanIntel(message, s.Intel)

	metrics.TurnsTotal.WithLabelValues(source).Inc()
	metrics.RiskScore.Observe(s.Profile.CumulativeScore)

	result := &TurnResult{
		SessionID:     sessionID,
		Reply:         reply,
		RiskScore:     s.Profile.CumulativeScore,
		Stage:         s.Engagement.Stage.String(),
		ScamDetected:  confirmed,
		ScamType:      s.Profile.ScamType,
		Confidence:    e.scorer.Confidence(s.Profile),
		TotalMessages: len(s.History),
	}

	if err := e.store.Save(ctx, s); err != nil {
		return nil, err
	}
	e.updateActiveGauge(ctx)

	e.notify("turn_processed", map[string]any{
		"sessionId": sessionID,
		"riskScore": result.RiskScore,
		"stage":     result.Stage,
		"scam":      confirmed,
		"source":    source,
	})

	if e.shouldReport(s) {
		e.finalizeAndReport(ctx, s)
	}

	return result, nil
}

// selectReply picks the outgoing message: a quality probe when the
// session is confirmed but still short of its engagement targets, a
// ranked pool response otherwise.
func (e *Engine) selectReply(s *session.Session, rnd *rand.Rand, message string, tactics []string, confirmed bool) (string, string) {
	if confirmed && s.Profile.MessageCount >= 3 && !e.tracker.Met(s.Quality) {
		if probe, ok := e.tracker.Probe(s.Quality, rnd, signalList(s.Profile), int(s.Engagement.Stage), s.Intel.Report()); ok {
			return probe, "probe"
		}
	}

	pool := e.controller.Candidates(s.Engagement, tactics, s.Profile.MessageCount, confirmed, rnd)
	sel := e.ranker.Select(s.RankerState, rnd, message, pool,
		int(s.Engagement.Stage), s.Profile.CumulativeScore)

	reply := sel.Response
	if reply == "" {
		// Ranked selection produced nothing usable; a canned stage
		// pool entry still goes out.
		fallback := e.controller.Candidates(s.Engagement, nil, s.Profile.MessageCount, false, rnd)
		reply = fallback[rnd.Intn(len(fallback))]
	}
	s.Engagement.MarkUsed(reply)
	s.Quality.RecordResponse(reply)

	if sel.Fallback {
		return reply, "fallback"
	}
	return reply, "ranked"
}

// replayHistory seeds a fresh session from caller-supplied prior turns.
// Scammer turns are scored and mined for intel; agent turns only join
// the transcript. Known sessions skip the replay, their stored state
// already covers it.
func (e *Engine) replayHistory(s *session.Session, history []HistoryMessage) {
	for _, h := range history {
		s.Record(h.Sender, h.Text, h.Timestamp)
		if h.Sender == "scammer" {
			e.scorer.Analyze(s.Profile, h.Text)
			e.scanIntel(h.Text, s.Intel)
		}
	}
}

func (e *Engine) scanIntel(message string, intel *extract.Intel) {
	beforeCounts := intel.Counts()
	extract.Scan(message, intel)
	for typ, n := range intel.Counts() {
		if delta := n - beforeCounts[typ]; delta > 0 {
			metrics.IntelExtractedTotal.WithLabelValues(typ).Add(float64(delta))
		}
	}
}

// shouldReport applies the finalization trigger: confirmed scam, enough
// conversation by both message count and elapsed time, and either
// concrete intel or a fully engaged session.
func (e *Engine) shouldReport(s *session.Session) bool {
	if s.Finalized || !s.Profile.ScamDetected {
		return false
	}
	if s.Profile.MessageCount < e.cfg.ReportMinMessages {
		return false
	}
	if s.Duration() < e.cfg.ReportMinDuration {
		return false
	}
	return s.Intel.HasActionable() || e.tracker.Met(s.Quality)
}

// finalizeAndReport flips the one-shot finalize flag and, if this call
// won the race, delivers the final report.
func (e *Engine) finalizeAndReport(ctx context.Context, s *session.Session) {
	log := logging.L(ctx).With("sessionId", s.ID)

	if err := e.store.Finalize(ctx, s.ID); err != nil {
		if err != session.ErrAlreadyFinalized {
			log.Error("finalize failed", "error", err)
		}
		return
	}
	s.Finalized = true
	if err := e.store.Save(ctx, s); err != nil {
		log.Error("save after finalize failed", "error", err)
	}

	metrics.EngagementDuration.Observe(s.Duration().Seconds())

	report := e.buildReport(s)
	delivered := true
	if err := e.dispatcher.Send(ctx, report); err != nil {
		delivered = false
		log.Error("final report delivery failed", "error", err)
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	metrics.ReportsTotal.WithLabelValues(result).Inc()
	e.notify("report_sent", map[string]any{
		"sessionId": s.ID,
		"scamType":  report.ScamType,
		"delivered": delivered,
	})
}

func (e *Engine) buildReport(s *session.Session) *callback.FinalReport {
	intel := s.Intel.Report()
	return &callback.FinalReport{
		SessionID:              s.ID,
		ScamDetected:           s.Profile.ScamDetected,
		ScamType:               s.Profile.ScamType,
		ConfidenceLevel:        e.scorer.Confidence(s.Profile),
		TotalMessagesExchanged: len(s.History),
		ExtractedIntelligence: callback.ExtractedIntelligence{
			PhoneNumbers:   intel["phoneNumbers"],
			BankAccounts:   intel["bankAccounts"],
			UpiIDs:         intel["upiIds"],
			PhishingLinks:  intel["phishingLinks"],
			EmailAddresses: intel["emailAddresses"],
			CaseIDs:        intel["caseIds"],
			PolicyNumbers:  intel["policyNumbers"],
			OrderNumbers:   intel["orderNumbers"],
		},
		EngagementMetrics: callback.EngagementMetrics{
			EngagementDurationSeconds: int(s.Duration().Seconds()),
			QuestionsAsked:            s.Quality.QuestionsAsked,
			InvestigativeQuestions:    s.Quality.InvestigativeQuestions,
			RedFlagsIdentified:        len(s.Quality.RedFlags),
			ElicitationAttempts:       s.Quality.ElicitationAttempts,
			FinalStage:                s.Engagement.Stage.String(),
		},
		AgentNotes: engage.Notes(s.Engagement, signalList(s.Profile), s.Profile.ScamType,
			s.Intel.Counts(), len(s.History), int(s.Duration().Seconds())),
	}
}

// Report returns the current report view for a session without
// finalizing anything.
func (e *Engine) Report(ctx context.Context, sessionID string) (*callback.FinalReport, error) {
	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return e.buildReport(s), nil
}

// Session returns the raw session state.
func (e *Engine) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.store.Get(ctx, sessionID)
}

func (e *Engine) updateActiveGauge(ctx context.Context) {
	if n, err := e.store.ActiveCount(ctx); err == nil {
		metrics.ActiveSessions.Set(float64(n))
	}
}

func (e *Engine) notify(event string, data map[string]any) {
	if e.notifier != nil {
		e.notifier.Notify(event, data)
	}
}

// signalList is sorted so per-session replies stay reproducible.
func signalList(p *detector.Profile) []string {
	out := make([]string, 0, len(p.Triggered))
	for sig := range p.Triggered {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}

// turnSeed derives a per-turn RNG seed from the session ID and turn
// index, so replaying the same conversation reproduces the same replies.
func turnSeed(sessionID string, msgCount int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	return int64(h.Sum64() ^ uint64(msgCount)*0x9E3779B97F4A7C15)
}
