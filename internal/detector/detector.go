// Package detector scores inbound messages through layered signal
// categories and accumulates per-session scam risk.
//
// Scoring mechanics:
//   - Every message is matched against 12 core and 8 auxiliary signal
//     layers (regex patterns with weights 6-25, English and Hinglish).
//   - Within a layer, only the heaviest matching pattern counts for the
//     turn. A layer either fires once or not at all.
//   - When two or more distinct categories fire in the same turn, a flat
//     escalation bonus is added. Nothing else moves the score: a turn's
//     delta is exactly the matched layer weights plus that bonus.
//   - The cumulative score never decreases; once it crosses the
//     confirmation threshold the scam flag latches and stays latched.
package detector

import "strings"

// Default tuning. Threshold is deliberately low so compound signals
// confirm within a few turns.
const (
	DefaultThreshold       = 40.0
	DefaultEscalationBonus = 10.0

	// MinThreshold and MaxThreshold bound the configurable range.
	MinThreshold = 30.0
	MaxThreshold = 60.0
)

// ScamType labels produced by classification.
const (
	TypeBankFraud      = "bank_fraud"
	TypeUPIFraud       = "upi_fraud"
	TypePhishing       = "phishing"
	TypeImpersonation  = "impersonation"
	TypeInvestment     = "investment"
	TypeCourier        = "courier"
	TypeLottery        = "lottery"
	TypeTechSupport    = "tech_support"
	TypeJobFraud       = "job_fraud"
	TypeLoanFraud      = "loan_fraud"
	TypeInsuranceFraud = "insurance_fraud"
	TypeUnknown        = "unknown"
)

// ValidScamTypes is the closed set of classification labels.
var ValidScamTypes = map[string]bool{
	TypeBankFraud: true, TypeUPIFraud: true, TypePhishing: true,
	TypeImpersonation: true, TypeInvestment: true, TypeCourier: true,
	TypeLottery: true, TypeTechSupport: true, TypeJobFraud: true,
	TypeLoanFraud: true, TypeInsuranceFraud: true, TypeUnknown: true,
}

// Profile is the per-session risk accumulation state. It lives inside the
// session record; the Scorer itself holds no session state.
type Profile struct {
	CumulativeScore float64        `json:"cumulativeScore"`
	TurnScores      []float64      `json:"turnScores"`
	Triggered       map[string]bool `json:"triggered"`
	SignalCounts    map[string]int `json:"signalCounts"`
	ScamDetected    bool           `json:"scamDetected"`
	ScamType        string         `json:"scamType"`
	MessageCount    int            `json:"messageCount"`
}

// NewProfile returns an empty risk profile.
func NewProfile() *Profile {
	return &Profile{
		Triggered:    make(map[string]bool),
		SignalCounts: make(map[string]int),
		ScamType:     TypeUnknown,
	}
}

// TurnResult describes what a single message contributed.
type TurnResult struct {
	TurnScore       float64
	Cumulative      float64
	TurnSignals     []string
	EscalationFired bool
	ScamDetected    bool
	ScamType        string
}

// Scorer analyzes messages against the signal layers.
type Scorer struct {
	threshold       float64
	escalationBonus float64
	layers          []layer
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithThreshold sets the confirmation threshold, clamped to [30, 60].
func WithThreshold(t float64) Option {
	return func(s *Scorer) {
		if t < MinThreshold {
			t = MinThreshold
		}
		if t > MaxThreshold {
			t = MaxThreshold
		}
		s.threshold = t
	}
}

// WithEscalationBonus sets the flat bonus added when two or more distinct
// categories fire in one turn.
func WithEscalationBonus(b float64) Option {
	return func(s *Scorer) {
		if b >= 0 {
			s.escalationBonus = b
		}
	}
}

// New creates a Scorer with compiled pattern layers.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		threshold:       DefaultThreshold,
		escalationBonus: DefaultEscalationBonus,
	}
	s.layers = append(s.layers, coreLayers...)
	s.layers = append(s.layers, auxLayers...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the configured confirmation threshold.
func (s *Scorer) Threshold() float64 { return s.threshold }

// Analyze scores one message and folds the result into the profile.
// The caller is responsible for serializing access to the profile
// (profiles are owned by their session record).
func (s *Scorer) Analyze(p *Profile, text string) TurnResult {
	if strings.TrimSpace(text) == "" {
		return TurnResult{
			Cumulative:   p.CumulativeScore,
			ScamDetected: p.ScamDetected,
			ScamType:     p.ScamType,
		}
	}

	p.MessageCount++

	// A bare greeting as the opening message carries no signal.
	if p.MessageCount == 1 && isPureGreeting(text) {
		p.TurnScores = append(p.TurnScores, 0)
		return TurnResult{ScamType: p.ScamType}
	}

	lowered := strings.ToLower(text)

	var turnScore float64
	var turnSignals []string
	for _, l := range s.layers {
		w := scoreLayer(lowered, l.patterns)
		if w > 0 {
			turnScore += w
			turnSignals = append(turnSignals, l.name)
			p.SignalCounts[l.name]++
			p.Triggered[l.name] = true
		}
	}

	// Flat escalation bonus when the same turn lights up multiple
	// distinct categories.
	var escalation float64
	if len(turnSignals) >= 2 {
		escalation = s.escalationBonus
	}

	p.TurnScores = append(p.TurnScores, turnScore)
	p.CumulativeScore += turnScore + escalation

	if p.CumulativeScore >= s.threshold {
		p.ScamDetected = true
		p.ScamType = classify(p.Triggered)
	}

	return TurnResult{
		TurnScore:       turnScore,
		Cumulative:      p.CumulativeScore,
		TurnSignals:     turnSignals,
		EscalationFired: escalation > 0,
		ScamDetected:    p.ScamDetected,
		ScamType:        p.ScamType,
	}
}

// Confidence maps the profile to a 0-0.99 confidence level. Monotone in
// the cumulative score and the number of triggered categories.
func (s *Scorer) Confidence(p *Profile) float64 {
	score := p.CumulativeScore
	if score < s.threshold {
		c := score / s.threshold * 0.5
		if c > 0.5 {
			c = 0.5
		}
		return c
	}

	var base float64
	switch {
	case score >= s.threshold*3:
		base = 0.95
	case score >= s.threshold*2:
		base = 0.85
	default:
		base = 0.7
	}

	categoryBoost := float64(len(p.Triggered)) * 0.03
	if categoryBoost > 0.15 {
		categoryBoost = 0.15
	}

	var hits int
	for _, c := range p.SignalCounts {
		hits += c
	}
	hitBoost := float64(hits) * 0.01
	if hitBoost > 0.1 {
		hitBoost = 0.1
	}

	c := base + categoryBoost + hitBoost
	if c > 0.99 {
		c = 0.99
	}
	return c
}

// scoreLayer returns the weight of the single heaviest matching pattern,
// or 0 when nothing matches.
func scoreLayer(lowered string, patterns []pattern) float64 {
	var best float64
	for _, p := range patterns {
		if p.weight > best && p.re.MatchString(lowered) {
			best = p.weight
		}
	}
	return best
}

func isPureGreeting(text string) bool {
	stripped := strings.TrimSpace(text)
	for _, re := range greetingOnly {
		if re.MatchString(stripped) {
			return true
		}
	}
	return false
}

// classify picks the most specific scam-type label from the triggered
// categories. Ordered most-specific first; the specialized rackets win
// over the generic phishing/bank buckets.
func classify(triggered map[string]bool) string {
	switch {
	case triggered[SignalCourier]:
		return TypeCourier
	case triggered[SignalInvestment]:
		return TypeInvestment
	case triggered[SignalTechSupport] || triggered[SignalScreenShare]:
		return TypeTechSupport
	case triggered[SignalJobFraud]:
		return TypeJobFraud
	case triggered[SignalLoanFraud]:
		return TypeLoanFraud
	case triggered[SignalInsuranceFraud]:
		return TypeInsuranceFraud
	case triggered[SignalRomance]:
		return TypeImpersonation
	case triggered[SignalUPI]:
		return TypeUPIFraud
	case triggered[SignalLure]:
		return TypeLottery
	case triggered[SignalDigitalArrest] || triggered[SignalAuthority]:
		return TypeImpersonation
	case triggered[SignalOTP] || triggered[SignalURL]:
		return TypePhishing
	case triggered[SignalSuspension] || triggered[SignalPayment]:
		return TypeBankFraud
	case triggered[SignalLegalThreat]:
		return TypeImpersonation
	case triggered[SignalIdentityTheft]:
		return TypePhishing
	}
	return TypeUnknown
}
