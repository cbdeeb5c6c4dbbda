// Package quality tracks how thoroughly a honeypot conversation engages
// the scammer and generates probing replies to close the gaps before the
// session is finalized.
package quality

import (
	"math/rand"
	"sort"
	"strings"
)

// Targets are the minimums a session must reach before it is considered
// ready for finalization.
type Targets struct {
	Turns         int
	Questions     int
	Investigative int
	RedFlags      int
	Elicitation   int
}

// DefaultTargets returns the standard quality bar.
func DefaultTargets() Targets {
	return Targets{
		Turns:         8,
		Questions:     5,
		Investigative: 3,
		RedFlags:      5,
		Elicitation:   5,
	}
}

// Metrics is the per-session quality state, stored on the session record.
type Metrics struct {
	TurnCount              int             `json:"turnCount"`
	QuestionsAsked         int             `json:"questionsAsked"`
	InvestigativeQuestions int             `json:"investigativeQuestions"`
	RedFlags               map[string]bool `json:"redFlags"`
	ElicitationAttempts    int             `json:"elicitationAttempts"`
	UsedTemplates          map[string]bool `json:"usedTemplates"`
}

// NewMetrics returns empty quality metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RedFlags:      make(map[string]bool),
		UsedTemplates: make(map[string]bool),
	}
}

// RecordTurn counts one conversation turn.
func (m *Metrics) RecordTurn() { m.TurnCount++ }

// RecordResponse counts an outgoing reply; anything with a question mark
// counts toward active engagement.
func (m *Metrics) RecordResponse(response string) {
	if strings.Contains(response, "?") {
		m.QuestionsAsked++
	}
}

// RedFlagList returns the acknowledged red flags in stable order.
func (m *Metrics) RedFlagList() []string {
	out := make([]string, 0, len(m.RedFlags))
	for f := range m.RedFlags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Tracker evaluates metrics against targets and produces probing replies.
type Tracker struct {
	targets Targets
}

// NewTracker creates a tracker with the given targets.
func NewTracker(targets Targets) *Tracker {
	return &Tracker{targets: targets}
}

// Met reports whether every target has been reached.
func (t *Tracker) Met(m *Metrics) bool {
	return len(t.Missing(m)) == 0
}

// Missing returns the targets not yet reached and the shortfall for each.
func (t *Tracker) Missing(m *Metrics) map[string]int {
	missing := make(map[string]int)
	if m.TurnCount < t.targets.Turns {
		missing["turns"] = t.targets.Turns - m.TurnCount
	}
	if m.QuestionsAsked < t.targets.Questions {
		missing["questions"] = t.targets.Questions - m.QuestionsAsked
	}
	if m.InvestigativeQuestions < t.targets.Investigative {
		missing["investigative"] = t.targets.Investigative - m.InvestigativeQuestions
	}
	if len(m.RedFlags) < t.targets.RedFlags {
		missing["red_flags"] = t.targets.RedFlags - len(m.RedFlags)
	}
	if m.ElicitationAttempts < t.targets.Elicitation {
		missing["elicitation"] = t.targets.Elicitation - m.ElicitationAttempts
	}
	return missing
}

// Probe generates a reply that closes quality gaps, or returns false when
// every target is already met. signals are the detector categories seen so
// far; intel holds the identifiers already extracted, so the probe never
// asks for data the scammer has already given up.
//
// When at least two non-turn targets are still short and half the turn
// budget is spent, the probe compounds a red-flag observation, an
// investigative question, and an elicitation request into a single reply.
func (t *Tracker) Probe(m *Metrics, rnd *rand.Rand, signals []string, stage int, intel map[string][]string) (string, bool) {
	missing := t.Missing(m)
	if len(missing) == 0 {
		return "", false
	}

	categoriesMissing := len(missing)
	if _, ok := missing["turns"]; ok {
		categoriesMissing--
	}
	urgent := categoriesMissing >= 2 && m.TurnCount >= t.targets.Turns/2

	elicitation := filterByIntel(elicitationTemplates, intel)

	if urgent {
		return t.compoundProbe(m, rnd, missing, signals, stage, elicitation), true
	}

	if missing["investigative"] > 0 {
		return t.investigativeProbe(m, rnd), true
	}

	if missing["red_flags"] > 0 {
		if resp, ok := t.redFlagProbe(m, rnd, signals); ok {
			return resp, true
		}
	}

	if missing["elicitation"] > 0 && stage >= 3 {
		resp := pickUnused(rnd, elicitation, m.UsedTemplates)
		m.ElicitationAttempts++
		m.RecordResponse(resp)
		return resp, true
	}

	return t.investigativeProbe(m, rnd), true
}

func (t *Tracker) investigativeProbe(m *Metrics, rnd *rand.Rand) string {
	resp := pickUnused(rnd, investigativeTemplates, m.UsedTemplates)
	m.InvestigativeQuestions++
	m.RecordResponse(resp)
	return resp
}

func (t *Tracker) redFlagProbe(m *Metrics, rnd *rand.Rand, signals []string) (string, bool) {
	key, ok := unreferencedFlag(m, rnd, signals)
	if !ok {
		return "", false
	}
	templates := redFlagTemplates[key]
	resp := templates[rnd.Intn(len(templates))]
	m.RedFlags[key] = true
	m.RecordResponse(resp)
	return resp, true
}

func (t *Tracker) compoundProbe(m *Metrics, rnd *rand.Rand, missing map[string]int, signals []string, stage int, elicitation []string) string {
	var parts []string

	if missing["red_flags"] > 0 {
		if key, ok := unreferencedFlag(m, rnd, signals); ok {
			templates := redFlagTemplates[key]
			parts = append(parts, templates[rnd.Intn(len(templates))])
			m.RedFlags[key] = true
		}
	}

	if missing["investigative"] > 0 {
		parts = append(parts, pickUnused(rnd, investigativeTemplates, m.UsedTemplates))
		m.InvestigativeQuestions++
	}

	if missing["elicitation"] > 0 && stage >= 2 {
		parts = append(parts, pickUnused(rnd, elicitation, m.UsedTemplates))
		m.ElicitationAttempts++
	}

	if len(parts) == 0 {
		return t.investigativeProbe(m, rnd)
	}

	resp := parts[0]
	for _, extra := range parts[1:] {
		connector := compoundConnectors[rnd.Intn(len(compoundConnectors))]
		resp += connector + strings.ToLower(extra[:1]) + extra[1:]
	}
	m.RecordResponse(resp)
	return resp
}

// unreferencedFlag picks a detected signal whose red flag has not been
// acknowledged yet and returns its template key.
func unreferencedFlag(m *Metrics, rnd *rand.Rand, signals []string) (string, bool) {
	var candidates []string
	seen := make(map[string]bool)
	for _, s := range signals {
		key, ok := signalRedFlags[s]
		if !ok {
			key = "urgency"
		}
		if !m.RedFlags[key] && !seen[key] {
			candidates = append(candidates, key)
			seen[key] = true
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rnd.Intn(len(candidates))], true
}

// filterByIntel drops templates asking for intel types already captured.
// If everything would be dropped the original list is kept, an empty pool
// being worse than a slightly redundant question.
func filterByIntel(templates []string, intel map[string][]string) []string {
	var exclude []string
	for key, keywords := range intelKeywords {
		if len(intel[key]) > 0 {
			exclude = append(exclude, keywords...)
		}
	}
	if len(exclude) == 0 {
		return templates
	}

	var filtered []string
	for _, tmpl := range templates {
		lowered := strings.ToLower(tmpl)
		keep := true
		for _, kw := range exclude {
			if strings.Contains(lowered, kw) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, tmpl)
		}
	}
	if len(filtered) == 0 {
		return templates
	}
	return filtered
}

// pickUnused returns a random template not yet used in this session,
// marking it used. A fully spent list falls back to a random pick.
func pickUnused(rnd *rand.Rand, templates []string, used map[string]bool) string {
	var available []string
	for _, t := range templates {
		if !used[t] {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return templates[rnd.Intn(len(templates))]
	}
	pick := available[rnd.Intn(len(available))]
	used[pick] = true
	return pick
}
