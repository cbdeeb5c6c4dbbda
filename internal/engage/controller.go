// Package engage drives the five-stage victim persona: which stage the
// conversation is in, which response pool applies, and which templates
// have already been spent. It decides WHAT to say from; the ranker
// decides WHICH of the candidates to say.
package engage

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Tactic labels detected on inbound messages.
const (
	TacticUrgency        = "urgency"
	TacticVerification   = "verification"
	TacticPaymentLure    = "payment_lure"
	TacticThreat         = "threat"
	TacticPaymentRequest = "payment_request"
	TacticDigitalArrest  = "digital_arrest"
	TacticCourier        = "courier"
	TacticOTPRequest     = "otp_request"
	TacticAccountRequest = "account_request"
	TacticCredential     = "credential"
)

var tacticChecks = []struct {
	keywords []string
	label    string
}{
	{[]string{"urgent", "immediate", "hurry", "quickly", "jaldi", "minutes left"}, TacticUrgency},
	{[]string{"verify", "kyc", "update", "confirm", "suspend", "block"}, TacticVerification},
	{[]string{"refund", "prize", "won", "reward", "cashback", "lottery", "winner"}, TacticPaymentLure},
	{[]string{"police", "legal", "arrest", "court", "case", "warrant", "cbi", "jail"}, TacticThreat},
	{[]string{"upi", "transfer", "pay", "send", "paytm", "phonepe", "gpay", "bhim"}, TacticPaymentRequest},
	{[]string{"video call", "digital arrest", "stay on call", "don't disconnect"}, TacticDigitalArrest},
	{[]string{"parcel", "courier", "package", "customs", "drugs", "contraband"}, TacticCourier},
	{[]string{"otp", "one time password", "verification code", "6 digit"}, TacticOTPRequest},
	{[]string{"account number", "bank account", "a/c number", "a/c no"}, TacticAccountRequest},
	{[]string{"password", "pin", "cvv", "card number", "debit card", "credit card"}, TacticCredential},
}

// Context is the per-session engagement state, stored on the session
// record alongside the risk profile.
type Context struct {
	Stage        Stage           `json:"stage"`
	Tactics      map[string]bool `json:"tactics"`
	Used         map[string]bool `json:"used"`
	LastTactic   string          `json:"lastTactic"`
	TacticStreak int             `json:"tacticStreak"`
}

// NewContext returns a fresh engagement context at stage 1.
func NewContext() *Context {
	return &Context{
		Stage:   StageConfused,
		Tactics: make(map[string]bool),
		Used:    make(map[string]bool),
	}
}

// Controller computes stages and candidate pools.
type Controller struct {
	cutoffs Cutoffs
}

// NewController creates a controller with the given stage cutoffs.
func NewController(cutoffs Cutoffs) *Controller {
	return &Controller{cutoffs: cutoffs}
}

// DetectTactics scans one inbound message for known pressure tactics.
func DetectTactics(message string) []string {
	m := strings.ToLower(message)
	var tactics []string
	for _, c := range tacticChecks {
		for _, k := range c.keywords {
			if strings.Contains(m, k) {
				tactics = append(tactics, c.label)
				break
			}
		}
	}
	return tactics
}

// Advance updates the context for a new inbound message: records
// tactics, moves the stage forward if the gates allow, and maintains the
// consecutive-tactic streak. The stage is clamped so it can never move
// backward even if the inputs would suggest it.
func (c *Controller) Advance(ctx *Context, message string, riskScore float64, msgCount int, isScam bool) []string {
	tactics := DetectTactics(message)
	for _, t := range tactics {
		ctx.Tactics[t] = true
	}

	if next := c.cutoffs.compute(riskScore, msgCount, isScam); next > ctx.Stage {
		ctx.Stage = next
	}

	primary := primaryTactic(tactics)
	if primary != "" && primary == ctx.LastTactic {
		ctx.TacticStreak++
	} else {
		ctx.TacticStreak = 1
	}
	ctx.LastTactic = primary

	return tactics
}

// Candidates returns the unused templates from the pool the current turn
// should draw from. When every template in the selected pool has been
// used, the used-set entries for that pool alone are cleared and the
// whole pool becomes available again.
func (c *Controller) Candidates(ctx *Context, tactics []string, msgCount int, isScam bool, rnd *rand.Rand) []string {
	pool := c.selectPool(ctx, tactics, msgCount, rnd)

	// Keep early-confirmed conversations alive: lean on continuation
	// prompts part of the time until the turn count builds up.
	if isScam && msgCount < 8 && ctx.Stage >= StageSuspicious && rnd.Float64() < 0.4 {
		pool = continuationPool
	}

	available := unused(pool, ctx.Used)
	if len(available) == 0 {
		for _, r := range pool {
			delete(ctx.Used, r)
		}
		available = append([]string(nil), pool...)
	}
	return available
}

// MarkUsed records that a template went out in this session.
func (ctx *Context) MarkUsed(response string) {
	ctx.Used[response] = true
}

func (c *Controller) selectPool(ctx *Context, tactics []string, msgCount int, rnd *rand.Rand) []string {
	has := func(label string) bool {
		for _, t := range tactics {
			if t == label {
				return true
			}
		}
		return false
	}

	// After two consecutive turns on the same tactic the overrides are
	// skipped, otherwise the persona parrots the same theme forever.
	overrideOK := ctx.TacticStreak <= 2

	if overrideOK {
		switch {
		case has(TacticOTPRequest) && msgCount > 1:
			return otpPool
		case has(TacticAccountRequest) && msgCount > 1:
			return accountPool
		case has(TacticThreat) || has(TacticDigitalArrest):
			return threatPool
		case has(TacticCredential):
			return techConfusionPool
		case has(TacticPaymentLure) && ctx.Stage < StageCooperative:
			return lurePool
		}
	}

	switch ctx.Stage {
	case StageCooperative:
		// Mostly cooperative probing, with some stalling mixed in.
		if rnd.Float64() > 0.25 {
			return stage4Pool
		}
		return stallingPool
	case StageExtracting:
		if rnd.Float64() > 0.2 {
			return stage5Pool
		}
		return continuationPool
	default:
		return stagePool(ctx.Stage)
	}
}

// primaryTactic picks the override-relevant tactic for streak tracking,
// in the same priority order selectPool applies.
func primaryTactic(tactics []string) string {
	priority := []string{
		TacticOTPRequest, TacticAccountRequest, TacticThreat,
		TacticDigitalArrest, TacticCredential, TacticPaymentLure,
	}
	for _, p := range priority {
		for _, t := range tactics {
			if t == p {
				return p
			}
		}
	}
	return ""
}

func unused(pool []string, used map[string]bool) []string {
	var out []string
	for _, r := range pool {
		if !used[r] {
			out = append(out, r)
		}
	}
	return out
}

// Notes produces the behavioural summary attached to the final report.
// Never empty.
func Notes(ctx *Context, signals []string, scamType string, intelCounts map[string]int, totalMsgs, durationSec int) string {
	var parts []string

	parts = append(parts, "Classification: "+titleCase(scamType))

	if len(signals) > 0 {
		labels := make([]string, len(signals))
		for i, s := range signals {
			labels[i] = strings.ReplaceAll(s, "_", " ")
		}
		sort.Strings(labels)
		parts = append(parts, "Detected signals: "+strings.Join(labels, ", "))
	}

	parts = append(parts, fmt.Sprintf("Messages exchanged: %d", totalMsgs))
	parts = append(parts, fmt.Sprintf("Engagement duration: %ds", durationSec))

	var intelParts []string
	for _, key := range []string{"phoneNumbers", "bankAccounts", "upiIds", "phishingLinks", "emailAddresses"} {
		if n := intelCounts[key]; n > 0 {
			label := key
			switch key {
			case "phishingLinks":
				label = "URLs"
			case "emailAddresses":
				label = "Emails"
			}
			intelParts = append(intelParts, fmt.Sprintf("%d %s", n, label))
		}
	}
	if len(intelParts) > 0 {
		parts = append(parts, "Extracted intelligence: "+strings.Join(intelParts, ", "))
	} else {
		parts = append(parts, "No concrete identifiers extracted; scammer did not share actionable data.")
	}

	if len(ctx.Tactics) > 0 {
		tactics := make([]string, 0, len(ctx.Tactics))
		for t := range ctx.Tactics {
			tactics = append(tactics, t)
		}
		sort.Strings(tactics)
		parts = append(parts, "Scammer tactics observed: "+strings.Join(tactics, ", "))
	}

	parts = append(parts, fmt.Sprintf("Agent engagement reached stage %d/5", ctx.Stage))

	return strings.Join(parts, " | ")
}

func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
