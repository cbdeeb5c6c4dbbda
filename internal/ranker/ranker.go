// Package ranker selects honeypot replies with a small deterministic
// neural pipeline instead of plain random choice.
//
// The stack: feature-hashing text encoder (128-d), 4-head self-attention,
// a GELU feed-forward block, a 64-d GRU conversation state carried per
// session, a 15-class hybrid intent classifier, and a 345->128->64->1
// scorer over [message, candidate, state, intents, hand features]. All
// weights derive from a fixed seed, so identical inputs always produce
// identical scores. Selection samples from the scored pool at a softmax
// temperature of 0.6.
//
// Any fault inside the pipeline degrades to a uniform random pick; the
// caller always gets a reply when the pool is non-empty.
package ranker

import (
	"math"
	"math/rand"
	"strings"
	"sync"
)

// StateDim is the fixed width of the per-session conversation state.
const StateDim = stateDim

// State is the per-session recurrent state. It is owned by the session
// record and handed back to Select each turn.
type State struct {
	Hidden []float64 `json:"hidden"`
}

// NewState returns a zeroed conversation state.
func NewState() *State {
	return &State{Hidden: make([]float64, StateDim)}
}

// valid reports whether the state blob still has the expected shape.
// A state of the wrong width is replaced rather than trusted.
func (s *State) valid() bool {
	return s != nil && len(s.Hidden) == StateDim
}

// Selection is the outcome of ranking one candidate pool.
type Selection struct {
	Response  string
	Intents   []float64
	TopIntent string
	Score     float64
	Fallback  bool
}

// Engine ranks candidate replies. Construction is deterministic; two
// engines built with New behave identically.
type Engine struct {
	encoder *textEncoder
	attn    *selfAttention
	ffn     *feedForward
	gru     *gruCell
	intents *intentClassifier
	scorer  *engagementScorer

	mu        sync.RWMutex
	respCache map[string][]float64
	handCache map[string][]float64
}

// New builds the full pipeline from the fixed weight seed.
func New() *Engine {
	rng := rand.New(rand.NewSource(weightSeed))
	enc := newTextEncoder(rng)
	return &Engine{
		encoder:   enc,
		attn:      newSelfAttention(rng),
		ffn:       newFeedForward(embedDim, embedDim*2, rng),
		gru:       newGRUCell(embedDim, rng),
		intents:   newIntentClassifier(enc, rng),
		scorer:    newEngagementScorer(rng),
		respCache: make(map[string][]float64),
		handCache: make(map[string][]float64),
	}
}

// Select ranks the pool against the message and session state, updates
// the state in place, and returns the sampled best reply. rnd drives the
// sampling; callers that want reproducible sessions seed it themselves.
// An empty pool returns a zero Selection with Fallback set.
func (e *Engine) Select(st *State, rnd *rand.Rand, message string, pool []string, stage int, riskScore float64) Selection {
	if len(pool) == 0 {
		return Selection{Fallback: true, TopIntent: "neutral"}
	}
	if !st.valid() {
		st.Hidden = make([]float64, StateDim)
	}

	sel, ok := e.rank(st, rnd, message, pool, stage, riskScore)
	if !ok {
		// Degraded mode: uniform random. A reply still goes out.
		return Selection{
			Response:  pool[rnd.Intn(len(pool))],
			TopIntent: "neutral",
			Fallback:  true,
		}
	}
	return sel
}

// IntentProbs classifies the message without advancing the session state.
func (e *Engine) IntentProbs(st *State, message string) map[string]float64 {
	attended := e.ffn.forward(e.attn.forward(e.encoder.encode(message)))
	hidden := make([]float64, StateDim)
	if st.valid() {
		copy(hidden, st.Hidden)
	}
	probs := e.intents.classify(attended, hidden, message)
	out := make(map[string]float64, numIntents)
	for i, name := range IntentNames {
		out[name] = probs[i]
	}
	return out
}

func (e *Engine) rank(st *State, rnd *rand.Rand, message string, pool []string, stage int, riskScore float64) (Selection, bool) {
	// Encode, attend, feed-forward.
	msgEmb := e.encoder.encode(message)
	attended := e.ffn.forward(e.attn.forward(msgEmb))

	// Advance the conversation state.
	newState := e.gru.step(attended, st.Hidden)
	if len(newState) != StateDim {
		return Selection{}, false
	}
	st.Hidden = newState

	intents := e.intents.classify(attended, newState, message)
	top := TopIntent(intents)

	scores := make([]float64, len(pool))
	for i, resp := range pool {
		scores[i] = e.scorer.score(attended, e.responseEmbedding(resp), newState, intents, e.responseFeatures(resp))
	}
	applyContextBonuses(scores, pool, stage, riskScore, top)

	idx := temperatureSelect(rnd, scores, 0.6)
	return Selection{
		Response:  pool[idx],
		Intents:   intents,
		TopIntent: top,
		Score:     scores[idx],
	}, true
}

// applyContextBonuses nudges scores toward stage-appropriate strategy:
// confusion and verification early, probing and compliance in the middle,
// intelligence extraction late. Scores stay clipped to [0,1].
func applyContextBonuses(scores []float64, pool []string, stage int, riskScore float64, topIntent string) {
	for i, resp := range pool {
		lowered := strings.ToLower(resp)
		bonus := 0.0

		switch {
		case stage <= 2:
			if strings.Contains(resp, "?") {
				bonus += 0.08
			}
			if containsAny(lowered, "who", "verify", "identify", "introduce") {
				bonus += 0.06
			}
		case stage <= 4:
			if containsAny(lowered, "phone number", "contact", "employee id") {
				bonus += 0.10
			}
			if containsAny(lowered, "okay", "cooperate", "understand") {
				bonus += 0.06
			}
		default:
			if containsAny(lowered, "upi", "account number", "ifsc", "bank") {
				bonus += 0.12
			}
			if containsAny(lowered, "phone number", "email", "contact") {
				bonus += 0.08
			}
		}

		switch topIntent {
		case "otp_request":
			if containsAny(lowered, "otp") {
				bonus += 0.10
			}
		case "legal_threat":
			if containsAny(lowered, "scared", "arrest", "please", "cooperate") {
				bonus += 0.10
			}
		case "payment_request":
			if containsAny(lowered, "transfer", "upi", "account", "amount") {
				bonus += 0.10
			}
		case "courier":
			if containsAny(lowered, "parcel", "tracking", "customs") {
				bonus += 0.08
			}
		}

		if riskScore > 60 && containsAny(lowered, "phone", "number", "name", "contact", "details") {
			bonus += 0.06
		}

		s := scores[i] + bonus
		if s > 1 {
			s = 1
		} else if s < 0 {
			s = 0
		}
		scores[i] = s
	}
}

// temperatureSelect samples an index with probabilities softmax(log(s)/T).
// Low temperature concentrates on the best candidates while keeping some
// exploration so the honeypot does not become a fixed script.
func temperatureSelect(rnd *rand.Rand, scores []float64, temperature float64) int {
	if len(scores) == 1 {
		return 0
	}
	logits := make([]float64, len(scores))
	for i, s := range scores {
		logits[i] = math.Log(s+1e-9) / temperature
	}
	probs := softmax(logits)

	r := rnd.Float64()
	var cum float64
	for i, p := range probs {
		cum += p
		if r <= cum {
			return i
		}
	}
	return len(probs) - 1
}

func containsAny(lowered string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(lowered, s) {
			return true
		}
	}
	return false
}

func (e *Engine) responseEmbedding(resp string) []float64 {
	e.mu.RLock()
	emb, ok := e.respCache[resp]
	e.mu.RUnlock()
	if ok {
		return emb
	}
	emb = e.encoder.encode(resp)
	e.mu.Lock()
	e.respCache[resp] = emb
	e.mu.Unlock()
	return emb
}

func (e *Engine) responseFeatures(resp string) []float64 {
	e.mu.RLock()
	f, ok := e.handCache[resp]
	e.mu.RUnlock()
	if ok {
		return f
	}
	f = handFeatures(resp)
	e.mu.Lock()
	e.handCache[resp] = f
	e.mu.Unlock()
	return f
}
