package ranker

import (
	"math"
	"math/rand"
	"strings"
)

// IntentNames is the fixed 15-class intent vocabulary, index-aligned with
// the probability vectors returned by the classifier. "neutral" is last.
var IntentNames = []string{
	"urgency",
	"authority",
	"otp_request",
	"payment_request",
	"suspension",
	"prize_lure",
	"suspicious_url",
	"emotional",
	"legal_threat",
	"courier",
	"tech_support",
	"job_fraud",
	"investment",
	"identity_theft",
	"neutral",
}

// intentKeywords seed the anchor embeddings and the direct overlap signal.
var intentKeywords = map[string][]string{
	"urgency": {
		"urgent", "immediately", "hurry", "right now", "last chance",
		"final notice", "expiring", "deadline", "limited time", "act now",
	},
	"authority": {
		"rbi", "police", "cbi", "income tax", "government", "officer",
		"commissioner", "cyber cell", "court order", "ministry",
	},
	"otp_request": {
		"otp", "one time password", "verification code", "share the code",
		"cvv", "atm pin", "mpin", "upi pin", "read the otp",
	},
	"payment_request": {
		"send money", "transfer", "pay now", "processing fee",
		"upi", "paytm", "neft", "bank transfer", "security deposit",
	},
	"suspension": {
		"account blocked", "suspended", "deactivated", "frozen",
		"kyc update", "compromised", "unauthorized access", "locked",
	},
	"prize_lure": {
		"congratulations", "won", "prize", "lottery", "cashback",
		"reward", "lucky draw", "jackpot", "selected for", "free gift",
	},
	"suspicious_url": {
		"click here", "bit.ly", "download app", "install", "link",
		"anydesk", "teamviewer", "screen share", "remote access",
	},
	"emotional": {
		"scared", "afraid", "danger", "shame", "your family",
		"trust me", "confidential", "no choice", "save yourself",
	},
	"legal_threat": {
		"arrest", "warrant", "fir", "jail", "legal action",
		"money laundering", "digital arrest", "criminal case",
	},
	"courier": {
		"parcel", "courier", "customs", "drugs found", "contraband",
		"fedex", "shipment", "tracking number", "seized",
	},
	"tech_support": {
		"virus detected", "computer hacked", "anydesk", "remote access",
		"screen sharing", "tech support", "malware", "microsoft",
	},
	"job_fraud": {
		"work from home", "online job", "earn daily", "part time job",
		"telegram group", "training fee", "product review",
	},
	"investment": {
		"guaranteed returns", "double your money", "crypto", "bitcoin",
		"stock tip", "trading", "mutual fund", "demat account",
	},
	"identity_theft": {
		"aadhaar number", "pan card", "voter id", "passport number",
		"selfie with id", "share your aadhaar", "date of birth",
	},
	"neutral": {
		"hello", "hi", "good morning", "how are you", "thank you",
		"namaste", "okay", "yes", "no", "please",
	},
}

// intentClassifier blends three signals:
//  1. an FC head over [attended embedding ‖ conversation state]
//  2. cosine similarity to keyword anchor embeddings (zero-shot)
//  3. raw keyword overlap counts
//
// Final probabilities = 0.35*fc + 0.30*anchor + 0.35*overlap.
type intentClassifier struct {
	w1, w2, w3 dense
	anchors    [][]float64 // numIntents x embedDim, unit norm
}

func newIntentClassifier(enc *textEncoder, rng *rand.Rand) *intentClassifier {
	inDim := embedDim + stateDim // 192
	c := &intentClassifier{
		w1: newDense(96, inDim, math.Sqrt(2.0/float64(inDim)), rng),
		w2: newDense(48, 96, math.Sqrt(2.0/96.0), rng),
		w3: newDense(numIntents, 48, math.Sqrt(2.0/48.0), rng),
	}

	c.anchors = make([][]float64, numIntents)
	for i, name := range IntentNames {
		anchor := make([]float64, embedDim)
		kws := intentKeywords[name]
		for _, kw := range kws {
			emb := enc.encode(kw)
			for d, v := range emb {
				anchor[d] += v
			}
		}
		if len(kws) > 0 {
			for d := range anchor {
				anchor[d] /= float64(len(kws))
			}
		}
		if n := norm(anchor); n > 1e-9 {
			for d := range anchor {
				anchor[d] /= n
			}
		}
		c.anchors[i] = anchor
	}
	return c
}

func (c *intentClassifier) classify(attended, state []float64, rawText string) []float64 {
	h1 := geluVec(c.w1.mulVec(concat(attended, state)))
	h2 := geluVec(c.w2.mulVec(h1))
	fcProbs := softmax(c.w3.mulVec(h2))

	// Anchor similarity at a sharp temperature.
	n := norm(attended) + 1e-9
	sims := make([]float64, numIntents)
	for i, anchor := range c.anchors {
		var dot float64
		for d, v := range attended {
			dot += anchor[d] * v
		}
		sims[i] = (dot / n) / 0.25
	}
	anchorProbs := softmax(sims)

	kwScores := keywordOverlap(rawText)

	out := make([]float64, numIntents)
	for i := range out {
		out[i] = 0.35*fcProbs[i] + 0.30*anchorProbs[i] + 0.35*kwScores[i]
	}
	return out
}

// keywordOverlap counts keyword hits per intent and normalizes to a
// distribution. No hits at all means neutral.
func keywordOverlap(text string) []float64 {
	scores := make([]float64, numIntents)
	if text == "" {
		scores[numIntents-1] = 1.0
		return scores
	}
	lowered := strings.ToLower(text)
	var total float64
	for i, name := range IntentNames {
		for _, kw := range intentKeywords[name] {
			if strings.Contains(lowered, kw) {
				scores[i]++
			}
		}
		total += scores[i]
	}
	if total > 0 {
		for i := range scores {
			scores[i] /= total
		}
	} else {
		scores[numIntents-1] = 1.0
	}
	return scores
}

// TopIntent returns the name of the highest-probability intent.
func TopIntent(probs []float64) string {
	if len(probs) != numIntents {
		return "neutral"
	}
	best, idx := probs[0], 0
	for i, p := range probs {
		if p > best {
			best, idx = p, i
		}
	}
	return IntentNames[idx]
}
