package ranker

import (
	"math"
	"math/rand"
)

// Network geometry. These are fixed; the session hidden state in
// particular is always stateDim wide for the life of a session.
const (
	embedDim  = 128
	attnHeads = 4
	headDim   = embedDim / attnHeads // 32
	stateDim  = 64
	numIntents = 15
	handDim    = 10
	scorerIn   = embedDim + embedDim + stateDim + numIntents + handDim // 345

	weightSeed = 42
)

// selfAttention treats a 128-d embedding as 4 positions of 32 dims and
// runs scaled dot-product attention across them for cross-feature mixing.
type selfAttention struct {
	wq, wk, wv dense // headDim x headDim
	wo         dense // embedDim x embedDim
}

func newSelfAttention(rng *rand.Rand) *selfAttention {
	hs := math.Sqrt(2.0 / float64(headDim))
	return &selfAttention{
		wq: newDense(headDim, headDim, hs, rng),
		wk: newDense(headDim, headDim, hs, rng),
		wv: newDense(headDim, headDim, hs, rng),
		wo: newDense(embedDim, embedDim, hs, rng),
	}
}

func (a *selfAttention) forward(x []float64) []float64 {
	// Per-head Q/K/V projections.
	q := make([][]float64, attnHeads)
	k := make([][]float64, attnHeads)
	v := make([][]float64, attnHeads)
	for h := 0; h < attnHeads; h++ {
		head := x[h*headDim : (h+1)*headDim]
		q[h] = a.wq.mulVec(head)
		k[h] = a.wk.mulVec(head)
		v[h] = a.wv.mulVec(head)
	}

	// Attention scores over the 4x4 head grid, softmaxed jointly.
	scores := make([]float64, attnHeads*attnHeads)
	inv := 1.0 / math.Sqrt(float64(headDim))
	for i := 0; i < attnHeads; i++ {
		for j := 0; j < attnHeads; j++ {
			var dot float64
			for d := 0; d < headDim; d++ {
				dot += q[i][d] * k[j][d]
			}
			scores[i*attnHeads+j] = dot * inv
		}
	}
	attn := softmax(scores)

	ctx := make([]float64, embedDim)
	for i := 0; i < attnHeads; i++ {
		for j := 0; j < attnHeads; j++ {
			w := attn[i*attnHeads+j]
			for d := 0; d < headDim; d++ {
				ctx[i*headDim+d] += w * v[j][d]
			}
		}
	}

	out := a.wo.mulVec(ctx)
	return layerNorm(addVec(x, out))
}

// feedForward is a two-layer GELU block with residual + layer norm.
type feedForward struct {
	w1, w2 dense
}

func newFeedForward(dim, hidden int, rng *rand.Rand) *feedForward {
	return &feedForward{
		w1: newDense(hidden, dim, math.Sqrt(2.0/float64(dim)), rng),
		w2: newDense(dim, hidden, math.Sqrt(2.0/float64(hidden)), rng),
	}
}

func (f *feedForward) forward(x []float64) []float64 {
	h := geluVec(f.w1.mulVec(x))
	return layerNorm(addVec(x, f.w2.mulVec(h)))
}

// gruCell carries the conversation state across turns: a 64-d hidden
// vector nudged each turn by the attended message embedding.
type gruCell struct {
	wz, wr, wh dense // stateDim x (stateDim+inputDim)
}

func newGRUCell(inputDim int, rng *rand.Rand) *gruCell {
	combined := stateDim + inputDim
	scale := math.Sqrt(2.0 / float64(combined))
	return &gruCell{
		wz: newDense(stateDim, combined, scale, rng),
		wr: newDense(stateDim, combined, scale, rng),
		wh: newDense(stateDim, combined, scale, rng),
	}
}

func (g *gruCell) step(x, h []float64) []float64 {
	combined := concat(h, x)

	z := g.wz.mulVec(combined)
	r := g.wr.mulVec(combined)
	for i := range z {
		z[i] = sigmoid(z[i])
		r[i] = sigmoid(r[i])
	}

	gated := make([]float64, stateDim)
	for i := range gated {
		gated[i] = r[i] * h[i]
	}
	cand := g.wh.mulVec(concat(gated, x))

	out := make([]float64, stateDim)
	for i := range out {
		out[i] = (1.0-z[i])*h[i] + z[i]*math.Tanh(cand[i])
	}
	return out
}

// engagementScorer predicts how well a candidate reply will keep the
// other side talking. Input is the 345-d concatenation of message
// embedding, candidate embedding, conversation state, intent
// probabilities, and hand-crafted features; output is a sigmoid scalar.
type engagementScorer struct {
	w1, w2, w3 dense
}

func newEngagementScorer(rng *rand.Rand) *engagementScorer {
	return &engagementScorer{
		w1: newDense(128, scorerIn, math.Sqrt(2.0/float64(scorerIn)), rng),
		w2: newDense(64, 128, math.Sqrt(2.0/128.0), rng),
		w3: newDense(1, 64, math.Sqrt(2.0/64.0), rng),
	}
}

func (s *engagementScorer) score(msgEmb, respEmb, state, intents, hand []float64) float64 {
	features := concat(msgEmb, respEmb, state, intents, hand)
	h1 := geluVec(s.w1.mulVec(features))
	h2 := geluVec(s.w2.mulVec(h1))
	return sigmoid(s.w3.mulVec(h2)[0])
}
