package ranker

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderDeterministicAcrossEngines(t *testing.T) {
	a := New()
	b := New()

	ea := a.encoder.encode("share the otp immediately")
	eb := b.encoder.encode("share the otp immediately")
	require.Len(t, ea, embedDim)
	assert.Equal(t, ea, eb)
}

func TestEncodeIsNonNegativeAfterReLU(t *testing.T) {
	e := New()
	for _, v := range e.encoder.encode("your parcel has been seized") {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestHashFeaturesHalvesAreUnitNorm(t *testing.T) {
	raw := hashFeatures("transfer the processing fee now")
	require.Len(t, raw, embedDim)

	var charN, wordN float64
	for _, v := range raw[:embedDim/2] {
		charN += v * v
	}
	for _, v := range raw[embedDim/2:] {
		wordN += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(charN), 1e-9)
	assert.InDelta(t, 1.0, math.Sqrt(wordN), 1e-9)
}

func TestSelectDeterministicWithSeededRand(t *testing.T) {
	pool := []string{
		"Who is this? I don't understand what you are saying.",
		"Can you tell me your name and employee id please?",
		"Okay ji, I am ready to cooperate, what should I do?",
		"Hold on, my phone battery is low, one minute please.",
	}

	run := func() (string, []float64) {
		e := New()
		st := NewState()
		rnd := rand.New(rand.NewSource(7))
		sel := e.Select(st, rnd, "Your account will be blocked, share the OTP now", pool, 2, 35)
		return sel.Response, st.Hidden
	}

	r1, h1 := run()
	r2, h2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, h1, h2)
	assert.Contains(t, pool, r1)
}

func TestSelectAdvancesStateAndKeepsDim(t *testing.T) {
	e := New()
	st := NewState()
	rnd := rand.New(rand.NewSource(1))
	pool := []string{"Who is calling?", "Why is my account blocked?"}

	zero := make([]float64, StateDim)
	e.Select(st, rnd, "this is the cyber cell, your account is frozen", pool, 1, 10)
	require.Len(t, st.Hidden, StateDim)
	assert.NotEqual(t, zero, st.Hidden)

	first := append([]float64(nil), st.Hidden...)
	e.Select(st, rnd, "share the otp to unfreeze it", pool, 2, 40)
	require.Len(t, st.Hidden, StateDim)
	assert.NotEqual(t, first, st.Hidden)
}

func TestSelectRepairsCorruptedState(t *testing.T) {
	e := New()
	st := &State{Hidden: []float64{1, 2, 3}} // wrong width
	rnd := rand.New(rand.NewSource(1))

	sel := e.Select(st, rnd, "hello", []string{"Who is this?"}, 1, 0)
	assert.Equal(t, "Who is this?", sel.Response)
	assert.Len(t, st.Hidden, StateDim)
}

func TestSelectEmptyPoolFallsBack(t *testing.T) {
	e := New()
	sel := e.Select(NewState(), rand.New(rand.NewSource(1)), "hi", nil, 1, 0)
	assert.True(t, sel.Fallback)
	assert.Empty(t, sel.Response)
}

func TestIntentProbsFormDistribution(t *testing.T) {
	e := New()
	probs := e.IntentProbs(NewState(), "share the otp and cvv right now")
	require.Len(t, probs, numIntents)

	var sum float64
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.Greater(t, probs["otp_request"], probs["neutral"])
}

func TestKeywordOverlapEmptyTextIsNeutral(t *testing.T) {
	scores := keywordOverlap("")
	assert.Equal(t, 1.0, scores[numIntents-1])
}

func TestHandFeatures(t *testing.T) {
	f := handFeatures("Can you give me your phone number and email? I am scared, please hold on one minute ji")
	require.Len(t, f, handDim)

	assert.Equal(t, 1.0, f[0], "question present")
	assert.Equal(t, 1.0, f[1], "word count in sweet spot")
	assert.Greater(t, f[2], 0.0, "probe words")
	assert.Greater(t, f[3], 0.0, "persona phrase")
	assert.Greater(t, f[4], 0.0, "stall phrase")
	assert.Greater(t, f[6], 0.0, "hindi token")
	assert.Greater(t, f[9], 0.0, "emotional markers")
	for _, v := range f {
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestTemperatureSelectPrefersHighScores(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	scores := []float64{0.05, 0.9, 0.05}

	counts := make([]int, 3)
	for i := 0; i < 500; i++ {
		counts[temperatureSelect(rnd, scores, 0.6)]++
	}
	assert.Greater(t, counts[1], counts[0])
	assert.Greater(t, counts[1], counts[2])
}

func TestContextBonusClipsToUnitInterval(t *testing.T) {
	scores := []float64{0.98}
	applyContextBonuses(scores, []string{"okay ji, send your upi and account number and phone number?"}, 5, 90, "payment_request")
	assert.LessOrEqual(t, scores[0], 1.0)
	assert.GreaterOrEqual(t, scores[0], 0.0)
}
