package ranker

import (
	"math"
	"math/rand"
	"strings"
)

// FNV-1a with a custom seed. Hashing with distinct seeds gives independent
// index and sign streams, which is what makes sign-folded feature hashing
// behave like a sparse random projection.
func fnv1a(s string, seed uint32) uint32 {
	h := seed
	for _, c := range s {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

const (
	charIdxSeed  = 0xC3A5
	charSignSeed = 0xB7E1
	wordIdxSeed  = 0xA1B2
	wordSignSeed = 0xD4F5
)

// textEncoder turns text into a dense embedding via character-trigram and
// word unigram+bigram feature hashing followed by a ReLU projection.
// Similar texts land near each other without any learned vocabulary.
type textEncoder struct {
	proj dense // embedDim x embedDim
}

func newTextEncoder(rng *rand.Rand) *textEncoder {
	scale := math.Sqrt(2.0 / float64(embedDim))
	return &textEncoder{proj: newDense(embedDim, embedDim, scale, rng)}
}

func (e *textEncoder) encode(text string) []float64 {
	raw := hashFeatures(text)
	out := e.proj.mulVec(raw)
	// Skip connection keeps the raw hashed signal visible past the projection.
	for i, v := range out {
		v += raw[i]
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out
}

// hashFeatures builds the raw 128-d vector: char trigrams folded into the
// first 64 dims, word unigrams+bigrams into the last 64, each half
// L2-normalized independently.
func hashFeatures(text string) []float64 {
	const half = embedDim / 2
	charVec := make([]float64, half)
	wordVec := make([]float64, half)

	lowered := strings.ToLower(strings.TrimSpace(text))

	padded := " " + lowered + " "
	runes := []rune(padded)
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		idx := fnv1a(tri, charIdxSeed) % half
		if fnv1a(tri, charSignSeed)&1 == 0 {
			charVec[idx]++
		} else {
			charVec[idx]--
		}
	}

	words := strings.Fields(lowered)
	fold := func(token string) {
		idx := fnv1a(token, wordIdxSeed) % half
		if fnv1a(token, wordSignSeed)&1 == 0 {
			wordVec[idx]++
		} else {
			wordVec[idx]--
		}
	}
	for _, w := range words {
		fold(w)
	}
	for i := 0; i+1 < len(words); i++ {
		fold(words[i] + "_" + words[i+1])
	}

	normalizeHalf(charVec)
	normalizeHalf(wordVec)

	return concat(charVec, wordVec)
}

func normalizeHalf(v []float64) {
	n := norm(v)
	if n < 1e-9 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}
