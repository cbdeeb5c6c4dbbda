package ranker

import "strings"

// Token sets for the hand-crafted engagement features. Probe, comply, and
// Hindi sets match whole words; persona and stall lists are substring
// matched because several entries are phrases.
var (
	probeWords = map[string]bool{
		"phone": true, "number": true, "contact": true, "employee": true,
		"email": true, "name": true, "department": true, "reference": true,
		"callback": true, "details": true, "supervisor": true,
	}
	personaPhrases = []string{
		"confused", "scared", "worried", "nervous", "senior", "health",
		"medicine", "glasses", "don't understand", "blood pressure",
	}
	stallPhrases = []string{
		"hold on", "wait", "one minute", "let me", "checking",
		"battery", "restart", "network", "can you repeat", "one moment",
	}
	complyWords = map[string]bool{
		"okay": true, "alright": true, "cooperate": true, "believe": true,
		"trust": true, "ready": true, "proceed": true, "fine": true,
		"understand": true, "convince": true,
	}
	hindiWords = map[string]bool{
		"ji": true, "sir": true, "haan": true, "namaste": true,
		"aap": true, "kya": true, "nahi": true, "sahab": true,
	}
)

// handFeatures builds the 10-d engagement feature vector for a candidate
// reply: question presence, length band, probe intensity, persona
// maintenance, stalling, compliance, Hinglish flavor, multi-request
// density, lexical variety, and emotional markers.
func handFeatures(response string) []float64 {
	feat := make([]float64, handDim)
	lowered := strings.ToLower(response)
	words := strings.Fields(lowered)
	wc := len(words)

	wordSet := make(map[string]bool, wc)
	for _, w := range words {
		wordSet[w] = true
	}

	if strings.Contains(response, "?") {
		feat[0] = 1.0
	}

	switch {
	case wc >= 12 && wc <= 30:
		feat[1] = 1.0
	case wc >= 8 && wc <= 35:
		feat[1] = 0.7
	default:
		feat[1] = 0.3
	}

	feat[2] = capped(float64(setOverlap(wordSet, probeWords))/3.0)
	feat[3] = capped(float64(countContains(lowered, personaPhrases)) / 2.0)
	feat[4] = capped(float64(countContains(lowered, stallPhrases)) / 2.0)
	feat[5] = capped(float64(setOverlap(wordSet, complyWords)) / 2.0)
	feat[6] = capped(float64(setOverlap(wordSet, hindiWords)) / 2.0)

	feat[7] = capped(float64(
		strings.Count(response, " and ")+
			strings.Count(response, ",")+
			strings.Count(response, "?")) / 4.0)

	if wc > 0 {
		feat[8] = float64(len(wordSet)) / float64(wc)
	}

	feat[9] = capped(float64(
		strings.Count(response, "!")+
			strings.Count(response, "…")+
			strings.Count(response, "...")+
			strings.Count(lowered, "oh no")+
			strings.Count(lowered, "please")) / 3.0)

	return feat
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func setOverlap(words map[string]bool, set map[string]bool) int {
	var n int
	for w := range words {
		if set[w] {
			n++
		}
	}
	return n
}

func countContains(lowered string, phrases []string) int {
	var n int
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			n++
		}
	}
	return n
}
