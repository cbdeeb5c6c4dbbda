package engage

// Stage is the engagement persona stage. Stages only ever move forward
// within a session.
type Stage int

const (
	StageConfused    Stage = 1 // confused but curious
	StageVerifying   Stage = 2 // asking for proof
	StageSuspicious  Stage = 3 // concerned and cautious
	StageCooperative Stage = 4 // playing along, probing
	StageExtracting  Stage = 5 // maximum intel gathering
)

func (s Stage) String() string {
	switch s {
	case StageConfused:
		return "confused"
	case StageVerifying:
		return "verifying"
	case StageSuspicious:
		return "suspicious"
	case StageCooperative:
		return "cooperative"
	case StageExtracting:
		return "extracting"
	}
	return "unknown"
}

// Cutoffs gate each stage on BOTH a cumulative risk score and a minimum
// turn count. A hot first message alone cannot jump the persona to late
// stages; the conversation has to have lasted long enough too.
type Cutoffs struct {
	VerifyingScore   float64
	VerifyingTurns   int
	SuspiciousScore  float64
	SuspiciousTurns  int
	CooperativeScore float64
	CooperativeTurns int
	ExtractingScore  float64
	ExtractingTurns  int
}

// DefaultCutoffs returns the standard stage gates.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		VerifyingScore:   10,
		VerifyingTurns:   2,
		SuspiciousScore:  30,
		SuspiciousTurns:  3,
		CooperativeScore: 50,
		CooperativeTurns: 5,
		ExtractingScore:  80,
		ExtractingTurns:  6,
	}
}

// compute returns the target stage for the given score and turn count.
// A confirmed scam with a long enough conversation always qualifies for
// extraction even when the raw score sits below the extracting gate.
func (c Cutoffs) compute(riskScore float64, msgCount int, isScam bool) Stage {
	stage := StageConfused
	if riskScore >= c.VerifyingScore && msgCount >= c.VerifyingTurns {
		stage = StageVerifying
	}
	if riskScore >= c.SuspiciousScore && msgCount >= c.SuspiciousTurns {
		stage = StageSuspicious
	}
	if riskScore >= c.CooperativeScore && msgCount >= c.CooperativeTurns {
		stage = StageCooperative
	}
	if msgCount >= c.ExtractingTurns && (riskScore >= c.ExtractingScore || isScam) {
		stage = StageExtracting
	}
	return stage
}
