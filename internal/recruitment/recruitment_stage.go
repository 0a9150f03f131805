package recruitment

import "strings"

type Stage string

const (
	StageApplied   Stage = "APPLIED"
	StageScreening Stage = "SCREENING"
	StageInterview Stage = "INTERVIEW"
	StageOffer     Stage = "OFFER"
	StageHired     Stage = "HIRED"
	StageRejected  Stage = "REJECTED"
)

// Stages is the pipeline in display order.
var Stages = []Stage{
	StageApplied,
	StageScreening,
	StageInterview,
	StageOffer,
	StageHired,
	StageRejected,
}

func ParseStage(v string) (Stage, bool) {
	s := Stage(strings.ToUpper(strings.TrimSpace(v)))
	for _, known := range Stages {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// Stampable reports whether the stage is reached by stamping a timestamp
// rather than by a decision.
func (s Stage) Stampable() bool {
	return s == StageScreening || s == StageInterview || s == StageOffer
}

func (s Stage) rank() int {
	for i, known := range Stages {
		if s == known {
			return i
		}
	}
	return -1
}

// DeriveStage returns where the applicant stands. A decision wins over any
// stamp; otherwise the furthest stamped stage counts, regardless of which
// earlier stages were skipped.
func DeriveStage(a Applicant) Stage {
	if a.Decision != nil {
		switch *a.Decision {
		case DecisionHire:
			return StageHired
		case DecisionReject:
			return StageRejected
		}
	}
	switch {
	case a.OfferedAt != nil:
		return StageOffer
	case a.InterviewedAt != nil:
		return StageInterview
	case a.ScreenedAt != nil:
		return StageScreening
	}
	return StageApplied
}

type StageCount struct {
	Stage Stage `json:"stage"`
	Count int   `json:"count"`
}

// CountByStage tallies applicants per stage. Every stage is present in the
// result, in pipeline order, even when its count is zero.
func CountByStage(applicants []Applicant) []StageCount {
	counts := make(map[Stage]int, len(Stages))
	for _, a := range applicants {
		counts[DeriveStage(a)]++
	}
	out := make([]StageCount, len(Stages))
	for i, s := range Stages {
		out[i] = StageCount{Stage: s, Count: counts[s]}
	}
	return out
}
