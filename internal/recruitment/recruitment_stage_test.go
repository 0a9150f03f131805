package recruitment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stamp(day int) *time.Time {
	t := time.Date(2025, time.March, day, 9, 0, 0, 0, time.UTC)
	return &t
}

func decision(v string) *string { return &v }

func TestDeriveStage(t *testing.T) {
	tests := []struct {
		name      string
		applicant Applicant
		want      Stage
	}{
		{"nothing stamped", Applicant{}, StageApplied},
		{"screened", Applicant{ScreenedAt: stamp(2)}, StageScreening},
		{"interviewed", Applicant{ScreenedAt: stamp(2), InterviewedAt: stamp(5)}, StageInterview},
		{"interview without screening", Applicant{InterviewedAt: stamp(5)}, StageInterview},
		{"offer wins over earlier stamps", Applicant{ScreenedAt: stamp(2), InterviewedAt: stamp(5), OfferedAt: stamp(9)}, StageOffer},
		{"hire decision wins", Applicant{OfferedAt: stamp(9), Decision: decision(DecisionHire)}, StageHired},
		{"reject decision wins", Applicant{ScreenedAt: stamp(2), Decision: decision(DecisionReject)}, StageRejected},
		{"unknown decision falls back to stamps", Applicant{ScreenedAt: stamp(2), Decision: decision("maybe")}, StageScreening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStage(tt.applicant))
		})
	}
}

func TestParseStage(t *testing.T) {
	s, ok := ParseStage(" interview ")
	assert.True(t, ok)
	assert.Equal(t, StageInterview, s)

	_, ok = ParseStage("onboarding")
	assert.False(t, ok)

	assert.True(t, StageOffer.Stampable())
	assert.False(t, StageHired.Stampable())
	assert.False(t, StageApplied.Stampable())
}

func TestCountByStage(t *testing.T) {
	counts := CountByStage([]Applicant{
		{},
		{ScreenedAt: stamp(1)},
		{ScreenedAt: stamp(1), OfferedAt: stamp(3)},
		{Decision: decision(DecisionHire)},
		{Decision: decision(DecisionHire)},
	})

	assert.Equal(t, []StageCount{
		{Stage: StageApplied, Count: 1},
		{Stage: StageScreening, Count: 1},
		{Stage: StageInterview, Count: 0},
		{Stage: StageOffer, Count: 1},
		{Stage: StageHired, Count: 2},
		{Stage: StageRejected, Count: 0},
	}, counts)
}
