package events

import "time"

const (
	RecruitmentTopic          = "hr.recruitment.v1"
	ApplicantChangedEventType = "applicant_changed"
)

// ApplicantChangedEvent carries the applicant's pipeline stage after a write.
// Stage is empty when the applicant was deleted.
type ApplicantChangedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	ApplicantID string    `json:"applicant_id"`
	CompanyID   string    `json:"company_id"`
	Stage       string    `json:"stage,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
