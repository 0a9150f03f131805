package events

import "time"

const (
	LeaveDecidedTopic     = "hr.leave.decided.v1"
	LeaveDecidedEventType = "leave_decided"
)

// LeaveDecidedEvent is emitted once per leave, when it leaves PENDING.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	Remarks    string    `json:"remarks,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Envelope holds the fields every event on the HR topics carries.
type Envelope struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	CompanyID  string    `json:"company_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
