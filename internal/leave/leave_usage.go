package leave

import (
	"strings"
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

const historyDateLayout = "Jan 02, 2006"

const secondsPerDay = 24 * 60 * 60

// Record is the aggregator's view of a leave record. A zero StartDate or
// EndDate means the date was missing.
type Record struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	Reason     string
	Remarks    string
}

type UsageQuery struct {
	EmployeeID string
	Category   Category
	Year       int
}

type HistoryEntry struct {
	RecordID  string `json:"record_id"`
	Type      string `json:"type"`
	DateRange string `json:"date_range"`
	Days      int    `json:"days"`
}

type Usage struct {
	EmployeeID string         `json:"employee_id"`
	Category   Category       `json:"category"`
	Year       int            `json:"year"`
	Credit     int            `json:"credit"`
	Used       int            `json:"used"`
	Remaining  int            `json:"remaining"`
	History    []HistoryEntry `json:"history"`
	Skipped    []string       `json:"skipped,omitempty"`
}

// CountDays returns the inclusive number of calendar days between start and
// end. ok is false when either date is missing or the range is not positive;
// days is then 1.
func CountDays(start, end time.Time) (days int, ok bool) {
	if start.IsZero() || end.IsZero() {
		return 1, false
	}
	// Unix seconds of UTC midnights stay exact where time.Duration saturates.
	days = int((dateOnly(end).Unix()-dateOnly(start).Unix())/secondsPerDay) + 1
	if days <= 0 {
		return 1, false
	}
	return days, true
}

// ComputeUsage derives days used, days remaining and the usage history for
// one (employee, category, year). It is a pure function of its inputs and
// is recomputed from the full record set on every call.
//
// A record counts when it is accepted, belongs to the employee, matches the
// category and starts in the year. Records without a start date never match
// a year.
func ComputeUsage(records []Record, q UsageQuery, p Policy) Usage {
	credit := p.Credit(q.Category)
	u := Usage{
		EmployeeID: q.EmployeeID,
		Category:   q.Category,
		Year:       q.Year,
		Credit:     credit,
		History:    []HistoryEntry{},
	}

	for _, r := range records {
		if r.Status != StatusAccepted || r.EmployeeID != q.EmployeeID {
			continue
		}
		if !q.Category.Matches(r.LeaveType) {
			continue
		}
		if r.StartDate.IsZero() || r.StartDate.Year() != q.Year {
			continue
		}

		days, ok := CountDays(r.StartDate, r.EndDate)
		if !ok && p.InvalidRange == InvalidRangeReject {
			u.Skipped = append(u.Skipped, r.ID)
			continue
		}

		u.Used += days
		u.History = append(u.History, HistoryEntry{
			RecordID:  r.ID,
			Type:      r.LeaveType,
			DateRange: dateRangeLabel(r.StartDate, r.EndDate),
			Days:      days,
		})
	}

	u.Remaining = max(0, credit-u.Used)
	return u
}

// ComputeYearSummary returns one Usage per summary category.
func ComputeYearSummary(records []Record, employeeID string, year int, p Policy) []Usage {
	out := make([]Usage, 0, len(SummaryCategories))
	for _, c := range SummaryCategories {
		out = append(out, ComputeUsage(records, UsageQuery{
			EmployeeID: employeeID,
			Category:   c,
			Year:       year,
		}, p))
	}
	return out
}

func dateRangeLabel(start, end time.Time) string {
	if end.IsZero() || dateOnly(start).Equal(dateOnly(end)) {
		return start.Format(historyDateLayout)
	}
	return start.Format(historyDateLayout) + " - " + end.Format(historyDateLayout)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeStatus maps a status string onto the stored constants, accepting
// any case and "APPROVED" as a synonym of ACCEPTED.
func NormalizeStatus(v string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case StatusPending:
		return StatusPending, true
	case StatusAccepted, "APPROVED":
		return StatusAccepted, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}
