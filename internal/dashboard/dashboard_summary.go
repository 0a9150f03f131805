package dashboard

import (
	"time"

	"go-hrdash/internal/leave"
	"go-hrdash/internal/recruitment"
)

const (
	UnassignedDepartment = "Unassigned"
	OtherLeaveCategory   = "Other"
)

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthDays struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}

type Summary struct {
	Year                  int                      `json:"year"`
	Headcount             int                      `json:"headcount"`
	HeadcountByDepartment []NamedCount             `json:"headcount_by_department"`
	LeavesByStatus        []NamedCount             `json:"leaves_by_status"`
	LeaveDaysByCategory   []NamedCount             `json:"leave_days_by_category"`
	LeaveDaysByMonth      []MonthDays              `json:"leave_days_by_month"`
	ApplicantsByStage     []recruitment.StageCount `json:"applicants_by_stage"`
	GeneratedAt           time.Time                `json:"generated_at"`
}

type SummaryInput struct {
	Year        int
	Departments []NamedCount
	Leaves      []leave.Record
	Applicants  []recruitment.Applicant
}

var leaveStatuses = []string{leave.StatusPending, leave.StatusAccepted, leave.StatusRejected}

// BuildSummary turns already-loaded rows into chart series. Leave records
// outside Year are ignored; accepted days are attributed to the month the
// leave starts in, the same rule the usage aggregator applies to years.
func BuildSummary(in SummaryInput, p leave.Policy) Summary {
	s := Summary{
		Year:                  in.Year,
		HeadcountByDepartment: make([]NamedCount, 0, len(in.Departments)),
		ApplicantsByStage:     recruitment.CountByStage(in.Applicants),
		LeaveDaysByMonth:      make([]MonthDays, 12),
	}

	for _, d := range in.Departments {
		s.Headcount += d.Count
		s.HeadcountByDepartment = append(s.HeadcountByDepartment, d)
	}

	for i := range s.LeaveDaysByMonth {
		m := time.Month(i + 1)
		s.LeaveDaysByMonth[i] = MonthDays{Month: int(m), Label: m.String()[:3]}
	}

	byStatus := make(map[string]int, len(leaveStatuses))
	byCategory := make(map[string]int)
	for _, r := range in.Leaves {
		if r.StartDate.IsZero() || r.StartDate.Year() != in.Year {
			continue
		}
		byStatus[r.Status]++
		if r.Status != leave.StatusAccepted {
			continue
		}

		days, ok := leave.CountDays(r.StartDate, r.EndDate)
		if !ok && p.InvalidRange == leave.InvalidRangeReject {
			continue
		}
		name := OtherLeaveCategory
		if c, known := leave.CategoryOf(r.LeaveType); known {
			name = string(c)
		}
		byCategory[name] += days
		s.LeaveDaysByMonth[r.StartDate.Month()-1].Days += days
	}

	s.LeavesByStatus = make([]NamedCount, len(leaveStatuses))
	for i, st := range leaveStatuses {
		s.LeavesByStatus[i] = NamedCount{Name: st, Count: byStatus[st]}
	}

	s.LeaveDaysByCategory = make([]NamedCount, 0, len(leave.SummaryCategories)+1)
	for _, c := range leave.SummaryCategories {
		s.LeaveDaysByCategory = append(s.LeaveDaysByCategory, NamedCount{Name: string(c), Count: byCategory[string(c)]})
	}
	if n := byCategory[OtherLeaveCategory]; n > 0 {
		s.LeaveDaysByCategory = append(s.LeaveDaysByCategory, NamedCount{Name: OtherLeaveCategory, Count: n})
	}

	return s
}
