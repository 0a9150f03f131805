package hrapi

import (
	"encoding/json"
	"strings"
	"time"

	"go-hrdash/internal/leave"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type leaveItem struct {
	ID         string  `json:"id" validate:"required"`
	EmployeeID string  `json:"employee_id" validate:"required"`
	LeaveType  string  `json:"leave_type" validate:"required"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Status     string  `json:"status" validate:"required,leave_status"`
	Reason     string  `json:"reason"`
	Remarks    *string `json:"remarks"`
}

type employeeItem struct {
	ID               string `json:"id" validate:"required"`
	FullName         string `json:"full_name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	EmployeeNumber   string `json:"employee_number"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	HireDate         string `json:"hire_date"`
	BirthDate        string `json:"birth_date"`
	EmploymentStatus string `json:"employment_status"`
}

// Employee is the remote employee as the CLI needs it. Zero dates were
// missing or unparseable.
type Employee struct {
	ID               string
	FullName         string
	Email            string
	EmployeeNumber   string
	Department       string
	Position         string
	HireDate         time.Time
	BirthDate        time.Time
	EmploymentStatus string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("leave_status", func(fl validator.FieldLevel) bool {
		_, ok := leave.NormalizeStatus(fl.Field().String())
		return ok
	})
	return v
}

// parseLeaveRecords keeps every element that decodes and validates. Dates
// that are missing or unparseable become zero values, which the usage
// aggregator treats as a missing date; they do not drop the record.
func parseLeaveRecords(raw []json.RawMessage, v *validator.Validate, log *zap.Logger) []leave.Record {
	out := make([]leave.Record, 0, len(raw))
	for i, r := range raw {
		var item leaveItem
		if err := json.Unmarshal(r, &item); err != nil {
			log.Warn("dropping undecodable leave record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := v.Struct(item); err != nil {
			log.Warn("dropping invalid leave record",
				zap.Int("index", i),
				zap.String("id", item.ID),
				zap.Error(err),
			)
			continue
		}

		status, _ := leave.NormalizeStatus(item.Status)
		rec := leave.Record{
			ID:         item.ID,
			EmployeeID: item.EmployeeID,
			LeaveType:  strings.TrimSpace(item.LeaveType),
			StartDate:  parseDate(item.StartDate, "start_date", item.ID, log),
			EndDate:    parseDate(item.EndDate, "end_date", item.ID, log),
			Status:     status,
			Reason:     item.Reason,
		}
		if item.Remarks != nil {
			rec.Remarks = *item.Remarks
		}
		out = append(out, rec)
	}
	return out
}

func parseEmployees(raw []json.RawMessage, v *validator.Validate, log *zap.Logger) []Employee {
	out := make([]Employee, 0, len(raw))
	for i, r := range raw {
		var item employeeItem
		if err := json.Unmarshal(r, &item); err != nil {
			log.Warn("dropping undecodable employee", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := v.Struct(item); err != nil {
			log.Warn("dropping invalid employee",
				zap.Int("index", i),
				zap.String("id", item.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, Employee{
			ID:               item.ID,
			FullName:         strings.TrimSpace(item.FullName),
			Email:            item.Email,
			EmployeeNumber:   item.EmployeeNumber,
			Department:       item.Department,
			Position:         item.Position,
			HireDate:         parseDate(item.HireDate, "hire_date", item.ID, log),
			BirthDate:        parseDate(item.BirthDate, "birth_date", item.ID, log),
			EmploymentStatus: strings.ToUpper(item.EmploymentStatus),
		})
	}
	return out
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Anything else is logged and
// returned as the zero time.
func parseDate(v, field, id string, log *zap.Logger) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC()
	}
	log.Warn("unparseable date treated as missing",
		zap.String("id", id),
		zap.String("field", field),
		zap.String("value", v),
	)
	return time.Time{}
}
