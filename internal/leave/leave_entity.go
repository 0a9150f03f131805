package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"type:varchar(50);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leaves_company_status"`
	Remarks   *string    `gorm:"type:text"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *LeaveEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Leave) TableName() string {
	return "leaves"
}

// LeaveEmployee is the read-only slice of the employees table shown next to
// a leave.
type LeaveEmployee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string
	Department string
}

func (LeaveEmployee) TableName() string {
	return "employees"
}

// ToRecord converts the stored leave into aggregator input.
func (l Leave) ToRecord() Record {
	r := Record{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		Status:     l.Status,
		Reason:     l.Reason,
	}
	if l.Remarks != nil {
		r.Remarks = *l.Remarks
	}
	return r
}

func ToRecords(leaves []Leave) []Record {
	out := make([]Record, len(leaves))
	for i, l := range leaves {
		out[i] = l.ToRecord()
	}
	return out
}
