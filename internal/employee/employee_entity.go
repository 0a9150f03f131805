package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "ACTIVE"
	StatusProbation  = "PROBATION"
	StatusOnLeave    = "ON_LEAVE"
	StatusResigned   = "RESIGNED"
	StatusTerminated = "TERMINATED"
)

// ActiveStatuses are the employment statuses counted in headcount.
var ActiveStatuses = []string{StatusActive, StatusProbation, StatusOnLeave}

var employmentStatuses = map[string]struct{}{
	StatusActive:     {},
	StatusProbation:  {},
	StatusOnLeave:    {},
	StatusResigned:   {},
	StatusTerminated: {},
}

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_employee_number,priority:1"`
	EmployeeNumber   string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number,priority:2"`
	FullName         string     `gorm:"type:varchar(150);not null"`
	Email            string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Phone            string     `gorm:"type:varchar(30)"`
	Department       string     `gorm:"type:varchar(100);index"`
	Position         string     `gorm:"type:varchar(100)"`
	HireDate         time.Time  `gorm:"type:date;not null"`
	BirthDate        *time.Time `gorm:"type:date"`
	EmploymentStatus string     `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Employee) TableName() string {
	return "employees"
}
