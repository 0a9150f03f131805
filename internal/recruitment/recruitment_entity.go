package recruitment

import (
	"time"

	"github.com/google/uuid"
)

const (
	DecisionHire   = "hire"
	DecisionReject = "reject"
)

type Applicant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_applicant_reference,priority:1;uniqueIndex:uq_applicant_position,priority:1"`
	ReferenceNo string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_applicant_reference,priority:2"`

	FullName string `gorm:"type:varchar(150);not null"`
	Email    string `gorm:"type:varchar(150);not null;uniqueIndex:uq_applicant_position,priority:2"`
	Phone    string `gorm:"type:varchar(30)"`
	Position string `gorm:"type:varchar(100);not null;uniqueIndex:uq_applicant_position,priority:3"`

	AppliedAt     time.Time `gorm:"type:date;not null"`
	ScreenedAt    *time.Time
	InterviewedAt *time.Time
	OfferedAt     *time.Time

	Decision  *string    `gorm:"type:varchar(10)"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time
	Notes     string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Applicant) TableName() string {
	return "applicants"
}

func (a Applicant) Decided() bool {
	return a.Decision != nil
}
