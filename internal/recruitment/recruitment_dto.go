package recruitment

type CreateApplicantRequest struct {
	FullName  string `json:"full_name" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=150"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Position  string `json:"position" binding:"required,max=100"`
	AppliedAt string `json:"applied_at"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type UpdateApplicantRequest struct {
	FullName  string `json:"full_name" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=150"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Position  string `json:"position" binding:"required,max=100"`
	AppliedAt string `json:"applied_at" binding:"required"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type AdvanceApplicantRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type DecideApplicantRequest struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes" binding:"max=2000"`
}

type ListApplicantsRequest struct {
	Stage    string `form:"stage"`
	Position string `form:"position"`
	Year     int    `form:"year" binding:"omitempty,min=1900,max=9999"`
}

type ApplicantResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	ReferenceNo   string  `json:"reference_no"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	Position      string  `json:"position"`
	AppliedAt     string  `json:"applied_at"`
	ScreenedAt    *string `json:"screened_at,omitempty"`
	InterviewedAt *string `json:"interviewed_at,omitempty"`
	OfferedAt     *string `json:"offered_at,omitempty"`
	Decision      *string `json:"decision,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
	Stage         Stage   `json:"stage"`
	Notes         string  `json:"notes,omitempty"`
}

type PipelineResponse struct {
	Year   int          `json:"year,omitempty"`
	Total  int          `json:"total"`
	Stages []StageCount `json:"stages"`
}
