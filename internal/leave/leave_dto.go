package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,max=50"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"max=1000"`
}

type DecideLeaveRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type ListLeavesRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	Year       int    `form:"year" binding:"omitempty,min=1900,max=9999"`
}

type UsageRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Category   string `form:"category" binding:"required"`
	Year       int    `form:"year" binding:"required,min=1900,max=9999"`
}

type UsageSummaryRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Year       int    `form:"year" binding:"required,min=1900,max=9999"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	Remarks      *string `json:"remarks,omitempty"`
	CreatedBy    string  `json:"created_by"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}
