package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required,max=150"`
	Email            string `json:"email" binding:"required,email"`
	EmployeeNumber   string `json:"employee_number" binding:"max=20"`
	Phone            string `json:"phone" binding:"max=30"`
	Department       string `json:"department" binding:"required,max=100"`
	Position         string `json:"position" binding:"required,max=100"`
	HireDate         string `json:"hire_date" binding:"required"`
	BirthDate        string `json:"birth_date"`
	EmploymentStatus string `json:"employment_status"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required,max=150"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"max=30"`
	Department       string `json:"department" binding:"required,max=100"`
	Position         string `json:"position" binding:"required,max=100"`
	HireDate         string `json:"hire_date" binding:"required"`
	BirthDate        string `json:"birth_date"`
	EmploymentStatus string `json:"employment_status" binding:"required"`
}

type ListEmployeesRequest struct {
	Department string `form:"department"`
	Status     string `form:"status"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	CompanyID        string `json:"company_id"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	HireDate         string `json:"hire_date"`
	BirthDate        string `json:"birth_date,omitempty"`
	EmploymentStatus string `json:"employment_status"`
}

type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}
