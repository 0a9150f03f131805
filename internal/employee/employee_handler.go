package employee

import (
	"net/http"
	"sort"
	"strings"

	"go-hrdash/internal/shared/apperror"
	"go-hrdash/internal/shared/contextutil"
	"go-hrdash/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("employee request validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
}

func (h *Handler) Create(c *gin.Context) {
	sess, _ := contextutil.GetSession(c.Request.Context())
	h.logger.Debug("http create employee", zap.String("company_id", sess.CompanyID))

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)
	h.logger.Debug("http get all employees", zap.String("company_id", sess.CompanyID))

	var req ListEmployeesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.GetAll(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if strings.Contains(strings.ToLower(e.FullName), q) ||
				strings.Contains(strings.ToLower(e.Email), q) ||
				strings.Contains(strings.ToLower(e.EmployeeNumber), q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	sortEmployees(resp, c.DefaultQuery("sort_by", "name"), c.DefaultQuery("sort_dir", "asc"))

	items, meta := response.Page(c, resp)
	response.Success(c, http.StatusOK, items, &meta)
}

func sortEmployees(resp []EmployeeResponse, sortBy, sortDir string) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	desc := strings.ToLower(strings.TrimSpace(sortDir)) == "desc"
	sort.SliceStable(resp, func(i, j int) bool {
		a, b := resp[i], resp[j]
		if desc {
			a, b = b, a
		}
		switch sortBy {
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "number":
			return a.EmployeeNumber < b.EmployeeNumber
		case "hire_date":
			return a.HireDate < b.HireDate
		case "department":
			return strings.ToLower(a.Department) < strings.ToLower(b.Department)
		default:
			return strings.ToLower(a.FullName) < strings.ToLower(b.FullName)
		}
	})
}

func (h *Handler) GetOptions(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	resp, err := h.service.GetOptions(ctx, sess.CompanyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)
	targetID := c.Param("id")
	h.logger.Debug("http get employee by id",
		zap.String("company_id", sess.CompanyID),
		zap.String("employee_id", targetID),
	)

	resp, err := h.service.GetByID(ctx, sess.CompanyID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)
	id := c.Param("id")
	h.logger.Debug("http update employee",
		zap.String("company_id", sess.CompanyID),
		zap.String("employee_id", id),
	)

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Update(ctx, sess.CompanyID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)
	id := c.Param("id")
	h.logger.Debug("http delete employee",
		zap.String("company_id", sess.CompanyID),
		zap.String("employee_id", id),
	)

	if err := h.service.Delete(ctx, sess.CompanyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
