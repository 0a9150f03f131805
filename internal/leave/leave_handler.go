package leave

import (
	"context"
	"fmt"
	"net/http"

	"go-hrdash/internal/export"
	leaveerrors "go-hrdash/internal/leave/errors"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("leave request validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
}

// scopeEmployee pins employee-role callers to their own records.
func scopeEmployee(sess contextutil.Session, requested string) (string, error) {
	if !sess.SelfOnly() {
		return requested, nil
	}
	if requested != "" && requested != sess.EmployeeID {
		return "", leaveerrors.ErrForbiddenEmployee
	}
	return sess.EmployeeID, nil
}

func (h *Handler) Create(c *gin.Context) {
	sess, _ := contextutil.GetSession(c.Request.Context())
	h.logger.Debug("http create leave", zap.String("company_id", sess.CompanyID), zap.String("actor_id", sess.ActorID()))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	if sess.SelfOnly() && req.EmployeeID != sess.EmployeeID {
		h.writeServiceError(c, leaveerrors.ErrForbiddenEmployee)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), sess.CompanyID, sess.ActorID(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req ListLeavesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	employeeID, err := scopeEmployee(sess, req.EmployeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	req.EmployeeID = employeeID

	resp, err := h.service.GetAll(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	items, meta := response.Page(c, resp)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	resp, err := h.service.GetByID(ctx, sess.CompanyID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if sess.SelfOnly() && resp.EmployeeID != sess.EmployeeID {
		h.writeServiceError(c, leaveerrors.ErrLeaveNotFound)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decideFunc func(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req DecideLeaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeBindError(c, err)
			return
		}
	}

	resp, err := fn(ctx, sess.CompanyID, sess.ActorID(), c.Param("id"), req.Remarks)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Usage(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req UsageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	if _, err := scopeEmployee(sess, req.EmployeeID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	usage, err := h.service.GetUsage(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, usage, nil)
}

func (h *Handler) UsageSummary(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req UsageSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	if _, err := scopeEmployee(sess, req.EmployeeID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	summary, err := h.service.GetUsageSummary(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req ListLeavesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	body, err := h.service.ExportCSV(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	name := "leaves.csv"
	if req.Year != 0 {
		name = fmt.Sprintf("leaves-%d.csv", req.Year)
	}
	response.Attachment(c, name, export.CSVContentType, body)
}

func (h *Handler) ExportUsagePDF(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req UsageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	if _, err := scopeEmployee(sess, req.EmployeeID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	body, err := h.service.ExportUsagePDF(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Attachment(c, fmt.Sprintf("leave-usage-%d.pdf", req.Year), export.PDFContentType, body)
}
