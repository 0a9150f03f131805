package recruitment

import (
	"fmt"
	"net/http"
	"strings"

	"go-hrdash/internal/export"
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
	l := zap.L().Named("recruitment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("recruitment.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("recruitment request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("recruitment request validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
}

func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req CreateApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req ListApplicantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.GetAll(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q := strings.TrimSpace(strings.ToLower(c.Query("q"))); q != "" {
		filtered := make([]ApplicantResponse, 0, len(resp))
		for _, a := range resp {
			if strings.Contains(strings.ToLower(a.FullName), q) ||
				strings.Contains(strings.ToLower(a.Email), q) ||
				strings.Contains(strings.ToLower(a.ReferenceNo), q) {
				filtered = append(filtered, a)
			}
		}
		resp = filtered
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

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req UpdateApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Update(ctx, sess.CompanyID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	if err := h.service.Delete(ctx, sess.CompanyID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Advance(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req AdvanceApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Advance(ctx, sess.CompanyID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req DecideApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Decide(ctx, sess.CompanyID, sess.ActorID(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pipeline(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req ListApplicantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Pipeline(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	sess, _ := contextutil.GetSession(ctx)

	var req ListApplicantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	body, err := h.service.ExportCSV(ctx, sess.CompanyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	name := "applicants.csv"
	if req.Year != 0 {
		name = fmt.Sprintf("applicants-%d.csv", req.Year)
	}
	response.Attachment(c, name, export.CSVContentType, body)
}
