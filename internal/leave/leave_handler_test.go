package leave_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrdash/internal/leave"
	leaveerrors "go-hrdash/internal/leave/errors"
	"go-hrdash/internal/leave/mock"
	"go-hrdash/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var (
	testCompanyID  = uuid.NewString()
	testEmployeeID = uuid.NewString()
)

func withSession(sess contextutil.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(contextutil.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

func hrSession() contextutil.Session {
	return contextutil.Session{UserID: "user-hr", EmployeeID: uuid.NewString(), CompanyID: testCompanyID, Role: contextutil.RoleHR}
}

func employeeSession() contextutil.Session {
	return contextutil.Session{UserID: "user-emp", EmployeeID: testEmployeeID, CompanyID: testCompanyID, Role: contextutil.RoleEmployee}
}

func setupLeaveRouter(t *testing.T, sess contextutil.Session) (*gin.Engine, *mock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	h := leave.NewHandler(svc)

	r := gin.New()
	g := r.Group("/leaves", withSession(sess))
	g.GET("", h.GetAll)
	g.POST("", h.Create)
	g.GET("/usage", h.Usage)
	g.GET("/usage/summary", h.UsageSummary)
	g.GET("/usage/pdf", h.ExportUsagePDF)
	g.GET("/export.csv", h.ExportCSV)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	return r, svc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Create(t *testing.T) {
	body := leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  "Vacation",
		StartDate:  "2025-06-02",
		EndDate:    "2025-06-06",
	}

	t.Run("created", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, employeeSession())
		svc.EXPECT().Create(gomock.Any(), testCompanyID, testEmployeeID, body).
			Return(leave.LeaveResponse{ID: "l-1", Status: leave.StatusPending, TotalDays: 5}, nil)

		w := doJSON(r, http.MethodPost, "/leaves", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"total_days":5`)
	})

	t.Run("employee cannot file for someone else", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, employeeSession())
		other := body
		other.EmployeeID = uuid.NewString()

		w := doJSON(r, http.MethodPost, "/leaves", other)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("binding failure", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, hrSession())
		w := doJSON(r, http.MethodPost, "/leaves", map[string]string{"leave_type": "Sick"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("overlap maps to conflict", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, hrSession())
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap)

		w := doJSON(r, http.MethodPost, "/leaves", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("employee sees only own records", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, employeeSession())
		svc.EXPECT().GetAll(gomock.Any(), testCompanyID, leave.ListLeavesRequest{EmployeeID: testEmployeeID, Year: 2025}).
			Return([]leave.LeaveResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

		w := doJSON(r, http.MethodGet, "/leaves?year=2025&page=2&page_size=2", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.JSONEq(t, `[{"id":"c","company_id":"","employee_id":"","leave_type":"","start_date":"","end_date":"","total_days":0,"reason":"","status":"","created_by":""}]`, string(env.Data))
		assert.Equal(t, float64(3), env.Meta["total"])
	})

	t.Run("employee asking for another employee", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, employeeSession())
		w := doJSON(r, http.MethodGet, "/leaves?employee_id="+uuid.NewString(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("hr filters freely", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, hrSession())
		other := uuid.NewString()
		svc.EXPECT().GetAll(gomock.Any(), testCompanyID, leave.ListLeavesRequest{EmployeeID: other, Status: "accepted"}).
			Return(nil, nil)

		w := doJSON(r, http.MethodGet, "/leaves?employee_id="+other+"&status=accepted", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	t.Run("employee cannot read another employee's leave", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, employeeSession())
		svc.EXPECT().GetByID(gomock.Any(), testCompanyID, "l-9").
			Return(leave.LeaveResponse{ID: "l-9", EmployeeID: uuid.NewString()}, nil)

		w := doJSON(r, http.MethodGet, "/leaves/l-9", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, employeeSession())
		svc.EXPECT().GetByID(gomock.Any(), testCompanyID, "l-1").
			Return(leave.LeaveResponse{ID: "l-1", EmployeeID: testEmployeeID}, nil)

		w := doJSON(r, http.MethodGet, "/leaves/l-1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	sess := hrSession()

	t.Run("approve without body", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, sess)
		svc.EXPECT().Approve(gomock.Any(), testCompanyID, sess.ActorID(), "l-1", "").
			Return(leave.LeaveResponse{ID: "l-1", Status: leave.StatusAccepted}, nil)

		w := doJSON(r, http.MethodPost, "/leaves/l-1/approve", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject with remarks", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, sess)
		svc.EXPECT().Reject(gomock.Any(), testCompanyID, sess.ActorID(), "l-1", "short staffed").
			Return(leave.LeaveResponse{ID: "l-1", Status: leave.StatusRejected}, nil)

		w := doJSON(r, http.MethodPost, "/leaves/l-1/reject", leave.DecideLeaveRequest{Remarks: "short staffed"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, sess)
		svc.EXPECT().Approve(gomock.Any(), gomock.Any(), gomock.Any(), "l-1", gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition)

		w := doJSON(r, http.MethodPost, "/leaves/l-1/approve", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w).Error.Code)
	})
}

func TestLeaveHandler_Usage(t *testing.T) {
	t.Run("own usage", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, employeeSession())
		svc.EXPECT().GetUsage(gomock.Any(), testCompanyID, leave.UsageRequest{EmployeeID: testEmployeeID, Category: "Sick", Year: 2025}).
			Return(leave.Usage{EmployeeID: testEmployeeID, Category: leave.CategorySick, Year: 2025, Credit: 12, Used: 5, Remaining: 7, History: []leave.HistoryEntry{}}, nil)

		w := doJSON(r, http.MethodGet, "/leaves/usage?employee_id="+testEmployeeID+"&category=Sick&year=2025", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":7`)
	})

	t.Run("missing year", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, hrSession())
		w := doJSON(r, http.MethodGet, "/leaves/usage?employee_id="+testEmployeeID+"&category=Sick", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("summary for another employee is forbidden", func(t *testing.T) {
		r, _ := setupLeaveRouter(t, employeeSession())
		w := doJSON(r, http.MethodGet, "/leaves/usage/summary?employee_id="+uuid.NewString()+"&year=2025", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Exports(t *testing.T) {
	t.Run("csv attachment", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, hrSession())
		svc.EXPECT().ExportCSV(gomock.Any(), testCompanyID, leave.ListLeavesRequest{Year: 2025}).
			Return([]byte("ID\n"), nil)

		w := doJSON(r, http.MethodGet, "/leaves/export.csv?year=2025", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="leaves-2025.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	})

	t.Run("usage pdf", func(t *testing.T) {
		r, svc := setupLeaveRouter(t, hrSession())
		svc.EXPECT().ExportUsagePDF(gomock.Any(), testCompanyID, gomock.Any()).
			Return([]byte("%PDF-1.4"), nil)

		w := doJSON(r, http.MethodGet, "/leaves/usage/pdf?employee_id="+testEmployeeID+"&category=Sick&year=2025", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	})
}
