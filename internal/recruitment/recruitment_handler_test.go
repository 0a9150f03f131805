package recruitment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrdash/internal/recruitment"
	recruitmenterrors "go-hrdash/internal/recruitment/errors"
	recruitmentMock "go-hrdash/internal/recruitment/mock"
	"go-hrdash/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func withSession(sess contextutil.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(contextutil.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

func setupRecruitmentRouter(t *testing.T, sess contextutil.Session) (*gin.Engine, *recruitmentMock.MockService) {
	gin.SetMode(gin.TestMode)
	svc := recruitmentMock.NewMockService(gomock.NewController(t))
	h := recruitment.NewHandler(svc)

	r := gin.New()
	g := r.Group("/applicants", withSession(sess))
	g.GET("", h.GetAll)
	g.GET("/pipeline", h.Pipeline)
	g.GET("/export.csv", h.ExportCSV)
	g.GET("/:id", h.GetByID)
	g.POST("", h.Create)
	g.POST("/:id/advance", h.Advance)
	g.POST("/:id/decision", h.Decide)
	g.DELETE("/:id", h.Delete)
	return r, svc
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func hrSession() contextutil.Session {
	return contextutil.Session{
		UserID:     uuid.NewString(),
		EmployeeID: uuid.NewString(),
		CompanyID:  uuid.NewString(),
		Role:       contextutil.RoleHR,
	}
}

func TestRecruitmentHandler_Create(t *testing.T) {
	sess := hrSession()

	t.Run("created", func(t *testing.T) {
		r, svc := setupRecruitmentRouter(t, sess)
		svc.EXPECT().
			Create(gomock.Any(), sess.CompanyID, gomock.Any()).
			Return(recruitment.ApplicantResponse{ReferenceNo: "APP-000001", Stage: recruitment.StageApplied}, nil)

		w := serve(r, http.MethodPost, "/applicants",
			`{"full_name":"Lena Ortiz","email":"lena@example.com","position":"Backend Engineer"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got recruitment.ApplicantResponse
		assert.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Equal(t, "APP-000001", got.ReferenceNo)
	})

	t.Run("invalid email is a validation error", func(t *testing.T) {
		r, _ := setupRecruitmentRouter(t, sess)

		w := serve(r, http.MethodPost, "/applicants",
			`{"full_name":"Lena Ortiz","email":"not-an-email","position":"Backend Engineer"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})
}

func TestRecruitmentHandler_GetAll(t *testing.T) {
	sess := hrSession()
	r, svc := setupRecruitmentRouter(t, sess)
	svc.EXPECT().
		GetAll(gomock.Any(), sess.CompanyID, recruitment.ListApplicantsRequest{Stage: "offer"}).
		Return([]recruitment.ApplicantResponse{
			{ReferenceNo: "APP-000001", FullName: "Lena Ortiz"},
			{ReferenceNo: "APP-000002", FullName: "Omar Haddad"},
			{ReferenceNo: "APP-000003", FullName: "Lenny Park"},
		}, nil)

	w := serve(r, http.MethodGet, "/applicants?stage=offer&q=len&page_size=1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var got []recruitment.ApplicantResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "APP-000001", got[0].ReferenceNo)
	assert.EqualValues(t, 2, env.Meta["total"])
}

func TestRecruitmentHandler_Advance(t *testing.T) {
	sess := hrSession()
	id := uuid.NewString()

	t.Run("backwards move is invalid state", func(t *testing.T) {
		r, svc := setupRecruitmentRouter(t, sess)
		svc.EXPECT().
			Advance(gomock.Any(), sess.CompanyID, id, recruitment.AdvanceApplicantRequest{Stage: "screening"}).
			Return(recruitment.ApplicantResponse{}, recruitmenterrors.ErrStageNotForward)

		w := serve(r, http.MethodPost, "/applicants/"+id+"/advance", `{"stage":"screening"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decode(t, w).Error.Code)
	})

	t.Run("missing stage", func(t *testing.T) {
		r, _ := setupRecruitmentRouter(t, sess)

		w := serve(r, http.MethodPost, "/applicants/"+id+"/advance", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecruitmentHandler_Decide(t *testing.T) {
	sess := hrSession()
	id := uuid.NewString()
	r, svc := setupRecruitmentRouter(t, sess)
	svc.EXPECT().
		Decide(gomock.Any(), sess.CompanyID, sess.ActorID(), id, recruitment.DecideApplicantRequest{Decision: "hire"}).
		Return(recruitment.ApplicantResponse{Stage: recruitment.StageHired}, nil)

	w := serve(r, http.MethodPost, "/applicants/"+id+"/decision", `{"decision":"hire"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var got recruitment.ApplicantResponse
	assert.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, recruitment.StageHired, got.Stage)
}

func TestRecruitmentHandler_PipelineAndExport(t *testing.T) {
	sess := hrSession()

	t.Run("pipeline", func(t *testing.T) {
		r, svc := setupRecruitmentRouter(t, sess)
		svc.EXPECT().
			Pipeline(gomock.Any(), sess.CompanyID, recruitment.ListApplicantsRequest{Year: 2025}).
			Return(recruitment.PipelineResponse{Year: 2025, Total: 1, Stages: []recruitment.StageCount{{Stage: recruitment.StageApplied, Count: 1}}}, nil)

		w := serve(r, http.MethodGet, "/applicants/pipeline?year=2025", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var got recruitment.PipelineResponse
		assert.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Equal(t, 1, got.Total)
	})

	t.Run("csv attachment", func(t *testing.T) {
		r, svc := setupRecruitmentRouter(t, sess)
		svc.EXPECT().
			ExportCSV(gomock.Any(), sess.CompanyID, recruitment.ListApplicantsRequest{Year: 2024}).
			Return([]byte("Reference\n"), nil)

		w := serve(r, http.MethodGet, "/applicants/export.csv?year=2024", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="applicants-2024.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	})

	t.Run("delete not found", func(t *testing.T) {
		r, svc := setupRecruitmentRouter(t, sess)
		id := uuid.NewString()
		svc.EXPECT().Delete(gomock.Any(), sess.CompanyID, id).Return(recruitmenterrors.ErrApplicantNotFound)

		w := serve(r, http.MethodDelete, "/applicants/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
