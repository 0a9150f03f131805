package leave_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go-hrdash/internal/events"
	"go-hrdash/internal/export"
	"go-hrdash/internal/leave"
	leaveerrors "go-hrdash/internal/leave/errors"
	"go-hrdash/internal/messaging/kafka"
	kafkamock "go-hrdash/internal/messaging/kafka/mock"
	"go-hrdash/internal/shared/apperror"
	"go-hrdash/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn                 func(tx *sql.Tx) leave.Repository
	createFn                 func(ctx context.Context, l *leave.Leave) error
	findAllByCompanyFn       func(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.Leave, error)
	findByIDAndCompanyFn     func(ctx context.Context, companyID, id string) (*leave.Leave, error)
	findByIDForUpdateFn      func(ctx context.Context, companyID, id string) (*leave.Leave, error)
	findByEmployeeFn         func(ctx context.Context, companyID, employeeID string) ([]leave.Leave, error)
	updateDecisionFn         func(ctx context.Context, l *leave.Leave) error
	employeeBelongsToCompany func(ctx context.Context, companyID, employeeID string) (bool, error)
	hasOverlappingPeriodFn   func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.Leave, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.Leave, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) UpdateDecision(ctx context.Context, l *leave.Leave) error {
	if f.updateDecisionFn != nil {
		return f.updateDecisionFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompany != nil {
		return f.employeeBelongsToCompany(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, startDate, endDate)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *kafkamock.MockOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	ctrl := gomock.NewController(t)
	outbox := kafkamock.NewMockOutboxRepository(ctrl)
	repo := &fakeLeaveRepository{}
	svc := leave.NewServiceWithOutbox(db, repo, outbox, leave.DefaultPolicy())

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	validReq := func() leave.CreateLeaveRequest {
		return leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "sick",
			StartDate:  "2025-02-01",
			EndDate:    "2025-02-05",
			Reason:     "Flu",
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		var created *leave.Leave
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			created = l
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, validReq())
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "Sick", resp.LeaveType)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, actorID, resp.CreatedBy)
		assert.NotNil(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation errors never open a transaction", func(t *testing.T) {
		cases := map[string]struct {
			mutate func(r *leave.CreateLeaveRequest)
			want   error
		}{
			"bad date":        {func(r *leave.CreateLeaveRequest) { r.StartDate = "01/02/2025" }, leaveerrors.ErrInvalidDateFormat},
			"reversed range":  {func(r *leave.CreateLeaveRequest) { r.EndDate = "2025-01-01" }, leaveerrors.ErrInvalidDateRange},
			"unknown type":    {func(r *leave.CreateLeaveRequest) { r.LeaveType = "Sabbatical" }, leaveerrors.ErrUnknownLeaveType},
			"combined type":   {func(r *leave.CreateLeaveRequest) { r.LeaveType = "Maternity/Paternity" }, leaveerrors.ErrUnknownLeaveType},
			"bad employee id": {func(r *leave.CreateLeaveRequest) { r.EmployeeID = "x" }, leaveerrors.ErrInvalidEmployeeID},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				deps := setupLeaveServiceTest(t)
				defer deps.db.Close()

				req := validReq()
				tc.mutate(&req)
				_, err := deps.service.Create(ctx, companyID, actorID, req)
				assert.ErrorIs(t, err, tc.want)
				assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			})
		}
	})

	t.Run("employee of another company", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)
		deps.repo.employeeBelongsToCompany = func(ctx context.Context, cid, eid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, validReq())
		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotInCompany)
	})

	t.Run("overlap", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, cid, eid string, s, e time.Time) (bool, error) {
			assert.Equal(t, "2025-02-01", s.Format("2006-01-02"))
			assert.Equal(t, "2025-02-05", e.Format("2006-01-02"))
			return true, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, validReq())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("persist error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.Create(ctx, companyID, actorID, validReq())
		assert.EqualError(t, err, "insert failed")
	})
}

func pendingLeave(companyID, employeeID string) *leave.Leave {
	return &leave.Leave{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		LeaveType:  "Vacation",
		StartDate:  day("2025-04-14"),
		EndDate:    day("2025-04-18"),
		TotalDays:  5,
		Status:     leave.StatusPending,
		CreatedBy:  uuid.MustParse(employeeID),
	}
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-42")
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("approve writes outbox event in the same tx", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		l := pendingLeave(companyID, employeeID)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leave.Leave, error) {
			return l, nil
		}
		var updated *leave.Leave
		deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.Leave) error {
			updated = l
			return nil
		}

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveDecidedTopic, e.Topic)
				assert.Equal(t, kafka.AggregateLeave, e.AggregateType)
				assert.Equal(t, "req-42", e.RequestID)

				var payload events.LeaveDecidedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, leave.StatusAccepted, payload.Status)
				assert.Equal(t, companyID, payload.CompanyID)
				assert.Equal(t, actorID, payload.DecidedBy)
				return nil
			})

		resp, err := deps.service.Approve(ctx, companyID, actorID, l.ID.String(), "enjoy")
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusAccepted, resp.Status)
		assert.Equal(t, "enjoy", *resp.Remarks)
		assert.Equal(t, actorID, *resp.DecidedBy)
		assert.NotNil(t, resp.DecidedAt)
		assert.Equal(t, leave.StatusAccepted, updated.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject requires remarks", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, companyID, actorID, uuid.NewString(), "")
		assert.ErrorIs(t, err, leaveerrors.ErrRemarksRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		l := pendingLeave(companyID, employeeID)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leave.Leave, error) {
			return l, nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Reject(ctx, companyID, actorID, l.ID.String(), "team offsite")
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, "team offsite", *resp.Remarks)
	})

	t.Run("decided leave cannot transition again", func(t *testing.T) {
		for _, status := range []string{leave.StatusAccepted, leave.StatusRejected} {
			deps := setupLeaveServiceTest(t)
			expectTx(t, deps.sqlMock, false)

			l := pendingLeave(companyID, employeeID)
			l.Status = status
			deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leave.Leave, error) {
				return l, nil
			}
			deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.Leave) error {
				t.Fatal("decided leave must not be updated")
				return nil
			}

			_, err := deps.service.Approve(ctx, companyID, actorID, l.ID.String(), "")
			assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
			deps.db.Close()
		}
	})

	t.Run("concurrent decision wins the guarded update", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		l := pendingLeave(companyID, employeeID)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leave.Leave, error) {
			return l, nil
		}
		deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.Leave) error {
			return leaveerrors.ErrInvalidStatusTransition
		}
		// no outbox expectations: gomock fails the test on any outbox call

		_, err := deps.service.Reject(ctx, companyID, actorID, l.ID.String(), "overlaps audit week")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, companyID, actorID, uuid.NewString(), "")
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		l := pendingLeave(companyID, employeeID)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leave.Leave, error) {
			return l, nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Approve(ctx, companyID, actorID, l.ID.String(), "")
		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid actor", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Approve(ctx, companyID, "nobody", uuid.NewString(), "")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("normalizes status filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, f leave.ListFilter) ([]leave.Leave, error) {
			assert.Equal(t, leave.StatusAccepted, f.Status)
			assert.Equal(t, 2025, f.Year)
			l := pendingLeave(companyID, uuid.NewString())
			l.Employee = &leave.LeaveEmployee{FullName: "Ana Cruz"}
			return []leave.Leave{*l}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID, leave.ListLeavesRequest{Status: "approved", Year: 2025})
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Ana Cruz", resp[0].EmployeeName)
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, companyID, leave.ListLeavesRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatus)
	})
}

func storedLeaves(companyID, employeeID string) []leave.Leave {
	accepted := pendingLeave(companyID, employeeID)
	accepted.LeaveType = "Sick"
	accepted.StartDate = day("2025-02-01")
	accepted.EndDate = day("2025-02-05")
	accepted.Status = leave.StatusAccepted

	pending := pendingLeave(companyID, employeeID)
	pending.LeaveType = "Sick"
	pending.StartDate = day("2025-03-03")
	pending.EndDate = day("2025-03-03")

	return []leave.Leave{*accepted, *pending}
}

func TestLeaveService_GetUsage(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findByEmployeeFn = func(ctx context.Context, cid, eid string) ([]leave.Leave, error) {
			assert.Equal(t, employeeID, eid)
			return storedLeaves(companyID, employeeID), nil
		}

		u, err := deps.service.GetUsage(ctx, companyID, leave.UsageRequest{
			EmployeeID: employeeID, Category: "sick", Year: 2025,
		})
		assert.NoError(t, err)
		assert.Equal(t, 5, u.Used)
		assert.Equal(t, 7, u.Remaining)
		assert.Len(t, u.History, 1)
	})

	t.Run("unknown category", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetUsage(ctx, companyID, leave.UsageRequest{
			EmployeeID: employeeID, Category: "sabbatical", Year: 2025,
		})
		assert.ErrorIs(t, err, leaveerrors.ErrUnknownCategory)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findByEmployeeFn = func(ctx context.Context, cid, eid string) ([]leave.Leave, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.GetUsage(ctx, companyID, leave.UsageRequest{
			EmployeeID: employeeID, Category: "sick", Year: 2025,
		})
		assert.Error(t, err)
	})

	t.Run("summary", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findByEmployeeFn = func(ctx context.Context, cid, eid string) ([]leave.Leave, error) {
			return storedLeaves(companyID, employeeID), nil
		}

		summary, err := deps.service.GetUsageSummary(ctx, companyID, leave.UsageSummaryRequest{
			EmployeeID: employeeID, Year: 2025,
		})
		assert.NoError(t, err)
		assert.Len(t, summary, 4)
		assert.Equal(t, leave.CategorySick, summary[0].Category)
		assert.Equal(t, 5, summary[0].Used)
	})
}

func TestLeaveService_Exports(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("csv", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, f leave.ListFilter) ([]leave.Leave, error) {
			return storedLeaves(companyID, employeeID), nil
		}

		body, err := deps.service.ExportCSV(ctx, companyID, leave.ListLeavesRequest{})
		assert.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(bytes.TrimPrefix(body, export.UTF8BOM))), "\n")
		assert.Len(t, lines, 3)
		assert.Equal(t, "ID,Employee,Leave Type,Start Date,End Date,Days,Status,Reason,Remarks", lines[0])
		assert.Contains(t, lines[1], ",Sick,2025-02-01,2025-02-05,5,ACCEPTED,")
	})

	t.Run("usage pdf", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findByEmployeeFn = func(ctx context.Context, cid, eid string) ([]leave.Leave, error) {
			return storedLeaves(companyID, employeeID), nil
		}

		body, err := deps.service.ExportUsagePDF(ctx, companyID, leave.UsageRequest{
			EmployeeID: employeeID, Category: "Sick", Year: 2025,
		})
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "%PDF-1.4"))
		assert.Contains(t, string(body), "(Used: 5 day\\(s\\)) Tj")
	})
}

func TestUsageReportLines(t *testing.T) {
	lines := leave.UsageReportLines(leave.Usage{EmployeeID: "e", Credit: 12, Remaining: 12, History: []leave.HistoryEntry{}})
	assert.Equal(t, "No accepted leave in this period.", lines[len(lines)-1])
}
