package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-hrdash/internal/events"
	"go-hrdash/internal/export"
	leaveerrors "go-hrdash/internal/leave/errors"
	"go-hrdash/internal/messaging/kafka"
	"go-hrdash/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, req ListLeavesRequest) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error)
	GetUsage(ctx context.Context, companyID string, req UsageRequest) (Usage, error)
	GetUsageSummary(ctx context.Context, companyID string, req UsageSummaryRequest) ([]Usage, error)
	ExportCSV(ctx context.Context, companyID string, req ListLeavesRequest) ([]byte, error)
	ExportUsagePDF(ctx context.Context, companyID string, req UsageRequest) ([]byte, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	policy Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy Policy, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, policy, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, policy: policy, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	in, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, in.startDate, in.endDate)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays, _ := CountDays(in.startDate, in.endDate)
	l := &Leave{
		ID:         uuid.New(),
		CompanyID:  in.companyID,
		EmployeeID: in.employeeID,
		LeaveType:  string(in.category),
		StartDate:  in.startDate,
		EndDate:    in.endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  in.actorID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", totalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req ListLeavesRequest) ([]LeaveResponse, error) {
	filter, err := toListFilter(req)
	if err != nil {
		return nil, err
	}
	leaves, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error) {
	return s.decide(ctx, companyID, actorID, id, StatusAccepted, remarks)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error) {
	if remarks == "" {
		return LeaveResponse{}, leaveerrors.ErrRemarksRequired
	}
	return s.decide(ctx, companyID, actorID, id, StatusRejected, remarks)
}

// decide moves a pending leave to its final status. The transition happens
// at most once; deciding an already decided leave is an invalid state.
func (s *service) decide(ctx context.Context, companyID, actorID, id, target, remarks string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_status", target),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", target),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	l.Status = target
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	if remarks != "" {
		l.Remarks = &remarks
	}

	if err := qtx.UpdateDecision(ctx, l); err != nil {
		if errors.Is(err, leaveerrors.ErrInvalidStatusTransition) {
			s.logger.Warn("decide leave lost race to another decision", zap.String("leave_id", id))
			return LeaveResponse{}, err
		}
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, kafka.AggregateLeave, l.ID.String(),
			events.LeaveDecidedEventType, events.LeaveDecidedTopic,
			events.LeaveDecidedEvent{
				EventType:  events.LeaveDecidedEventType,
				RequestID:  rid,
				LeaveID:    l.ID.String(),
				EmployeeID: l.EmployeeID.String(),
				CompanyID:  companyID,
				LeaveType:  l.LeaveType,
				Status:     l.Status,
				DecidedBy:  actorID,
				Remarks:    remarks,
				OccurredAt: now,
			})
		if err != nil {
			s.logger.Error("marshal leave decided event failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("decide leave outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", target),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetUsage(ctx context.Context, companyID string, req UsageRequest) (Usage, error) {
	category, ok := ParseCategory(req.Category)
	if !ok {
		return Usage{}, leaveerrors.ErrUnknownCategory
	}

	records, err := s.employeeRecords(ctx, companyID, req.EmployeeID)
	if err != nil {
		return Usage{}, err
	}

	usage := ComputeUsage(records, UsageQuery{
		EmployeeID: req.EmployeeID,
		Category:   category,
		Year:       req.Year,
	}, s.policy)
	if len(usage.Skipped) > 0 {
		s.logger.Warn("leave usage skipped records with invalid ranges",
			zap.String("employee_id", req.EmployeeID),
			zap.Strings("record_ids", usage.Skipped),
		)
	}
	return usage, nil
}

func (s *service) GetUsageSummary(ctx context.Context, companyID string, req UsageSummaryRequest) ([]Usage, error) {
	records, err := s.employeeRecords(ctx, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	return ComputeYearSummary(records, req.EmployeeID, req.Year, s.policy), nil
}

func (s *service) employeeRecords(ctx context.Context, companyID, employeeID string) ([]Record, error) {
	leaves, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		s.logger.Error("load employee leaves failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	return ToRecords(leaves), nil
}

var exportHeader = []string{
	"ID", "Employee", "Leave Type", "Start Date", "End Date", "Days", "Status", "Reason", "Remarks",
}

func (s *service) ExportCSV(ctx context.Context, companyID string, req ListLeavesRequest) ([]byte, error) {
	leaves, err := s.GetAll(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(leaves))
	for _, l := range leaves {
		remarks := ""
		if l.Remarks != nil {
			remarks = *l.Remarks
		}
		employee := l.EmployeeName
		if employee == "" {
			employee = l.EmployeeID
		}
		rows = append(rows, []string{
			l.ID, employee, l.LeaveType, l.StartDate, l.EndDate,
			strconv.Itoa(l.TotalDays), l.Status, l.Reason, remarks,
		})
	}
	return export.CSVBytes(exportHeader, rows)
}

func (s *service) ExportUsagePDF(ctx context.Context, companyID string, req UsageRequest) ([]byte, error) {
	usage, err := s.GetUsage(ctx, companyID, req)
	if err != nil {
		return nil, err
	}
	return export.BuildPDF(
		fmt.Sprintf("%s leave usage %d", usage.Category, usage.Year),
		UsageReportLines(usage),
	)
}

// UsageReportLines renders a usage as printable lines.
func UsageReportLines(u Usage) []string {
	lines := []string{
		"Employee: " + u.EmployeeID,
		fmt.Sprintf("Credit: %d day(s)", u.Credit),
		fmt.Sprintf("Used: %d day(s)", u.Used),
		fmt.Sprintf("Remaining: %d day(s)", u.Remaining),
		"",
	}
	if len(u.History) == 0 {
		return append(lines, "No accepted leave in this period.")
	}
	lines = append(lines, "History:")
	for _, h := range u.History {
		lines = append(lines, fmt.Sprintf("  %s  %s  %d day(s)", h.DateRange, h.Type, h.Days))
	}
	return lines
}

type createInput struct {
	companyID  uuid.UUID
	employeeID uuid.UUID
	actorID    uuid.UUID
	category   Category
	startDate  time.Time
	endDate    time.Time
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (createInput, error) {
	var in createInput
	var err error
	if in.companyID, err = uuid.Parse(companyID); err != nil {
		return in, leaveerrors.ErrInvalidCompanyID
	}
	if in.employeeID, err = uuid.Parse(req.EmployeeID); err != nil {
		return in, leaveerrors.ErrInvalidEmployeeID
	}
	if in.actorID, err = uuid.Parse(actorID); err != nil {
		return in, leaveerrors.ErrInvalidActorID
	}

	category, ok := ParseCategory(req.LeaveType)
	if !ok || category == CategoryMaternityPaternity {
		return in, leaveerrors.ErrUnknownLeaveType
	}
	in.category = category

	if in.startDate, err = parseDate(req.StartDate); err != nil {
		return in, err
	}
	if in.endDate, err = parseDate(req.EndDate); err != nil {
		return in, err
	}
	if in.startDate.After(in.endDate) {
		return in, leaveerrors.ErrInvalidDateRange
	}
	return in, nil
}

func toListFilter(req ListLeavesRequest) (ListFilter, error) {
	f := ListFilter{EmployeeID: req.EmployeeID, Year: req.Year}
	if req.Status != "" {
		status, ok := NormalizeStatus(req.Status)
		if !ok {
			return ListFilter{}, leaveerrors.ErrInvalidStatus
		}
		f.Status = status
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		Remarks:    l.Remarks,
		CreatedBy:  l.CreatedBy.String(),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
