package recruitment

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hrdash/internal/events"
	"go-hrdash/internal/export"
	"go-hrdash/internal/messaging/kafka"
	recruitmenterrors "go-hrdash/internal/recruitment/errors"
	"go-hrdash/internal/shared/contextutil"
	"go-hrdash/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

var csvHeader = []string{"Reference", "Name", "Email", "Position", "Applied", "Stage", "Decision", "Notes"}

//go:generate mockgen -source=recruitment_service.go -destination=mock/recruitment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateApplicantRequest) (ApplicantResponse, error)
	GetAll(ctx context.Context, companyID string, req ListApplicantsRequest) ([]ApplicantResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ApplicantResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateApplicantRequest) (ApplicantResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	Advance(ctx context.Context, companyID, id string, req AdvanceApplicantRequest) (ApplicantResponse, error)
	Decide(ctx context.Context, companyID, actorID, id string, req DecideApplicantRequest) (ApplicantResponse, error)
	Pipeline(ctx context.Context, companyID string, req ListApplicantsRequest) (PipelineResponse, error)
	ExportCSV(ctx context.Context, companyID string, req ListApplicantsRequest) ([]byte, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("recruitment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("recruitment.service")
	}
	return &service{db: db, repo: repo, counter: counter, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateApplicantRequest) (ApplicantResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create applicant requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("position", req.Position),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidCompanyID
	}
	appliedAt := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AppliedAt != "" {
		if appliedAt, err = time.Parse(dateLayout, req.AppliedAt); err != nil {
			return ApplicantResponse{}, recruitmenterrors.ErrInvalidDateFormat
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create applicant begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ApplicantResponse{}, err
	}
	defer tx.Rollback()

	nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, companyID, counter.ApplicantReference)
	if err != nil {
		s.logger.Error("create applicant generate reference failed", zap.Error(err))
		return ApplicantResponse{}, err
	}

	a := &Applicant{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		ReferenceNo: counter.FormatApplicantReference(nextVal),
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Position:    strings.TrimSpace(req.Position),
		AppliedAt:   appliedAt,
		Notes:       strings.TrimSpace(req.Notes),
	}

	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		s.logger.Error("create applicant persist failed", zap.Error(err))
		return ApplicantResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, a.CompanyID.String(), a.ID.String(), DeriveStage(*a)); err != nil {
		return ApplicantResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create applicant commit failed", zap.String("request_id", rid), zap.Error(err))
		return ApplicantResponse{}, err
	}

	s.logger.Info("create applicant success",
		zap.String("request_id", rid),
		zap.String("applicant_id", a.ID.String()),
		zap.String("reference_no", a.ReferenceNo),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req ListApplicantsRequest) ([]ApplicantResponse, error) {
	s.logger.Debug("get all applicants requested",
		zap.String("company_id", companyID),
		zap.String("stage", req.Stage),
		zap.Int("year", req.Year),
	)

	var stage Stage
	if req.Stage != "" {
		parsed, ok := ParseStage(req.Stage)
		if !ok {
			return nil, recruitmenterrors.ErrInvalidStageFilter
		}
		stage = parsed
	}

	applicants, err := s.repo.FindAllByCompany(ctx, companyID, req)
	if err != nil {
		s.logger.Error("get all applicants failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]ApplicantResponse, 0, len(applicants))
	for _, a := range applicants {
		if stage != "" && DeriveStage(a) != stage {
			continue
		}
		resp = append(resp, mapToResponse(a))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ApplicantResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidApplicantID
	}

	a, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get applicant by id failed", zap.String("applicant_id", id), zap.Error(err))
		return ApplicantResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateApplicantRequest) (ApplicantResponse, error) {
	s.logger.Debug("update applicant requested",
		zap.String("company_id", companyID),
		zap.String("applicant_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidApplicantID
	}
	appliedAt, err := time.Parse(dateLayout, req.AppliedAt)
	if err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update applicant begin tx failed", zap.Error(err))
		return ApplicantResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return ApplicantResponse{}, mapRepositoryError(err)
	}

	a.FullName = strings.TrimSpace(req.FullName)
	a.Email = strings.ToLower(strings.TrimSpace(req.Email))
	a.Phone = strings.TrimSpace(req.Phone)
	a.Position = strings.TrimSpace(req.Position)
	a.AppliedAt = appliedAt
	a.Notes = strings.TrimSpace(req.Notes)

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("update applicant persist failed", zap.Error(err))
		return ApplicantResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update applicant commit failed", zap.Error(err))
		return ApplicantResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	s.logger.Debug("delete applicant requested",
		zap.String("company_id", companyID),
		zap.String("applicant_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return recruitmenterrors.ErrInvalidApplicantID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete applicant begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		s.logger.Warn("delete applicant failed", zap.String("applicant_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, companyID, id, ""); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete applicant commit failed", zap.Error(err))
		return err
	}
	s.logger.Info("delete applicant success", zap.String("applicant_id", id))
	return nil
}

// Advance stamps the target stage. Earlier stages may be skipped but an
// applicant never moves back, and a decided applicant does not move at all.
func (s *service) Advance(ctx context.Context, companyID, id string, req AdvanceApplicantRequest) (ApplicantResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("advance applicant requested",
		zap.String("request_id", rid),
		zap.String("applicant_id", id),
		zap.String("stage", req.Stage),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidApplicantID
	}
	target, ok := ParseStage(req.Stage)
	if !ok || !target.Stampable() {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidStage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("advance applicant begin tx failed", zap.Error(err))
		return ApplicantResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return ApplicantResponse{}, mapRepositoryError(err)
	}
	if a.Decided() {
		return ApplicantResponse{}, recruitmenterrors.ErrApplicantAlreadyDecided
	}
	current := DeriveStage(*a)
	if target.rank() <= current.rank() {
		s.logger.Warn("advance applicant backwards",
			zap.String("applicant_id", id),
			zap.String("from_stage", string(current)),
			zap.String("to_stage", string(target)),
		)
		return ApplicantResponse{}, recruitmenterrors.ErrStageNotForward
	}

	now := time.Now().UTC()
	switch target {
	case StageScreening:
		a.ScreenedAt = &now
	case StageInterview:
		a.InterviewedAt = &now
	case StageOffer:
		a.OfferedAt = &now
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("advance applicant persist failed", zap.Error(err))
		return ApplicantResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, companyID, id, target); err != nil {
		return ApplicantResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("advance applicant commit failed", zap.Error(err))
		return ApplicantResponse{}, err
	}

	s.logger.Info("advance applicant success",
		zap.String("request_id", rid),
		zap.String("applicant_id", id),
		zap.String("stage", string(target)),
	)
	return mapToResponse(*a), nil
}

func (s *service) Decide(ctx context.Context, companyID, actorID, id string, req DecideApplicantRequest) (ApplicantResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide applicant requested",
		zap.String("request_id", rid),
		zap.String("applicant_id", id),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidApplicantID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidActorID
	}
	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != DecisionHire && decision != DecisionReject {
		return ApplicantResponse{}, recruitmenterrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide applicant begin tx failed", zap.Error(err))
		return ApplicantResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return ApplicantResponse{}, mapRepositoryError(err)
	}
	if a.Decided() {
		return ApplicantResponse{}, recruitmenterrors.ErrApplicantAlreadyDecided
	}

	now := time.Now().UTC()
	a.Decision = &decision
	a.DecidedBy = &actorUUID
	a.DecidedAt = &now
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		a.Notes = notes
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("decide applicant persist failed", zap.Error(err))
		return ApplicantResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, companyID, id, DeriveStage(*a)); err != nil {
		return ApplicantResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide applicant commit failed", zap.Error(err))
		return ApplicantResponse{}, err
	}

	s.logger.Info("decide applicant success",
		zap.String("request_id", rid),
		zap.String("applicant_id", id),
		zap.String("decision", decision),
	)
	return mapToResponse(*a), nil
}

func (s *service) Pipeline(ctx context.Context, companyID string, req ListApplicantsRequest) (PipelineResponse, error) {
	req.Stage = ""
	applicants, err := s.repo.FindAllByCompany(ctx, companyID, req)
	if err != nil {
		s.logger.Error("applicant pipeline query failed", zap.Error(err))
		return PipelineResponse{}, mapRepositoryError(err)
	}

	return PipelineResponse{
		Year:   req.Year,
		Total:  len(applicants),
		Stages: CountByStage(applicants),
	}, nil
}

func (s *service) ExportCSV(ctx context.Context, companyID string, req ListApplicantsRequest) ([]byte, error) {
	applicants, err := s.GetAll(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(applicants))
	for _, a := range applicants {
		decision := ""
		if a.Decision != nil {
			decision = *a.Decision
		}
		rows = append(rows, []string{
			a.ReferenceNo, a.FullName, a.Email, a.Position,
			a.AppliedAt, string(a.Stage), decision, a.Notes,
		})
	}

	body, err := export.CSVBytes(csvHeader, rows)
	if err != nil {
		s.logger.Error("applicant csv export failed", zap.Error(err))
		return nil, err
	}
	return body, nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, companyID, applicantID string, stage Stage) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, kafka.AggregateApplicant, applicantID,
		events.ApplicantChangedEventType, events.RecruitmentTopic,
		events.ApplicantChangedEvent{
			EventType:   events.ApplicantChangedEventType,
			RequestID:   rid,
			ApplicantID: applicantID,
			CompanyID:   companyID,
			Stage:       string(stage),
			OccurredAt:  time.Now().UTC(),
		})
	if err != nil {
		s.logger.Error("marshal applicant event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("applicant outbox persist failed",
			zap.String("applicant_id", applicantID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func formatStamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(timestampLayout)
	return &v
}

func mapToResponse(a Applicant) ApplicantResponse {
	return ApplicantResponse{
		ID:            a.ID.String(),
		CompanyID:     a.CompanyID.String(),
		ReferenceNo:   a.ReferenceNo,
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		Position:      a.Position,
		AppliedAt:     a.AppliedAt.Format(dateLayout),
		ScreenedAt:    formatStamp(a.ScreenedAt),
		InterviewedAt: formatStamp(a.InterviewedAt),
		OfferedAt:     formatStamp(a.OfferedAt),
		Decision:      a.Decision,
		DecidedAt:     formatStamp(a.DecidedAt),
		Stage:         DeriveStage(a),
		Notes:         a.Notes,
	}
}
