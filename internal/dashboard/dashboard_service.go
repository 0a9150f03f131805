package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dashboarderrors "go-hrdash/internal/dashboard/errors"
	"go-hrdash/internal/leave"
	"go-hrdash/internal/recruitment"
	"go-hrdash/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SummaryKeyPrefix = "dashboard:summary:"
	summaryTTL       = 10 * time.Minute
	scanBatch        = 100
)

func GetSummaryKey(companyID string, year int) string {
	return fmt.Sprintf("%s%s:%d", SummaryKeyPrefix, companyID, year)
}

// LeaveSource is the read side of leave.Repository the dashboard needs.
type LeaveSource interface {
	FindAllByCompany(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.Leave, error)
}

// ApplicantSource is the read side of recruitment.Repository the dashboard
// needs.
type ApplicantSource interface {
	FindAllByCompany(ctx context.Context, companyID string, filter recruitment.ListApplicantsRequest) ([]recruitment.Applicant, error)
}

type Service interface {
	GetSummary(ctx context.Context, companyID string, year int) (Summary, error)
	InvalidateCompany(ctx context.Context, companyID string) error
}

type service struct {
	repo       Repository
	leaves     LeaveSource
	applicants ApplicantSource
	policy     leave.Policy
	rdb        *redis.Client
	sf         *singleflight.Group
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	repo Repository,
	leaves LeaveSource,
	applicants ApplicantSource,
	policy leave.Policy,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:       repo,
		leaves:     leaves,
		applicants: applicants,
		policy:     policy,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		now:        time.Now,
		logger:     l,
	}
}

// GetSummary serves the chart data for a company and year, from Redis when
// cached. A zero year means the current year.
func (s *service) GetSummary(ctx context.Context, companyID string, year int) (Summary, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return Summary{}, dashboarderrors.ErrInvalidCompanyID
	}
	if year == 0 {
		year = s.now().Year()
	}
	cacheKey := GetSummaryKey(companyID, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var summary Summary
			if json.Unmarshal(cached, &summary) == nil {
				return summary, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	v, err, shared := s.sf.Do(cacheKey, func() (interface{}, error) {
		summary, err := s.build(ctx, companyID, year)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if body, err := json.Marshal(summary); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, body, summaryTTL).Err(); err != nil {
					s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return Summary{}, err
	}
	if shared {
		s.logger.Debug("dashboard summary shared", zap.String("key", cacheKey))
	}

	return v.(Summary), nil
}

func (s *service) build(ctx context.Context, companyID string, year int) (Summary, error) {
	departments, err := s.repo.HeadcountByDepartment(ctx, companyID)
	if err != nil {
		s.logger.Error("dashboard headcount query failed", zap.String("company_id", companyID), zap.Error(err))
		return Summary{}, unavailable(err)
	}

	leaves, err := s.leaves.FindAllByCompany(ctx, companyID, leave.ListFilter{Year: year})
	if err != nil {
		s.logger.Error("dashboard leave query failed", zap.String("company_id", companyID), zap.Error(err))
		return Summary{}, unavailable(err)
	}

	applicants, err := s.applicants.FindAllByCompany(ctx, companyID, recruitment.ListApplicantsRequest{Year: year})
	if err != nil {
		s.logger.Error("dashboard applicant query failed", zap.String("company_id", companyID), zap.Error(err))
		return Summary{}, unavailable(err)
	}

	summary := BuildSummary(SummaryInput{
		Year:        year,
		Departments: departments,
		Leaves:      leave.ToRecords(leaves),
		Applicants:  applicants,
	}, s.policy)
	summary.GeneratedAt = s.now().UTC()

	s.logger.Info("dashboard summary built",
		zap.String("company_id", companyID),
		zap.Int("year", year),
		zap.Int("headcount", summary.Headcount),
		zap.Int("leaves", len(leaves)),
		zap.Int("applicants", len(applicants)),
	)
	return summary, nil
}

// InvalidateCompany drops every cached summary year of the company.
func (s *service) InvalidateCompany(ctx context.Context, companyID string) error {
	if s.rdb == nil {
		return nil
	}
	pattern := SummaryKeyPrefix + companyID + ":*"

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func unavailable(err error) error {
	return apperror.Unavailable(err, "Dashboard summary is temporarily unavailable")
}
