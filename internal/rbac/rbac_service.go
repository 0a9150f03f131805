package rbac

import (
	"context"
	"sync"
	"time"

	rbacerrors "go-hrdash/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// company grants are reloaded from the database after this long.
const policyTTL = 5 * time.Minute

type Service interface {
	Authorize(role, companyID, resource, action string) (bool, error)
	Enforce(ctx context.Context, req EnforceRequest) (bool, error)
	LoadCompanyPolicy(ctx context.Context, companyID string) error
	ListPermissions(ctx context.Context, companyID string) ([]PermissionResponse, error)
	Grant(ctx context.Context, companyID string, req GrantRequest) (PermissionResponse, error)
	Revoke(ctx context.Context, companyID string, req GrantRequest) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	loaded   map[string]time.Time
	now      func() time.Time
	logger   *zap.Logger
}

// NewService seeds the enforcer with the default role hierarchy and
// permissions shared by every company.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	if _, err := enforcer.AddGroupingPolicies(roleInheritance); err != nil {
		return nil, err
	}
	rules := make([][]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		rules = append(rules, []string{p[0], anyDomain, p[1], p[2]})
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, err
	}

	return &service{
		repo:     repo,
		enforcer: enforcer,
		loaded:   make(map[string]time.Time),
		now:      time.Now,
		logger:   l,
	}, nil
}

func (s *service) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCompanyPolicyUnlocked(ctx, companyID)
}

func (s *service) loadCompanyPolicyUnlocked(ctx context.Context, companyID string) error {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredPolicy(1, companyID); err != nil {
		return err
	}

	seen := make(map[[3]string]bool, len(rows))
	rules := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := [3]string{row.Role, row.Resource, row.Action}
		if seen[key] {
			continue
		}
		seen[key] = true
		rules = append(rules, []string{row.Role, companyID, row.Resource, row.Action})
	}
	if len(rules) > 0 {
		if _, err := s.enforcer.AddPolicies(rules); err != nil {
			return err
		}
	}

	s.loaded[companyID] = s.now()
	s.logger.Debug("rbac company policy loaded",
		zap.String("company_id", companyID),
		zap.Int("grants", len(rules)),
	)
	return nil
}

func (s *service) Authorize(role, companyID, resource, action string) (bool, error) {
	return s.Enforce(context.Background(), EnforceRequest{
		Role:      role,
		CompanyID: companyID,
		Resource:  resource,
		Action:    action,
	})
}

func (s *service) Enforce(ctx context.Context, req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at, ok := s.loaded[req.CompanyID]; !ok || s.now().Sub(at) > policyTTL {
		if err := s.loadCompanyPolicyUnlocked(ctx, req.CompanyID); err != nil {
			s.logger.Error("rbac load company policy failed",
				zap.String("company_id", req.CompanyID),
				zap.Error(err),
			)
			return false, err
		}
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", req.Role),
		zap.String("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions(ctx context.Context, companyID string) ([]PermissionResponse, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]PermissionResponse, 0, len(defaultPermissions)+len(rows))
	for _, p := range defaultPermissions {
		out = append(out, PermissionResponse{Role: p[0], Resource: p[1], Action: p[2], BuiltIn: true})
	}
	for _, row := range rows {
		out = append(out, PermissionResponse{Role: row.Role, Resource: row.Resource, Action: row.Action})
	}
	return out, nil
}

func (s *service) Grant(ctx context.Context, companyID string, req GrantRequest) (PermissionResponse, error) {
	if err := validateGrant(req); err != nil {
		return PermissionResponse{}, err
	}
	if isDefaultPermission(req.Role, req.Resource, req.Action) {
		return PermissionResponse{}, rbacerrors.ErrBuiltInPermission
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PermissionResponse{}, err
	}

	if err := s.repo.Create(ctx, &RolePermission{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Role:      req.Role,
		Resource:  req.Resource,
		Action:    req.Action,
	}); err != nil {
		return PermissionResponse{}, err
	}

	if err := s.LoadCompanyPolicy(ctx, companyID); err != nil {
		return PermissionResponse{}, err
	}
	s.logger.Info("rbac permission granted",
		zap.String("company_id", companyID),
		zap.String("role", req.Role),
		zap.String("permission", req.Resource+":"+req.Action),
	)
	return PermissionResponse{Role: req.Role, Resource: req.Resource, Action: req.Action}, nil
}

func (s *service) Revoke(ctx context.Context, companyID string, req GrantRequest) error {
	if err := validateGrant(req); err != nil {
		return err
	}

	n, err := s.repo.Delete(ctx, companyID, req.Role, req.Resource, req.Action)
	if err != nil {
		return err
	}
	if n == 0 {
		return rbacerrors.ErrPermissionNotFound
	}

	if err := s.LoadCompanyPolicy(ctx, companyID); err != nil {
		return err
	}
	s.logger.Info("rbac permission revoked",
		zap.String("company_id", companyID),
		zap.String("role", req.Role),
		zap.String("permission", req.Resource+":"+req.Action),
	)
	return nil
}

func validateGrant(req GrantRequest) error {
	if !isKnownRole(req.Role) {
		return rbacerrors.ErrUnknownRole
	}
	if !isKnownPermission(req.Resource, req.Action) {
		return rbacerrors.ErrUnknownPermission
	}
	return nil
}
