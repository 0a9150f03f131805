package auth

import (
	"context"
	"errors"
	"strings"

	autherrors "go-hrdash/internal/auth/errors"
	"go-hrdash/internal/employee"
	"go-hrdash/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PolicyLoader refreshes the casbin policy of a company so its grants are
// in force before the first authorised request.
type PolicyLoader interface {
	LoadCompanyPolicy(ctx context.Context, companyID string) error
}

// EmployeeFinder resolves the employee a new user account is linked to.
type EmployeeFinder interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error)
}

type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo      Repository
	policies  PolicyLoader
	employees EmployeeFinder
	tokens    *TokenIssuer
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	policies PolicyLoader,
	employees EmployeeFinder,
	tokens *TokenIssuer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, policies: policies, employees: employees, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login user lookup failed", zap.Error(err))
			return TokenPair{}, AuthResponse{}, err
		}
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInactiveUser
	}

	return s.issue(ctx, user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	userIDStr, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
		}
		return TokenPair{}, AuthResponse{}, err
	}
	if !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInactiveUser
	}

	return s.issue(ctx, user)
}

func (s *service) issue(ctx context.Context, user *User) (TokenPair, AuthResponse, error) {
	if s.policies != nil {
		if err := s.policies.LoadCompanyPolicy(ctx, user.CompanyID.String()); err != nil {
			s.logger.Error("load company policy failed",
				zap.String("company_id", user.CompanyID.String()),
				zap.Error(err),
			)
			return TokenPair{}, AuthResponse{}, err
		}
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("sign tokens failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return TokenPair{}, AuthResponse{}, err
	}
	s.logger.Info("tokens issued",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return pair, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	return mapToResponse(u), nil
}

func (s *service) Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = contextutil.RoleEmployee
	}
	if !isKnownRole(role) {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrEmployeeNotInCompany
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrEmployeeNotInCompany
	}

	empl, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrEmployeeNotInCompany
		}
		return AuthResponse{}, err
	}

	linked, err := s.repo.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return AuthResponse{}, err
	}
	if linked {
		return AuthResponse{}, autherrors.ErrEmployeeAlreadyLinked
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = empl.FullName
	}
	user := &User{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: &employeeID,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Name:       name,
		Password:   string(hashed),
		Role:       role,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return AuthResponse{}, autherrors.ErrEmailAlreadyExists
		}
		s.logger.Error("register user persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("role", role),
	)
	return mapToResponse(user), nil
}

func isKnownRole(role string) bool {
	switch role {
	case contextutil.RoleAdmin, contextutil.RoleHR, contextutil.RoleManager, contextutil.RoleEmployee:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		EmployeeID: u.employeeIDString(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		HomePath:   HomePathForRole(u.Role),
	}
}
