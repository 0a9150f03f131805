package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrdash/internal/auth"
	autherrors "go-hrdash/internal/auth/errors"
	authMock "go-hrdash/internal/auth/mock"
	"go-hrdash/internal/employee"
	employeeMock "go-hrdash/internal/employee/mock"
	"go-hrdash/internal/middleware"
	"go-hrdash/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "unit-test-secret"

type fakePolicyLoader struct {
	loaded []string
	err    error
}

func (f *fakePolicyLoader) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	f.loaded = append(f.loaded, companyID)
	return f.err
}

type authDeps struct {
	service   auth.Service
	repo      *authMock.MockRepository
	employees *employeeMock.MockRepository
	policies  *fakePolicyLoader
}

func setupAuthService(t *testing.T) *authDeps {
	ctrl := gomock.NewController(t)
	repo := authMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)
	policies := &fakePolicyLoader{}
	return &authDeps{
		service:   auth.NewService(repo, policies, employees, auth.NewTokenIssuer(testSecret)),
		repo:      repo,
		employees: employees,
		policies:  policies,
	}
}

func newUser(t *testing.T, password, role string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	employeeID := uuid.New()
	return &auth.User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: &employeeID,
		Name:       "Lea Manager",
		Email:      "lea@example.com",
		Password:   string(hashed),
		Role:       role,
		IsActive:   true,
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues tokens the middleware accepts", func(t *testing.T) {
		deps := setupAuthService(t)
		user := newUser(t, "s3cret-pass", contextutil.RoleManager)
		deps.repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		pair, resp, err := deps.service.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, "/manager/leaves", resp.HomePath)
		assert.Equal(t, []string{user.CompanyID.String()}, deps.policies.loaded)

		sess, err := middleware.ParseSession(pair.AccessToken, testSecret)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), sess.UserID)
		assert.Equal(t, user.EmployeeID.String(), sess.EmployeeID)
		assert.Equal(t, contextutil.RoleManager, sess.Role)

		_, err = middleware.ParseSession(pair.RefreshToken, testSecret)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupAuthService(t)
		user := newUser(t, "s3cret-pass", contextutil.RoleEmployee)
		deps.repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		_, _, err := deps.service.Login(ctx, user.Email, "nope")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
		assert.Empty(t, deps.policies.loaded)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.repo.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := deps.service.Login(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		deps := setupAuthService(t)
		user := newUser(t, "s3cret-pass", contextutil.RoleEmployee)
		user.IsActive = false
		deps.repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		_, _, err := deps.service.Login(ctx, user.Email, "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrInactiveUser)
	})

	t.Run("policy load failure", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.policies.err = errors.New("db down")
		user := newUser(t, "s3cret-pass", contextutil.RoleHR)
		deps.repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		_, _, err := deps.service.Login(ctx, user.Email, "s3cret-pass")
		assert.EqualError(t, err, "db down")
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates tokens", func(t *testing.T) {
		deps := setupAuthService(t)
		user := newUser(t, "pw-123456", contextutil.RoleHR)
		pair, err := auth.NewTokenIssuer(testSecret).Issue(user)
		assert.NoError(t, err)

		deps.repo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)

		next, resp, err := deps.service.RefreshToken(ctx, pair.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, next.AccessToken)
		assert.Equal(t, "/admin/dashboard", resp.HomePath)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		deps := setupAuthService(t)
		pair, _ := auth.NewTokenIssuer(testSecret).Issue(newUser(t, "pw-123456", contextutil.RoleHR))

		_, _, err := deps.service.RefreshToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		deps := setupAuthService(t)
		pair, _ := auth.NewTokenIssuer("other").Issue(newUser(t, "pw-123456", contextutil.RoleHR))

		_, _, err := deps.service.RefreshToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		deps := setupAuthService(t)
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uuid.NewString(),
			"typ":     auth.TokenTypeRefresh,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		}).SignedString([]byte(testSecret))

		_, _, err := deps.service.RefreshToken(ctx, token)
		assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
	})

	t.Run("deleted user", func(t *testing.T) {
		deps := setupAuthService(t)
		user := newUser(t, "pw-123456", contextutil.RoleHR)
		pair, _ := auth.NewTokenIssuer(testSecret).Issue(user)
		deps.repo.EXPECT().GetByID(ctx, user.ID).Return(nil, gorm.ErrRecordNotFound)

		_, _, err := deps.service.RefreshToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()
	deps := setupAuthService(t)
	user := newUser(t, "pw-123456", contextutil.RoleEmployee)
	deps.repo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)

	resp, err := deps.service.GetMe(ctx, user.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "/employee/leaves", resp.HomePath)

	_, err = deps.service.GetMe(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.New()

	req := auth.RegisterRequest{
		EmployeeID: employeeID.String(),
		Email:      "New.Hire@Example.com",
		Password:   "correct horse",
	}

	t.Run("success defaults to employee role", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).
			Return(&employee.Employee{ID: employeeID, FullName: "New Hire"}, nil)
		deps.repo.EXPECT().ExistsByEmployeeID(ctx, employeeID).Return(false, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *auth.User) error {
				assert.Equal(t, "new.hire@example.com", u.Email)
				assert.Equal(t, "New Hire", u.Name)
				assert.Equal(t, contextutil.RoleEmployee, u.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct horse")))
				return nil
			})

		resp, err := deps.service.Register(ctx, companyID, req)
		assert.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
	})

	t.Run("unknown role", func(t *testing.T) {
		deps := setupAuthService(t)
		bad := req
		bad.Role = "owner"

		_, err := deps.service.Register(ctx, companyID, bad)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})

	t.Run("employee of another company", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Register(ctx, companyID, req)
		assert.ErrorIs(t, err, autherrors.ErrEmployeeNotInCompany)
	})

	t.Run("employee already linked", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).
			Return(&employee.Employee{ID: employeeID}, nil)
		deps.repo.EXPECT().ExistsByEmployeeID(ctx, employeeID).Return(true, nil)

		_, err := deps.service.Register(ctx, companyID, req)
		assert.ErrorIs(t, err, autherrors.ErrEmployeeAlreadyLinked)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupAuthService(t)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).
			Return(&employee.Employee{ID: employeeID}, nil)
		deps.repo.EXPECT().ExistsByEmployeeID(ctx, employeeID).Return(false, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"})

		_, err := deps.service.Register(ctx, companyID, req)
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})
}

func TestHomePathForRole(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", auth.HomePathForRole(contextutil.RoleAdmin))
	assert.Equal(t, "/admin/dashboard", auth.HomePathForRole(contextutil.RoleHR))
	assert.Equal(t, "/manager/leaves", auth.HomePathForRole(contextutil.RoleManager))
	assert.Equal(t, "/employee/leaves", auth.HomePathForRole(contextutil.RoleEmployee))
	assert.Equal(t, "/employee/leaves", auth.HomePathForRole(""))
}
