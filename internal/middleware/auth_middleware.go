package middleware

import (
	"errors"
	"fmt"
	"strings"

	autherrors "go-hrdash/internal/auth/errors"
	"go-hrdash/internal/shared/apperror"
	"go-hrdash/internal/shared/contextutil"
	"go-hrdash/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware validates the access token from the Authorization header
// (or the access_token cookie) and stores the caller's Session in the
// request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		sess, err := ParseSession(tokenString, secret)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set("user_id", sess.UserID)
		c.Set("employee_id", sess.EmployeeID)
		c.Set("company_id", sess.CompanyID)
		c.Set("role", sess.Role)

		ctx := contextutil.WithSession(c.Request.Context(), sess)
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(
			zap.String("user_id", sess.UserID),
			zap.String("role", sess.Role),
		)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ParseSession verifies an HS256 access token and reads the session claims.
func ParseSession(tokenString, secret string) (contextutil.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return contextutil.Session{}, autherrors.ErrTokenExpired
		}
		return contextutil.Session{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return contextutil.Session{}, autherrors.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
		return contextutil.Session{}, autherrors.ErrInvalidToken
	}

	sess := contextutil.Session{}
	sess.UserID, _ = claims["user_id"].(string)
	sess.CompanyID, _ = claims["company_id"].(string)
	sess.EmployeeID, _ = claims["employee_id"].(string)
	sess.Role, _ = claims["role"].(string)
	if sess.UserID == "" || sess.CompanyID == "" || sess.Role == "" {
		return contextutil.Session{}, autherrors.ErrInvalidToken
	}
	return sess, nil
}

// RoleMiddleware admits only sessions holding one of the given roles.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := contextutil.GetSession(c.Request.Context())
		if !ok || !sess.HasRole(allowedRoles...) {
			abortWith(c, autherrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
