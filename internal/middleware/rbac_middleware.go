package middleware

import (
	autherrors "go-hrdash/internal/auth/errors"
	"go-hrdash/internal/shared/apperror"
	"go-hrdash/internal/shared/contextutil"
	"go-hrdash/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorizer decides whether a role may perform action on resource within a
// company.
type Authorizer interface {
	Authorize(role, companyID, resource, action string) (bool, error)
}

func RBACAuthorize(authz Authorizer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess, ok := contextutil.GetSession(ctx)
		if !ok {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		allowed, err := authz.Authorize(sess.Role, sess.CompanyID, resource, action)
		if err != nil {
			contextutil.GetLogger(ctx, zap.L()).Error("rbac authorize failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code,
				autherrors.ErrForbidden.Message, gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
