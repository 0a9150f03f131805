package dashboard

import (
	"go-hrdash/internal/middleware"
	"go-hrdash/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	authz middleware.Authorizer,
) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(auth)
	{
		dashboard.GET("/summary",
			middleware.RateLimitByUser(2, 6),
			middleware.RBACAuthorize(authz, rbac.ResourceDashboard, rbac.ActionRead),
			handler.Summary,
		)
	}
}
