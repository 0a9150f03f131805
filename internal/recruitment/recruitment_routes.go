package recruitment

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
	idempotency gin.HandlerFunc,
) {
	applicants := r.Group("/applicants")
	applicants.Use(auth)
	{
		read := middleware.RBACAuthorize(authz, rbac.ResourceApplicant, rbac.ActionRead)
		manage := middleware.RBACAuthorize(authz, rbac.ResourceApplicant, rbac.ActionManage)

		applicants.GET("", middleware.RateLimitByUser(3, 10), read, handler.GetAll)
		applicants.GET("/pipeline", middleware.RateLimitByUser(3, 10), read, handler.Pipeline)
		applicants.GET("/export.csv",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(authz, rbac.ResourceApplicant, rbac.ActionExport),
			handler.ExportCSV,
		)
		applicants.GET("/:id", middleware.RateLimitByUser(3, 10), read, handler.GetByID)

		applicants.POST("", middleware.RateLimitByUser(0.5, 2), manage, idempotency, handler.Create)
		applicants.PUT("/:id", middleware.RateLimitByUser(0.5, 2), manage, handler.Update)
		applicants.DELETE("/:id", middleware.RateLimitByUser(0.1, 1), manage, handler.Delete)
		applicants.POST("/:id/advance", middleware.RateLimitByUser(1, 3), manage, handler.Advance)
		applicants.POST("/:id/decision", middleware.RateLimitByUser(1, 3), manage, handler.Decide)
	}
}
