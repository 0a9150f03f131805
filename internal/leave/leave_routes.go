package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(auth)
	{
		leaves.GET("", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionRead), handler.GetAll)
		leaves.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionCreate),
			idempotency,
			handler.Create,
		)

		leaves.GET("/usage", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionRead), handler.Usage)
		leaves.GET("/usage/summary", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionRead), handler.UsageSummary)
		leaves.GET("/usage/pdf", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionRead), handler.ExportUsagePDF)
		leaves.GET("/export.csv", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionExport), handler.ExportCSV)

		leaves.GET("/:id", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionRead), handler.GetByID)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionApprove), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(authz, rbac.ResourceLeave, rbac.ActionApprove), handler.Reject)
	}
}
