package rbac

import (
	"go-hrdash/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, authz middleware.Authorizer) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/permissions", middleware.RBACAuthorize(authz, ResourceRBAC, ActionManage), handler.ListPermissions)
		group.POST("/permissions", middleware.RBACAuthorize(authz, ResourceRBAC, ActionManage), handler.Grant)
		group.DELETE("/permissions", middleware.RBACAuthorize(authz, ResourceRBAC, ActionManage), handler.Revoke)
	}
}
