package auth

import (
	"go-hrdash/internal/middleware"
	"go-hrdash/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, authz middleware.Authorizer) {
	group := r.Group("/auth")
	{
		group.POST("/login", middleware.RateLimitByIP(0.1, 5), handler.Login)
		group.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		group.POST("/logout", handler.Logout)

		group.GET("/me", auth, middleware.RateLimitByUser(2, 5), handler.Me)
		group.POST("/register",
			auth,
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(authz, rbac.ResourceRBAC, rbac.ActionManage),
			handler.Register,
		)
	}
}
