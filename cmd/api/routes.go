package main

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"subscription-platform/internal/auth"
	"subscription-platform/internal/httpapi"
	"subscription-platform/internal/principal"
	"subscription-platform/pkg/utils"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(
	r *gin.Engine,
	h httpapi.Handlers,
	m *auth.Manager,
	resolver principal.Resolver,
	store auth.RefreshTokenStore,
	db *sql.DB,
) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		// AUTH routes. The login endpoints declare the principal kind;
		// the body never carries a discriminant.
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login/company", h.Login(principal.KindCompany))
			authGroup.POST("/login/client", h.Login(principal.KindClient))

			// Token renewal is guarded by the refresh gate, not the
			// access gate; an expired access token is expected here.
			authGroup.POST("/token", auth.RequireRefreshToken(m, resolver, store), h.Token)
		}

		// Identity echo, any known role.
		v1.GET("/me",
			auth.RequireRoles(m, resolver,
				principal.RoleCompanyAdmin,
				principal.RoleCompanyUser,
				principal.RoleClientUser,
			),
			h.Me,
		)

		// COMPANY routes
		companies := v1.Group("/companies")
		companies.Use(auth.RequireRoles(m, resolver, principal.RoleCompanyUser, principal.RoleCompanyAdmin))
		{
			companies.GET("/products", h.CompanyProducts)
		}

		// CLIENT routes
		clients := v1.Group("/clients")
		clients.Use(auth.RequireRoles(m, resolver, principal.RoleClientUser))
		{
			clients.GET("/subscriptions", h.ClientSubscriptions)
			clients.POST("/subscriptions/:product_id", h.Subscribe)
		}
	}
}
