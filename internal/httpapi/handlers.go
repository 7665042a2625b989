package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"subscription-platform/internal/auth"
	"subscription-platform/internal/catalog"
	"subscription-platform/internal/principal"
	"subscription-platform/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth    *auth.Service
	Catalog *catalog.Service
}

// --- Auth ---

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates against the principal kind the route declares;
// /login/company and /login/client share this handler.
func (h Handlers) Login(kind principal.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Identifier == "" || req.Password == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "identifier and password required"})
			return
		}

		pair, err := h.Auth.Login(c.Request.Context(), kind, req.Identifier, req.Password, c.ClientIP())
		if err != nil {
			if errors.Is(err, auth.ErrLoginInvalid) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonLoginInvalid)})
				return
			}
			logger.FromGin(c).Error("login failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}

// Token exchanges a validated refresh token for a new access token.
// The refresh gate runs before this handler; by the time it executes
// the principal is resolved and the presented token's hash matched the
// stored record.
func (h Handlers) Token(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonRefreshTokenInvalid)})
		return
	}

	token, err := h.Auth.Refresh(c.Request.Context(), p, c.ClientIP())
	if err != nil {
		logger.FromGin(c).Error("token refresh failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// Me echoes the resolved identity; handy for clients and smoke tests.
func (h Handlers) Me(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonTokenInvalid)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":   p.ID,
		"kind": string(p.Kind),
		"role": p.Role,
		"name": p.NaturalID(),
	})
}

// --- Catalog ---

func (h Handlers) CompanyProducts(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonTokenInvalid)})
		return
	}

	products, err := h.Catalog.ProductsByCompany(c.Request.Context(), p.ID)
	if err != nil {
		logger.FromGin(c).Error("product listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h Handlers) ClientSubscriptions(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonTokenInvalid)})
		return
	}

	subs, err := h.Catalog.SubscriptionsByClient(c.Request.Context(), p.ID)
	if err != nil {
		logger.FromGin(c).Error("subscription listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h Handlers) Subscribe(c *gin.Context) {
	p, err := auth.CurrentPrincipal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(auth.ReasonTokenInvalid)})
		return
	}

	productID := c.Param("product_id")
	if productID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "product_id required"})
		return
	}

	switch err := h.Catalog.Subscribe(c.Request.Context(), productID, p.ID); {
	case errors.Is(err, catalog.ErrProductNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"reason": "product_not_found"})
	case errors.Is(err, catalog.ErrAlreadySubscribed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"reason": "already_subscribed"})
	case err != nil:
		logger.FromGin(c).Error("subscribe failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}
