package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"subscription-platform/internal/auth"
	"subscription-platform/internal/catalog"
	"subscription-platform/internal/config"
	"subscription-platform/internal/principal"
)

type fixture struct {
	router   *gin.Engine
	manager  *auth.Manager
	resolver *principal.MemoryRepo
	store    *auth.MemoryStore
	catalog  *catalog.MemoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "secret",
		JWTIssuer:       "subscription-platform",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 15 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	resolver := principal.NewMemoryRepo()
	resolver.Add(principal.Principal{
		ID:           "client-id-1",
		Kind:         principal.KindClient,
		Username:     "alice",
		Role:         principal.RoleClientUser,
		PasswordHash: auth.HashPassword("client-pw"),
	})
	resolver.Add(principal.Principal{
		ID:           "company-id-1",
		Kind:         principal.KindCompany,
		BusinessID:   "acme-001",
		Role:         principal.RoleCompanyAdmin,
		PasswordHash: auth.HashPassword("company-pw"),
	})

	store := auth.NewMemoryStore()
	catalogRepo := catalog.NewMemoryRepo()
	catalogRepo.AddProduct(catalog.Product{ID: "prod-1", Name: "gold plan", CompanyID: "company-id-1"})

	h := Handlers{
		Auth:    auth.NewService(m, resolver, store),
		Catalog: catalog.NewService(catalogRepo),
	}

	r := gin.New()
	authGroup := r.Group("/v1/auth")
	{
		authGroup.POST("/login/company", h.Login(principal.KindCompany))
		authGroup.POST("/login/client", h.Login(principal.KindClient))
		authGroup.POST("/token", auth.RequireRefreshToken(m, resolver, store), h.Token)
	}
	r.GET("/v1/me",
		auth.RequireRoles(m, resolver, principal.RoleCompanyAdmin, principal.RoleCompanyUser, principal.RoleClientUser),
		h.Me,
	)
	companies := r.Group("/v1/companies")
	companies.Use(auth.RequireRoles(m, resolver, principal.RoleCompanyUser, principal.RoleCompanyAdmin))
	{
		companies.GET("/products", h.CompanyProducts)
	}
	clients := r.Group("/v1/clients")
	clients.Use(auth.RequireRoles(m, resolver, principal.RoleClientUser))
	{
		clients.GET("/subscriptions", h.ClientSubscriptions)
		clients.POST("/subscriptions/:product_id", h.Subscribe)
	}

	return &fixture{router: r, manager: m, resolver: resolver, store: store, catalog: catalogRepo}
}

func (f *fixture) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (f *fixture) loginClient(t *testing.T) (access, refresh string) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/v1/auth/login/client", `{"identifier":"alice","password":"client-pw"}`, nil)
	if w.Code != 200 {
		t.Fatalf("login: expected 200, got %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["access_token"] == "" || body["refresh_token"] == "" {
		t.Fatalf("expected both tokens, got %v", body)
	}
	return body["access_token"], body["refresh_token"]
}

func TestLoginReturnsDecodableTokens(t *testing.T) {
	f := newFixture(t)
	access, refresh := f.loginClient(t)

	claims, err := f.manager.Verify(access, auth.TokenTypeAccess, time.Now())
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.EntityID != "alice" || claims.Role != principal.RoleClientUser {
		t.Fatalf("access claims: %+v", claims)
	}

	rclaims, err := f.manager.Verify(refresh, auth.TokenTypeRefresh, time.Now())
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if rclaims.EntityID != "client-id-1" || rclaims.EntityKind != principal.KindClient {
		t.Fatalf("refresh claims: %+v", rclaims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/v1/auth/login/client", `{"identifier":"alice","password":"nope"}`, nil)
	if w.Code != 401 || decode(t, w)["reason"] != "login_invalid" {
		t.Fatalf("expected 401 login_invalid, got %d %s", w.Code, w.Body.String())
	}
	if f.store.Len() != 0 {
		t.Fatalf("failed login must not touch the refresh-token store")
	}
}

func TestTokenRenewal(t *testing.T) {
	f := newFixture(t)
	_, refresh := f.loginClient(t)

	w := f.do(t, http.MethodPost, "/v1/auth/token", "", map[string]string{auth.RefreshTokenHeader: refresh})
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	access := decode(t, w)["access_token"]
	claims, err := f.manager.Verify(access, auth.TokenTypeAccess, time.Now())
	if err != nil {
		t.Fatalf("verify renewed token: %v", err)
	}
	if claims.EntityID != "alice" || claims.Role != principal.RoleClientUser {
		t.Fatalf("renewed claims: %+v", claims)
	}
}

func TestTokenRenewalWithExpiredRefreshToken(t *testing.T) {
	f := newFixture(t)

	stale, err := f.manager.IssueRefreshToken(time.Now().Add(-16*24*time.Hour), "client-id-1", principal.KindClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Even the live stored hash doesn't save an expired token.
	if err := f.store.Upsert(context.Background(), "client-id-1", principal.KindClient, auth.HashToken(stale)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	w := f.do(t, http.MethodPost, "/v1/auth/token", "", map[string]string{auth.RefreshTokenHeader: stale})
	if w.Code != 401 || decode(t, w)["reason"] != "token_expired" {
		t.Fatalf("expected 401 token_expired, got %d %s", w.Code, w.Body.String())
	}
}

func TestTokenRenewalWithSupersededRefreshToken(t *testing.T) {
	f := newFixture(t)
	_, first := f.loginClient(t)

	// A second login rotates the stored hash; the first token is dead.
	f.loginClient(t)

	w := f.do(t, http.MethodPost, "/v1/auth/token", "", map[string]string{auth.RefreshTokenHeader: first})
	if w.Code != 401 || decode(t, w)["reason"] != "refresh_token_invalid" {
		t.Fatalf("expected 401 refresh_token_invalid, got %d %s", w.Code, w.Body.String())
	}
}

func TestMeEchoesResolvedIdentity(t *testing.T) {
	f := newFixture(t)
	access, _ := f.loginClient(t)

	w := f.do(t, http.MethodGet, "/v1/me", "", map[string]string{"Authorization": "Bearer " + access})
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["id"] != "client-id-1" || body["kind"] != "client" || body["role"] != principal.RoleClientUser || body["name"] != "alice" {
		t.Fatalf("unexpected identity: %v", body)
	}
}

func TestClientTokenRejectedOnCompanyRoute(t *testing.T) {
	f := newFixture(t)
	access, _ := f.loginClient(t)

	w := f.do(t, http.MethodGet, "/v1/companies/products", "", map[string]string{"Authorization": "Bearer " + access})
	if w.Code != 401 || decode(t, w)["reason"] != "token_invalid" {
		t.Fatalf("expected 401 token_invalid, got %d %s", w.Code, w.Body.String())
	}
}

func TestCompanyProductListing(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/v1/auth/login/company", `{"identifier":"acme-001","password":"company-pw"}`, nil)
	if w.Code != 200 {
		t.Fatalf("company login: %d %s", w.Code, w.Body.String())
	}
	access := decode(t, w)["access_token"]

	w = f.do(t, http.MethodGet, "/v1/companies/products", "", map[string]string{"Authorization": "Bearer " + access})
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	var products []catalog.Product
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "gold plan" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestClientSubscribeFlow(t *testing.T) {
	f := newFixture(t)
	access, _ := f.loginClient(t)
	authz := map[string]string{"Authorization": "Bearer " + access}

	w := f.do(t, http.MethodPost, "/v1/clients/subscriptions/prod-1", "", authz)
	if w.Code != 200 {
		t.Fatalf("subscribe: expected 200, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/v1/clients/subscriptions/prod-1", "", authz)
	if w.Code != 409 {
		t.Fatalf("duplicate subscribe: expected 409, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/v1/clients/subscriptions/ghost", "", authz)
	if w.Code != 404 || decode(t, w)["reason"] != "product_not_found" {
		t.Fatalf("expected 404 product_not_found, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/v1/clients/subscriptions", "", authz)
	if w.Code != 200 {
		t.Fatalf("list: expected 200, got %d %s", w.Code, w.Body.String())
	}
	var subs []catalog.Subscription
	if err := json.Unmarshal(w.Body.Bytes(), &subs); err != nil {
		t.Fatalf("decode subscriptions: %v", err)
	}
	if len(subs) != 1 || subs[0].ProductID != "prod-1" {
		t.Fatalf("unexpected subscriptions: %+v", subs)
	}
}
