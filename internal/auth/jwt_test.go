package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.GenerateToken("user-1", "org-1", RoleFacilityManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "org-1", claims.OrgID)
	assert.Equal(t, RoleFacilityManager, claims.Role)
	assert.WithinDuration(t, time.Now().Add(tokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-a")
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-b")
	require.NoError(t, err)

	token, err := issuer.GenerateToken("user-1", "org-1", RoleStaff)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)

	_, err = issuer.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenIssuerMissingSecret(t *testing.T) {
	_, err := NewTokenIssuer("")
	assert.ErrorIs(t, err, errMissingSecret)
}

func TestMiddleware(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := issuer.Middleware(next)

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.GenerateToken("user-1", "org-1", RoleStaff)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, Identity{UserID: "user-1", OrgID: "org-1", Role: RoleStaff}, got)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireModule(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireModule(ModuleBilling)(next)

	t.Run("allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/billing/subscription", nil)
		req = req.WithContext(ContextWithIdentity(req.Context(),
			Identity{UserID: "u", OrgID: "o", Role: RoleOrganizationAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/billing/subscription", nil)
		req = req.WithContext(ContextWithIdentity(req.Context(),
			Identity{UserID: "u", OrgID: "o", Role: RoleStaff}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/billing/subscription", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(RoleWorkspaceAdmin)(next)

	req := httptest.NewRequest(http.MethodPut, "/v1/org", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(),
		Identity{UserID: "u", OrgID: "o", Role: RoleFacilityManager}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/v1/org", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(),
		Identity{UserID: "u", OrgID: "o", Role: RoleOrganizationAdmin}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
