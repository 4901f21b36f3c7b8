package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/commands"
	"lunch/backend/internal/repository/postgres/attendance"
	"lunch/backend/internal/repository/postgres/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rules := attendance.Rules{
		Location:      time.UTC,
		CutoffHour:    9,
		CutoffMinute:  30,
		DefaultStatus: "home",
	}
	r := NewRouter(web.NewApp(), nil, nil, ":0", auth.New("test-key"), "test-key", rules, time.Minute)
	r.setup()
	return r
}

func TestSetupRegistersRoutes(t *testing.T) {
	r := testRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/sign-in",
		"POST /api/v1/refresh-token",
		"POST /api/v1/register",
		"POST /api/v1/admin/users",
		"POST /api/v1/attendance",
		"GET /api/v1/attendance/today",
		"GET /api/v1/attendance/:user_id",
		"GET /api/v1/chef/daily-count",
		"GET /api/v1/chef/daily-count/pdf",
		"GET /api/v1/admin/reports",
		"GET /api/v1/admin/reports/export",
		"GET /api/v1/admin/reports/trend",
		"GET /api/v1/admin/users",
		"DELETE /api/v1/admin/users/:id",
		"GET /api/v1/admin/notifications",
	}
	for _, route := range expected {
		require.True(t, registered[route], route)
	}
}

// Creating chef/admin accounts goes through the guarded admin route, so the
// repository's claims check has an API path that actually carries claims.
func TestAdminUserCreateCarriesClaims(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	access, _, err := commands.GenToken(user.AuthClaims{ID: 1, Role: auth.RoleAdmin}, "test-key")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", strings.NewReader(`{"email":"new.chef@lunch.local"}`))
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Past the auth guard; the incomplete body fails binding, not claims.
	require.Equal(t, http.StatusBadRequest, w.Code)

	// An employee token must not reach the handler at all.
	access, _, err = commands.GenToken(user.AuthClaims{ID: 2, Role: auth.RoleEmployee}, "test-key")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", strings.NewReader(`{"email":"new.chef@lunch.local"}`))
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
