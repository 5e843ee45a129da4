package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(GetJWTSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newProtectedRouter(roles ...workflow.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var guard gin.HandlerFunc
	if len(roles) == 0 {
		guard = RequireAuth()
	} else {
		guard = RequireRole(roles...)
	}
	router.GET("/protected", guard, func(c *gin.Context) {
		actor := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": actor.Username, "role": string(actor.Role), "department": actor.Department})
	})
	return router
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	validClaims := jwt.MapClaims{
		"sub":        "11111111-1111-1111-1111-111111111111",
		"username":   "bob",
		"role":       string(workflow.RoleManager),
		"department": "operations",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		roles  []workflow.Role
		header string
		want   int
	}{
		{"missing header", []workflow.Role{workflow.RoleManager}, "", http.StatusUnauthorized},
		{"malformed header", []workflow.Role{workflow.RoleManager}, "Token abc", http.StatusUnauthorized},
		{"garbage token", []workflow.Role{workflow.RoleManager}, "Bearer not.a.jwt", http.StatusUnauthorized},
		{"role allowed", []workflow.Role{workflow.RoleManager}, "", http.StatusOK},
		{"role denied", []workflow.Role{workflow.RoleFinance}, "", http.StatusForbidden},
		{"any role with RequireAuth", nil, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newProtectedRouter(tt.roles...)
			header := tt.header
			if header == "" && tt.want != http.StatusUnauthorized {
				header = "Bearer " + signToken(t, validClaims)
			}
			w := request(router, header)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAdminBypassesRoleCheck(t *testing.T) {
	router := newProtectedRouter(workflow.RoleFinance)
	header := "Bearer " + signToken(t, jwt.MapClaims{
		"sub":      "22222222-2222-2222-2222-222222222222",
		"username": "root",
		"role":     string(workflow.RoleAdmin),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	w := request(router, header)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	router := newProtectedRouter()
	header := "Bearer " + signToken(t, jwt.MapClaims{
		"sub":      "33333333-3333-3333-3333-333333333333",
		"username": "bob",
		"role":     string(workflow.RoleManager),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	w := request(router, header)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	router := newProtectedRouter()
	header := "Bearer " + signToken(t, jwt.MapClaims{
		"sub":      "44444444-4444-4444-4444-444444444444",
		"username": "bob",
		"role":     "superuser",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	w := request(router, header)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
