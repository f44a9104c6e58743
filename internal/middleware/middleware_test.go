package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	"github.com/BruksfildServices01/tutor-marketplace/internal/metrics"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return raw
}

func validClaims(sub uint, role models.Role) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "role": UserRole(c)})
	})
	r.GET("/p", chain...)
	return r
}

func do(r http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newEngine(AuthMiddleware(&config.Config{JWTSecret: secret}))

	w := do(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + sign(t, secret, validClaims(7, models.RoleTeacher)),
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":7,"role":"TEACHER"}`, w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newEngine(AuthMiddleware(&config.Config{JWTSecret: secret}))

	expired := validClaims(7, models.RoleStudent)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	cases := map[string]struct {
		header string
		code   string
	}{
		"missing header":  {"", "missing_authorization_header"},
		"wrong scheme":    {"Basic abc", "invalid_authorization_header"},
		"garbage token":   {"Bearer not-a-jwt", "invalid_token"},
		"wrong secret":    {"Bearer " + sign(t, "other", validClaims(7, models.RoleStudent)), "invalid_token"},
		"expired":         {"Bearer " + sign(t, secret, expired), "invalid_token"},
		"unknown role":    {"Bearer " + sign(t, secret, validClaims(7, "ROOT")), "invalid_token_payload"},
		"missing subject": {"Bearer " + sign(t, secret, jwt.MapClaims{"role": "STUDENT"}), "invalid_token_payload"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			header := map[string]string{}
			if tc.header != "" {
				header["Authorization"] = tc.header
			}
			w := do(r, http.MethodGet, "/p", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	auth := AuthMiddleware(&config.Config{JWTSecret: secret})
	r := newEngine(auth, RequireRoles(models.RoleAdmin))

	w := do(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + sign(t, secret, validClaims(3, models.RoleStudent)),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")

	w = do(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + sign(t, secret, validClaims(1, models.RoleAdmin)),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := do(r, http.MethodGet, "/p", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = do(r, http.MethodGet, "/p", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.OPTIONS("/p", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := do(r, http.MethodOptions, "/p", map[string]string{"Origin": "https://app.example.com"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
}

func TestMetricsMiddlewareRecordsRouteTemplate(t *testing.T) {
	m := metrics.New()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/teachers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/teachers/42", nil)
	do(r, http.MethodGet, "/nowhere", nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/teachers/:id",status="200"} 1`)
	assert.Contains(t, string(body), `path="unmatched",status="404"`)
}
