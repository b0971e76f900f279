package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(Logging(zap.New(core)))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = serve(router, http.MethodGet, "/test", http.Header{RequestIDHeader: {"req-123"}})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	serve(router, http.MethodGet, "/missing", nil)
	serve(router, http.MethodGet, "/health", nil)

	entries := logs.All()
	if assert.Len(t, entries, 3, "health checks are not logged") {
		assert.Equal(t, "req-123", entries[1].ContextMap()["requestID"])
		assert.Equal(t, zap.WarnLevel, entries[2].Level)
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/login", RateLimit(NewIPRateLimiter(2), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/login", nil).Code)

	w := serve(router, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func newClockedLimiter(perMinute int, start time.Time) (*IPRateLimiter, *time.Time) {
	clock := start
	l := NewIPRateLimiter(perMinute)
	l.now = func() time.Time { return clock }
	l.lastSweep = start
	return l, &clock
}

func TestIPRateLimiterEvictsIdleClients(t *testing.T) {
	l, clock := newClockedLimiter(5, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 1000; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256)))
	}
	assert.Equal(t, 1000, l.Len())

	*clock = clock.Add(30 * time.Second)
	assert.True(t, l.Allow("192.0.2.1"))
	assert.Equal(t, 1001, l.Len())

	*clock = clock.Add(DefaultClientTTL + time.Minute)
	assert.True(t, l.Allow("192.0.2.2"))
	assert.Equal(t, 1, l.Len())
}

func TestIPRateLimiterCleanupOldClients(t *testing.T) {
	l, clock := newClockedLimiter(1, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, l.Allow("192.0.2.1"))
	assert.True(t, l.Allow("192.0.2.2"))
	assert.False(t, l.Allow("192.0.2.2"))

	*clock = clock.Add(45 * time.Second)
	assert.False(t, l.Allow("192.0.2.2"))

	assert.Equal(t, 1, l.CleanupOldClients(30*time.Second))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.CleanupOldClients(30*time.Second))
}

func TestRateLimitDisabled(t *testing.T) {
	assert.Nil(t, NewIPRateLimiter(0))

	router := gin.New()
	router.POST("/login", RateLimit(nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/login", nil).Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	perms := "read:services"
	viewer := &models.User{ID: "u1", Role: &models.Role{Name: "viewer", Permissions: &perms}}
	admin := &models.User{ID: "u2", Role: &models.Role{Name: models.AdminRoleName}}

	newRouter := func(user *models.User) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if user != nil {
				c.Set(userKey, user)
			}
		})
		router.GET("/read", RequirePermission("read:services"), func(c *gin.Context) { c.Status(http.StatusOK) })
		router.POST("/write", RequirePermission("create:services"), func(c *gin.Context) { c.Status(http.StatusCreated) })
		return router
	}

	assert.Equal(t, http.StatusOK, serve(newRouter(viewer), http.MethodGet, "/read", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(viewer), http.MethodPost, "/write", nil).Code)
	assert.Equal(t, http.StatusCreated, serve(newRouter(admin), http.MethodPost, "/write", nil).Code)

	w := serve(newRouter(nil), http.MethodGet, "/read", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
