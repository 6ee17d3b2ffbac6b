package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
)

func newCORSServer(origins ...string) *server.Hertz {
	h := server.New()
	h.Use(CORSMiddlewareWithConfig(CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         time.Hour,
	}))
	h.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "pong")
	})
	return h
}

func TestCORSReflectsAnyOriginWithoutAllowlist(t *testing.T) {
	h := newCORSServer()

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil,
		ut.Header{Key: "Origin", Value: "https://app.example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	h := newCORSServer("https://app.example.com")

	w := ut.PerformRequest(h.Engine, http.MethodOptions, "/ping", nil,
		ut.Header{Key: "Origin", Value: "https://app.example.com"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := newCORSServer("https://app.example.com")
	evil := ut.Header{Key: "Origin", Value: "https://evil.example.com"}

	w := ut.PerformRequest(h.Engine, http.MethodOptions, "/ping", nil, evil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil, evil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORSIgnoresRequestsWithoutOrigin(t *testing.T) {
	h := newCORSServer("https://app.example.com")

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", string(w.Body.Bytes()))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
