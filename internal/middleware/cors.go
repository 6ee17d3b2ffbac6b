package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"HealthRocket/config"
)

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	AllowedOrigins []string      // exact origins; empty reflects any origin
	AllowedMethods []string      // methods advertised on preflight
	AllowedHeaders []string      // request headers advertised on preflight
	MaxAge         time.Duration // how long a browser may cache a preflight
}

// DefaultCORSConfig reads the allowlist from CORS_ALLOWED_ORIGINS.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: config.Cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:         24 * time.Hour,
	}
}

// CORSMiddleware uses DefaultCORSConfig.
func CORSMiddleware() app.HandlerFunc {
	return CORSMiddlewareWithConfig(DefaultCORSConfig())
}

// CORSMiddlewareWithConfig answers preflights itself and decorates every other
// response whose Origin passes the allowlist. A preflight from a rejected
// origin gets 403; a plain request from one passes through without CORS
// headers, leaving the browser to block it.
func CORSMiddlewareWithConfig(cfg CORSConfig) app.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	originAllowed := func(origin string) bool {
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}

	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.Request.Header.Get("Origin"))
		preflight := string(c.Method()) == http.MethodOptions

		if origin == "" {
			if preflight {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next(ctx)
			return
		}

		c.Header("Vary", "Origin")
		if !originAllowed(origin) {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next(ctx)
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")

		if preflight {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next(ctx)
	}
}
