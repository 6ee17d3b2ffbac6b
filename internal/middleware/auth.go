package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/response"
	"HealthRocket/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
)

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

// initAuthMiddleware builds the verifier for tokens issued by the auth provider.
// Tokens are never minted here, so there is no Authenticator or login handler.
func initAuthMiddleware(secret string) error {
	if secret == "" {
		return fmt.Errorf("jwt secret is empty")
	}

	mw, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            "HealthRocket API",
		Key:              []byte(secret),
		SigningAlgorithm: "HS256",
		Timeout:          time.Hour,
		IdentityKey:      IdentityKey,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			uid, err := token.UserIDFromClaims(jwt.ExtractClaims(ctx, c))
			if err != nil {
				return nil
			}
			return uid
		},

		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			_, ok := data.(int64)
			return ok
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			response.ErrorWithDetails(ctx, c, errors.Unauthorized, map[string]interface{}{
				"reason": message,
			})
		},

		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
	})
	if err != nil {
		return fmt.Errorf("init jwt middleware: %w", err)
	}

	authMiddleware = mw
	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetUserID returns the authenticated user id set by AuthMiddleware.
func GetUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	userID, exists := c.Get(IdentityKey)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
