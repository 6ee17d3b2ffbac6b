package token

import (
	"fmt"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// IdentityKey is the claim the auth provider uses for the user id. "sub" is
// accepted as a fallback.
const IdentityKey = "uid"

var (
	ErrInvalidToken            = fmt.Errorf("invalid token")
	ErrUnexpectedSigningMethod = fmt.Errorf("unexpected signing method")
	ErrUserIDNotFound          = fmt.Errorf("user id claim not found")
)

// Sign issues an HS256 access token. The dashboard receives its tokens from the
// auth provider; this is used by the seed tooling and by tests.
func Sign(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtv5.MapClaims{
		IdentityKey: strconv.FormatInt(userID, 10),
		"sub":       strconv.FormatInt(userID, 10),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates an HS256 token and returns its user id.
func Parse(secret []byte, tokenString string) (int64, error) {
	tok, err := jwtv5.Parse(tokenString, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !tok.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	return UserIDFromClaims(claims)
}

// UserIDFromClaims reads uid, then sub. Both string and numeric encodings occur.
func UserIDFromClaims(claims map[string]interface{}) (int64, error) {
	for _, key := range []string{IdentityKey, "sub"} {
		switch v := claims[key].(type) {
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				return id, nil
			}
		case float64:
			if v > 0 {
				return int64(v), nil
			}
		}
	}
	return 0, ErrUserIDNotFound
}
