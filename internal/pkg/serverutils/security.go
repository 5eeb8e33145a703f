package serverutils

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	APIKeyHeader = "X-API-Key"

	msgInvalidAPIKey      = "Invalid API Key"
	msgInvalidCredentials = "Could not validate credentials"
)

// APIKeyMiddleware requires the X-API-Key header to equal key.
func APIKeyMiddleware(key string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		got := ctx.Get(APIKeyHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return NewAppError(http.StatusUnauthorized, msgInvalidAPIKey)
		}
		return ctx.Next()
	}
}

// JWTMiddleware requires a bearer token signed with secret and stores its
// subject in Locals("subject").
func JWTMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			return NewAppError(http.StatusUnauthorized, msgInvalidCredentials)
		}

		subject, err := VerifyToken(tokenStr, secret)
		if err != nil {
			return &AppError{Code: http.StatusUnauthorized, Message: msgInvalidCredentials, Err: err}
		}

		ctx.Locals("subject", subject)
		return ctx.Next()
	}
}

// CreateAccessToken mints an HS256 token for subject. A zero ttl means 15
// minutes.
func CreateAccessToken(subject, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret key is required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken validates tokenStr and returns its subject.
func VerifyToken(tokenStr, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
