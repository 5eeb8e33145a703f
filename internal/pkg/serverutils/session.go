package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie issues the opaque chat session id.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// GetOrCreate returns the session id from the request cookie, or mints a
// new one and sets it on the response.
func (s SessionCookie) GetOrCreate(ctx *fiber.Ctx) string {
	if id := ctx.Cookies(s.Name); id != "" {
		return id
	}

	id := uuid.NewString()
	ctx.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    id,
		MaxAge:   int(s.TTL.Seconds()),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}
