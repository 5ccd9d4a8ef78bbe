package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"simplestore/internal/repos"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// FlashStore moves one-shot notices through the visitor's session row.
type FlashStore struct {
	Users *repos.UserRepo
}

func (f *FlashStore) Put(c *fiber.Ctx, kind, msg string) {
	sid := ensureSID(c)
	_ = f.Users.PutFlash(sid, kind, msg)
}

// Take drains the pending notice, if any. Only render calls this, so a
// notice survives redirects and AJAX polling until a page actually shows it.
func (f *FlashStore) Take(c *fiber.Ctx) (kind, msg string) {
	sid := c.Cookies("sid")
	if sid == "" {
		return "", ""
	}
	kind, msg, err := f.Users.TakeFlash(sid)
	if err != nil {
		return "", ""
	}
	return kind, msg
}

// Middleware makes the store reachable from render via Locals.
func (f *FlashStore) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("flashes", f)
		return c.Next()
	}
}
