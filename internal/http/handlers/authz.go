package handlers

import (
	applog "simplestore/internal/log"
	"simplestore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser gates a route to signed-in visitors; everyone else gets a
// notice and the sign-in page.
func RequireUser(auth *services.AuthService, flash *FlashStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			flash.Put(c, "info", "You're not signed in for that action. Attempt signing in.")
			return c.Redirect("/signin")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			applog.Security(c, "access.denied", map[string]any{"sid": sid})
			flash.Put(c, "info", "You're not signed in for that action. Attempt signing in.")
			return c.Redirect("/signin")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAnonymous is the inverse gate for signup/signin pages.
func RequireAnonymous(auth *services.AuthService, flash *FlashStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Next()
		}
		if u, err := auth.CurrentUser(sid); err == nil && u != nil {
			flash.Put(c, "info", "That action is not available while you're signed in.")
			return c.Redirect("/")
		}
		return c.Next()
	}
}
