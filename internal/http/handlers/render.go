package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pending one-shot notice, consumed here so it shows exactly once
	if f, ok := c.Locals("flashes").(*FlashStore); ok {
		if kind, msg := f.Take(c); msg != "" {
			data["Flash"] = msg
			data["FlashKind"] = kind
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	if tok, ok := c.Locals("CSRFToken").(string); ok && tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}
