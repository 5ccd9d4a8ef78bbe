package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"simplestore/internal/config"
	"simplestore/internal/http/handlers"
	applog "simplestore/internal/log"
	"simplestore/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db)

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if signed in (for templates/guards)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := deps.Auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	// Drain pending flash notices into Locals for the next render
	app.Use(deps.Flash.Middleware())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The cart AJAX API posts JSON, not forms
			p := string(c.Request().URI().Path())
			return p == "/cart/add" || p == "/cart/remove"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
	}))

	app.Static("/static", "./web/static")

	// ---------- Routes ----------
	requireUser := handlers.RequireUser(deps.Auth, deps.Flash)
	requireAnon := handlers.RequireAnonymous(deps.Auth, deps.Flash)

	app.Get("/", deps.Product.Home)

	app.Get("/signup", requireAnon, deps.AuthH.SignupForm)
	app.Post("/signup", requireAnon, deps.AuthH.Signup)
	app.Get("/signin", requireAnon, deps.AuthH.SigninForm)
	app.Post("/signin", requireAnon, limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.signin.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("signin", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), deps.AuthH.Signin)
	app.Get("/signout", requireUser, deps.AuthH.Signout)

	app.Get("/products", requireUser, deps.Product.ListMine)
	app.Get("/products/new", requireUser, deps.Product.NewForm)
	app.Post("/products/new", requireUser, deps.Product.Create)
	app.Get("/products/:id", deps.Product.Detail)
	app.Get("/products/:id/put", requireUser, deps.Product.EditForm)
	app.Post("/products/:id/put", requireUser, deps.Product.Update)

	app.Get("/account", requireUser, deps.AuthH.AccountPage)
	app.Post("/account/:id/delete", requireUser, deps.AuthH.DeleteAccount)

	app.Get("/cart", requireUser, deps.Cart.View)
	app.Get("/cart/amount", requireUser, deps.Cart.Amount)
	app.Post("/cart/add", requireUser, deps.Cart.Add)
	app.Post("/cart/remove", requireUser, deps.Cart.Remove)
	app.Get("/cart/clear", requireUser, deps.Cart.Clear)
	app.Get("/cart/:id/exist", requireUser, deps.Cart.Exists)

	app.Get("/search", requireUser, limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.Search.Search)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
