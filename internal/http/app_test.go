package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"simplestore/internal/http/handlers"
	"simplestore/internal/repos"
)

// newApp wires a test app the way cmd/simplestore does, minus csrf and rate
// limits (individual tests add those when they are the subject).
func newApp(t *testing.T) (*fiber.App, *handlers.Deps, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := deps.Auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(deps.Flash.Middleware())

	requireUser := handlers.RequireUser(deps.Auth, deps.Flash)
	requireAnon := handlers.RequireAnonymous(deps.Auth, deps.Flash)

	app.Get("/", deps.Product.Home)
	app.Get("/signup", requireAnon, deps.AuthH.SignupForm)
	app.Post("/signup", requireAnon, deps.AuthH.Signup)
	app.Get("/signin", requireAnon, deps.AuthH.SigninForm)
	app.Post("/signin", requireAnon, deps.AuthH.Signin)
	app.Get("/signout", requireUser, deps.AuthH.Signout)
	app.Get("/products", requireUser, deps.Product.ListMine)
	app.Get("/products/:id", deps.Product.Detail)
	app.Post("/account/:id/delete", requireUser, deps.AuthH.DeleteAccount)
	app.Get("/cart", requireUser, deps.Cart.View)
	app.Get("/cart/amount", requireUser, deps.Cart.Amount)
	app.Post("/cart/add", requireUser, deps.Cart.Add)
	app.Post("/cart/remove", requireUser, deps.Cart.Remove)
	app.Get("/cart/clear", requireUser, deps.Cart.Clear)
	app.Get("/cart/:id/exist", requireUser, deps.Cart.Exists)
	app.Get("/search", requireUser, deps.Search.Search)

	return app, deps, db
}

// signedInSID binds a fresh session for the given seeded user and returns
// the sid to send as a cookie.
func signedInSID(t *testing.T, db *sqlx.DB, username string) string {
	t.Helper()
	var id string
	if err := db.Get(&id, `SELECT id FROM users WHERE username=?`, username); err != nil {
		t.Fatalf("seeded user %s missing: %v", username, err)
	}
	sid := "test-sid-" + username + "-" + time.Now().Format("150405.000")
	if err := repos.NewUserRepo(db).BindSession(sid, id, username); err != nil {
		t.Fatal(err)
	}
	return sid
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}
