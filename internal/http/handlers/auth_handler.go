package handlers

import (
	"errors"
	"fmt"
	"time"

	"simplestore/internal/domain"
	"simplestore/internal/log"
	"simplestore/internal/services"
	"simplestore/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Flash *FlashStore
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		h.Flash.Put(c, "error", "Enter a valid username (letters, digits, . _ -).")
		return c.Redirect("/signup")
	}
	password := c.FormValue("password")
	confirmation := c.FormValue("confirmation")
	if !validate.Password(password) {
		h.Flash.Put(c, "error", "Enter a password.")
		return c.Redirect("/signup")
	}

	_, err := h.Auth.Signup(username, password, confirmation)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		h.Flash.Put(c, "error", fmt.Sprintf("A user with '%s' already exists.", username))
		return c.Redirect("/signup")
	case errors.Is(err, services.ErrPasswordMismatch):
		h.Flash.Put(c, "error", "Password and confirmation do not match.")
		return c.Redirect("/signup")
	case err != nil:
		log.Error(c, "auth.signup.fail", err, map[string]any{"username": username})
		h.Flash.Put(c, "error", "Could not create your account. Please try again.")
		return c.Redirect("/signup")
	}

	log.Audit(c, "auth.signup.success", map[string]any{"username": username})
	h.Flash.Put(c, "success", "User created!")
	return c.Redirect("/signin")
}

func (h *AuthHandler) SigninForm(c *fiber.Ctx) error {
	return render(c, "signin", fiber.Map{})
}

func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		h.Flash.Put(c, "error", "Enter a valid username.")
		return c.Redirect("/signin")
	}
	password := c.FormValue("password")

	u, err := h.Auth.Signin(sid, username, password)
	switch {
	case errors.Is(err, services.ErrNoSuchUser):
		log.Security(c, "auth.signin.fail", map[string]any{"username": username, "reason": "no_such_user"})
		h.Flash.Put(c, "error", fmt.Sprintf("%s does not exist. Please try again.", username))
		return c.Redirect("/signin")
	case errors.Is(err, services.ErrBadPassword):
		log.Security(c, "auth.signin.fail", map[string]any{"username": username, "reason": "bad_password"})
		h.Flash.Put(c, "error", fmt.Sprintf("Invalid password given for %s. Please try again.", username))
		return c.Redirect("/signin")
	case err != nil:
		log.Error(c, "auth.signin.fail", err, map[string]any{"username": username})
		h.Flash.Put(c, "error", "Could not sign you in. Please try again.")
		return c.Redirect("/signin")
	}

	log.Audit(c, "auth.signin.success", map[string]any{"username": u.Username})
	h.Flash.Put(c, "success", fmt.Sprintf("You're now logged in. Welcome %s :)", u.Username))
	return c.Redirect("/")
}

func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" || c.Locals("user") == nil {
		h.Flash.Put(c, "info", "You are not signed in.")
		return c.Redirect("/")
	}
	_ = h.Auth.Signout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.signout", nil)
	h.Flash.Put(c, "success", "You're now signed out.")
	return c.Redirect("/")
}

func (h *AuthHandler) AccountPage(c *fiber.Ctx) error {
	return render(c, "account", fiber.Map{})
}

// DeleteAccount removes the caller's own account; the cascade takes their
// products, cart and sessions with it.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok || id != u.ID {
		log.Security(c, "account.delete.denied", map[string]any{"target": id})
		h.Flash.Put(c, "error", "You're not allowed to delete other users' accounts.")
		return c.Redirect("/signout")
	}

	if err := h.Auth.DeleteAccount(u.ID); err != nil {
		log.Error(c, "account.delete.fail", err, nil)
		h.Flash.Put(c, "error", "Could not delete your account. Try again.")
		return c.Redirect("/account")
	}

	// The cascade dropped the session row; the sid cookie stays and is
	// anonymous again from here on.
	log.Audit(c, "account.delete", map[string]any{"user": u.Username})
	h.Flash.Put(c, "success", "Account deleted.")
	return c.Redirect("/")
}
