package handlers

import (
	"errors"

	"simplestore/internal/domain"
	"simplestore/internal/log"
	"simplestore/internal/repos"
	"simplestore/internal/services"
	"simplestore/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart  *services.CartService
	Flash *FlashStore
}

type cartReq struct {
	ID string `json:"id"`
}

// Amount answers the AJAX counter badge.
func (h *CartHandler) Amount(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	amount, err := h.Cart.Amount(u.ID)
	if err != nil {
		log.Error(c, "cart.amount.fail", err, nil)
		h.Flash.Put(c, "error", "A problem occurred when getting your cart amount.")
		return c.Redirect("/")
	}
	return c.JSON(fiber.Map{"amount": amount})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	var req cartReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return c.JSON(fiber.Map{"result": false})
	}
	id, ok := validate.ID(req.ID)
	if !ok {
		return c.JSON(fiber.Map{"result": false})
	}

	err := h.Cart.Add(u.ID, id)
	var oos *services.OutOfStockError
	switch {
	case errors.As(err, &oos):
		return c.JSON(fiber.Map{"result": false, "message": oos.Error()})
	case err != nil:
		log.Error(c, "cart.add.fail", err, map[string]any{"product": id})
		return c.JSON(fiber.Map{"result": false})
	}
	return c.JSON(fiber.Map{"result": true})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	var req cartReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return c.JSON(fiber.Map{"result": false})
	}
	id, ok := validate.ID(req.ID)
	if !ok {
		return c.JSON(fiber.Map{"result": false})
	}

	if err := h.Cart.Remove(u.ID, id); err != nil {
		if !errors.Is(err, repos.ErrNotInCart) {
			log.Error(c, "cart.remove.fail", err, map[string]any{"product": id})
		}
		return c.JSON(fiber.Map{"result": false})
	}
	return c.JSON(fiber.Map{"result": true})
}

func (h *CartHandler) Exists(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.JSON(fiber.Map{"result": false})
	}
	in, err := h.Cart.Exists(u.ID, id)
	if err != nil {
		log.Error(c, "cart.exists.fail", err, map[string]any{"product": id})
		return c.JSON(fiber.Map{"result": false})
	}
	return c.JSON(fiber.Map{"result": in})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	if err := h.Cart.Clear(u.ID); err != nil {
		log.Error(c, "cart.clear.fail", err, nil)
		h.Flash.Put(c, "error", "Could not clear your cart.")
		return c.Redirect("/cart")
	}
	h.Flash.Put(c, "success", "Cleared your cart.")
	return c.Redirect("/")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	lines, err := h.Cart.Lines(u.ID)
	if err != nil {
		log.Error(c, "cart.view.fail", err, nil)
		h.Flash.Put(c, "error", "Could not load your cart. Please try again.")
		return c.Redirect("/")
	}
	return render(c, "cart", fiber.Map{"Lines": lines})
}
