package handlers

import (
	"errors"

	"simplestore/internal/domain"
	"simplestore/internal/log"
	"simplestore/internal/services"
	"simplestore/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Flash   *FlashStore
}

// Home shows every product to signed-in visitors and a plain landing page
// to everyone else.
func (h *ProductHandler) Home(c *fiber.Ctx) error {
	if c.Locals("user") == nil {
		return render(c, "landing", fiber.Map{})
	}
	products, err := h.Catalog.AllProducts()
	if err != nil {
		log.Error(c, "home.list.fail", err, nil)
		return render(c, "home", fiber.Map{"Products": nil})
	}
	return render(c, "home", fiber.Map{"Products": products})
}

// ListMine shows the session user's own products.
func (h *ProductHandler) ListMine(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	products, err := h.Catalog.ListMine(u.ID)
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		h.Flash.Put(c, "error", "Could not load your products. Please try again.")
		return c.Redirect("/")
	}
	return render(c, "products", fiber.Map{"Products": products})
}

func (h *ProductHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "product_new", fiber.Map{})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)

	name, nameOK := validate.Name(c.FormValue("name"))
	description := c.FormValue("description")
	price, priceOK := validate.Price(c.FormValue("price"))
	stock, stockOK := validate.Stock(c.FormValue("total_stock"))
	imageLink := c.FormValue("image_link")

	if !nameOK || description == "" || !priceOK || !stockOK || imageLink == "" {
		h.Flash.Put(c, "error", "Missing required fields. Try again.")
		return c.Redirect("/products/new")
	}

	_, err := h.Catalog.Create(u.ID, name, description, price, stock, imageLink)
	switch {
	case errors.Is(err, services.ErrDuplicateName):
		h.Flash.Put(c, "error", "A product with that name already exists.")
		return c.Redirect("/products/new")
	case err != nil:
		log.Error(c, "products.create.fail", err, map[string]any{"name": name})
		h.Flash.Put(c, "error", "Could not add the product. Please try again.")
		return c.Redirect("/products/new")
	}

	log.Audit(c, "products.create", map[string]any{"name": name})
	h.Flash.Put(c, "success", "Added the product!")
	return c.Redirect("/products")
}

// Detail is public: no session needed to view a product.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		h.Flash.Put(c, "info", "Hmm...product does not exist anymore.")
		return c.Redirect("/")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		h.Flash.Put(c, "info", "Hmm...product does not exist anymore.")
		return c.Redirect("/")
	}
	return render(c, "product", fiber.Map{"P": p})
}

func (h *ProductHandler) EditForm(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		h.Flash.Put(c, "info", "Could not find this product.")
		return c.Redirect("/products")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		h.Flash.Put(c, "info", "Could not find this product.")
		return c.Redirect("/products")
	}
	if p.OwnerID != u.ID {
		log.Security(c, "products.edit.denied", map[string]any{"product": id})
		h.Flash.Put(c, "error", "You're not the owner of this product.")
		return c.Redirect("/")
	}
	return render(c, "product_edit", fiber.Map{"P": p})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		h.Flash.Put(c, "info", "Could not find this product in our database.")
		return c.Redirect("/products")
	}

	name, nameOK := validate.Name(c.FormValue("name"))
	description := c.FormValue("description")
	price, priceOK := validate.Price(c.FormValue("price"))
	stock, stockOK := validate.Stock(c.FormValue("total_stock"))
	imageLink := c.FormValue("image_link")
	if !nameOK || description == "" || !priceOK || !stockOK || imageLink == "" {
		h.Flash.Put(c, "error", "Missing required fields. Try again.")
		return c.Redirect("/products/" + id + "/put")
	}

	err := h.Catalog.Update(u.ID, id, name, description, price, stock, imageLink)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		h.Flash.Put(c, "info", "Could not find this product in our database.")
		return c.Redirect("/products/" + id)
	case errors.Is(err, services.ErrNotOwner):
		log.Security(c, "products.update.denied", map[string]any{"product": id})
		h.Flash.Put(c, "error", "You cannot edit a product that does not belong to you.")
		return c.Redirect("/")
	case err != nil:
		log.Error(c, "products.update.fail", err, map[string]any{"product": id})
		h.Flash.Put(c, "error", "Could not update your product. Try again.")
		return c.Redirect("/products/" + id + "/put")
	}

	log.Audit(c, "products.update", map[string]any{"product": id})
	h.Flash.Put(c, "success", "Updated your product!")
	return c.Redirect("/products")
}
