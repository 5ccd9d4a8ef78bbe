package handlers

import (
	"strings"

	"simplestore/internal/log"
	"simplestore/internal/services"
	"simplestore/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("query")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "query", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}

	products, err := h.Catalog.Search(q)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}

	return render(c, "search", fiber.Map{
		"Q": q, "Products": products, "Count": len(products),
	})
}
