package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	huberror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/domain"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/dto"
	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/listing/service"
)

type ListingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	filter := domain.Filter{
		City:          c.Query("city"),
		MinPriceCents: int64(c.QueryInt("min_price")),
		MaxPriceCents: int64(c.QueryInt("max_price")),
		Bedrooms:      c.QueryInt("bedrooms"),
	}

	properties, err := h.listingService.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	out := make([]dto.PropertyOutput, 0, len(properties))
	for i := range properties {
		out = append(out, toOutput(&properties[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	property, err := h.listingService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	if property == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "property not found"})
	}

	return c.Status(fiber.StatusOK).JSON(toOutput(property))
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var input dto.PropertyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	agentID, _ := c.Locals("user_id").(string)

	property, err := h.listingService.Create(c.Context(), input, agentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(toOutput(property))
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	var input dto.PropertyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	property, err := h.listingService.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	if property == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "property not found"})
	}

	return c.Status(fiber.StatusOK).JSON(toOutput(property))
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	if err := h.listingService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, huberror.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.SendStatus(fiber.StatusOK)
}

func toOutput(p *domain.Property) dto.PropertyOutput {
	return dto.PropertyOutput{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		City:        p.City,
		PriceCents:  p.PriceCents,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaSqm:     p.AreaSqm,
		EnergyClass: p.EnergyClass,
		AgentID:     p.AgentID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
