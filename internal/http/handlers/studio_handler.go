package handlers

import (
	applog "astranode/internal/log"
	"astranode/internal/services"
	"astranode/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type StudioHandler struct {
	Studio *services.StudioService
}

func (h *StudioHandler) Generate(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	prompt, ok := validate.Prompt(req.Prompt)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prompt is required"})
	}
	res := h.Studio.Generate(prompt)
	applog.Info(c, "studio.generate", map[string]any{"name": res.ExtractedName, "price": res.ExtractedPrice})
	return c.JSON(res)
}

func (h *StudioHandler) Metadata(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		AIPrompt     string `json:"ai_prompt"`
		ModelVersion string `json:"model_version"`
		ImageURL     string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if req.Name == "" || req.AIPrompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and AI Prompt are required"})
	}
	md := h.Studio.BuildMetadata(req.Name, req.Description, req.AIPrompt, req.ModelVersion, req.ImageURL)
	return c.JSON(md)
}
