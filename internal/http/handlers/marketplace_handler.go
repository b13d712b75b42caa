package handlers

import (
	"errors"

	"astranode/internal/domain"
	applog "astranode/internal/log"
	"astranode/internal/services"
	"astranode/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MarketplaceHandler struct {
	Market *services.MarketplaceService
}

func credentials(isDemo bool, message string, signature domain.Signature) services.Credentials {
	mode := domain.AuthSigned
	if isDemo {
		mode = domain.AuthDemo
	}
	return services.Credentials{Mode: mode, Message: message, Signature: string(signature)}
}

// authFail translates gate errors to their HTTP status, or returns false
// for non-auth errors (storage, etc.).
func authFail(c *fiber.Ctx, err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		applog.Security(c, "auth.missing", nil)
		return fiber.StatusUnauthorized, true
	case errors.Is(err, services.ErrBadSignature):
		applog.Security(c, "auth.signature.fail", nil)
		return fiber.StatusForbidden, true
	case errors.Is(err, services.ErrDemoDisabled):
		applog.Security(c, "auth.demo.disabled", nil)
		return fiber.StatusForbidden, true
	}
	return 0, false
}

func (h *MarketplaceHandler) Browse(c *fiber.Ctx) error {
	listings, err := h.Market.Browse()
	if err != nil {
		applog.Error(c, "marketplace.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(listings)
}

func (h *MarketplaceHandler) Sync(c *fiber.Ctx) error {
	var req domain.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	nftID, ok := validate.NftID(req.NftID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "nft_id"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid nft_id"})
	}
	owner, ok := validate.Address(req.Owner)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "owner"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid owner address"})
	}
	req.NftID, req.Owner = nftID, owner
	c.Locals("wallet", owner)

	err := h.Market.Sync(req.Listing(), credentials(req.IsDemo, req.Message, req.Signature))
	if err != nil {
		if status, ok := authFail(c, err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "marketplace.sync.fail", err, map[string]any{"nft_id": nftID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "marketplace.sync", map[string]any{"nft_id": nftID, "demo": req.IsDemo})
	return c.JSON(fiber.Map{"success": true})
}

func (h *MarketplaceHandler) Update(c *fiber.Ctx) error {
	var req domain.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	nftID, ok := validate.NftID(req.NftID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "nft_id"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid nft_id"})
	}
	owner, ok := validate.Address(req.Owner)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "owner"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid owner address"})
	}
	c.Locals("wallet", owner)
	cred := credentials(req.IsDemo, req.Message, req.Signature)

	var (
		matched int64
		err     error
	)
	switch req.Action {
	case "update_price":
		price, ok := validate.Price(req.Price)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "price"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid price"})
		}
		matched, err = h.Market.UpdatePrice(nftID, owner, price, cred)
	case "delist":
		matched, err = h.Market.Delist(nftID, owner, cred)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action"})
	}
	if err != nil {
		if status, ok := authFail(c, err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "marketplace.update.fail", err, map[string]any{"nft_id": nftID, "action": req.Action})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if matched == 0 {
		// Not an error: the reference contract reports success even when
		// the ownership scope matched nothing.
		applog.Security(c, "marketplace.update.scope_miss", map[string]any{"nft_id": nftID, "action": req.Action})
	} else {
		applog.Audit(c, "marketplace."+req.Action, map[string]any{"nft_id": nftID, "demo": req.IsDemo})
	}
	return c.JSON(fiber.Map{"success": true})
}
