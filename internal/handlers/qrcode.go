package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/services"
	"github.com/example/rewardscan/internal/utils"
)

// QRCodeHandler manages reward-code issuance and inspection.
type QRCodeHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	engine services.RewardEngine
}

// NewQRCodeHandler constructs QRCodeHandler.
func NewQRCodeHandler(db *gorm.DB, cfg *config.Config, engine services.RewardEngine) *QRCodeHandler {
	return &QRCodeHandler{db: db, cfg: cfg, engine: engine}
}

type generateCodesRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GenerateCodes issues a batch of codes for a product and returns the
// plaintext tokens for printing. Tokens are not retrievable again.
func (h *QRCodeHandler) GenerateCodes(c *fiber.Ctx) error {
	var req generateCodesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	issued, err := h.engine.IssueCodes(c.Context(), productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity),
			errors.Is(err, services.ErrProductInactive):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProductNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    issued,
	})
}

// ListCodes returns codes for the admin console, filterable by product and
// status. Tokens are never included.
func (h *QRCodeHandler) ListCodes(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.RewardCode{})

	if product := c.Query("product"); product != "" {
		productID, err := uuid.Parse(product)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product filter")
		}
		query = query.Where("product_id = ?", productID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var codes []models.RewardCode
	if err := query.Preload("Product").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&codes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    codes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CodeStatus is a public probe reporting whether a code is still claimable.
func (h *QRCodeHandler) CodeStatus(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return fiber.NewError(fiber.StatusNotFound, "QR code not found")
	}

	var code models.RewardCode
	hash := utils.CodeLookupHash(h.cfg.CodeHashKey, token)
	if err := h.db.First(&code, "lookup_hash = ?", hash).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "QR code not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": code.Status})
}
