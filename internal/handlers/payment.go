package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/middleware"
	"github.com/example/rewardscan/internal/models"
)

// PaymentHandler manages payout destination endpoints.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// ListPaymentMethods returns the authenticated user's payment options.
func (h *PaymentHandler) ListPaymentMethods(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var options []models.PaymentOption
	if err := h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&options).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": options})
}

type createPaymentRequest struct {
	Type        string `json:"type"`
	UPIID       string `json:"upi_id"`
	BankAccount string `json:"bank_account"`
	IFSCCode    string `json:"ifsc_code"`
	HolderName  string `json:"holder_name"`
}

// validatePaymentOption enforces the per-type required fields and returns a
// message naming the first missing one, or "" when the request is valid.
func validatePaymentOption(req createPaymentRequest) string {
	switch req.Type {
	case models.PaymentTypeUPI:
		if req.UPIID == "" {
			return "upi_id is required for upi payment method"
		}
	case models.PaymentTypeBank:
		if req.BankAccount == "" {
			return "bank_account is required for bank payment method"
		}
		if req.IFSCCode == "" {
			return "ifsc_code is required for bank payment method"
		}
		if req.HolderName == "" {
			return "holder_name is required for bank payment method"
		}
	default:
		return "type must be upi or bank"
	}
	return ""
}

// CreatePaymentMethod adds a payout destination for the user.
func (h *PaymentHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if msg := validatePaymentOption(req); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	option := models.PaymentOption{
		UserID:      userID,
		Type:        req.Type,
		UPIID:       req.UPIID,
		BankAccount: req.BankAccount,
		IFSCCode:    req.IFSCCode,
		HolderName:  req.HolderName,
	}

	if err := h.db.Create(&option).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": option})
}

// DeletePaymentMethod removes a payout destination owned by the user.
func (h *PaymentHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	optionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var refs int64
	if err := h.db.Model(&models.RedemptionRequest{}).
		Where("payment_option_id = ?", optionID).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fiber.NewError(fiber.StatusConflict, "payment method is referenced by redemption requests")
	}

	result := h.db.Where("id = ? AND user_id = ?", optionID, userID).Delete(&models.PaymentOption{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "payment method not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "payment method deleted"})
}
