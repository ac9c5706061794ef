package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/middleware"
	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/services"
	"github.com/example/rewardscan/internal/utils"
)

// RewardsHandler exposes the scan, redeem and balance endpoints over the
// reward engine.
type RewardsHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	engine services.RewardEngine
}

// NewRewardsHandler constructs RewardsHandler.
func NewRewardsHandler(db *gorm.DB, cfg *config.Config, engine services.RewardEngine) *RewardsHandler {
	return &RewardsHandler{db: db, cfg: cfg, engine: engine}
}

type scanRequest struct {
	QRCode string `json:"qr_code"`
}

// ScanQR claims a scanned code and credits its points to the user.
func (h *RewardsHandler) ScanQR(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.engine.ClaimCode(c.Context(), userID, req.QRCode)
	if err != nil {
		// A lost claim race and a genuinely unknown code read the same
		// from outside.
		if errors.Is(err, services.ErrCodeNotFound) || errors.Is(err, services.ErrCodeAlreadyUsed) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or already used QR code")
		}
		log.WithError(err).WithField("user_id", userID).Error("claim failed")
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"points_earned": result.PointsEarned,
		"product_name":  result.ProductName,
	})
}

// RedeemPoints accepts a multipart redemption request with an optional proof
// photo and admits it against the user's balance.
func (h *RewardsHandler) RedeemPoints(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	points, err := strconv.Atoi(c.FormValue("points"))
	if err != nil || points <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, services.ErrInvalidAmount.Error())
	}

	paymentMethodID, err := uuid.Parse(c.FormValue("payment_method_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, services.ErrInvalidPaymentMethod.Error())
	}

	proofPath, err := h.saveProof(c)
	if err != nil {
		log.WithError(err).Error("failed to store proof photo")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store proof photo")
	}

	request, err := h.engine.CreateRedemption(c.Context(), userID, services.RedemptionInput{
		Points:          points,
		PaymentOptionID: paymentMethodID,
		ProofPath:       proofPath,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrProofRequired),
			errors.Is(err, services.ErrInvalidPaymentMethod),
			errors.Is(err, services.ErrInsufficientPoints):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		log.WithError(err).WithField("user_id", userID).Error("redemption failed")
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"redemption_id": request.ID,
		"status":        request.Status,
	})
}

func (h *RewardsHandler) saveProof(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		// Missing file is fine here; the engine decides whether proof
		// is mandatory.
		return "", nil
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(h.cfg.UploadDir, name)
	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// RewardSummary returns the earned/committed/available totals.
func (h *RewardsHandler) RewardSummary(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.engine.Summary(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_points":      summary.TotalEarned,
		"redeemable_points": summary.TotalCommitted,
		"available_points":  summary.Available,
	})
}

// RewardHistory lists the user's earn events, newest first.
func (h *RewardsHandler) RewardHistory(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.RewardEntry{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var entries []models.RewardEntry
	if err := query.Preload("Product").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&entries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rewardEntryViews(entries),
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Dashboard returns the balance plus the five most recent earn events.
func (h *RewardsHandler) Dashboard(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.engine.Summary(c.Context(), userID)
	if err != nil {
		return err
	}

	var recent []models.RewardEntry
	if err := h.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at desc").
		Limit(5).
		Find(&recent).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_points":     summary.TotalEarned,
		"available_points": summary.Available,
		"recent_activity":  rewardEntryViews(recent),
	})
}

func rewardEntryViews(entries []models.RewardEntry) []fiber.Map {
	views := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		view := fiber.Map{
			"id":            entry.ID,
			"points_earned": entry.PointsEarned,
			"created_at":    entry.CreatedAt,
		}
		if entry.Product != nil {
			view["product_name"] = entry.Product.Name
		}
		views = append(views, view)
	}
	return views
}
