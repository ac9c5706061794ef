package handlers

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/utils"
)

// AdminHandler manages staff-only reporting endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin console.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalCodes int64
	if err := h.db.Model(&models.RewardCode{}).Count(&totalCodes).Error; err != nil {
		return err
	}

	var consumedCodes int64
	if err := h.db.Model(&models.RewardCode{}).
		Where("status = ?", models.CodeStatusConsumed).
		Count(&consumedCodes).Error; err != nil {
		return err
	}

	var pendingRedemptions int64
	if err := h.db.Model(&models.RedemptionRequest{}).
		Where("status = ?", models.RedemptionStatusPending).
		Count(&pendingRedemptions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_products":      totalProducts,
			"total_users":         totalUsers,
			"total_qr_codes":      totalCodes,
			"redeemed_qr_codes":   consumedCodes,
			"pending_redemptions": pendingRedemptions,
		},
	})
}

// ListUsers returns all users with pagination.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where("phone ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetUser returns a single user with their reward history and payment
// options.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var history []models.RewardEntry
	if err := h.db.Where("user_id = ?", id).
		Preload("Product").
		Order("created_at desc").
		Find(&history).Error; err != nil {
		return err
	}

	var options []models.PaymentOption
	if err := h.db.Where("user_id = ?", id).Find(&options).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":            user,
			"reward_history":  rewardEntryViews(history),
			"payment_options": options,
		},
	})
}

// ListRewards returns the reward history report, filterable by user and
// product.
func (h *AdminHandler) ListRewards(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.RewardEntry{})

	if user := c.Query("user"); user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user filter")
		}
		query = query.Where("user_id = ?", userID)
	}
	if product := c.Query("product"); product != "" {
		productID, err := uuid.Parse(product)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product filter")
		}
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var entries []models.RewardEntry
	if err := query.Preload("Product").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&entries).Error; err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		view := fiber.Map{
			"id":            entry.ID,
			"points_earned": entry.PointsEarned,
			"created_at":    entry.CreatedAt,
		}
		if entry.User != nil {
			view["user_phone"] = entry.User.Phone
		}
		if entry.Product != nil {
			view["product_name"] = entry.Product.Name
		}
		data = append(data, view)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListRedemptions returns redemption requests, filterable by status. The
// approve/reject decision itself happens outside this service.
func (h *AdminHandler) ListRedemptions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.RedemptionRequest{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var requests []models.RedemptionRequest
	if err := query.Preload("User").Preload("PaymentOption").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&requests).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ExportUsersCSV streams all users as a CSV attachment.
func (h *AdminHandler) ExportUsersCSV(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at").Find(&users).Error; err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"Phone", "City", "Profession", "Date Joined"})
	for _, user := range users {
		_ = writer.Write([]string{
			user.Phone,
			user.City,
			user.Profession,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.WithField("count", len(users)).Info("users CSV exported")

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Send(buf.Bytes())
}

// ExportRewardsCSV streams the reward history as a CSV attachment.
func (h *AdminHandler) ExportRewardsCSV(c *fiber.Ctx) error {
	var entries []models.RewardEntry
	if err := h.db.Preload("User").Preload("Product").
		Order("created_at").
		Find(&entries).Error; err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"User Phone", "Product", "Points Earned", "Date"})
	for _, entry := range entries {
		phone := "N/A"
		if entry.User != nil {
			phone = entry.User.Phone
		}
		product := "N/A"
		if entry.Product != nil {
			product = entry.Product.Name
		}
		_ = writer.Write([]string{
			phone,
			product,
			strconv.Itoa(entry.PointsEarned),
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.WithField("count", len(entries)).Info("rewards CSV exported")

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="rewards.csv"`)
	return c.Send(buf.Bytes())
}
