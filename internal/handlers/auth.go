package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/services"
	"github.com/example/rewardscan/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	otps services.OTPStore
	sms  *services.SMSService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, otps services.OTPStore, sms *services.SMSService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, otps: otps, sms: sms}
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP generates a one-time code for the phone and dispatches it over SMS.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	code, err := generateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}

	if err := h.otps.Set(c.Context(), req.Phone, code); err != nil {
		log.WithError(err).Error("failed to store OTP")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send code")
	}

	if err := h.sms.SendOTP(req.Phone, code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send code")
	}

	resp := fiber.Map{"message": "OTP sent successfully"}
	if !h.sms.Configured() {
		resp["otp"] = code
	}

	return c.JSON(resp)
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTP checks the code, creating the account on first login, and issues
// a JWT.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ok, err := h.otps.Consume(c.Context(), req.Phone, req.OTP)
	if err != nil {
		log.WithError(err).Error("OTP lookup failed")
		return fiber.NewError(fiber.StatusInternalServerError, "verification failed")
	}
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	}

	var user models.User
	newUser := false
	if err := h.db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		user = models.User{Phone: req.Phone, IsPhoneVerified: true}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
		newUser = true
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.IsStaff, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	if newUser {
		return c.JSON(fiber.Map{
			"new_user": true,
			"token":    token,
		})
	}

	return c.JSON(fiber.Map{
		"token":            token,
		"profile_complete": user.ProfileComplete(),
	})
}

type adminLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AdminLogin authenticates a staff account with phone and password.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("phone = ? AND is_staff = true", req.Phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		log.WithField("phone", req.Phone).Warn("admin login failed")
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, true, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

func generateOTP() (string, error) {
	// 4-digit code, 1000-9999.
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
