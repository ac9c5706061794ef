package main

import (
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/database"
	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/utils"
)

// Seeds a staff account for the admin console from ADMIN_PHONE and
// ADMIN_PASSWORD.
func main() {
	cfg := config.Load()

	adminPhone := os.Getenv("ADMIN_PHONE")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPhone == "" || adminPassword == "" {
		log.Fatal("ADMIN_PHONE and ADMIN_PASSWORD must be set in environment")
	}

	db := database.Connect(cfg.DatabaseURL)

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	err = db.Where("phone = ?", adminPhone).First(&existing).Error
	switch err {
	case nil:
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"is_staff":      true,
			"password_hash": passwordHash,
		}).Error; err != nil {
			log.Fatalf("failed to update staff user: %v", err)
		}
		log.Println("Existing user promoted to staff")
	case gorm.ErrRecordNotFound:
		admin := models.User{
			Phone:           adminPhone,
			IsPhoneVerified: true,
			IsStaff:         true,
			PasswordHash:    passwordHash,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create staff user: %v", err)
		}
		log.Println("Staff account created successfully")
	default:
		log.Fatalf("failed to look up user: %v", err)
	}
}
