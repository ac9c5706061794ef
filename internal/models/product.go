package models

import "github.com/google/uuid"

// ProductCategory groups products for the admin console.
type ProductCategory struct {
	BaseModel
	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`
}

// Product is a physical item whose packaging carries reward QR codes. Points
// is the reward value credited per scanned code; the value is copied into the
// RewardEntry at claim time so later price changes do not rewrite history.
type Product struct {
	BaseModel
	CategoryID  *uuid.UUID       `gorm:"type:uuid" json:"category_id"`
	Category    *ProductCategory `json:"category,omitempty"`
	Name        string           `gorm:"uniqueIndex" json:"name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	Points      int              `gorm:"check:points >= 0" json:"points"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
}
