package models

import (
	"time"

	"github.com/google/uuid"
)

// Reward code lifecycle. A code moves issued -> consumed exactly once and is
// never reset or deleted.
const (
	CodeStatusIssued   = "issued"
	CodeStatusConsumed = "consumed"
)

// RewardCode is a single-use QR code printed on a product. Token is the
// opaque value embedded in the QR image; it is random, so rows reveal nothing
// about issue order. LookupHash is a deterministic keyed hash of Token and is
// the only column claims search by, letting lookups stay O(1) without the
// token itself ever acting as a guessable key.
type RewardCode struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
	Token      string    `json:"-"`
	LookupHash string    `gorm:"uniqueIndex" json:"-"`
	Status     string    `gorm:"index;default:issued" json:"status"`

	RedeemedByID *uuid.UUID `gorm:"type:uuid" json:"redeemed_by,omitempty"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
}
