package models

import "github.com/google/uuid"

// Redemption request lifecycle. Pending requests count against the balance;
// approval and rejection are performed manually by an operator.
const (
	RedemptionStatusPending  = "pending"
	RedemptionStatusApproved = "approved"
	RedemptionStatusRejected = "rejected"
)

// RewardEntry records points earned from one claimed code. Rows are written
// inside the claim transaction and never updated. The unique index on
// RewardCodeID means even a broken caller cannot credit a code twice.
type RewardEntry struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User         *User      `json:"-"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Product      *Product   `json:"product,omitempty"`
	RewardCodeID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"reward_code_id"`
	PointsEarned int        `json:"points_earned"`
}

// RedemptionRequest is the debit side of the ledger: a user asking to cash
// out points to one of their payment options. The row itself is the debit
// record; no earn-side rows are touched when it is created.
type RedemptionRequest struct {
	BaseModel
	UserID          uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User            *User          `json:"-"`
	PaymentOptionID uuid.UUID      `gorm:"type:uuid" json:"payment_option_id"`
	PaymentOption   *PaymentOption `json:"payment_option,omitempty"`
	Points          int            `gorm:"check:points > 0" json:"points"`
	Status          string         `gorm:"index;default:pending" json:"status"`
	ProofPath       string         `json:"proof_path,omitempty"`
}
