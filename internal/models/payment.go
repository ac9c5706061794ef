package models

import "github.com/google/uuid"

// Payment option types.
const (
	PaymentTypeUPI  = "upi"
	PaymentTypeBank = "bank"
)

// PaymentOption is a payout destination owned by a user. The set of required
// fields depends on Type: upi needs UPIID, bank needs the account triple.
type PaymentOption struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User     `json:"-"`
	Type        string    `json:"type"`
	UPIID       string    `json:"upi_id,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	IFSCCode    string    `json:"ifsc_code,omitempty"`
	HolderName  string    `json:"holder_name,omitempty"`
}
