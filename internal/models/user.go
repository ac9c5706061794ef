package models

// User represents an account identified by phone number. Regular users log in
// with an OTP only; PasswordHash is set for staff console accounts.
type User struct {
	BaseModel
	Phone           string `gorm:"uniqueIndex" json:"phone"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	City            string `json:"city"`
	Profession      string `json:"profession"`
	IsPhoneVerified bool   `json:"is_phone_verified"`
	IsStaff         bool   `json:"is_staff"`
	PasswordHash    string `json:"-"`

	PaymentOptions     []PaymentOption     `json:"payment_options,omitempty"`
	RewardEntries      []RewardEntry       `json:"reward_entries,omitempty"`
	RedemptionRequests []RedemptionRequest `json:"redemption_requests,omitempty"`
}

// ProfileComplete reports whether the user filled the fields the mobile app
// asks for after first login.
func (u *User) ProfileComplete() bool {
	return u.City != "" && u.Profession != ""
}
