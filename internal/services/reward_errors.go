package services

import "errors"

// Caller-facing failures of the reward engine. Handlers map these to 4xx
// responses; anything else coming out of the engine is a storage failure and
// surfaces as a 500.
var (
	// ErrCodeNotFound and ErrCodeAlreadyUsed both render as the same
	// client message: a scanner that lost a claim race learns nothing
	// beyond "this code is spent".
	ErrCodeNotFound    = errors.New("reward code not found")
	ErrCodeAlreadyUsed = errors.New("reward code already used")

	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not active")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 100")

	ErrInvalidAmount        = errors.New("points must be a positive integer")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrProofRequired        = errors.New("proof photo is required")
	ErrInsufficientPoints   = errors.New("insufficient points")
)
