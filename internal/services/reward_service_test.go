package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Validation paths that reject before any storage work. The transactional
// paths are exercised through the RewardEngine boundary in the handler tests.

func TestIssueCodesQuantityBounds(t *testing.T) {
	svc := NewRewardService(&gorm.DB{}, "test-key", true)

	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -5},
		{"over cap", MaxCodesPerBatch + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IssueCodes(context.Background(), uuid.New(), tt.quantity)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		})
	}
}

func TestClaimCodeEmptyToken(t *testing.T) {
	svc := NewRewardService(&gorm.DB{}, "test-key", true)

	_, err := svc.ClaimCode(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestCreateRedemptionInputValidation(t *testing.T) {
	t.Run("non-positive points", func(t *testing.T) {
		svc := NewRewardService(&gorm.DB{}, "test-key", true)

		for _, points := range []int{0, -1, -100} {
			_, err := svc.CreateRedemption(context.Background(), uuid.New(), RedemptionInput{
				Points:          points,
				PaymentOptionID: uuid.New(),
				ProofPath:       "uploads/proof.jpg",
			})
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
	})

	t.Run("missing proof when required", func(t *testing.T) {
		svc := NewRewardService(&gorm.DB{}, "test-key", true)

		_, err := svc.CreateRedemption(context.Background(), uuid.New(), RedemptionInput{
			Points:          10,
			PaymentOptionID: uuid.New(),
		})
		assert.ErrorIs(t, err, ErrProofRequired)
	})
}

func TestNewRewardServiceRequiresDeps(t *testing.T) {
	assert.Panics(t, func() { NewRewardService(nil, "key", true) })
	assert.Panics(t, func() { NewRewardService(&gorm.DB{}, "", true) })
}
