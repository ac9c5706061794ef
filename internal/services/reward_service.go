package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/utils"
)

// MaxCodesPerBatch bounds a single admin batch-issue call.
const MaxCodesPerBatch = 100

// IssuedCode pairs a new code row with its plaintext token. The token is
// returned exactly once, at issue time, for printing.
type IssuedCode struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
}

// ClaimResult is what a successful scan reports back to the user.
type ClaimResult struct {
	PointsEarned int
	ProductName  string
}

// RedemptionInput carries a validated-at-the-edge redemption request.
type RedemptionInput struct {
	Points          int
	PaymentOptionID uuid.UUID
	ProofPath       string
}

// RewardSummary is the read-side balance view.
type RewardSummary struct {
	TotalEarned    int
	TotalCommitted int
	Available      int
}

// RewardEngine is the points-ledger core consumed by the HTTP handlers.
type RewardEngine interface {
	IssueCodes(ctx context.Context, productID uuid.UUID, quantity int) ([]IssuedCode, error)
	ClaimCode(ctx context.Context, userID uuid.UUID, token string) (*ClaimResult, error)
	CreateRedemption(ctx context.Context, userID uuid.UUID, in RedemptionInput) (*models.RedemptionRequest, error)
	Summary(ctx context.Context, userID uuid.UUID) (*RewardSummary, error)
}

// RewardService implements RewardEngine on top of postgres. All mutations run
// inside explicit transactions with row-level locks scoped to the contended
// row (the code being claimed, the user admitting a redemption) so unrelated
// users never wait on each other.
type RewardService struct {
	db           *gorm.DB
	hashKey      string
	requireProof bool
}

// NewRewardService constructs the engine. hashKey is the HMAC key for code
// lookup hashes; requireProof makes the proof photo mandatory on redemption.
func NewRewardService(db *gorm.DB, hashKey string, requireProof bool) *RewardService {
	if db == nil {
		panic("db is required")
	}
	if hashKey == "" {
		panic("hash key is required")
	}
	return &RewardService{db: db, hashKey: hashKey, requireProof: requireProof}
}

// IssueCodes creates quantity fresh codes for an active product in one
// transaction and returns their plaintext tokens.
func (s *RewardService) IssueCodes(ctx context.Context, productID uuid.UUID, quantity int) ([]IssuedCode, error) {
	if quantity < 1 || quantity > MaxCodesPerBatch {
		return nil, ErrInvalidQuantity
	}

	var issued []IssuedCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !product.IsActive {
			return ErrProductInactive
		}

		for i := 0; i < quantity; i++ {
			token, err := utils.NewCodeToken()
			if err != nil {
				return err
			}

			code := models.RewardCode{
				ProductID:  product.ID,
				Token:      token,
				LookupHash: utils.CodeLookupHash(s.hashKey, token),
				Status:     models.CodeStatusIssued,
			}
			if err := tx.Create(&code).Error; err != nil {
				return err
			}

			issued = append(issued, IssuedCode{ID: code.ID, Token: token})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"product_id": productID,
		"quantity":   quantity,
	}).Info("reward codes issued")

	return issued, nil
}

// ClaimCode consumes a code and credits its points to the user as one atomic
// unit. The code row is locked for the duration of the transaction, so of two
// concurrent scans of the same code exactly one succeeds; the loser sees
// ErrCodeAlreadyUsed. If writing the reward entry fails, the state flip rolls
// back and the code stays claimable.
func (s *RewardService) ClaimCode(ctx context.Context, userID uuid.UUID, token string) (*ClaimResult, error) {
	if token == "" {
		return nil, ErrCodeNotFound
	}
	hash := utils.CodeLookupHash(s.hashKey, token)

	var result ClaimResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var code models.RewardCode
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&code, "lookup_hash = ?", hash).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		if code.Status != models.CodeStatusIssued {
			return ErrCodeAlreadyUsed
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", code.ProductID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&code).Updates(map[string]interface{}{
			"status":         models.CodeStatusConsumed,
			"redeemed_by_id": userID,
			"redeemed_at":    now,
		}).Error; err != nil {
			return err
		}

		entry := models.RewardEntry{
			UserID:       userID,
			ProductID:    &product.ID,
			RewardCodeID: code.ID,
			PointsEarned: product.Points,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		result = ClaimResult{PointsEarned: product.Points, ProductName: product.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"points":  result.PointsEarned,
		"product": result.ProductName,
	}).Info("reward code claimed")

	return &result, nil
}

// CreateRedemption admits a debit request against the user's current balance.
// The user row is locked first, which serializes admissions per user: two
// concurrent requests both seeing a stale balance cannot jointly over-commit,
// because the second recomputes the sums only after the first has committed
// its pending row.
func (s *RewardService) CreateRedemption(ctx context.Context, userID uuid.UUID, in RedemptionInput) (*models.RedemptionRequest, error) {
	if in.Points <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.requireProof && in.ProofPath == "" {
		return nil, ErrProofRequired
	}

	var request models.RedemptionRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		// The payment option must belong to the requesting user.
		var option models.PaymentOption
		if err := tx.First(&option, "id = ? AND user_id = ?", in.PaymentOptionID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidPaymentMethod
			}
			return err
		}

		earned, err := sumPoints(tx.Model(&models.RewardEntry{}).
			Where("user_id = ?", userID), "points_earned")
		if err != nil {
			return err
		}

		committed, err := sumPoints(tx.Model(&models.RedemptionRequest{}).
			Where("user_id = ? AND status IN ?", userID,
				[]string{models.RedemptionStatusPending, models.RedemptionStatusApproved}), "points")
		if err != nil {
			return err
		}

		if earned-committed < in.Points {
			return ErrInsufficientPoints
		}

		request = models.RedemptionRequest{
			UserID:          userID,
			PaymentOptionID: option.ID,
			Points:          in.Points,
			Status:          models.RedemptionStatusPending,
			ProofPath:       in.ProofPath,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"points":        in.Points,
		"redemption_id": request.ID,
	}).Info("redemption request created")

	return &request, nil
}

// Summary aggregates the user's balance straight off persisted rows. Nothing
// is cached, so a summary taken right after a claim already includes it.
func (s *RewardService) Summary(ctx context.Context, userID uuid.UUID) (*RewardSummary, error) {
	db := s.db.WithContext(ctx)

	earned, err := sumPoints(db.Model(&models.RewardEntry{}).
		Where("user_id = ?", userID), "points_earned")
	if err != nil {
		return nil, err
	}

	committed, err := sumPoints(db.Model(&models.RedemptionRequest{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.RedemptionStatusPending, models.RedemptionStatusApproved}), "points")
	if err != nil {
		return nil, err
	}

	return &RewardSummary{
		TotalEarned:    earned,
		TotalCommitted: committed,
		Available:      earned - committed,
	}, nil
}

func sumPoints(query *gorm.DB, column string) (int, error) {
	var total int64
	err := query.Select("COALESCE(SUM(" + column + "), 0)").Scan(&total).Error
	return int(total), err
}
