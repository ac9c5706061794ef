package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/middleware"
	"github.com/example/rewardscan/internal/models"
	"github.com/example/rewardscan/internal/services"
	"github.com/example/rewardscan/internal/utils"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) IssueCodes(ctx context.Context, productID uuid.UUID, quantity int) ([]services.IssuedCode, error) {
	args := m.Called(ctx, productID, quantity)
	if issued := args.Get(0); issued != nil {
		return issued.([]services.IssuedCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) ClaimCode(ctx context.Context, userID uuid.UUID, token string) (*services.ClaimResult, error) {
	args := m.Called(ctx, userID, token)
	if result := args.Get(0); result != nil {
		return result.(*services.ClaimResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) CreateRedemption(ctx context.Context, userID uuid.UUID, in services.RedemptionInput) (*models.RedemptionRequest, error) {
	args := m.Called(ctx, userID, in)
	if request := args.Get(0); request != nil {
		return request.(*models.RedemptionRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) Summary(ctx context.Context, userID uuid.UUID) (*services.RewardSummary, error) {
	args := m.Called(ctx, userID)
	if summary := args.Get(0); summary != nil {
		return summary.(*services.RewardSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestApp(t *testing.T, engine services.RewardEngine) (*fiber.App, string, uuid.UUID) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		UploadDir:    t.TempDir(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handler := NewRewardsHandler(nil, cfg, engine)

	protected := app.Group("/api", middleware.AuthMiddleware(cfg))
	protected.Post("/scan-qr", handler.ScanQR)
	protected.Post("/redeem-points", handler.RedeemPoints)
	protected.Get("/reward-summary", handler.RewardSummary)

	userID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, userID, false, cfg.TokenExpires)
	require.NoError(t, err)

	return app, "Bearer " + token, userID
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestScanQR(t *testing.T) {
	t.Run("successful claim", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, userID := newTestApp(t, engine)

		engine.On("ClaimCode", mock.Anything, userID, "some-token").
			Return(&services.ClaimResult{PointsEarned: 10, ProductName: "Widget"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/scan-qr",
			bytes.NewBufferString(`{"qr_code":"some-token"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(10), body["points_earned"])
		assert.Equal(t, "Widget", body["product_name"])

		engine.AssertExpectations(t)
	})

	t.Run("used and unknown codes read the same", func(t *testing.T) {
		for name, engineErr := range map[string]error{
			"already used": services.ErrCodeAlreadyUsed,
			"not found":    services.ErrCodeNotFound,
		} {
			t.Run(name, func(t *testing.T) {
				engine := new(mockEngine)
				app, auth, _ := newTestApp(t, engine)

				engine.On("ClaimCode", mock.Anything, mock.Anything, "spent").
					Return(nil, engineErr)

				req := httptest.NewRequest(http.MethodPost, "/api/scan-qr",
					bytes.NewBufferString(`{"qr_code":"spent"}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", auth)

				resp, err := app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

				body := decodeBody(t, resp)
				assert.Equal(t, "Invalid or already used QR code", body["error"])
			})
		}
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		engine := new(mockEngine)
		app, _, _ := newTestApp(t, engine)

		req := httptest.NewRequest(http.MethodPost, "/api/scan-qr",
			bytes.NewBufferString(`{"qr_code":"some-token"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func redeemRequest(t *testing.T, points, paymentMethodID string, withPhoto bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("points", points))
	require.NoError(t, form.WriteField("payment_method_id", paymentMethodID))
	if withPhoto {
		part, err := form.CreateFormFile("photo", "receipt.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/redeem-points", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestRedeemPoints(t *testing.T) {
	t.Run("successful redemption", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, userID := newTestApp(t, engine)

		paymentMethodID := uuid.New()
		created := &models.RedemptionRequest{
			UserID:          userID,
			PaymentOptionID: paymentMethodID,
			Points:          50,
			Status:          models.RedemptionStatusPending,
		}
		created.ID = uuid.New()

		engine.On("CreateRedemption", mock.Anything, userID,
			mock.MatchedBy(func(in services.RedemptionInput) bool {
				return in.Points == 50 &&
					in.PaymentOptionID == paymentMethodID &&
					in.ProofPath != ""
			})).Return(created, nil)

		req := redeemRequest(t, "50", paymentMethodID.String(), true)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, created.ID.String(), body["redemption_id"])
		assert.Equal(t, "pending", body["status"])

		engine.AssertExpectations(t)
	})

	t.Run("insufficient points", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, _ := newTestApp(t, engine)

		engine.On("CreateRedemption", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, services.ErrInsufficientPoints)

		req := redeemRequest(t, "1000", uuid.NewString(), true)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, services.ErrInsufficientPoints.Error(), body["error"])
	})

	t.Run("non-numeric points rejected before the engine", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, _ := newTestApp(t, engine)

		req := redeemRequest(t, "lots", uuid.NewString(), true)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		engine.AssertNotCalled(t, "CreateRedemption", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid payment method id rejected before the engine", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, _ := newTestApp(t, engine)

		req := redeemRequest(t, "10", "not-a-uuid", true)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		engine.AssertNotCalled(t, "CreateRedemption", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing proof surfaces the engine error", func(t *testing.T) {
		engine := new(mockEngine)
		app, auth, _ := newTestApp(t, engine)

		engine.On("CreateRedemption", mock.Anything, mock.Anything,
			mock.MatchedBy(func(in services.RedemptionInput) bool {
				return in.ProofPath == ""
			})).Return(nil, services.ErrProofRequired)

		req := redeemRequest(t, "10", uuid.NewString(), false)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, services.ErrProofRequired.Error(), body["error"])
	})
}

func TestRewardSummary(t *testing.T) {
	engine := new(mockEngine)
	app, auth, userID := newTestApp(t, engine)

	engine.On("Summary", mock.Anything, userID).
		Return(&services.RewardSummary{TotalEarned: 100, TotalCommitted: 60, Available: 40}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reward-summary", nil)
	req.Header.Set("Authorization", auth)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(100), body["total_points"])
	assert.Equal(t, float64(60), body["redeemable_points"])
	assert.Equal(t, float64(40), body["available_points"])

	engine.AssertExpectations(t)
}
