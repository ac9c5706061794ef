package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// SMSService delivers OTP messages through an HTTP SMS gateway.
type SMSService struct {
	gatewayURL string
	token      string
	client     *http.Client
}

// NewSMSService creates a new SMSService.
func NewSMSService(gatewayURL, token string) *SMSService {
	return &SMSService{
		gatewayURL: gatewayURL,
		token:      token,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a gateway endpoint is set. When it is not, the
// auth handler echoes the OTP in the response instead, which is how the
// service runs in development.
func (s *SMSService) Configured() bool {
	return s.gatewayURL != ""
}

type smsMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendOTP sends the one-time code to the phone number.
func (s *SMSService) SendOTP(phone, code string) error {
	if !s.Configured() {
		log.WithField("phone", phone).Warn("[SMS] Gateway not configured, skipping delivery")
		return nil
	}

	msg := smsMessage{
		To:      phone,
		Message: fmt.Sprintf("Your verification code is %s", code),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.WithError(err).Error("[SMS] Failed to send message")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Error("[SMS] Unexpected gateway status")
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
