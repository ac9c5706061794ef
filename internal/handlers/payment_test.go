package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentOption(t *testing.T) {
	tests := []struct {
		name    string
		req     createPaymentRequest
		wantMsg string
	}{
		{
			name:    "valid upi",
			req:     createPaymentRequest{Type: "upi", UPIID: "alice@upi"},
			wantMsg: "",
		},
		{
			name: "valid bank",
			req: createPaymentRequest{
				Type:        "bank",
				BankAccount: "000111222333",
				IFSCCode:    "ABCD0123456",
				HolderName:  "Alice",
			},
			wantMsg: "",
		},
		{
			name:    "upi missing upi_id",
			req:     createPaymentRequest{Type: "upi"},
			wantMsg: "upi_id is required for upi payment method",
		},
		{
			name: "bank missing account",
			req: createPaymentRequest{
				Type:       "bank",
				IFSCCode:   "ABCD0123456",
				HolderName: "Alice",
			},
			wantMsg: "bank_account is required for bank payment method",
		},
		{
			name: "bank missing ifsc",
			req: createPaymentRequest{
				Type:        "bank",
				BankAccount: "000111222333",
				HolderName:  "Alice",
			},
			wantMsg: "ifsc_code is required for bank payment method",
		},
		{
			name: "bank missing holder name",
			req: createPaymentRequest{
				Type:        "bank",
				BankAccount: "000111222333",
				IFSCCode:    "ABCD0123456",
			},
			wantMsg: "holder_name is required for bank payment method",
		},
		{
			name:    "unknown type",
			req:     createPaymentRequest{Type: "crypto"},
			wantMsg: "type must be upi or bank",
		},
		{
			name:    "empty type",
			req:     createPaymentRequest{},
			wantMsg: "type must be upi or bank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, validatePaymentOption(tt.req))
		})
	}
}
