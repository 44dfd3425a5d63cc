package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

func init() {
	Register()
}

type amountRequest struct {
	Amount    decimal.Decimal  `binding:"gt=0"`
	Limit     *decimal.Decimal `binding:"omitempty,gte=0"`
	Frequency string           `binding:"required,frequency"`
	Currency  string           `binding:"omitempty,iso4217"`
	Color     string           `binding:"omitempty,hex_color"`
}

func TestRegisteredValidators(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name    string
		req     amountRequest
		wantErr bool
	}{
		{"valid", amountRequest{Amount: decimal.RequireFromString("9.99"), Frequency: "weekly", Currency: "EUR", Color: "#ff0000"}, false},
		{"zero_amount", amountRequest{Amount: decimal.Zero, Frequency: "weekly"}, true},
		{"negative_limit", amountRequest{Amount: decimal.NewFromInt(1), Limit: &negative, Frequency: "weekly"}, true},
		{"unknown_frequency", amountRequest{Amount: decimal.NewFromInt(1), Frequency: "daily"}, true},
		{"bad_currency", amountRequest{Amount: decimal.NewFromInt(1), Frequency: "yearly", Currency: "XYZ"}, true},
		{"bad_color", amountRequest{Amount: decimal.NewFromInt(1), Frequency: "yearly", Color: "red"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
