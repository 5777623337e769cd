package budget

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"usd", "12.50", "USD", "$12.50"},
		{"usd_whole", "100", "USD", "$100.00"},
		{"unknown_code", "8.00", "XXZ", "XXZ 8.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, FormatAmount(amount, tt.currency))
		})
	}
}
