package ledger_test

import (
	"strings"
	"testing"
	"time"

	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "", wantErr: ledger.ErrMissingSelection},
		{raw: "   ", wantErr: ledger.ErrMissingSelection},
		{raw: "abc", wantErr: ledger.ErrInvalidAmount},
		{raw: "12,50", wantErr: ledger.ErrInvalidAmount},
		{raw: "NaN", wantErr: ledger.ErrInvalidAmount},
		{raw: " 42 ", want: "42"},
		{raw: "100.005", want: "100.005"},
		{raw: "10000.004", want: "10000.004"},
		{raw: "1e200000000", wantErr: ledger.ErrInvalidAmount},
		{raw: "1e-200000000", wantErr: ledger.ErrInvalidAmount},
		{raw: "0.0000000000000000001", wantErr: ledger.ErrInvalidAmount},
		{raw: "1000000000000000", wantErr: ledger.ErrInvalidAmount},
		{raw: "999999999999999.99", want: "999999999999999.99"},
		{raw: "1" + strings.Repeat("0", 40), wantErr: ledger.ErrInvalidAmount},
		{raw: "-7.5", want: "-7.5"},
		{raw: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ledger.ParseAmount(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestParseAmountReturnsPromptlyForExtremeExponents(t *testing.T) {
	for _, raw := range []string{"1e200000000", "-1E999999999", "5e-200000000"} {
		done := make(chan error, 1)
		go func() {
			_, err := ledger.ParseAmount(raw)
			done <- err
		}()

		select {
		case err := <-done:
			require.ErrorIs(t, err, ledger.ErrInvalidAmount, raw)
		case <-time.After(time.Second):
			t.Fatalf("ParseAmount(%q) did not return", raw)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]decimal.Decimal{
		"500":        decimal.NewFromInt(500),
		"10,000":     decimal.NewFromInt(10000),
		"1,234,567":  decimal.NewFromInt(1234567),
		"1,250.50":   decimal.RequireFromString("1250.5"),
		"-20,420.75": decimal.RequireFromString("-20420.75"),
		"0":          decimal.Zero,
	}

	for want, in := range tests {
		assert.Equal(t, want, ledger.FormatCurrency(in))
	}
}
