package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"oco_trader/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBracketPrices(t *testing.T) {
	t.Run("reference scenario", func(t *testing.T) {
		profit, stop := BracketPrices(d("100"), d("5"), d("2"), 2)

		if got := FormatPrice(profit, 2); got != "105.00" {
			t.Errorf("profit price = %q, want %q", got, "105.00")
		}
		if got := FormatPrice(stop, 2); got != "98.00" {
			t.Errorf("stop price = %q, want %q", got, "98.00")
		}
	})

	t.Run("rounds to the price precision", func(t *testing.T) {
		// 33333.33 * 1.015 = 33833.32995
		profit, stop := BracketPrices(d("33333.33"), d("1.5"), d("0.5"), 2)

		if got := FormatPrice(profit, 2); got != "33833.33" {
			t.Errorf("profit price = %q, want %q", got, "33833.33")
		}
		// 33333.33 * 0.995 = 33166.66335
		if got := FormatPrice(stop, 2); got != "33166.66" {
			t.Errorf("stop price = %q, want %q", got, "33166.66")
		}
	})
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value     string
		precision int32
		want      string
	}{
		{"105", 2, "105.00"},
		{"98.5", 2, "98.50"},
		{"0.00012", 8, "0.00012000"},
		{"42", 0, "42"},
	}
	for _, tt := range tests {
		if got := FormatPrice(d(tt.value), tt.precision); got != tt.want {
			t.Errorf("FormatPrice(%s, %d) = %q, want %q", tt.value, tt.precision, got, tt.want)
		}
	}
}

func TestFillPrice(t *testing.T) {
	t.Run("limit buy uses the quoted price", func(t *testing.T) {
		spec := domain.OrderSpec{Kind: domain.OrderKindLimitBuy, Symbol: "BTCUSDT"}
		info := domain.OrderInfo{
			Price:              d("50000.00"),
			ExecutedQty:        d("0.5"),
			CumulativeQuoteQty: d("25000.00"),
		}
		fill, err := FillPrice(spec, info)
		if err != nil {
			t.Fatalf("FillPrice failed: %v", err)
		}
		if !fill.Equal(d("50000.00")) {
			t.Errorf("fill = %s, want 50000.00", fill)
		}
	})

	t.Run("market buy uses the volume-weighted average", func(t *testing.T) {
		spec := domain.OrderSpec{Kind: domain.OrderKindMarketBuy, Symbol: "BTCUSDT"}
		// Exchange reports price 0 for market orders; the VWAP across the
		// aggregated partial fills is 100.00 / 0.004 = 25000.
		info := domain.OrderInfo{
			Price:              decimal.Zero,
			ExecutedQty:        d("0.004"),
			CumulativeQuoteQty: d("100.00"),
		}
		fill, err := FillPrice(spec, info)
		if err != nil {
			t.Fatalf("FillPrice failed: %v", err)
		}
		if !fill.Equal(d("25000")) {
			t.Errorf("fill = %s, want 25000", fill)
		}
	})

	t.Run("market buy with zero executed quantity fails", func(t *testing.T) {
		spec := domain.OrderSpec{Kind: domain.OrderKindMarketBuy, Symbol: "BTCUSDT"}
		if _, err := FillPrice(spec, domain.OrderInfo{}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("sell variants have no fill price", func(t *testing.T) {
		spec := domain.OrderSpec{Kind: domain.OrderKindOCOSell, Symbol: "BTCUSDT"}
		if _, err := FillPrice(spec, domain.OrderInfo{}); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestValidatePercent(t *testing.T) {
	for _, ok := range []string{"0.1", "5", "100"} {
		if err := ValidatePercent("profit", d(ok)); err != nil {
			t.Errorf("ValidatePercent(%s) failed: %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "-1", "100.01"} {
		if err := ValidatePercent("loss", d(bad)); err == nil {
			t.Errorf("ValidatePercent(%s) should fail", bad)
		}
	}
}
