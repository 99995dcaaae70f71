package domain

import (
	"errors"
	"testing"
)

func testProfile(t *testing.T) *SymbolProfile {
	t.Helper()
	profile, err := BuildSymbolProfile(validSnapshot(), d("50000"))
	if err != nil {
		t.Fatalf("profile setup failed: %v", err)
	}
	return profile
}

func TestNewLimitBuy(t *testing.T) {
	p := testProfile(t)

	t.Run("valid order", func(t *testing.T) {
		spec, err := NewLimitBuy(p, d("0.5"), d("49000.50"))
		if err != nil {
			t.Fatalf("NewLimitBuy failed: %v", err)
		}
		if spec.Kind != OrderKindLimitBuy || spec.Side != SideBuy {
			t.Errorf("unexpected variant: kind=%v side=%s", spec.Kind, spec.Side)
		}
		if spec.TimeInForce != TimeInForceGTC {
			t.Errorf("TimeInForce = %s, want GTC", spec.TimeInForce)
		}
		if spec.PricePrecision != p.PricePrecision || spec.QtyPrecision != p.QtyPrecision {
			t.Error("spec did not carry the profile precisions")
		}
	})

	t.Run("rejects misaligned price", func(t *testing.T) {
		_, err := NewLimitBuy(p, d("0.5"), d("49000.001"))
		assertValidationError(t, err, "price", ViolationStepMismatch)
	})

	t.Run("rejects quantity below lot minimum", func(t *testing.T) {
		_, err := NewLimitBuy(p, d("0.000001"), d("49000.50"))
		assertValidationError(t, err, "quantity", ViolationBelowMin)
	})

	t.Run("rejects price above percent band", func(t *testing.T) {
		// band ceiling is 50000*5 = 250000
		_, err := NewLimitBuy(p, d("0.5"), d("250000.01"))
		assertValidationError(t, err, "price", ViolationAboveBand)
	})
}

func TestNewMarketBuy(t *testing.T) {
	p := testProfile(t)

	t.Run("valid order", func(t *testing.T) {
		spec, err := NewMarketBuy(p, d("25.123456789"))
		if err != nil {
			t.Fatalf("NewMarketBuy failed: %v", err)
		}
		if spec.Kind != OrderKindMarketBuy {
			t.Errorf("Kind = %v, want market buy", spec.Kind)
		}
		// Market lot step is zero on this pair: any fractional digits pass.
		if !spec.TotalQuote.Equal(d("25.123456789")) {
			t.Errorf("TotalQuote = %s", spec.TotalQuote)
		}
	})

	t.Run("rejects total above market lot maximum", func(t *testing.T) {
		_, err := NewMarketBuy(p, d("50.00001"))
		assertValidationError(t, err, "total", ViolationAboveMax)
	})
}

func TestNewOCOSell(t *testing.T) {
	p := testProfile(t)

	t.Run("valid bracket", func(t *testing.T) {
		spec, err := NewOCOSell(p, d("0.5"), d("52500.00"), d("49000.00"), d("49000.00"))
		if err != nil {
			t.Fatalf("NewOCOSell failed: %v", err)
		}
		if spec.Kind != OrderKindOCOSell || spec.Side != SideSell {
			t.Errorf("unexpected variant: kind=%v side=%s", spec.Kind, spec.Side)
		}
		if !spec.StopLimitPrice.Equal(d("49000.00")) {
			t.Errorf("StopLimitPrice = %s", spec.StopLimitPrice)
		}
	})

	t.Run("profit leg must pass the price rules", func(t *testing.T) {
		_, err := NewOCOSell(p, d("0.5"), d("52500.001"), d("49000.00"), d("49000.00"))
		assertValidationError(t, err, "price", ViolationStepMismatch)
	})

	t.Run("stop leg must pass the price rules", func(t *testing.T) {
		_, err := NewOCOSell(p, d("0.5"), d("52500.00"), d("0.001"), d("49000.00"))
		assertValidationError(t, err, "stop_price", ViolationBelowMin)
	})

	t.Run("stop limit leg must pass the price rules", func(t *testing.T) {
		_, err := NewOCOSell(p, d("0.5"), d("52500.00"), d("49000.00"), d("250000.01"))
		assertValidationError(t, err, "stop_limit_price", ViolationAboveBand)
	})
}

func TestNewStopLimit(t *testing.T) {
	p := testProfile(t)

	spec, err := NewStopLimit(p, SideSell, d("0.5"), d("49000.00"), d("48500.00"))
	if err != nil {
		t.Fatalf("NewStopLimit failed: %v", err)
	}
	if spec.Kind != OrderKindStopLimit {
		t.Errorf("Kind = %v, want stop limit", spec.Kind)
	}

	_, err = NewStopLimit(p, SideSell, d("0.5"), d("49000.00"), d("48500.001"))
	assertValidationError(t, err, "stop_price", ViolationStepMismatch)
}

func TestOrderInfoIsOpen(t *testing.T) {
	open := OrderInfo{Status: OrderStatusNew}
	partial := OrderInfo{Status: OrderStatusPartiallyFilled}
	filled := OrderInfo{Status: OrderStatusFilled}

	if !open.IsOpen() || !partial.IsOpen() {
		t.Error("NEW and PARTIALLY_FILLED must be open")
	}
	if filled.IsOpen() {
		t.Error("FILLED must not be open")
	}
}

func assertValidationError(t *testing.T, err error, field string, want Violation) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Field != field {
		t.Errorf("Field = %s, want %s", vErr.Field, field)
	}
	if vErr.Violation != want {
		t.Errorf("Violation = %v, want %v", vErr.Violation, want)
	}
}
