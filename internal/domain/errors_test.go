package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNetworkError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("retriable error", func(t *testing.T) {
		err := NewNetworkError("get_order", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected error to be retriable")
		}

		if err.Error() != "get_order: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "get_order: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		err := NewFatalNetworkError("avg_price", baseErr)

		if err.IsRetriable() {
			t.Error("Expected error to not be retriable")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		retriable := NewNetworkError("dial", baseErr)
		fatal := NewFatalNetworkError("auth", baseErr)
		plain := errors.New("plain error")

		if !IsRetriable(retriable) {
			t.Error("IsRetriable should return true for retriable error")
		}

		if IsRetriable(fatal) {
			t.Error("IsRetriable should return false for fatal error")
		}

		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestExchangeError(t *testing.T) {
	err := &ExchangeError{Op: "limit_buy", Code: -2010, Message: "Account has insufficient balance"}

	if err.IsRetriable() {
		t.Error("ExchangeError should never be retriable")
	}

	expected := "exchange error [limit_buy] (code -2010): Account has insufficient balance"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}

	if IsRetriable(err) {
		t.Error("IsRetriable should return false for an exchange error")
	}
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "tick_size", Err: baseErr}

	if err.IsRetriable() {
		t.Error("ConfigError should never be retriable")
	}

	expected := "config error [tick_size]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:     "price",
		Value:     decimal.RequireFromString("61"),
		Violation: ViolationAboveBand,
	}

	if err.IsRetriable() {
		t.Error("ValidationError should never be retriable")
	}

	expected := "validation error [price]: 61 above percent-price band"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}
