package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a transport-level failure on a gateway call.
// Read-only calls that fail this way may be retried.
type NetworkError struct {
	Op        string // Operation that failed (e.g., "get_order", "ping")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ExchangeError is an explicit error code/message reported by the exchange.
// Never retriable: on a submission call a retry risks a duplicate order.
type ExchangeError struct {
	Op      string
	Code    int64
	Message string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange error [%s] (code %d): %s", e.Op, e.Code, e.Message)
}

func (e *ExchangeError) IsRetriable() bool {
	return false
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError reports a candidate order value that violates one of the
// symbol's trading rules. Field names the offending input, Violation the
// specific bound that failed.
type ValidationError struct {
	Field     string
	Value     decimal.Decimal
	Violation Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s %s", e.Field, e.Value, e.Violation)
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

var (
	// ErrOrderCanceled is returned when fill polling observes a cancellation
	// the client did not request. The order left our control; fatal.
	ErrOrderCanceled = errors.New("order canceled externally")

	// ErrGatewayUnresponsive is returned when a poll cycle exhausts its
	// transient-retry budget without a single successful status fetch.
	ErrGatewayUnresponsive = errors.New("gateway unresponsive")

	// ErrSymbolNotFound is returned when the exchange has no metadata for
	// the requested trading pair.
	ErrSymbolNotFound = errors.New("symbol not found")
)
