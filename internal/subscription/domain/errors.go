package domain

import (
	"errors"
	"strings"
)

var (
	ErrDuplicatePlanName      = errors.New("duplicate_plan_name")
	ErrPlanNotFound           = errors.New("plan_not_found")
	ErrVariationNotFound      = errors.New("variation_not_found")
	ErrCustomerNotFound       = errors.New("customer_not_found")
	ErrInvalidBillingInterval = errors.New("invalid_billing_interval")
	ErrInvalidStartDate       = errors.New("invalid_start_date")
)

const (
	MessageDuplicatePlanName = "A plan with this name already exists"
	MessagePlanNotFound      = "Subscription plan not found"
	MessageVariationNotFound = "Plan variation not found"
	MessageCustomerNotFound  = "Customer not found"
	MessageValidationFailed  = "Validation Failed"
)

// Violation is a single failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule an input failed, in rule order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return MessageValidationFailed + ": " + strings.Join(e.Messages(), "; ")
}

// Messages returns the violation messages in rule order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Message)
	}
	return out
}

// ConflictError is a rule violation detected against stored state.
type ConflictError struct {
	Kind    error
	Message string
}

func NewConflictError(kind error, message string) *ConflictError {
	return &ConflictError{Kind: kind, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Kind
}

// IsValidationError reports whether err carries input violations.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
