package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subscriptions/internal/auth"
	customerdomain "github.com/smallbiznis/subscriptions/internal/customer/domain"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"gorm.io/gorm"
)

// errorResponse is the body of every failed request. Errors lists each
// violated rule for validation failures.
type errorResponse struct {
	Type    string                         `json:"type"`
	Message string                         `json:"message"`
	Errors  []string                       `json:"errors,omitempty"`
	Fields  []subscriptiondomain.Violation `json:"fields,omitempty"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *subscriptiondomain.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorResponse{
			Type:    "validation_error",
			Message: subscriptiondomain.MessageValidationFailed,
			Errors:  vErr.Messages(),
			Fields:  vErr.Violations,
		}
	}

	var conflict *subscriptiondomain.ConflictError
	if errors.As(err, &conflict) {
		switch {
		case errors.Is(err, subscriptiondomain.ErrPlanNotFound),
			errors.Is(err, subscriptiondomain.ErrVariationNotFound),
			errors.Is(err, subscriptiondomain.ErrCustomerNotFound):
			return http.StatusNotFound, errorResponse{
				Type:    "not_found",
				Message: conflict.Message,
			}
		default:
			return http.StatusConflict, errorResponse{
				Type:    "conflict",
				Message: conflict.Message,
			}
		}
	}

	switch {
	case errors.Is(err, customerdomain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{
			Type:    "validation_error",
			Message: subscriptiondomain.MessageValidationFailed,
			Errors:  []string{"Customer ID must be a valid UUID"},
		}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorResponse{
			Type:    "invalid_request",
			Message: "request body must be a JSON object",
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{
			Type:    "unauthorized",
			Message: "Authentication required",
		}
	case errors.Is(err, customerdomain.ErrEmailTaken):
		return http.StatusConflict, errorResponse{
			Type:    "conflict",
			Message: "A customer with this email already exists",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{
			Type:    "rate_limited",
			Message: "rate limit exceeded",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorResponse{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code recorded in request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return payload.Type, err.Error()
	}
	return payload.Type, http.StatusText(status)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
