// Package common holds the response envelopes, error mapping and request
// validation shared by the HTTP handlers.
package common

import (
	"errors"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InternalErrorMessage is the only detail clients see for unexpected failures.
const InternalErrorMessage = "Internal server error. Please, contact system administrator"

// RetryAfterSeconds is advertised on contention responses.
const RetryAfterSeconds = "1"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Code     string `json:"code,omitempty"`     // Machine-readable error kind
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes a Response envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes err as application/problem+json. The status is
// derived from err unless an int is passed in opts; a string in opts
// replaces the detail. Internal failures never expose their cause.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, opts ...any) error {
	status := ErrorToStatusCode(err)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	for _, opt := range opts {
		switch v := opt.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}

	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	var ve validator.ValidationErrors
	var de *domain.Error
	switch {
	case errors.As(err, &ve):
		messages := ValidationMessages(ve)
		pd.Errors = messages
		pd.Detail = strings.Join(messages, "\n")
	case errors.As(err, &de):
		pd.Code = string(de.Kind)
		if de.Kind == domain.KindInternal {
			pd.Detail = InternalErrorMessage
		}
	case status >= fiber.StatusInternalServerError:
		pd.Detail = InternalErrorMessage
	}
	if domain.Retryable(err) {
		c.Set(fiber.HeaderRetryAfter, RetryAfterSeconds)
	}

	return c.Status(status).JSON(pd, "application/problem+json")
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	if err == nil {
		return fiber.StatusOK
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	switch domain.KindOf(err) {
	case domain.KindAccountNotFound:
		return fiber.StatusNotFound
	case domain.KindAccountAlreadyExists, domain.KindTransferContention:
		return fiber.StatusConflict
	case domain.KindInsufficientFunds:
		return fiber.StatusUnprocessableEntity
	case domain.KindSelfTransferNotAllowed,
		domain.KindInvalidAccountNumber,
		domain.KindInvalidAmount:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		if errors.Is(err, money.ErrInvalidAmount) || errors.Is(err, money.ErrInvalidScale) || errors.Is(err, money.ErrOutOfRange) {
			return nil, ProblemDetailsJSON(c, "Validation failed", err, "amount: "+MsgAmount, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := Validator().Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
