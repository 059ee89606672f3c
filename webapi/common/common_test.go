package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	numberA = "40817810000000000001"
	numberB = "40817810000000000002"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, fiber.StatusOK},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{"not found", account.NotFound(numberA), fiber.StatusNotFound},
		{"already exists", account.AlreadyExists(numberA), fiber.StatusConflict},
		{"contention", account.Contention(numberA, numberB), fiber.StatusConflict},
		{"insufficient funds", account.InsufficientFunds(numberA), fiber.StatusUnprocessableEntity},
		{"self transfer", account.SelfTransfer(numberA), fiber.StatusBadRequest},
		{"invalid number", account.InvalidNumber("1"), fiber.StatusBadRequest},
		{"invalid amount", account.InvalidAmount(money.Zero), fiber.StatusBadRequest},
		{"wrapped", fmt.Errorf("transfer: %w", account.NotFound(numberB)), fiber.StatusNotFound},
		{"internal", domain.Internal("store failed", errors.New("boom")), fiber.StatusInternalServerError},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToStatusCode(tt.err))
		})
	}
}

func serveError(t *testing.T, err error, opts ...any) (ProblemDetails, string, int) {
	t.Helper()
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Failed", err, opts...)
	})
	resp, reqErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/fail", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close() //nolint: errcheck
	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return pd, resp.Header.Get(fiber.HeaderRetryAfter), resp.StatusCode
}

func TestProblemDetailsJSON(t *testing.T) {
	t.Run("contention advertises Retry-After", func(t *testing.T) {
		pd, retryAfter, status := serveError(t, account.Contention(numberA, numberB))
		assert.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, RetryAfterSeconds, retryAfter)
		assert.Equal(t, string(domain.KindTransferContention), pd.Code)
		assert.Contains(t, pd.Detail, numberA)
	})

	t.Run("not found has no Retry-After", func(t *testing.T) {
		pd, retryAfter, status := serveError(t, account.NotFound(numberA))
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Empty(t, retryAfter)
		assert.Equal(t, "Account '"+numberA+"' not found", pd.Detail)
		assert.Equal(t, "/fail", pd.Instance)
	})

	t.Run("internal cause is hidden", func(t *testing.T) {
		pd, _, status := serveError(t, domain.Internal("store failed", errors.New("dial tcp 10.0.0.5:5432")))
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, InternalErrorMessage, pd.Detail)
		assert.Equal(t, string(domain.KindInternal), pd.Code)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		pd, _, _ := serveError(t, errors.New("nil pointer dereference"))
		assert.Equal(t, InternalErrorMessage, pd.Detail)
	})

	t.Run("options override status and detail", func(t *testing.T) {
		pd, _, status := serveError(t, nil, "limit must not be negative", fiber.StatusBadRequest)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "limit must not be negative", pd.Detail)
	})
}

type operation struct {
	AccountNumber string       `json:"accountNumber" validate:"account_number"`
	Amount        money.Amount `json:"amount" validate:"required,gt=0"`
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name  string
		input operation
		want  []string
	}{
		{"valid", operation{numberA, money.MustParse("0.01")}, nil},
		{"short number", operation{"4081781", money.MustParse("1.00")}, []string{"accountNumber: " + MsgAccountNumber}},
		{"letters", operation{"4081781000000000000a", money.MustParse("1.00")}, []string{"accountNumber: " + MsgAccountNumber}},
		{"zero amount", operation{numberA, money.Zero}, []string{"amount: " + MsgAmount}},
		{"negative amount", operation{numberA, money.MustParse("-5.00")}, []string{"amount: " + MsgAmount}},
		{"both", operation{"", money.Zero}, []string{"accountNumber: " + MsgAccountNumber, "amount: " + MsgAmount}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validator().Struct(tt.input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.True(t, IsValidationError(err))
			assert.ElementsMatch(t, tt.want, validationMessages(t, err))
		})
	}
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ProblemDetailsJSON(c, "Validation failed", err) })
	resp, reqErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Errors
}
