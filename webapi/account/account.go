package account

import (
	"log/slog"

	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// TransferCompletedMessage is returned by a successful transfer.
const TransferCompletedMessage = "Transfer successfully completed"

// Routes registers HTTP routes for account operations.
//
// Routes:
//   - POST /api/account/create                       : Open an account.
//   - GET  /api/account/:accountNumber               : Read an account.
//   - POST /api/account/withdrawal                   : Debit an account.
//   - POST /api/account/deposit                      : Credit an account.
//   - POST /api/account/transfer                     : Move money between two accounts.
//   - GET  /api/account/:accountNumber/transactions  : List ledger entries, newest first.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "account-api")

	group := app.Group("/api/account")
	group.Post("/create", CreateAccount(accountSvc, logger))
	group.Post("/withdrawal", Withdraw(accountSvc, logger))
	group.Post("/deposit", Deposit(accountSvc, logger))
	group.Post("/transfer", Transfer(accountSvc, logger))
	group.Get("/:accountNumber/transactions", GetTransactions(accountSvc, logger))
	group.Get("/:accountNumber", GetAccount(accountSvc, logger))
}

// CreateAccount returns a Fiber handler for opening a zero-balance account.
func CreateAccount(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Create(c.UserContext(), input.AccountNumber)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a.View())
	}
}

// GetAccount returns a Fiber handler reading an account's balance.
func GetAccount(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := accountSvc.Get(c.UserContext(), c.Params("accountNumber"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", a.View())
	}
}

// Withdraw returns a Fiber handler debiting an account.
func Withdraw(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OperationRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Withdraw(c.UserContext(), input.AccountNumber, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", a.View())
	}
}

// Deposit returns a Fiber handler crediting an account.
func Deposit(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OperationRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Deposit(c.UserContext(), input.AccountNumber, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", a.View())
	}
}

// Transfer returns a Fiber handler moving money between two accounts.
func Transfer(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		src, err := accountSvc.Transfer(
			c.UserContext(),
			input.SourceAccountNumber,
			input.TargetAccountNumber,
			input.Amount,
		)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		logger.Debug("transfer served", "source", src.Number, "balance", src.Balance)
		return common.SuccessResponseJSON(c, fiber.StatusOK, TransferCompletedMessage, src.View())
	}
}

// GetTransactions returns a Fiber handler listing an account's ledger entries.
func GetTransactions(accountSvc *accountsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("accountNumber")
		limit := c.QueryInt("limit", 0)
		if limit < 0 {
			return common.ProblemDetailsJSON(c, "Invalid limit", nil, "limit must not be negative", fiber.StatusBadRequest)
		}
		txs, err := accountSvc.Transactions(c.UserContext(), number, limit)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", TransactionsResponse{
			AccountNumber: number,
			Transactions:  toTransactionViews(txs),
		})
	}
}
