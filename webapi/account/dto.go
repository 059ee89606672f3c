package account

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
)

// CreateAccountRequest represents the request body for opening an account.
type CreateAccountRequest struct {
	AccountNumber string `json:"accountNumber" validate:"account_number"`
}

// OperationRequest represents the request body for a withdrawal or deposit.
type OperationRequest struct {
	AccountNumber string       `json:"accountNumber" validate:"account_number"`
	Amount        money.Amount `json:"amount" validate:"required,gt=0"`
}

// TransferRequest represents the request body for a transfer between accounts.
type TransferRequest struct {
	SourceAccountNumber string       `json:"sourceAccountNumber" validate:"account_number"`
	TargetAccountNumber string       `json:"targetAccountNumber" validate:"account_number"`
	Amount              money.Amount `json:"amount" validate:"required,gt=0"`
}

// TransactionsResponse lists ledger entries of one account, newest first.
type TransactionsResponse struct {
	AccountNumber string                    `json:"accountNumber"`
	Transactions  []account.TransactionView `json:"transactions"`
}

func toTransactionViews(txs []*account.Transaction) []account.TransactionView {
	out := make([]account.TransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.View())
	}
	return out
}
