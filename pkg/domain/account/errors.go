package account

import (
	"fmt"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/money"
)

// NotFound reports that no account has the given number.
func NotFound(number string) error {
	return domain.New(domain.KindAccountNotFound,
		fmt.Sprintf("Account '%s' not found", number), number)
}

// AlreadyExists reports that the number is already taken.
func AlreadyExists(number string) error {
	return domain.New(domain.KindAccountAlreadyExists,
		fmt.Sprintf("Account '%s' already exists", number), number)
}

// InsufficientFunds reports that the account balance does not cover a debit.
func InsufficientFunds(number string) error {
	return domain.New(domain.KindInsufficientFunds,
		fmt.Sprintf("Insufficient funds on account '%s'", number), number)
}

// SelfTransfer reports a transfer whose source and target are the same account.
func SelfTransfer(number string) error {
	return domain.New(domain.KindSelfTransferNotAllowed,
		fmt.Sprintf("Transfer from an account to itself ('%s') is not allowed", number), number)
}

// Contention reports a lock conflict between operations on the given accounts.
func Contention(source, target string) error {
	return domain.New(domain.KindTransferContention,
		fmt.Sprintf("A transfer from the same accounts ('%s', '%s') to each other has been detected. Please try again later",
			source, target), source, target)
}

// InvalidNumber reports a malformed account number.
func InvalidNumber(number string) error {
	return domain.New(domain.KindInvalidAccountNumber,
		fmt.Sprintf("Account number '%s' must consist of only %d digits", number, NumberLength), number)
}

// InvalidAmount reports a non-positive operation amount.
func InvalidAmount(amount money.Amount) error {
	return domain.New(domain.KindInvalidAmount,
		fmt.Sprintf("Invalid operation amount %s", amount))
}
