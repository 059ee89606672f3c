package account

import (
	"regexp"
	"time"

	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

// NumberLength is the fixed length of an external account number.
const NumberLength = 20

// ReservedNumber was the legacy system counterparty. It can never be created.
const ReservedNumber = "00000000000000000000"

var numberPattern = regexp.MustCompile(`^\d{20}$`)

// Account is a named balance holder.
//
// Invariants:
//   - Number is 20 decimal digits and never changes.
//   - Balance is never negative.
//   - Balance is only changed through Withdraw and Deposit, and only while the
//     caller holds the account's exclusive lock.
type Account struct {
	ID        uuid.UUID
	Number    string
	Balance   money.Amount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the external representation of an account.
type View struct {
	Number  string       `json:"accountNumber"`
	Balance money.Amount `json:"balance"`
}

// ValidNumber reports whether number has the external account number format.
func ValidNumber(number string) bool {
	return numberPattern.MatchString(number)
}

// New creates a zero-balance account with a fresh ID.
func New(number string) (*Account, error) {
	if !ValidNumber(number) || number == ReservedNumber {
		return nil, InvalidNumber(number)
	}
	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New(),
		Number:    number,
		Balance:   money.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewFromData hydrates an account from storage without validation.
func NewFromData(id uuid.UUID, number string, balance money.Amount, created, updated time.Time) *Account {
	return &Account{
		ID:        id,
		Number:    number,
		Balance:   balance,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// Withdraw decreases the balance by amount. It fails without side effects if
// amount is not positive or the balance does not cover it.
func (a *Account) Withdraw(amount money.Amount) error {
	if !amount.IsPositive() {
		return InvalidAmount(amount)
	}
	if a.Balance.LessThan(amount) {
		return InsufficientFunds(a.Number)
	}
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Deposit increases the balance by amount.
func (a *Account) Deposit(amount money.Amount) error {
	if !amount.IsPositive() {
		return InvalidAmount(amount)
	}
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// View returns the external representation of the account.
func (a *Account) View() View {
	return View{Number: a.Number, Balance: a.Balance}
}

// Clone returns a copy that shares no state with a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
