package domain

import "errors"

// Kind is a stable, machine-readable error category.
type Kind string

// Error kinds.
const (
	KindAccountNotFound        Kind = "ACCOUNT_NOT_FOUND"
	KindAccountAlreadyExists   Kind = "ACCOUNT_ALREADY_EXISTS"
	KindInsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	KindSelfTransferNotAllowed Kind = "SELF_TRANSFER_NOT_ALLOWED"
	KindTransferContention     Kind = "TRANSFER_CONTENTION"
	KindInvalidAccountNumber   Kind = "INVALID_ACCOUNT_NUMBER"
	KindInvalidAmount          Kind = "INVALID_AMOUNT"
	KindInternal               Kind = "INTERNAL"
)

// Sentinels for errors.Is checks. Any *Error of the same Kind matches.
var (
	// ErrAccountNotFound is returned when no account has the requested number.
	ErrAccountNotFound = &Error{Kind: KindAccountNotFound, Message: "account not found"}
	// ErrAccountAlreadyExists is returned when creating an account whose number is taken.
	ErrAccountAlreadyExists = &Error{Kind: KindAccountAlreadyExists, Message: "account already exists"}
	// ErrInsufficientFunds is returned when a debit would make a balance negative.
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	// ErrSelfTransferNotAllowed is returned when source and target of a transfer are the same account.
	ErrSelfTransferNotAllowed = &Error{Kind: KindSelfTransferNotAllowed, Message: "self transfer not allowed"}
	// ErrTransferContention is returned when a lock could not be acquired in time. Safe to retry.
	ErrTransferContention = &Error{Kind: KindTransferContention, Message: "transfer contention"}
	// ErrInvalidAccountNumber is returned for malformed account numbers.
	ErrInvalidAccountNumber = &Error{Kind: KindInvalidAccountNumber, Message: "invalid account number"}
	// ErrInvalidAmount is returned for non-positive or malformed amounts.
	ErrInvalidAmount = &Error{Kind: KindInvalidAmount, Message: "invalid operation amount"}
)

// Error is a domain failure carrying a Kind, a human-readable message and the
// account numbers involved.
type Error struct {
	Kind     Kind
	Message  string
	Accounts []string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds a domain error of the given kind.
func New(kind Kind, msg string, accounts ...string) *Error {
	return &Error{Kind: kind, Message: msg, Accounts: accounts}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal if err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Retryable reports whether the failed operation may be retried unchanged.
func Retryable(err error) bool {
	return KindOf(err) == KindTransferContention
}
