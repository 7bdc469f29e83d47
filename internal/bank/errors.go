package bank

import "errors"

// Rejections returned by the ledger core. None of them change any state.
var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrWithdrawalLimitExceeded = errors.New("amount exceeds the per-withdrawal limit")
	ErrWithdrawalCountExceeded = errors.New("withdrawal count limit reached")
	ErrUnknownKind             = errors.New("unknown transaction kind")
	ErrNotAccountOwner         = errors.New("account does not belong to customer")
	ErrNoAccount               = errors.New("customer has no account")
)
