package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a statement entry.
type EntryKind string

const (
	KindDeposit    EntryKind = "deposit"
	KindWithdrawal EntryKind = "withdrawal"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Label returns the display name used on printed statements.
func (k EntryKind) Label() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdrawal:
		return "Withdrawal"
	default:
		return string(k)
	}
}

// Entry is a single recorded operation on an account statement.
type Entry struct {
	Kind   EntryKind
	Amount decimal.Decimal // always positive
	Time   time.Time
}
