package bank

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/minibank/internal/model"
)

// Statement is the append-only history of one account.
// It is not safe for concurrent use on its own; Account serializes access.
type Statement struct {
	entries []model.Entry
}

// Append records an entry at the end of the statement.
func (s *Statement) Append(kind model.EntryKind, amount decimal.Decimal, at time.Time) {
	s.entries = append(s.entries, model.Entry{Kind: kind, Amount: amount, Time: at})
}

// Entries returns a copy of the entries in the order they were appended.
func (s *Statement) Entries() []model.Entry {
	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns how many entries of the given kind exist.
// It walks the entries every time so it cannot drift from them.
func (s *Statement) Count(kind model.EntryKind) int {
	n := 0
	for _, e := range s.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Totals returns the sum of deposits and the sum of withdrawals.
func (s *Statement) Totals() (deposits, withdrawals decimal.Decimal) {
	deposits, withdrawals = decimal.Zero, decimal.Zero
	for _, e := range s.entries {
		switch e.Kind {
		case model.KindDeposit:
			deposits = deposits.Add(e.Amount)
		case model.KindWithdrawal:
			withdrawals = withdrawals.Add(e.Amount)
		}
	}
	return deposits, withdrawals
}
