package bank

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/minibank/internal/model"
)

// Transaction is a requested deposit or withdrawal. It is a value; only its
// effect is recorded, as a statement entry, and only when it succeeds.
type Transaction struct {
	Kind   model.EntryKind
	Amount decimal.Decimal
}

// Deposit returns a deposit transaction.
func Deposit(amount decimal.Decimal) Transaction {
	return Transaction{Kind: model.KindDeposit, Amount: amount}
}

// Withdrawal returns a withdrawal transaction.
func Withdrawal(amount decimal.Decimal) Transaction {
	return Transaction{Kind: model.KindWithdrawal, Amount: amount}
}

// Apply runs the transaction against acct. On success the statement gains one
// entry of the transaction's kind and amount; on rejection nothing changes.
func (t Transaction) Apply(acct *Account) error {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	var err error
	switch t.Kind {
	case model.KindDeposit:
		err = acct.deposit(t.Amount)
	case model.KindWithdrawal:
		err = acct.withdraw(t.Amount)
	default:
		return ErrUnknownKind
	}
	if err != nil {
		return err
	}

	acct.statement.Append(t.Kind, t.Amount, acct.now())
	return nil
}

// DepositTo deposits amount into acct.
func DepositTo(acct *Account, amount decimal.Decimal) error {
	return Deposit(amount).Apply(acct)
}

// WithdrawFrom withdraws amount from acct.
func WithdrawFrom(acct *Account, amount decimal.Decimal) error {
	return Withdrawal(amount).Apply(acct)
}
