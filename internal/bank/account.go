package bank

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/minibank/internal/model"
)

// Defaults applied to checking accounts opened without explicit limits.
var (
	DefaultWithdrawalLimit = decimal.NewFromInt(500)
	DefaultMaxWithdrawals  = 3
)

// DefaultBranch is the branch code used when none is configured.
const DefaultBranch = "0001"

// WithdrawalPolicy holds the checking-account withdrawal rules.
type WithdrawalPolicy struct {
	MaxAmount decimal.Decimal // per-withdrawal ceiling
	MaxCount  int             // withdrawals honored over the account's life
}

// DefaultPolicy returns the policy used for new checking accounts.
func DefaultPolicy() WithdrawalPolicy {
	return WithdrawalPolicy{MaxAmount: DefaultWithdrawalLimit, MaxCount: DefaultMaxWithdrawals}
}

// AccountOption configures an Account at creation time.
type AccountOption func(*Account)

// WithPolicy makes the account a checking account governed by p.
func WithPolicy(p WithdrawalPolicy) AccountOption {
	return func(a *Account) {
		a.policy = &p
	}
}

// WithClock overrides the clock used to timestamp statement entries.
func WithClock(now func() time.Time) AccountOption {
	return func(a *Account) {
		if now != nil {
			a.now = now
		}
	}
}

// Account holds a balance and the statement that explains it.
// All mutation goes through Transaction.Apply, which holds mu for the whole
// check-mutate-append sequence.
type Account struct {
	mu        sync.Mutex
	number    int
	branch    string
	owner     *Customer
	balance   decimal.Decimal
	statement Statement
	policy    *WithdrawalPolicy
	now       func() time.Time
}

// NewAccount creates an empty account. Without WithPolicy it follows the
// base rules only.
func NewAccount(owner *Customer, number int, branch string, opts ...AccountOption) *Account {
	if branch == "" {
		branch = DefaultBranch
	}
	a := &Account{
		number:  number,
		branch:  branch,
		owner:   owner,
		balance: decimal.Zero,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewCheckingAccount creates an account governed by the given withdrawal policy.
func NewCheckingAccount(owner *Customer, number int, branch string, policy WithdrawalPolicy, opts ...AccountOption) *Account {
	return NewAccount(owner, number, branch, append([]AccountOption{WithPolicy(policy)}, opts...)...)
}

// Number returns the sequential account number.
func (a *Account) Number() int { return a.number }

// Branch returns the branch code.
func (a *Account) Branch() string { return a.branch }

// Owner returns the customer the account was opened for.
func (a *Account) Owner() *Customer { return a.owner }

// Policy returns the withdrawal policy and whether one is set.
func (a *Account) Policy() (WithdrawalPolicy, bool) {
	if a.policy == nil {
		return WithdrawalPolicy{}, false
	}
	return *a.policy, true
}

// IsChecking reports whether the account carries a withdrawal policy.
func (a *Account) IsChecking() bool {
	return a.policy != nil
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Withdrawals returns the number of withdrawals recorded so far.
func (a *Account) Withdrawals() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statement.Count(model.KindWithdrawal)
}

// StatementView is a consistent snapshot of an account's history and balance.
type StatementView struct {
	Number  int
	Branch  string
	Entries []model.Entry
	Balance decimal.Decimal
}

// Statement returns the entries and balance taken under the same lock.
func (a *Account) Statement() StatementView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return StatementView{
		Number:  a.number,
		Branch:  a.branch,
		Entries: a.statement.Entries(),
		Balance: a.balance,
	}
}

// String renders the account the way the listing prints it.
func (a *Account) String() string {
	owner := ""
	if a.owner != nil {
		owner = a.owner.Name
	}
	return fmt.Sprintf("Holder: %s\nBranch: %s\nChecking account: %d", owner, a.branch, a.number)
}

// withdraw applies the withdrawal rules and mutates the balance. Caller holds mu.
func (a *Account) withdraw(amount decimal.Decimal) error {
	if a.policy != nil {
		if a.statement.Count(model.KindWithdrawal) >= a.policy.MaxCount {
			return ErrWithdrawalCountExceeded
		}
		if amount.GreaterThan(a.policy.MaxAmount) {
			return ErrWithdrawalLimitExceeded
		}
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// deposit mutates the balance. Caller holds mu.
func (a *Account) deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}
