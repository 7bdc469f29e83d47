package bank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerAccounts(t *testing.T) {
	c := NewCustomer("111", "Bruno Lima Costa", time.Time{}, "Av. B, 2")
	_, err := c.PrimaryAccount()
	assert.ErrorIs(t, err, ErrNoAccount)

	first := NewCheckingAccount(c, 1, DefaultBranch, DefaultPolicy())
	second := NewCheckingAccount(c, 2, DefaultBranch, DefaultPolicy())
	c.AddAccount(first)
	c.AddAccount(second)

	primary, err := c.PrimaryAccount()
	require.NoError(t, err)
	assert.Same(t, first, primary)
	assert.Len(t, c.Accounts(), 2)
	assert.Equal(t, "Bruno", c.FirstName())
}

func TestApplyTransaction(t *testing.T) {
	c := NewCustomer("111", "Bruno", time.Time{}, "")
	acct := NewCheckingAccount(c, 1, DefaultBranch, DefaultPolicy())
	c.AddAccount(acct)

	require.NoError(t, c.ApplyTransaction(acct, Deposit(dec("300"))))
	require.NoError(t, c.ApplyTransaction(acct, Withdrawal(dec("100"))))
	assert.True(t, acct.Balance().Equal(dec("200")))

	err := c.ApplyTransaction(acct, Withdrawal(dec("600")))
	assert.ErrorIs(t, err, ErrWithdrawalLimitExceeded)
}

func TestApplyTransactionRequiresOwnership(t *testing.T) {
	owner := NewCustomer("111", "Bruno", time.Time{}, "")
	other := NewCustomer("222", "Carla", time.Time{}, "")
	acct := NewCheckingAccount(owner, 1, DefaultBranch, DefaultPolicy())
	owner.AddAccount(acct)

	err := other.ApplyTransaction(acct, Deposit(dec("10")))
	assert.ErrorIs(t, err, ErrNotAccountOwner)
	assert.True(t, acct.Balance().IsZero())
	assert.Empty(t, acct.Statement().Entries)

	assert.ErrorIs(t, owner.ApplyTransaction(nil, Deposit(dec("10"))), ErrNotAccountOwner)
}

func TestFirstNameEmpty(t *testing.T) {
	assert.Equal(t, "", NewCustomer("1", "   ", time.Time{}, "").FirstName())
}
