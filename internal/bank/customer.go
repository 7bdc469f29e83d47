package bank

import (
	"strings"
	"sync"
	"time"
)

// Customer is a registered account holder, identified by tax ID.
type Customer struct {
	TaxID     string
	Name      string
	BirthDate time.Time
	Address   string

	mu       sync.RWMutex
	accounts []*Account
}

// NewCustomer creates a customer with no accounts.
func NewCustomer(taxID, name string, birthDate time.Time, address string) *Customer {
	return &Customer{
		TaxID:     taxID,
		Name:      name,
		BirthDate: birthDate,
		Address:   address,
	}
}

// FirstName returns the first word of the customer's name.
func (c *Customer) FirstName() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// AddAccount appends acct to the customer's accounts.
func (c *Customer) AddAccount(acct *Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = append(c.accounts, acct)
}

// Accounts returns the customer's accounts in the order they were opened.
func (c *Customer) Accounts() []*Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// PrimaryAccount returns the first account opened for the customer.
func (c *Customer) PrimaryAccount() (*Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.accounts) == 0 {
		return nil, ErrNoAccount
	}
	return c.accounts[0], nil
}

// Owns reports whether acct is one of the customer's accounts.
func (c *Customer) Owns(acct *Account) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.accounts {
		if a == acct {
			return true
		}
	}
	return false
}

// ApplyTransaction applies tx to acct on the customer's behalf.
// The account must belong to the customer.
func (c *Customer) ApplyTransaction(acct *Account, tx Transaction) error {
	if acct == nil || !c.Owns(acct) {
		return ErrNotAccountOwner
	}
	return tx.Apply(acct)
}
