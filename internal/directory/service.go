package directory

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/cleared-dev/minibank/internal/bank"
	"github.com/cleared-dev/minibank/internal/id"
	"github.com/cleared-dev/minibank/internal/model"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("a customer with this tax ID already exists")
)

// Options configures accounts opened through the directory.
type Options struct {
	Branch string
	Policy bank.WithdrawalPolicy
	Clock  func() time.Time
}

// Service is the in-memory registry of customers and accounts.
type Service struct {
	opts   Options
	logger *zap.Logger

	mu        sync.RWMutex
	customers []*bank.Customer
	accounts  []*bank.Account
}

// NewService creates an empty directory.
func NewService(opts Options, logger *zap.Logger) *Service {
	if opts.Branch == "" {
		opts.Branch = bank.DefaultBranch
	}
	if opts.Policy == (bank.WithdrawalPolicy{}) {
		opts.Policy = bank.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{opts: opts, logger: logger}
}

// RegisterParams holds the operator's input for a new customer.
type RegisterParams struct {
	TaxID     string
	Name      string
	BirthDate string // dd/mm/yyyy
	Address   string
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Validate checks the registration input.
func (p RegisterParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TaxID, validation.Required, validation.Match(digitsOnly).Error("must contain only digits")),
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.BirthDate, validation.Required, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			_, err := id.ParseBirthDate(s)
			return err
		})),
		validation.Field(&p.Address, validation.Required),
	)
}

// FindCustomer returns the first customer with the given tax ID.
func (s *Service) FindCustomer(taxID string) (*bank.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.findLocked(taxID); c != nil {
		return c, nil
	}
	return nil, ErrCustomerNotFound
}

func (s *Service) findLocked(taxID string) *bank.Customer {
	for _, c := range s.customers {
		if c.TaxID == taxID {
			return c
		}
	}
	return nil
}

// Exists reports whether a customer with the tax ID is registered.
func (s *Service) Exists(taxID string) bool {
	_, err := s.FindCustomer(taxID)
	return err == nil
}

// RegisterCustomer validates params and stores a new customer.
// A tax ID that is already registered is rejected and the existing customer
// is left untouched.
func (s *Service) RegisterCustomer(params RegisterParams) (*bank.Customer, error) {
	params.TaxID = strings.TrimSpace(params.TaxID)
	params.Name = strings.TrimSpace(params.Name)
	params.Address = strings.TrimSpace(params.Address)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	birth, err := id.ParseBirthDate(params.BirthDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(params.TaxID) != nil {
		s.logger.Info("duplicate customer rejected", zap.String("tax_id", params.TaxID))
		return nil, ErrCustomerExists
	}

	c := bank.NewCustomer(params.TaxID, params.Name, birth, params.Address)
	s.customers = append(s.customers, c)
	s.logger.Debug("customer registered", zap.String("tax_id", c.TaxID))
	return c, nil
}

// OpenAccount opens the next sequential checking account for customer.
func (s *Service) OpenAccount(customer *bank.Customer) (*bank.Account, error) {
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registeredLocked(customer) {
		return nil, ErrCustomerNotFound
	}

	number := len(s.accounts) + 1
	acct := bank.NewCheckingAccount(customer, number, s.opts.Branch, s.opts.Policy, bank.WithClock(s.opts.Clock))
	customer.AddAccount(acct)
	s.accounts = append(s.accounts, acct)
	s.logger.Debug("account opened",
		zap.String("tax_id", customer.TaxID),
		zap.String("account", id.FormatAccountRef(acct.Branch(), acct.Number())),
	)
	return acct, nil
}

func (s *Service) registeredLocked(customer *bank.Customer) bool {
	for _, c := range s.customers {
		if c == customer {
			return true
		}
	}
	return false
}

// ListAccounts returns one summary per account in opening order.
func (s *Service) ListAccounts() []model.AccountSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AccountSummary, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, model.AccountSummary{
			Owner:  a.Owner().Name,
			Branch: a.Branch(),
			Number: a.Number(),
		})
	}
	return out
}

// Accounts returns all accounts in opening order.
func (s *Service) Accounts() []*bank.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*bank.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Customers returns all customers in registration order.
func (s *Service) Customers() []*bank.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*bank.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}
