package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/minibank/internal/auditlog"
	"github.com/cleared-dev/minibank/internal/bank"
	"github.com/cleared-dev/minibank/internal/config"
	"github.com/cleared-dev/minibank/internal/directory"
	"github.com/cleared-dev/minibank/internal/id"
	"github.com/cleared-dev/minibank/internal/statement"
)

const menu = `
============= MENU =============
[d] Deposit
[s] Withdraw
[e] Statement
[u] New customer
[c] New account
[l] List accounts
[x] Export statement
[f] Finish
================================
=> `

// errInputClosed ends the loop cleanly when the operator's input runs out.
var errInputClosed = errors.New("input closed")

var errInvalidAmountInput = errors.New("invalid amount input")

// errLineTooLong cancels the current operation; the session goes on.
var errLineTooLong = errors.New("input line too long")

// maxLineLength bounds one line of operator input in bytes.
const maxLineLength = 4096

// amountPattern allows at most 12 integer digits and 2 decimal places.
var amountPattern = regexp.MustCompile(`^[0-9]{1,12}([.,][0-9]{1,2})?$`)

// Shell is the operator's text menu over a directory.
type Shell struct {
	dir    *directory.Service
	cfg    *config.Config
	logger *zap.Logger
	audit  Recorder

	in         *bufio.Scanner
	discarding bool // inside an overlong line
	overflow   bool // the last line read was overlong
	out        io.Writer
	outErr     error
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sends one audit entry per operation to r.
func WithRecorder(r Recorder) Option {
	return func(s *Shell) {
		s.audit = r
	}
}

// New creates a Shell reading operator input from in and writing to out.
func New(dir *directory.Service, cfg *config.Config, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		dir:    dir,
		cfg:    cfg,
		logger: zap.NewNop(),
		in:     bufio.NewScanner(in),
		out:    out,
	}
	s.in.Split(s.splitLines)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the operator finishes, input ends, or ctx is done.
// It returns an error only when reading input or writing output fails.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := s.readLine(menu)
		if errors.Is(err, errLineTooLong) {
			s.fail("Input line too long. Operation cancelled.")
			if s.outErr != nil {
				return s.outErr
			}
			continue
		}
		if err != nil {
			return ignoreClosed(err)
		}

		switch strings.ToLower(choice) {
		case "d":
			err = s.deposit()
		case "s":
			err = s.withdraw()
		case "e":
			err = s.showStatement()
		case "u":
			err = s.registerCustomer()
		case "c":
			err = s.openAccount()
		case "l":
			s.listAccounts()
		case "x":
			err = s.exportStatement()
		case "f":
			s.success("Session finished. Thank you for using %s!", s.cfg.Bank.Name)
			return s.outErr
		default:
			s.fail("Invalid option!")
		}

		if errors.Is(err, errLineTooLong) {
			s.fail("Input line too long. Operation cancelled.")
			err = nil
		}
		if err == nil {
			err = s.outErr
		}
		if err != nil {
			return ignoreClosed(err)
		}
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (s *Shell) deposit() error {
	return s.transact(auditlog.ActionDeposit, "Amount to deposit: ", bank.Deposit)
}

func (s *Shell) withdraw() error {
	return s.transact(auditlog.ActionWithdraw, "Amount to withdraw: ", bank.Withdrawal)
}

func (s *Shell) transact(action auditlog.Action, amountPrompt string, build func(decimal.Decimal) bank.Transaction) error {
	customer, acct, taxID, err := s.resolveAccount()
	if err != nil {
		return s.rejectIfDomain(action, taxID, nil, "", err)
	}

	raw, err := s.readLine("\n" + amountPrompt)
	if err != nil {
		return err
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return s.rejectIfDomain(action, taxID, acct, raw, err)
	}

	tx := build(amount)
	if err := customer.ApplyTransaction(acct, tx); err != nil {
		s.logger.Info("transaction rejected",
			zap.String("kind", string(tx.Kind)),
			zap.String("amount", amount.String()),
			zap.Int("account", acct.Number()),
			zap.Error(err),
		)
		return s.rejectIfDomain(action, taxID, acct, raw, err)
	}

	s.logger.Debug("transaction applied",
		zap.String("kind", string(tx.Kind)),
		zap.String("amount", amount.String()),
		zap.Int("account", acct.Number()),
	)
	if action == auditlog.ActionDeposit {
		s.success("Deposit of %s completed successfully!", s.money(amount))
	} else {
		s.success("Withdrawal completed successfully!")
	}
	s.record(action, taxID, acct, raw, nil)
	return nil
}

// resolveAccount asks for a tax ID and returns the customer and their first account.
func (s *Shell) resolveAccount() (*bank.Customer, *bank.Account, string, error) {
	raw, err := s.readLine("\nCustomer tax ID: ")
	if err != nil {
		return nil, nil, "", err
	}
	taxID, err := id.NormalizeTaxID(raw)
	if err != nil {
		return nil, nil, strings.TrimSpace(raw), err
	}
	customer, err := s.dir.FindCustomer(taxID)
	if err != nil {
		return nil, nil, taxID, err
	}
	acct, err := customer.PrimaryAccount()
	if err != nil {
		return nil, nil, taxID, err
	}
	return customer, acct, taxID, nil
}

func (s *Shell) showStatement() error {
	_, acct, taxID, err := s.resolveAccount()
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionStatement, taxID, nil, "", err)
	}

	view := acct.Statement()
	s.printf("\n=============== STATEMENT ===============\n")
	if len(view.Entries) == 0 {
		s.printf("No transactions recorded.\n")
	}
	for _, e := range view.Entries {
		s.printf("%s - %s: %s\n", e.Time.Format(s.cfg.Statement.TimeFormat), e.Kind.Label(), s.money(e.Amount))
	}
	s.printf("\nBalance: %s\n", s.money(view.Balance))
	s.printf("=========================================\n")

	for _, v := range statement.Verify(view.Entries, view.Balance) {
		s.logger.Warn("statement inconsistency", zap.Int("account", view.Number), zap.String("violation", v.Error()))
	}
	s.record(auditlog.ActionStatement, taxID, acct, "", nil)
	return nil
}

func (s *Shell) registerCustomer() error {
	raw, err := s.readLine("Tax ID (digits only): ")
	if err != nil {
		return err
	}
	taxID, err := id.NormalizeTaxID(raw)
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionRegister, strings.TrimSpace(raw), nil, "", err)
	}
	if s.dir.Exists(taxID) {
		return s.rejectIfDomain(auditlog.ActionRegister, taxID, nil, "", directory.ErrCustomerExists)
	}

	name, err := s.readLine("Full name: ")
	if err != nil {
		return err
	}
	birth, err := s.readLine("Birth date (dd/mm/yyyy): ")
	if err != nil {
		return err
	}
	address, err := s.readLine("Address (street, no. - district - city/state): ")
	if err != nil {
		return err
	}

	customer, err := s.dir.RegisterCustomer(directory.RegisterParams{
		TaxID:     taxID,
		Name:      name,
		BirthDate: birth,
		Address:   address,
	})
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionRegister, taxID, nil, "", err)
	}

	s.success("Customer %s registered successfully, welcome!", customer.FirstName())
	s.record(auditlog.ActionRegister, taxID, nil, "", nil)
	return nil
}

func (s *Shell) openAccount() error {
	raw, err := s.readLine("Account holder tax ID (digits only): ")
	if err != nil {
		return err
	}
	taxID, err := id.NormalizeTaxID(raw)
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionOpenAccount, strings.TrimSpace(raw), nil, "", err)
	}
	customer, err := s.dir.FindCustomer(taxID)
	if err != nil {
		s.fail("Customer not found. Please register first.")
		s.record(auditlog.ActionOpenAccount, taxID, nil, "", err)
		return nil
	}

	acct, err := s.dir.OpenAccount(customer)
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionOpenAccount, taxID, nil, "", err)
	}
	s.success("Checking account no. %d created successfully!", acct.Number())
	s.record(auditlog.ActionOpenAccount, taxID, acct, "", nil)
	return nil
}

func (s *Shell) listAccounts() {
	summaries := s.dir.ListAccounts()
	if len(summaries) == 0 {
		s.printf("\nNo accounts registered.\n")
		return
	}
	for _, a := range summaries {
		s.printf("%s\n", strings.Repeat("=", 45))
		s.printf("Holder: %s\nBranch: %s\nChecking account: %d\n", a.Owner, a.Branch, a.Number)
	}
}

func (s *Shell) exportStatement() error {
	_, acct, taxID, err := s.resolveAccount()
	if err != nil {
		return s.rejectIfDomain(auditlog.ActionExport, taxID, nil, "", err)
	}
	path, err := s.readLine("Export to file: ")
	if err != nil {
		return err
	}
	if path == "" {
		s.fail("A file name is required.")
		return nil
	}

	if err := writeStatementFile(path, acct); err != nil {
		s.logger.Warn("statement export failed", zap.String("path", path), zap.Error(err))
		s.fail("Could not export statement: %v", err)
		s.record(auditlog.ActionExport, taxID, acct, "", err)
		return nil
	}
	s.success("Statement exported to %s", path)
	s.record(auditlog.ActionExport, taxID, acct, "", nil)
	return nil
}

func writeStatementFile(path string, acct *bank.Account) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := statement.WriteEntries(f, acct.Statement().Entries); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// rejectIfDomain reports err to the operator and the audit log when it is an
// operator-recoverable rejection, and passes I/O errors through.
func (s *Shell) rejectIfDomain(action auditlog.Action, taxID string, acct *bank.Account, amount string, err error) error {
	msg, ok := describe(err)
	if !ok {
		return err
	}
	s.fail("%s", msg)
	s.record(action, taxID, acct, amount, err)
	return nil
}

// describe maps rejections to operator messages. ok is false for errors
// that should end the loop.
func describe(err error) (msg string, ok bool) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, errInputClosed):
		return "", false
	case errors.Is(err, bank.ErrInvalidAmount), errors.Is(err, errInvalidAmountInput):
		return "Invalid amount!", true
	case errors.Is(err, bank.ErrInsufficientFunds):
		return "Insufficient funds.", true
	case errors.Is(err, bank.ErrWithdrawalCountExceeded):
		return "Withdrawal limit reached.", true
	case errors.Is(err, bank.ErrWithdrawalLimitExceeded):
		return "Amount exceeds the per-withdrawal limit.", true
	case errors.Is(err, directory.ErrCustomerNotFound), errors.Is(err, bank.ErrNoAccount), errors.Is(err, bank.ErrNotAccountOwner):
		return "Customer or account not found. Please register first.", true
	case errors.Is(err, directory.ErrCustomerExists):
		return "A customer with this tax ID already exists!", true
	case errors.Is(err, id.ErrInvalidTaxID):
		return "Tax ID must contain only digits.", true
	case errors.As(err, &verrs):
		return "Could not register customer: " + err.Error(), true
	default:
		return "", false
	}
}

func (s *Shell) record(action auditlog.Action, taxID string, acct *bank.Account, amount string, err error) {
	if s.audit == nil {
		return
	}
	e := auditlog.Entry{
		Action:  action,
		TaxID:   taxID,
		Amount:  strings.TrimSpace(amount),
		Outcome: auditlog.OutcomeOK,
	}
	if acct != nil {
		e.Account = id.FormatAccountRef(acct.Branch(), acct.Number())
	}
	if err != nil {
		e.Outcome = err.Error()
	}
	if rerr := s.audit.Record(e); rerr != nil {
		s.logger.Warn("audit record failed", zap.String("action", string(action)), zap.Error(rerr))
	}
}

// parseAmount accepts "100", "100.50" or "100,50". Signs, exponents and
// fractions of a cent are rejected.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", errInvalidAmountInput, raw)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", errInvalidAmountInput, raw)
	}
	return d, nil
}

func (s *Shell) money(d decimal.Decimal) string {
	return s.cfg.Bank.CurrencySymbol + " " + d.StringFixed(2)
}

func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	if s.outErr != nil {
		return "", s.outErr
	}
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errInputClosed
	}
	if s.overflow {
		s.overflow = false
		return "", errLineTooLong
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// splitLines is bufio.ScanLines with a length cap: a line longer than
// maxLineLength is dropped and reported through s.overflow instead of
// failing the scanner.
func (s *Shell) splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if s.discarding || i > maxLineLength {
			s.discarding = false
			s.overflow = true
			return i + 1, []byte{}, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		if len(data) == 0 {
			if s.discarding {
				s.discarding = false
				s.overflow = true
				return 0, []byte{}, nil
			}
			return 0, nil, nil
		}
		if s.discarding || len(data) > maxLineLength {
			s.discarding = false
			s.overflow = true
			return len(data), []byte{}, nil
		}
		return len(data), data, nil
	}
	if len(data) > maxLineLength {
		s.discarding = true
		return len(data), nil, nil
	}
	return 0, nil, nil
}

func (s *Shell) success(format string, args ...any) {
	s.printf("\n✅ "+format+"\n", args...)
}

func (s *Shell) fail(format string, args ...any) {
	s.printf("\n❌ "+format+"\n", args...)
}

// printf writes to the output and keeps the first write error.
func (s *Shell) printf(format string, args ...any) {
	if s.outErr != nil {
		return
	}
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		s.outErr = fmt.Errorf("writing output: %w", err)
	}
}
