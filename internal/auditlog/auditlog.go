package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action names an operator operation.
type Action string

const (
	ActionRegister    Action = "register"
	ActionOpenAccount Action = "open_account"
	ActionDeposit     Action = "deposit"
	ActionWithdraw    Action = "withdraw"
	ActionStatement   Action = "statement"
	ActionExport      Action = "export"
)

// OutcomeOK is recorded for operations that succeeded.
const OutcomeOK = "ok"

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Session   string
	Action    Action
	TaxID     string
	Account   string // branch-number reference, empty if none
	Amount    string // as typed by the operator, empty if none
	Outcome   string // OutcomeOK or the rejection message
}

// Header is the CSV header for the audit log.
const Header = "timestamp,session,action,tax_id,account,amount,outcome"

const (
	numFields    = 7
	colTimestamp = 0
	colSession   = 1
	colAction    = 2
	colTaxID     = 3
	colAccount   = 4
	colAmount    = 5
	colOutcome   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.Session
	row[colAction] = string(e.Action)
	row[colTaxID] = e.TaxID
	row[colAccount] = e.Account
	row[colAmount] = e.Amount
	row[colOutcome] = e.Outcome
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Session:   record[colSession],
		Action:    Action(record[colAction]),
		TaxID:     record[colTaxID],
		Account:   record[colAccount],
		Amount:    record[colAmount],
		Outcome:   record[colOutcome],
	}, nil
}

// Append writes entries to the file at path, creating it and its header if needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating audit log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the file at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log appends entries for one shell session to a file.
type Log struct {
	path    string
	session string
	now     func() time.Time
}

// New returns a Log writing to path under a fresh session ID.
func New(path string) *Log {
	return &Log{path: path, session: uuid.NewString(), now: time.Now}
}

// Session returns the session ID stamped on every entry.
func (l *Log) Session() string {
	return l.session
}

// Record stamps e with the session and, if unset, the current time, then appends it.
func (l *Log) Record(e Entry) error {
	e.Session = l.session
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}
	return Append(l.path, []Entry{e})
}
