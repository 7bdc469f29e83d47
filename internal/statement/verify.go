package statement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/minibank/internal/model"
)

// Rule identifies which statement rule a Violation breaks.
type Rule string

const (
	RulePositiveAmount Rule = "positive-amount"
	RuleKnownKind      Rule = "known-kind"
	RuleChronological  Rule = "chronological"
	RuleBalance        Rule = "balance"
	RuleNonNegative    Rule = "non-negative"
)

// Violation describes one inconsistency between a statement and its balance.
type Violation struct {
	Rule        Rule
	Index       int // entry index, -1 for whole-statement rules
	Description string
}

func (v Violation) Error() string {
	if v.Index < 0 {
		return fmt.Sprintf("%s: %s", v.Rule, v.Description)
	}
	return fmt.Sprintf("%s [entry %d]: %s", v.Rule, v.Index, v.Description)
}

// Verify checks that entries explain balance: every amount is positive,
// entries never go back in time, the running balance never dips below zero,
// and deposits minus withdrawals equal the balance.
func Verify(entries []model.Entry, balance decimal.Decimal) []Violation {
	var out []Violation

	running := decimal.Zero
	for i, e := range entries {
		if !e.Amount.IsPositive() {
			out = append(out, Violation{
				Rule:        RulePositiveAmount,
				Index:       i,
				Description: fmt.Sprintf("amount %s is not positive", e.Amount),
			})
		}

		switch e.Kind {
		case model.KindDeposit:
			running = running.Add(e.Amount)
		case model.KindWithdrawal:
			running = running.Sub(e.Amount)
		default:
			out = append(out, Violation{
				Rule:        RuleKnownKind,
				Index:       i,
				Description: fmt.Sprintf("unknown kind %q", e.Kind),
			})
		}

		if running.IsNegative() {
			out = append(out, Violation{
				Rule:        RuleNonNegative,
				Index:       i,
				Description: fmt.Sprintf("running balance %s below zero", running.StringFixed(2)),
			})
		}

		if i > 0 && e.Time.Before(entries[i-1].Time) {
			out = append(out, Violation{
				Rule:        RuleChronological,
				Index:       i,
				Description: "entry is older than the one before it",
			})
		}
	}

	if !running.Equal(balance) {
		out = append(out, Violation{
			Rule:        RuleBalance,
			Index:       -1,
			Description: fmt.Sprintf("entries sum to %s but balance is %s", running.StringFixed(2), balance.StringFixed(2)),
		})
	}
	return out
}
