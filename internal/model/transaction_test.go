package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryKind(t *testing.T) {
	tests := []struct {
		kind  EntryKind
		valid bool
		label string
	}{
		{KindDeposit, true, "Deposit"},
		{KindWithdrawal, true, "Withdrawal"},
		{EntryKind("transfer"), false, "transfer"},
		{EntryKind(""), false, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.kind.Valid(), "Valid(%q)", tt.kind)
		assert.Equal(t, tt.label, tt.kind.Label(), "Label(%q)", tt.kind)
	}
}
