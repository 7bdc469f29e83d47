package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/minibank/internal/auditlog"
	"github.com/cleared-dev/minibank/internal/commands"
)

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestVersion(t *testing.T) {
	out, err := run{dir: t.TempDir()}.minibank(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}

func TestShell_Session(t *testing.T) {
	dir := t.TempDir()
	input := script(
		"u", "111.222.333-44", "Bruno Lima", "20/11/1985", "Av. B, 200 - Boa Vista - Recife/PE",
		"c", "11122233344",
		"d", "11122233344", "250,75",
		"s", "11122233344", "50",
		"e", "11122233344",
		"l",
		"f",
	)

	out, err := run{dir: dir, stdin: input}.minibank(t)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Customer Bruno registered successfully, welcome!")
	assert.Contains(t, out, "Checking account no. 1 created successfully!")
	assert.Contains(t, out, "Deposit of R$ 250.75 completed successfully!")
	assert.Contains(t, out, "Withdrawal completed successfully!")
	assert.Contains(t, out, "Balance: R$ 200.75")
	assert.Contains(t, out, "Holder: Bruno Lima\nBranch: 0001\nChecking account: 1")
	assert.Contains(t, out, "Session finished. Thank you for using Mini Bank!")
}

func TestShell_ConfigAndAudit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	auditPath := filepath.Join(dir, "logs", "audit.csv")
	file := "bank:\n  name: Banco Norte\n  branch: \"0042\"\n  currency_symbol: US$\n" +
		"checking:\n  withdrawal_limit: \"100\"\n  max_withdrawals: 1\n" +
		"audit:\n  path: " + auditPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(file), 0o644))

	input := script(
		"u", "5", "Carla Dias", "02/02/2002", "Rua C",
		"c", "5",
		"d", "5", "500",
		"s", "5", "150",
		"s", "5", "20",
		"s", "5", "20",
		"f",
	)
	out, err := run{dir: dir, stdin: input}.minibank(t, "--config", cfgPath)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Deposit of US$ 500.00 completed successfully!")
	assert.Contains(t, out, "Amount exceeds the per-withdrawal limit.")
	assert.Equal(t, 1, strings.Count(out, "Withdrawal completed successfully!"))
	assert.Contains(t, out, "Withdrawal limit reached.")
	assert.Contains(t, out, "Thank you for using Banco Norte!")

	entries, err := auditlog.Read(auditPath)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, "0042-1", entries[1].Account)
	assert.Equal(t, auditlog.ActionWithdraw, entries[5].Action)
	assert.Equal(t, "withdrawal count limit reached", entries[5].Outcome)
}

func TestShell_BadConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := run{dir: dir, stdin: "f\n"}.minibank(t, "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestShell_RejectsArgs(t *testing.T) {
	_, err := run{dir: t.TempDir()}.minibank(t, "deposit")
	require.Error(t, err)
}

func TestRootCommand_InProcess(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "minibank.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("bank:\n  name: Test Bank\n"), 0o644))

	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetIn(strings.NewReader(script("l", "z", "f")))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No accounts registered.")
	assert.Contains(t, out.String(), "Invalid option!")
	assert.Contains(t, out.String(), "Thank you for using Test Bank!")
}
