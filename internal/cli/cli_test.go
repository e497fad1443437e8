package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"fieldledger/internal/domain/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{out: &out, now: func() time.Time { return cliNow }}
	a.v = newViper()
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTotals_Table(t *testing.T) {
	out, err := run(t, "totals", "--item", "Labor:2:80", "--item", "Filter: 1 : 25.5", "--tax", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Labor")
	assert.Contains(t, out, "160.00")
	assert.Contains(t, out, "185.50")
	assert.Contains(t, out, "204.05")
}

func TestTotals_JSON(t *testing.T) {
	out, err := run(t, "totals", "--json", "--item", "Gate: latch:4:2.5")
	require.NoError(t, err)

	var res totalsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.LineItems, 1)
	assert.Equal(t, "Gate: latch", res.LineItems[0].Description)
	assert.Equal(t, 10.0, res.LineItems[0].LineTotal)
	assert.Equal(t, 10.0, res.Total)
}

func TestTotals_TaxFromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_TAX", "0.5")
	out, err := run(t, "totals", "--json", "--item", "x:1:10")
	require.NoError(t, err)

	var res totalsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 15.0, res.Total)
}

func TestTotals_Errors(t *testing.T) {
	_, err := run(t, "totals", "--item", "no-fields")
	require.Error(t, err)

	_, err = run(t, "totals", "--item", "x:abc:1")
	require.Error(t, err)

	_, err = run(t, "totals", "--item", "x:-1:1")
	require.ErrorIs(t, err, ledger.ErrInvalidLineItem)

	_, err = run(t, "totals", "--item", "x:1:1", "--tax", "1.5")
	require.ErrorIs(t, err, ledger.ErrInvalidTaxRate)
}

func TestNumber(t *testing.T) {
	out, err := run(t, "number", "--prefix", "INV", "--year", "2026", "--month", "2", "--seq", "1")
	require.NoError(t, err)
	assert.Equal(t, "INV-2602-0001\n", out)

	out, err = run(t, "number", "--prefix", "est", "--seq", "42")
	require.NoError(t, err)
	assert.Equal(t, "EST-2602-0042\n", out, "year and month default to the clock")

	_, err = run(t, "number", "--seq", "10000")
	require.ErrorIs(t, err, ledger.ErrNumberOverflow)

	_, err = run(t, "number")
	require.Error(t, err, "--seq is required")
}

func TestTransition(t *testing.T) {
	out, err := run(t, "transition", "invoice", "sent", "paid", "--paid", "100", "--total", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "true")

	_, err = run(t, "transition", "invoice", "sent", "paid", "--paid", "40", "--total", "100")
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)

	_, err = run(t, "transition", "invoice", "sent", "overdue", "--total", "100", "--due-date", "2026-02-01")
	require.NoError(t, err)

	_, err = run(t, "transition", "estimate", "sent", "expired", "--valid-until", "2026-03-01")
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)

	_, err = run(t, "transition", "estimate", "sent", "expired", "--valid-until", "2026-03-01", "--now", "2026-03-02T00:00:00Z")
	require.NoError(t, err)

	_, err = run(t, "transition", "job", "completed", "scheduled")
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)

	_, err = run(t, "transition", "lead", "new", "won")
	require.NoError(t, err)

	_, err = run(t, "transition", "widget", "a", "b")
	require.Error(t, err)

	_, err = run(t, "transition", "estimate", "sent", "expired", "--valid-until", "next week")
	require.Error(t, err)
}

func TestTransition_JSONReportsReason(t *testing.T) {
	out, err := run(t, "transition", "--json", "job", "completed", "scheduled")
	require.Error(t, err)

	var res transitionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "completed -> scheduled")
}

func TestStatuses(t *testing.T) {
	out, err := run(t, "statuses", "estimate")
	require.NoError(t, err)
	assert.Contains(t, out, "approved, declined, expired")
	assert.Contains(t, out, "(terminal)")

	out, err = run(t, "statuses", "--json", "job")
	require.NoError(t, err)
	var rows []statusRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, len(ledger.JobStatuses()))
	assert.Equal(t, "unscheduled", rows[0].Status)
	assert.Equal(t, []string{"scheduled"}, rows[0].Successors)
	assert.True(t, rows[len(rows)-1].Terminal)

	_, err = run(t, "statuses", "widget")
	require.Error(t, err)
}
