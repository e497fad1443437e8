// Package cli implements ledgerctl, an offline front end to the document
// ledger rules. Nothing here touches DynamoDB.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v   *viper.Viper
	out io.Writer
	now func() time.Time
}

// NewRootCommand builds the ledgerctl command tree writing to out.
// Flags can also be set through LEDGER_* environment variables.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: newViper(), out: out, now: func() time.Time { return time.Now().UTC() }}
	return a.rootCmd()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Field ledger document rules from the command line",
		Long:          "ledgerctl prices line items, allocates document numbers and checks status transitions\nfor estimates, invoices, jobs and leads without a running API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	root.PersistentFlags().Bool("json", false, "output JSON")
	_ = a.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(a.totalsCmd())
	root.AddCommand(a.numberCmd())
	root.AddCommand(a.transitionCmd())
	root.AddCommand(a.statusesCmd())
	return root
}

func (a *app) jsonOutput() bool {
	return a.v.GetBool("json")
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(a.out)
	tw.SetStyle(table.StyleLight)
	return tw
}

// parseTime accepts RFC 3339 timestamps or plain dates (UTC midnight).
func parseTime(flag, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected RFC3339 or YYYY-MM-DD, got %q", flag, raw)
	}
	return t, nil
}
