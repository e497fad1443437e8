package cli

import (
	"fmt"
	"strings"

	"fieldledger/internal/domain/ledger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type statusRow struct {
	Status     string   `json:"status"`
	Successors []string `json:"successors"`
	Terminal   bool     `json:"terminal"`
}

func (a *app) statusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "statuses <estimate|invoice|job|lead>",
		Short:     "Show every status of a document type and where it can move",
		Args:      cobra.ExactArgs(1),
		ValidArgs: documentKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := successorTable(strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printJSON(rows)
			}
			tw := a.newTable()
			tw.AppendHeader(table.Row{"Status", "Can move to"})
			for _, r := range rows {
				next := strings.Join(r.Successors, ", ")
				if r.Terminal {
					next = "(terminal)"
				}
				tw.AppendRow(table.Row{r.Status, next})
			}
			tw.Render()
			return nil
		},
	}
}

func successorTable(doc string) ([]statusRow, error) {
	var rows []statusRow
	add := func(status string, next []string) {
		rows = append(rows, statusRow{Status: status, Successors: next, Terminal: len(next) == 0})
	}
	switch doc {
	case "estimate":
		for _, s := range ledger.EstimateStatuses() {
			add(string(s), toStrings(ledger.EstimateSuccessors(s)))
		}
	case "invoice":
		for _, s := range ledger.InvoiceStatuses() {
			add(string(s), toStrings(ledger.InvoiceSuccessors(s)))
		}
	case "job":
		for _, s := range ledger.JobStatuses() {
			add(string(s), toStrings(ledger.JobSuccessors(s)))
		}
	case "lead":
		for _, s := range ledger.LeadStatuses() {
			add(string(s), toStrings(ledger.LeadSuccessors(s)))
		}
	default:
		return nil, fmt.Errorf("unknown document %q (want one of %s)", doc, strings.Join(documentKinds, ", "))
	}
	return rows, nil
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
