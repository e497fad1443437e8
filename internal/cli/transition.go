package cli

import (
	"fmt"
	"strings"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var documentKinds = []string{"estimate", "invoice", "job", "lead"}

type transitionResult struct {
	Document string `json:"document"`
	From     string `json:"from"`
	To       string `json:"to"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}

func (a *app) transitionCmd() *cobra.Command {
	var (
		validUntil, dueDate, now string
		paid, total              float64
	)
	cmd := &cobra.Command{
		Use:       "transition <estimate|invoice|job|lead> <from> <to>",
		Short:     "Check whether a status transition is allowed",
		Example:   "  ledgerctl transition invoice sent paid --paid 100 --total 100",
		Args:      cobra.ExactArgs(3),
		ValidArgs: documentKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, from, to := strings.ToLower(args[0]), args[1], args[2]
			at, err := parseTime("now", now)
			if err != nil {
				return err
			}
			if at.IsZero() {
				at = a.now()
			}

			var terr error
			switch doc {
			case "estimate":
				until, err := parseTime("valid-until", validUntil)
				if err != nil {
					return err
				}
				_, terr = ledger.TransitionEstimate(entities.EstimateStatus(from), entities.EstimateStatus(to), ledger.EstimateContext{ValidUntil: until, Now: at})
			case "invoice":
				due, err := parseTime("due-date", dueDate)
				if err != nil {
					return err
				}
				_, terr = ledger.TransitionInvoice(entities.InvoiceStatus(from), entities.InvoiceStatus(to), ledger.InvoiceContext{AmountPaid: paid, Total: total, DueDate: due, Now: at})
			case "job":
				_, terr = ledger.TransitionJob(entities.JobStatus(from), entities.JobStatus(to))
			case "lead":
				_, terr = ledger.TransitionLead(entities.LeadStatus(from), entities.LeadStatus(to))
			default:
				return fmt.Errorf("unknown document %q (want one of %s)", args[0], strings.Join(documentKinds, ", "))
			}

			res := transitionResult{Document: doc, From: from, To: to, Allowed: terr == nil}
			if terr != nil {
				res.Reason = terr.Error()
			}
			if a.jsonOutput() {
				if err := a.printJSON(res); err != nil {
					return err
				}
			} else {
				tw := a.newTable()
				tw.AppendHeader(table.Row{"Document", "From", "To", "Allowed"})
				tw.AppendRow(table.Row{res.Document, res.From, res.To, res.Allowed})
				if res.Reason != "" {
					tw.AppendFooter(table.Row{"", "", "Reason", res.Reason})
				}
				tw.Render()
			}
			return terr
		},
	}
	cmd.Flags().StringVar(&validUntil, "valid-until", "", "estimate validity end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "invoice due date (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&now, "now", "", "evaluation time (defaults to the current time)")
	cmd.Flags().Float64Var(&paid, "paid", 0, "invoice amount paid")
	cmd.Flags().Float64Var(&total, "total", 0, "invoice total")
	return cmd
}
