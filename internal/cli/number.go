package cli

import (
	"fmt"

	"fieldledger/internal/domain/ledger"

	"github.com/spf13/cobra"
)

func (a *app) numberCmd() *cobra.Command {
	var (
		prefix      string
		year, month int
		seq         int
	)
	cmd := &cobra.Command{
		Use:     "number",
		Short:   "Format a document number PREFIX-YYMM-NNNN",
		Example: "  ledgerctl number --prefix INV --year 2026 --month 2 --seq 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			if !cmd.Flags().Changed("year") {
				year = now.Year()
			}
			if !cmd.Flags().Changed("month") {
				month = int(now.Month())
			}
			number, err := ledger.AllocateDocumentNumber(prefix, year, month, seq)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printJSON(map[string]string{"number": number})
			}
			_, err = fmt.Fprintln(a.out, number)
			return err
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", ledger.PrefixInvoice, "document prefix (EST, INV)")
	cmd.Flags().IntVar(&year, "year", 0, "year (defaults to the current year)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (defaults to the current month)")
	cmd.Flags().IntVar(&seq, "seq", 0, "sequence value within the month")
	_ = cmd.MarkFlagRequired("seq")
	return cmd
}
