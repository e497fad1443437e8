package cli

import (
	"fmt"
	"strconv"
	"strings"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type totalsResult struct {
	LineItems []entities.LineItem `json:"line_items"`
	TaxRate   float64             `json:"tax_rate"`
	ledger.Totals
}

func (a *app) totalsCmd() *cobra.Command {
	var items []string
	cmd := &cobra.Command{
		Use:     "totals",
		Short:   "Price line items and compute document totals",
		Example: `  ledgerctl totals --item "Labor:2:80" --item "Filter:1:25.5" --tax 0.08`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseItems(items)
			if err != nil {
				return err
			}
			taxRate := a.v.GetFloat64("tax")
			priced, totals, err := ledger.Recalculate(parsed, taxRate)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printJSON(totalsResult{LineItems: priced, TaxRate: taxRate, Totals: totals})
			}

			tw := a.newTable()
			tw.AppendHeader(table.Row{"#", "Description", "Qty", "Unit price", "Line total"})
			for i, it := range priced {
				tw.AppendRow(table.Row{i + 1, it.Description, it.Quantity, ledger.FormatCurrency(it.UnitPrice), ledger.FormatCurrency(it.LineTotal)})
			}
			tw.AppendFooter(table.Row{"", "", "", "Subtotal", ledger.FormatCurrency(totals.Subtotal)})
			tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("Tax (%s)", strconv.FormatFloat(taxRate, 'f', -1, 64)), ledger.FormatCurrency(totals.TaxAmount)})
			tw.AppendFooter(table.Row{"", "", "", "Total", ledger.FormatCurrency(totals.Total)})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, `line item as "description:quantity:unit_price" (repeatable)`)
	cmd.Flags().Float64("tax", 0, "tax rate between 0 and 1")
	_ = a.v.BindPFlag("tax", cmd.Flags().Lookup("tax"))
	return cmd
}

// parseItems reads "description:quantity:unit_price". The description may
// itself contain colons; the last two fields are numeric.
func parseItems(raw []string) ([]entities.LineItem, error) {
	out := make([]entities.LineItem, 0, len(raw))
	for i, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("--item %d: expected description:quantity:unit_price, got %q", i+1, r)
		}
		n := len(parts)
		qty, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
		if err != nil {
			return nil, fmt.Errorf("--item %d: quantity: %w", i+1, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[n-1]), 64)
		if err != nil {
			return nil, fmt.Errorf("--item %d: unit price: %w", i+1, err)
		}
		out = append(out, entities.LineItem{
			Description: strings.TrimSpace(strings.Join(parts[:n-2], ":")),
			Quantity:    qty,
			UnitPrice:   price,
		})
	}
	return out, nil
}
