package export

import (
	"context"
	"fmt"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"

	"github.com/xuri/excelize/v2"
)

const (
	SheetInvoices  = "Invoices"
	SheetLineItems = "Line Items"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "2006-01-02"
)

var (
	invoiceHeader  = []interface{}{"Number", "Customer", "Status", "Subtotal", "Tax", "Total", "Paid", "Balance", "Due Date"}
	lineItemHeader = []interface{}{"Invoice", "Description", "Quantity", "Unit Price", "Line Total"}
)

// XLSXInvoiceExporter writes invoices into a two-sheet workbook.
type XLSXInvoiceExporter struct{}

var _ interfaces.IInvoiceExporter = (*XLSXInvoiceExporter)(nil)

func NewXLSXInvoiceExporter() *XLSXInvoiceExporter {
	return &XLSXInvoiceExporter{}
}

func (e *XLSXInvoiceExporter) ContentType() string { return xlsxContentType }

func (e *XLSXInvoiceExporter) ExportInvoices(ctx context.Context, invoices []entities.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetInvoices); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetLineItems); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, SheetInvoices, 1, invoiceHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetLineItems, 1, lineItemHeader); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i + 2
		values := []interface{}{
			inv.Number,
			inv.CustomerID,
			string(inv.Status),
			ledger.RoundCurrency(inv.Subtotal),
			ledger.RoundCurrency(inv.TaxAmount),
			ledger.RoundCurrency(inv.Total),
			ledger.RoundCurrency(inv.AmountPaid),
			ledger.RoundCurrency(inv.Balance()),
			formatDate(inv),
		}
		if err := writeRow(f, SheetInvoices, row, values); err != nil {
			return nil, err
		}
		for _, it := range inv.LineItems {
			values := []interface{}{
				inv.Number,
				it.Description,
				it.Quantity,
				ledger.RoundCurrency(it.UnitPrice),
				ledger.RoundCurrency(it.LineTotal),
			}
			if err := writeRow(f, SheetLineItems, itemRow, values); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	if len(invoices) > 0 {
		if err := styleRange(f, SheetInvoices, 4, 2, 8, len(invoices)+1, money); err != nil {
			return nil, err
		}
	}
	if itemRow > 2 {
		if err := styleRange(f, SheetLineItems, 4, 2, 5, itemRow-1, money); err != nil {
			return nil, err
		}
	}
	for sheet, cols := range map[string]int{SheetInvoices: len(invoiceHeader), SheetLineItems: len(lineItemHeader)} {
		if err := styleRange(f, sheet, 1, 1, cols, 1, bold); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetInvoices, "A", "B", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetLineItems, "B", "B", 36); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, fromCol, fromRow, toCol, toRow, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func formatDate(inv entities.Invoice) string {
	if inv.DueDate.IsZero() {
		return ""
	}
	return inv.DueDate.UTC().Format(dateLayout)
}
