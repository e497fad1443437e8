package entities

// LineItem is one billable row of an estimate or invoice.
//
// LineTotal is derived (Quantity * UnitPrice) and recomputed by the ledger
// whenever quantity or price change; it is never set by callers.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}
