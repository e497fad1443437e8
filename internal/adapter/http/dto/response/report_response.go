package response

import (
	"time"

	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase"
)

type SummaryResponse struct {
	InvoiceCount       int            `json:"invoice_count"`
	Billed             float64        `json:"billed"`
	BilledDisplay      string         `json:"billed_display"`
	Collected          float64        `json:"collected"`
	CollectedDisplay   string         `json:"collected_display"`
	Outstanding        float64        `json:"outstanding"`
	OutstandingDisplay string         `json:"outstanding_display"`
	OverdueCount       int            `json:"overdue_count"`
	ByStatus           map[string]int `json:"by_status"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

func FromSummary(s usecase.InvoiceSummary) SummaryResponse {
	res := SummaryResponse{
		InvoiceCount:       s.InvoiceCount,
		Billed:             s.Billed,
		BilledDisplay:      ledger.FormatCurrency(s.Billed),
		Collected:          s.Collected,
		CollectedDisplay:   ledger.FormatCurrency(s.Collected),
		Outstanding:        s.Outstanding,
		OutstandingDisplay: ledger.FormatCurrency(s.Outstanding),
		OverdueCount:       s.OverdueCount,
		ByStatus:           make(map[string]int, len(s.ByStatus)),
		GeneratedAt:        s.GeneratedAt,
	}
	for status, n := range s.ByStatus {
		res.ByStatus[string(status)] = n
	}
	return res
}
