package response

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
)

type BillingPaymentResponse struct {
	PaymentID     string    `json:"payment_id"`
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoice_id"`
	Amount        float64   `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	PaymentDate   time.Time `json:"payment_date"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`

	MPPayloadRaw string                 `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

func FromBillingPayment(p entities.BillingPayment) BillingPaymentResponse {
	return BillingPaymentResponse{
		PaymentID:     p.ID,
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		AmountDisplay: ledger.FormatCurrency(p.Amount),
		PaymentDate:   p.Date,
		Date:          p.Date,
		Status:        string(p.Status),
		MPPayloadRaw:  string(p.MPPayloadRaw),
		MPPayload:     p.MPPayload,
	}
}
