package request

import "encoding/json"

// BillingPaymentCreateRequest is the optional envelope for the online
// payment route. When mp_payload is absent the whole body is taken as the
// Mercado Pago payload; it is kept as raw JSON to support varying schemas.
type BillingPaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
