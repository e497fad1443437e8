package request

import (
	"encoding/json"
	"testing"
	"time"

	"fieldledger/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateRequest_ToInput(t *testing.T) {
	var req EstimateRequest
	body := `{"customer_id":"c-1","title":"Heater","line_items":[{"description":"Labor","quantity":3,"unit_price":80,"line_total":9999}],"tax_rate":0,"valid_until":"2026-03-01T00:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in := req.ToInput()
	assert.Equal(t, "c-1", in.CustomerID)
	require.Len(t, in.LineItems, 1)
	assert.Equal(t, entities.LineItem{Description: "Labor", Quantity: 3, UnitPrice: 80}, in.LineItems[0])
	require.NotNil(t, in.TaxRate, "explicit zero tax must survive")
	assert.Zero(t, *in.TaxRate)
	require.NotNil(t, in.ValidUntil)
	assert.True(t, in.ValidUntil.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEstimateRequest_DefaultsStayNil(t *testing.T) {
	var req EstimateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"lead_id":"l-1"}`), &req))

	in := req.ToInput()
	assert.Nil(t, in.TaxRate)
	assert.Nil(t, in.ValidUntil)
	assert.NotNil(t, in.LineItems)
	assert.Empty(t, in.LineItems)
}

func TestJobRequest_ToInput(t *testing.T) {
	req := JobRequest{CustomerID: "c-1", Title: "Fence", Priority: "urgent", Price: 300, Checklist: []string{"posts"}}
	in := req.ToInput()
	assert.Equal(t, entities.JobPriorityUrgent, in.Priority)
	assert.Equal(t, []string{"posts"}, in.Checklist)
	assert.Nil(t, in.ScheduledAt)
}

func TestInvoiceRequest_ToInput(t *testing.T) {
	rate := 0.08
	req := InvoiceRequest{CustomerID: "c-1", LineItems: []LineItemRequest{{Description: "Part", Quantity: 2, UnitPrice: 12.5}}, TaxRate: &rate}
	in := req.ToInput()
	assert.Equal(t, &rate, in.TaxRate)
	assert.Equal(t, 12.5, in.LineItems[0].UnitPrice)
	assert.Zero(t, in.LineItems[0].LineTotal)
}

func TestLineItemsRequest_Items(t *testing.T) {
	req := LineItemsRequest{LineItems: []LineItemRequest{{Description: "a", Quantity: 1, UnitPrice: 2}}}
	assert.Equal(t, []entities.LineItem{{Description: "a", Quantity: 1, UnitPrice: 2}}, req.Items())
}
