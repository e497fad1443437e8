package ledger

import (
	"errors"
	"testing"
	"time"

	"fieldledger/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadToCustomer(t *testing.T) {
	lead := entities.Lead{
		ID:      "lead-1",
		Name:    "Ada Plumbing",
		Email:   "ada@example.com",
		Phone:   "555-0100",
		Address: "1 Main St",
		Notes:   "prefers mornings",
		Status:  entities.LeadStatusWon,
	}

	c, err := LeadToCustomer(lead, refNow)
	require.NoError(t, err)
	assert.Empty(t, c.ID)
	assert.Equal(t, "lead-1", c.LeadID)
	assert.Equal(t, lead.Name, c.Name)
	assert.Equal(t, lead.Email, c.Email)
	assert.Equal(t, lead.Phone, c.Phone)
	assert.Equal(t, lead.Address, c.Address)
	assert.Equal(t, lead.Notes, c.Notes)
	assert.Equal(t, refNow, c.CreatedAt)

	for _, s := range []entities.LeadStatus{entities.LeadStatusNew, entities.LeadStatusProposal, entities.LeadStatusLost} {
		lead.Status = s
		_, err := LeadToCustomer(lead, refNow)
		require.ErrorIs(t, err, ErrInvalidSourceState, "status %s", s)
	}
}

func TestEstimateToJob(t *testing.T) {
	est := entities.Estimate{
		ID:         "est-1",
		Number:     "EST-2602-0001",
		CustomerID: "cust-1",
		Title:      "Water heater install",
		Notes:      "gate code 1234",
		LineItems:  []entities.LineItem{{Description: "Labor", Quantity: 2, UnitPrice: 50}},
		TaxRate:    0.1,
		Status:     entities.EstimateStatusSent,
	}

	_, err := EstimateToJob(est, refNow)
	var sse *SourceStateError
	require.True(t, errors.As(err, &sse))
	assert.Equal(t, "sent", sse.Status)
	require.ErrorIs(t, err, ErrInvalidSourceState)

	est.Status = entities.EstimateStatusApproved
	job, err := EstimateToJob(est, refNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, job.Price)
	assert.Equal(t, "cust-1", job.CustomerID)
	assert.Equal(t, "est-1", job.EstimateID)
	assert.Equal(t, "Water heater install", job.Title)
	assert.Equal(t, "gate code 1234", job.Notes)
	assert.Equal(t, entities.JobStatusUnscheduled, job.Status)
	assert.Equal(t, entities.JobPriorityNormal, job.Priority)
}

func TestEstimateToJob_UntitledUsesNumber(t *testing.T) {
	est := entities.Estimate{Number: "EST-2602-0009", CustomerID: "cust-1", Status: entities.EstimateStatusApproved}

	job, err := EstimateToJob(est, refNow)
	require.NoError(t, err)
	assert.Equal(t, "Estimate EST-2602-0009", job.Title)
	assert.Zero(t, job.Price)
}

func TestEstimateToJob_LeadOnlyEstimate(t *testing.T) {
	est := entities.Estimate{
		ID:        "est-1",
		LeadID:    "lead-1",
		Status:    entities.EstimateStatusApproved,
		LineItems: []entities.LineItem{{Quantity: 2, UnitPrice: 50}},
	}

	job, err := EstimateToJob(est, refNow)
	require.ErrorIs(t, err, ErrInvalidSourceState)
	assert.Zero(t, job)
	assert.Contains(t, err.Error(), "no customer")
}

func TestJobToInvoice_WithoutCustomer(t *testing.T) {
	job := entities.Job{ID: "job-1", Title: "Repair", Price: 100, Status: entities.JobStatusCompleted}

	inv, err := JobToInvoice(job, InvoiceTerms{IssuedAt: refNow})
	require.ErrorIs(t, err, ErrInvalidSourceState)
	assert.Zero(t, inv.Total)
}

func TestJobToInvoice(t *testing.T) {
	job := entities.Job{ID: "job-1", CustomerID: "cust-1", Title: "Drain cleaning", Price: 275, Status: entities.JobStatusInProgress}

	_, err := JobToInvoice(job, InvoiceTerms{})
	require.ErrorIs(t, err, ErrInvalidSourceState)

	job.Status = entities.JobStatusCompleted
	due := refNow.Add(30 * 24 * time.Hour)
	inv, err := JobToInvoice(job, InvoiceTerms{DueDate: due, IssuedAt: refNow})
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, entities.LineItem{Description: "Drain cleaning", Quantity: 1, UnitPrice: 275, LineTotal: 275}, inv.LineItems[0])
	assert.Equal(t, 275.0, inv.Total)
	assert.Equal(t, entities.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, []string{"job-1"}, inv.JobIDs)
	assert.Equal(t, "cust-1", inv.CustomerID)
	assert.Equal(t, due, inv.DueDate)
}

func TestJobToInvoice_AppliesTax(t *testing.T) {
	job := entities.Job{ID: "job-1", CustomerID: "cust-1", Title: "Repair", Price: 200, Status: entities.JobStatusCompleted}

	inv, err := JobToInvoice(job, InvoiceTerms{TaxRate: 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, inv.TaxAmount, 1e-9)
	assert.InDelta(t, 210.0, inv.Total, 1e-9)
}

func TestBatchJobsToInvoices(t *testing.T) {
	jobs := []entities.Job{
		{ID: "j1", CustomerID: "alice", Title: "Gutter cleaning", Price: 120, Status: entities.JobStatusCompleted},
		{ID: "j2", CustomerID: "bob", Title: "Fence repair", Price: 300, Status: entities.JobStatusCompleted},
		{ID: "j3", CustomerID: "alice", Title: "Window wash", Price: 80, Status: entities.JobStatusCompleted},
		{ID: "j4", CustomerID: "alice", Title: "Not done", Price: 999, Status: entities.JobStatusInProgress},
		{ID: "j5", CustomerID: "bob", Title: "Already billed", Price: 999, Status: entities.JobStatusCompleted, InvoiceID: "inv-0"},
	}

	invoices, err := BatchJobsToInvoices(jobs, InvoiceTerms{IssuedAt: refNow})
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	alice := invoices["alice"]
	assert.Equal(t, 200.0, alice.Total)
	assert.Equal(t, []string{"j1", "j3"}, alice.JobIDs)
	require.Len(t, alice.LineItems, 2)
	assert.Equal(t, "Gutter cleaning", alice.LineItems[0].Description)
	assert.Equal(t, "Window wash", alice.LineItems[1].Description)

	bob := invoices["bob"]
	assert.Equal(t, 300.0, bob.Total)
	assert.Equal(t, []string{"j2"}, bob.JobIDs)

	for _, inv := range invoices {
		assert.Equal(t, entities.InvoiceStatusDraft, inv.Status)
	}
}

func TestBatchJobsToInvoices_NothingEligible(t *testing.T) {
	invoices, err := BatchJobsToInvoices([]entities.Job{{ID: "j1", CustomerID: "a", Status: entities.JobStatusScheduled}}, InvoiceTerms{})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestBatchJobsToInvoices_InvalidPriceFailsOnlyItsGroup(t *testing.T) {
	jobs := []entities.Job{
		{ID: "j1", CustomerID: "good", Title: "ok", Price: 10, Status: entities.JobStatusCompleted},
		{ID: "j2", CustomerID: "bad", Title: "broken", Price: -5, Status: entities.JobStatusCompleted},
	}

	invoices, err := BatchJobsToInvoices(jobs, InvoiceTerms{})
	require.ErrorIs(t, err, ErrInvalidLineItem)
	var ge *GroupError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "bad", ge.CustomerID)
	require.Len(t, invoices, 1)
	assert.Equal(t, 10.0, invoices["good"].Total)
}

func TestInvoiceForJobGroup_EmptyGroup(t *testing.T) {
	_, err := InvoiceForJobGroup("alice", nil, InvoiceTerms{})
	require.ErrorIs(t, err, ErrEmptyGroup)

	others := []entities.Job{{ID: "j1", CustomerID: "bob", Status: entities.JobStatusCompleted}}
	_, err = InvoiceForJobGroup("alice", others, InvoiceTerms{})
	require.ErrorIs(t, err, ErrEmptyGroup)
}

func TestGroupJobsByCustomer_Order(t *testing.T) {
	jobs := []entities.Job{
		{ID: "1", CustomerID: "c2", Status: entities.JobStatusCompleted},
		{ID: "2", CustomerID: "c1", Status: entities.JobStatusCompleted},
		{ID: "3", CustomerID: "c2", Status: entities.JobStatusCompleted},
		{ID: "4", CustomerID: "", Status: entities.JobStatusCompleted},
	}

	groups, order := GroupJobsByCustomer(jobs)
	assert.Equal(t, []string{"c2", "c1"}, order)
	assert.Len(t, groups["c2"], 2)
	assert.NotContains(t, groups, "")
}
