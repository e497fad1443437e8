package ledger

import (
	"errors"
	"time"

	"fieldledger/internal/domain/entities"
)

// InvoiceTerms are the billing terms applied to invoices produced from jobs.
type InvoiceTerms struct {
	TaxRate  float64
	DueDate  time.Time
	IssuedAt time.Time
	Notes    string
}

// LeadToCustomer promotes a won lead into a customer record. The customer
// keeps a link to the lead; the caller stamps Lead.CustomerID.
func LeadToCustomer(lead entities.Lead, now time.Time) (entities.Customer, error) {
	if lead.Status != entities.LeadStatusWon {
		return entities.Customer{}, &SourceStateError{
			Conversion: "lead to customer",
			Status:     string(lead.Status),
			Required:   string(entities.LeadStatusWon),
		}
	}
	return entities.Customer{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Address:   lead.Address,
		Notes:     lead.Notes,
		LeadID:    lead.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EstimateToJob turns an approved estimate into an unscheduled job priced
// at the sum of its line totals.
func EstimateToJob(est entities.Estimate, now time.Time) (entities.Job, error) {
	if est.Status != entities.EstimateStatusApproved {
		return entities.Job{}, &SourceStateError{
			Conversion: "estimate to job",
			Status:     string(est.Status),
			Required:   string(entities.EstimateStatusApproved),
		}
	}
	if est.CustomerID == "" {
		return entities.Job{}, noCustomer("estimate to job", string(est.Status))
	}
	totals, err := ComputeTotals(est.LineItems, 0)
	if err != nil {
		return entities.Job{}, err
	}
	title := est.Title
	if title == "" {
		title = "Estimate " + est.Number
	}
	return entities.Job{
		CustomerID: est.CustomerID,
		EstimateID: est.ID,
		Title:      title,
		Status:     entities.JobStatusUnscheduled,
		Priority:   entities.JobPriorityNormal,
		Price:      totals.Subtotal,
		Notes:      est.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// JobToInvoice bills one completed job as a single-line draft invoice.
func JobToInvoice(job entities.Job, terms InvoiceTerms) (entities.Invoice, error) {
	if job.Status != entities.JobStatusCompleted {
		return entities.Invoice{}, &SourceStateError{
			Conversion: "job to invoice",
			Status:     string(job.Status),
			Required:   string(entities.JobStatusCompleted),
		}
	}
	if job.CustomerID == "" {
		return entities.Invoice{}, noCustomer("job to invoice", string(job.Status))
	}
	return buildInvoice(job.CustomerID, []entities.Job{job}, terms)
}

// InvoiceForJobGroup bills the eligible jobs of one customer as one draft
// invoice with a line item per job. Jobs that are not completed, already
// invoiced or owned by another customer are skipped.
func InvoiceForJobGroup(customerID string, jobs []entities.Job, terms InvoiceTerms) (entities.Invoice, error) {
	var eligible []entities.Job
	for _, j := range jobs {
		if j.CustomerID == customerID && batchEligible(j) {
			eligible = append(eligible, j)
		}
	}
	if len(eligible) == 0 {
		return entities.Invoice{}, &GroupError{CustomerID: customerID, Err: ErrEmptyGroup}
	}
	return buildInvoice(customerID, eligible, terms)
}

// GroupJobsByCustomer returns the completed, uninvoiced jobs keyed by
// customer, plus the customer ids in first-seen order.
func GroupJobsByCustomer(jobs []entities.Job) (map[string][]entities.Job, []string) {
	groups := make(map[string][]entities.Job)
	var order []string
	for _, j := range jobs {
		if !batchEligible(j) || j.CustomerID == "" {
			continue
		}
		if _, seen := groups[j.CustomerID]; !seen {
			order = append(order, j.CustomerID)
		}
		groups[j.CustomerID] = append(groups[j.CustomerID], j)
	}
	return groups, order
}

// BatchJobsToInvoices produces one invoice per customer from the completed,
// uninvoiced jobs. Groups that fail are reported in the joined error while
// the others are still returned.
func BatchJobsToInvoices(jobs []entities.Job, terms InvoiceTerms) (map[string]entities.Invoice, error) {
	groups, order := GroupJobsByCustomer(jobs)
	out := make(map[string]entities.Invoice, len(order))
	var errs []error
	for _, customerID := range order {
		inv, err := InvoiceForJobGroup(customerID, groups[customerID], terms)
		if err != nil {
			var ge *GroupError
			if !errors.As(err, &ge) {
				err = &GroupError{CustomerID: customerID, Err: err}
			}
			errs = append(errs, err)
			continue
		}
		out[customerID] = inv
	}
	return out, errors.Join(errs...)
}

func noCustomer(conversion, status string) error {
	return &SourceStateError{Conversion: conversion, Status: status, Reason: "source has no customer"}
}

func batchEligible(j entities.Job) bool {
	return j.Status == entities.JobStatusCompleted && j.InvoiceID == ""
}

func buildInvoice(customerID string, jobs []entities.Job, terms InvoiceTerms) (entities.Invoice, error) {
	items := make([]entities.LineItem, 0, len(jobs))
	jobIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, entities.LineItem{Description: j.Title, Quantity: 1, UnitPrice: j.Price})
		jobIDs = append(jobIDs, j.ID)
	}
	priced, err := PriceLineItems(items)
	if err != nil {
		return entities.Invoice{}, err
	}
	totals, err := ComputeTotals(priced, terms.TaxRate)
	if err != nil {
		return entities.Invoice{}, err
	}
	inv := entities.Invoice{
		CustomerID: customerID,
		JobIDs:     jobIDs,
		LineItems:  priced,
		TaxRate:    terms.TaxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Status:     entities.InvoiceStatusDraft,
		DueDate:    terms.DueDate,
		Notes:      terms.Notes,
		CreatedAt:  terms.IssuedAt,
		UpdatedAt:  terms.IssuedAt,
	}
	if len(jobs) == 1 {
		inv.EstimateID = jobs[0].EstimateID
	}
	return inv, nil
}
