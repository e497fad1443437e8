package ledger

import (
	"time"

	"fieldledger/internal/domain/entities"
)

// settleTolerance absorbs float error when comparing paid amounts to totals.
const settleTolerance = 0.005

var estimateSuccessors = map[entities.EstimateStatus][]entities.EstimateStatus{
	entities.EstimateStatusDraft: {entities.EstimateStatusSent},
	entities.EstimateStatusSent: {
		entities.EstimateStatusApproved,
		entities.EstimateStatusDeclined,
		entities.EstimateStatusExpired,
	},
	entities.EstimateStatusApproved: nil,
	entities.EstimateStatusDeclined: nil,
	entities.EstimateStatusExpired:  nil,
}

var invoiceSuccessors = map[entities.InvoiceStatus][]entities.InvoiceStatus{
	entities.InvoiceStatusDraft: {entities.InvoiceStatusSent, entities.InvoiceStatusPaid},
	entities.InvoiceStatusSent: {
		entities.InvoiceStatusViewed,
		entities.InvoiceStatusPartial,
		entities.InvoiceStatusPaid,
		entities.InvoiceStatusOverdue,
	},
	entities.InvoiceStatusViewed: {
		entities.InvoiceStatusPartial,
		entities.InvoiceStatusPaid,
		entities.InvoiceStatusOverdue,
	},
	entities.InvoiceStatusPartial: {entities.InvoiceStatusPaid, entities.InvoiceStatusOverdue},
	entities.InvoiceStatusOverdue: {entities.InvoiceStatusPaid},
	entities.InvoiceStatusPaid:    nil,
}

var jobSuccessors = map[entities.JobStatus][]entities.JobStatus{
	entities.JobStatusUnscheduled: {entities.JobStatusScheduled},
	entities.JobStatusScheduled:   {entities.JobStatusInProgress},
	entities.JobStatusInProgress: {
		entities.JobStatusCompleted,
		entities.JobStatusOnHold,
		entities.JobStatusCancelled,
	},
	entities.JobStatusOnHold:    {entities.JobStatusInProgress},
	entities.JobStatusCompleted: nil,
	entities.JobStatusCancelled: nil,
}

var leadSuccessors = map[entities.LeadStatus][]entities.LeadStatus{
	entities.LeadStatusNew:       {entities.LeadStatusContacted, entities.LeadStatusWon, entities.LeadStatusLost},
	entities.LeadStatusContacted: {entities.LeadStatusQualified, entities.LeadStatusWon, entities.LeadStatusLost},
	entities.LeadStatusQualified: {entities.LeadStatusProposal, entities.LeadStatusWon, entities.LeadStatusLost},
	entities.LeadStatusProposal:  {entities.LeadStatusWon, entities.LeadStatusLost},
	entities.LeadStatusWon:       nil,
	entities.LeadStatusLost:      nil,
}

// EstimateContext carries the facts needed for time-based estimate transitions.
type EstimateContext struct {
	ValidUntil time.Time
	Now        time.Time
}

// InvoiceContext carries the payment and due-date facts of an invoice.
type InvoiceContext struct {
	AmountPaid float64
	Total      float64
	DueDate    time.Time
	Now        time.Time
}

func (c InvoiceContext) settled() bool {
	return c.AmountPaid >= c.Total-settleTolerance
}

func (c InvoiceContext) partiallyPaid() bool {
	return c.AmountPaid > 0 && !c.settled()
}

func (c InvoiceContext) pastDue() bool {
	return !c.DueDate.IsZero() && c.Now.After(c.DueDate) && !c.settled()
}

// TransitionEstimate validates current -> requested for an estimate.
func TransitionEstimate(current, requested entities.EstimateStatus, ctx EstimateContext) (entities.EstimateStatus, error) {
	if !contains(estimateSuccessors[current], requested) {
		return current, transitionErr("estimate", string(current), string(requested), "")
	}
	if requested == entities.EstimateStatusExpired {
		if ctx.ValidUntil.IsZero() {
			return current, transitionErr("estimate", string(current), string(requested), "estimate has no validity date")
		}
		if !ctx.Now.After(ctx.ValidUntil) {
			return current, transitionErr("estimate", string(current), string(requested), "validity period has not ended")
		}
	}
	return requested, nil
}

// TransitionInvoice validates current -> requested for an invoice. Payment
// and overdue transitions are guarded by the amounts and dates in ctx.
func TransitionInvoice(current, requested entities.InvoiceStatus, ctx InvoiceContext) (entities.InvoiceStatus, error) {
	if !contains(invoiceSuccessors[current], requested) {
		return current, transitionErr("invoice", string(current), string(requested), "")
	}
	switch requested {
	case entities.InvoiceStatusPaid:
		if !ctx.settled() {
			return current, transitionErr("invoice", string(current), string(requested), "amount paid does not cover total")
		}
	case entities.InvoiceStatusPartial:
		if !ctx.partiallyPaid() {
			return current, transitionErr("invoice", string(current), string(requested), "amount paid is not a partial payment")
		}
	case entities.InvoiceStatusOverdue:
		if !ctx.pastDue() {
			return current, transitionErr("invoice", string(current), string(requested), "invoice is not past due")
		}
	}
	return requested, nil
}

// ResolveInvoiceStatus derives the status an invoice should hold given its
// payments and the current time. Statuses that need an explicit action
// (draft -> sent, sent -> viewed) are never produced here.
func ResolveInvoiceStatus(current entities.InvoiceStatus, ctx InvoiceContext) entities.InvoiceStatus {
	candidates := []entities.InvoiceStatus{
		entities.InvoiceStatusPaid,
		entities.InvoiceStatusPartial,
		entities.InvoiceStatusOverdue,
	}
	for _, c := range candidates {
		if next, err := TransitionInvoice(current, c, ctx); err == nil {
			return next
		}
	}
	return current
}

// TransitionJob validates current -> requested for a job.
func TransitionJob(current, requested entities.JobStatus) (entities.JobStatus, error) {
	if !contains(jobSuccessors[current], requested) {
		return current, transitionErr("job", string(current), string(requested), "")
	}
	return requested, nil
}

// TransitionLead validates current -> requested for a lead. Stages advance
// one at a time; won and lost are reachable from any open stage.
func TransitionLead(current, requested entities.LeadStatus) (entities.LeadStatus, error) {
	if !contains(leadSuccessors[current], requested) {
		return current, transitionErr("lead", string(current), string(requested), "")
	}
	return requested, nil
}

func EstimateSuccessors(s entities.EstimateStatus) []entities.EstimateStatus {
	return append([]entities.EstimateStatus(nil), estimateSuccessors[s]...)
}

func InvoiceSuccessors(s entities.InvoiceStatus) []entities.InvoiceStatus {
	return append([]entities.InvoiceStatus(nil), invoiceSuccessors[s]...)
}

func JobSuccessors(s entities.JobStatus) []entities.JobStatus {
	return append([]entities.JobStatus(nil), jobSuccessors[s]...)
}

func LeadSuccessors(s entities.LeadStatus) []entities.LeadStatus {
	return append([]entities.LeadStatus(nil), leadSuccessors[s]...)
}

// EstimateStatuses lists every estimate status in lifecycle order.
func EstimateStatuses() []entities.EstimateStatus {
	return []entities.EstimateStatus{
		entities.EstimateStatusDraft,
		entities.EstimateStatusSent,
		entities.EstimateStatusApproved,
		entities.EstimateStatusDeclined,
		entities.EstimateStatusExpired,
	}
}

func InvoiceStatuses() []entities.InvoiceStatus {
	return []entities.InvoiceStatus{
		entities.InvoiceStatusDraft,
		entities.InvoiceStatusSent,
		entities.InvoiceStatusViewed,
		entities.InvoiceStatusPartial,
		entities.InvoiceStatusOverdue,
		entities.InvoiceStatusPaid,
	}
}

func JobStatuses() []entities.JobStatus {
	return []entities.JobStatus{
		entities.JobStatusUnscheduled,
		entities.JobStatusScheduled,
		entities.JobStatusInProgress,
		entities.JobStatusOnHold,
		entities.JobStatusCompleted,
		entities.JobStatusCancelled,
	}
}

func LeadStatuses() []entities.LeadStatus {
	return []entities.LeadStatus{
		entities.LeadStatusNew,
		entities.LeadStatusContacted,
		entities.LeadStatusQualified,
		entities.LeadStatusProposal,
		entities.LeadStatusWon,
		entities.LeadStatusLost,
	}
}

func transitionErr(doc, from, to, reason string) error {
	return &TransitionError{Document: doc, From: from, To: to, Reason: reason}
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
