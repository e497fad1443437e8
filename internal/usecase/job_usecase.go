package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrInvalidJobID       = errors.New("invalid job id")
	ErrInvalidJobInput    = errors.New("invalid job input")
	ErrInvalidJobPrice    = errors.New("invalid job price")
	ErrInvalidJobPriority = errors.New("invalid job priority")
	ErrInvalidSchedule    = errors.New("invalid schedule time")
	ErrChecklistIndex     = errors.New("checklist item out of range")
	ErrJobAlreadyInvoiced = errors.New("job already invoiced")
)

// JobInput is the caller-supplied part of a new job.
type JobInput struct {
	CustomerID  string
	Title       string
	Description string
	Priority    entities.JobPriority
	Price       float64
	Checklist   []string
	Notes       string
	ScheduledAt *time.Time
}

// IJobUseCase exposes field work operations, including the job to invoice
// conversions of the ledger.
type IJobUseCase interface {
	Create(ctx context.Context, in JobInput) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	List(ctx context.Context, status entities.JobStatus) ([]entities.Job, error)
	UpdateStatus(ctx context.Context, id string, status entities.JobStatus) (entities.Job, error)
	Schedule(ctx context.Context, id string, at time.Time) (entities.Job, error)
	ToggleChecklistItem(ctx context.Context, id string, index int) (entities.Job, error)
	ConvertToInvoice(ctx context.Context, id string) (entities.Invoice, error)
	BatchInvoice(ctx context.Context) ([]entities.Invoice, error)
}

type JobUseCase struct {
	repo        interfaces.IJobRepository
	invoiceRepo interfaces.IInvoiceRepository
	seq         interfaces.ISequenceRepository
	defaults    InvoiceDefaults
	Now         func() time.Time
}

var _ IJobUseCase = (*JobUseCase)(nil)

func NewJobUseCase(repo interfaces.IJobRepository, invoiceRepo interfaces.IInvoiceRepository, seq interfaces.ISequenceRepository, defaults InvoiceDefaults) *JobUseCase {
	return &JobUseCase{repo: repo, invoiceRepo: invoiceRepo, seq: seq, defaults: defaults, Now: utcNow}
}

func (u *JobUseCase) Create(ctx context.Context, in JobInput) (entities.Job, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.Title = strings.TrimSpace(in.Title)
	if in.CustomerID == "" || in.Title == "" {
		return entities.Job{}, ErrInvalidJobInput
	}
	if !finiteNonNegative(in.Price) {
		return entities.Job{}, ErrInvalidJobPrice
	}
	if in.Priority == "" {
		in.Priority = entities.JobPriorityNormal
	}
	if !in.Priority.Valid() {
		return entities.Job{}, ErrInvalidJobPriority
	}

	now := u.Now()
	j := entities.Job{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      entities.JobStatusUnscheduled,
		Priority:    in.Priority,
		Price:       in.Price,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, text := range in.Checklist {
		if text = strings.TrimSpace(text); text != "" {
			j.Checklist = append(j.Checklist, entities.ChecklistItem{Text: text})
		}
	}
	if in.ScheduledAt != nil && !in.ScheduledAt.IsZero() {
		at := in.ScheduledAt.UTC()
		j.ScheduledAt = &at
		j.Status = entities.JobStatusScheduled
	}
	return u.repo.Create(ctx, j)
}

func (u *JobUseCase) GetByID(ctx context.Context, id string) (entities.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Job{}, ErrInvalidJobID
	}

	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}
	if j.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return j, nil
}

// List returns all jobs, or only those in status when it is not empty.
func (u *JobUseCase) List(ctx context.Context, status entities.JobStatus) ([]entities.Job, error) {
	jobs, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := jobs[:0]
	for _, j := range jobs {
		if status == "" || j.Status == status {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (u *JobUseCase) UpdateStatus(ctx context.Context, id string, status entities.JobStatus) (entities.Job, error) {
	j, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}

	next, err := ledger.TransitionJob(j.Status, status)
	if err != nil {
		return entities.Job{}, err
	}
	now := u.Now()
	j.Status = next
	j.UpdatedAt = now
	if next == entities.JobStatusCompleted {
		j.CompletedAt = &now
	}

	updated, err := u.save(ctx, j)
	if err != nil {
		return entities.Job{}, err
	}
	log.Printf("[job][usecase] status updated job_id=%s status=%s", updated.ID, updated.Status)
	return updated, nil
}

// Schedule sets the visit time. An unscheduled job becomes scheduled; a
// scheduled job is moved to the new time.
func (u *JobUseCase) Schedule(ctx context.Context, id string, at time.Time) (entities.Job, error) {
	if at.IsZero() {
		return entities.Job{}, ErrInvalidSchedule
	}
	j, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}

	if j.Status != entities.JobStatusScheduled {
		next, err := ledger.TransitionJob(j.Status, entities.JobStatusScheduled)
		if err != nil {
			return entities.Job{}, err
		}
		j.Status = next
	}
	at = at.UTC()
	j.ScheduledAt = &at
	j.UpdatedAt = u.Now()
	return u.save(ctx, j)
}

func (u *JobUseCase) ToggleChecklistItem(ctx context.Context, id string, index int) (entities.Job, error) {
	j, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}
	if index < 0 || index >= len(j.Checklist) {
		return entities.Job{}, ErrChecklistIndex
	}
	j.Checklist[index].Completed = !j.Checklist[index].Completed
	j.UpdatedAt = u.Now()
	return u.save(ctx, j)
}

// ConvertToInvoice bills one completed job and links the invoice back to it.
func (u *JobUseCase) ConvertToInvoice(ctx context.Context, id string) (entities.Invoice, error) {
	j, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if j.InvoiceID != "" {
		return entities.Invoice{}, ErrJobAlreadyInvoiced
	}

	now := u.Now()
	draft, err := ledger.JobToInvoice(j, u.defaults.terms(now))
	if err != nil {
		return entities.Invoice{}, err
	}
	inv, err := issueInvoice(ctx, u.invoiceRepo, u.seq, draft, now)
	if err != nil {
		return entities.Invoice{}, err
	}
	if err := u.markInvoiced(ctx, []entities.Job{j}, inv.ID, now); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

// BatchInvoice bills every completed, uninvoiced job with one invoice per
// customer. Invoices that were issued are returned even when another
// customer's group failed; the failures are joined into the error.
func (u *JobUseCase) BatchInvoice(ctx context.Context) ([]entities.Invoice, error) {
	jobs, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := u.Now()
	drafts, batchErr := ledger.BatchJobsToInvoices(jobs, u.defaults.terms(now))
	groups, order := ledger.GroupJobsByCustomer(jobs)

	var errs []error
	if batchErr != nil {
		errs = append(errs, batchErr)
	}
	issued := make([]entities.Invoice, 0, len(drafts))
	for _, customerID := range order {
		draft, ok := drafts[customerID]
		if !ok {
			continue
		}
		inv, err := issueInvoice(ctx, u.invoiceRepo, u.seq, draft, now)
		if err != nil {
			errs = append(errs, &ledger.GroupError{CustomerID: customerID, Err: err})
			continue
		}
		if err := u.markInvoiced(ctx, groups[customerID], inv.ID, now); err != nil {
			errs = append(errs, &ledger.GroupError{CustomerID: customerID, Err: err})
		}
		issued = append(issued, inv)
	}
	log.Printf("[job][usecase] batch invoice issued=%d failed=%d", len(issued), len(errs))
	return issued, errors.Join(errs...)
}

func (u *JobUseCase) markInvoiced(ctx context.Context, jobs []entities.Job, invoiceID string, now time.Time) error {
	for _, j := range jobs {
		j.InvoiceID = invoiceID
		j.UpdatedAt = now
		if _, err := u.save(ctx, j); err != nil {
			log.Printf("[job][usecase] marking job invoiced failed job_id=%s invoice_id=%s err=%v", j.ID, invoiceID, err)
			return err
		}
	}
	return nil
}

func (u *JobUseCase) save(ctx context.Context, j entities.Job) (entities.Job, error) {
	updated, err := u.repo.Update(ctx, j)
	if err != nil {
		return entities.Job{}, err
	}
	if updated.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return updated, nil
}
