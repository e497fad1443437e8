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
	ErrEstimateNotFound         = errors.New("estimate not found")
	ErrInvalidEstimateID        = errors.New("invalid estimate id")
	ErrInvalidEstimateOwner     = errors.New("estimate requires a customer or lead")
	ErrEstimateLocked           = errors.New("estimate is no longer a draft")
	ErrEstimateAlreadyConverted = errors.New("estimate already converted to a job")
	ErrEstimateOwnerNotCustomer = errors.New("estimate lead has not been converted to a customer")
)

// EstimateInput is the caller-supplied part of a new estimate. A nil TaxRate
// or ValidUntil takes the configured default.
type EstimateInput struct {
	CustomerID string
	LeadID     string
	Title      string
	Notes      string
	LineItems  []entities.LineItem
	TaxRate    *float64
	ValidUntil *time.Time
}

// IEstimateUseCase exposes estimate (quote) operations.
//
//   - Create numbers a draft estimate and computes its totals
//   - UpdateLineItems re-prices a draft
//   - Send / Approve / Decline / Expire walk the estimate status machine
//   - ConvertToJob turns an approved estimate into a job exactly once
type IEstimateUseCase interface {
	Create(ctx context.Context, in EstimateInput) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	List(ctx context.Context) ([]entities.Estimate, error)
	UpdateLineItems(ctx context.Context, id string, items []entities.LineItem, taxRate *float64) (entities.Estimate, error)
	Send(ctx context.Context, id string) (entities.Estimate, error)
	Approve(ctx context.Context, id string) (entities.Estimate, error)
	Decline(ctx context.Context, id string) (entities.Estimate, error)
	Expire(ctx context.Context, id string) (entities.Estimate, error)
	ConvertToJob(ctx context.Context, id string) (entities.Job, error)
}

// EstimateDefaults are applied when the caller leaves a term unset.
type EstimateDefaults struct {
	TaxRate   float64
	ValidDays int
}

type EstimateUseCase struct {
	repo     interfaces.IEstimateRepository
	jobRepo  interfaces.IJobRepository
	leadRepo interfaces.ILeadRepository
	seq      interfaces.ISequenceRepository
	defaults EstimateDefaults
	Now      func() time.Time
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, jobRepo interfaces.IJobRepository, leadRepo interfaces.ILeadRepository, seq interfaces.ISequenceRepository, defaults EstimateDefaults) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, jobRepo: jobRepo, leadRepo: leadRepo, seq: seq, defaults: defaults, Now: utcNow}
}

func (u *EstimateUseCase) Create(ctx context.Context, in EstimateInput) (entities.Estimate, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.LeadID = strings.TrimSpace(in.LeadID)
	if in.CustomerID == "" && in.LeadID == "" {
		return entities.Estimate{}, ErrInvalidEstimateOwner
	}

	taxRate := resolveTaxRate(in.TaxRate, u.defaults.TaxRate)
	items, totals, err := ledger.Recalculate(in.LineItems, taxRate)
	if err != nil {
		return entities.Estimate{}, err
	}

	now := u.Now()
	number, err := nextDocumentNumber(ctx, u.seq, ledger.PrefixEstimate, now)
	if err != nil {
		log.Printf("[estimate][usecase] number allocation failed err=%v", err)
		return entities.Estimate{}, err
	}

	validUntil := now.AddDate(0, 0, u.defaults.ValidDays)
	if in.ValidUntil != nil {
		validUntil = in.ValidUntil.UTC()
	}

	e := entities.Estimate{
		ID:         uuid.NewString(),
		Number:     number,
		CustomerID: in.CustomerID,
		LeadID:     in.LeadID,
		Title:      strings.TrimSpace(in.Title),
		LineItems:  items,
		TaxRate:    taxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Status:     entities.EstimateStatusDraft,
		Notes:      in.Notes,
		ValidUntil: validUntil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := u.repo.Create(ctx, e)
	if err != nil {
		return entities.Estimate{}, err
	}
	log.Printf("[estimate][usecase] created estimate_id=%s number=%s total=%.2f", created.ID, created.Number, created.Total)
	return created, nil
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func (u *EstimateUseCase) List(ctx context.Context) ([]entities.Estimate, error) {
	estimates, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(estimates, func(i, j int) bool { return estimates[i].Number > estimates[j].Number })
	return estimates, nil
}

func (u *EstimateUseCase) UpdateLineItems(ctx context.Context, id string, items []entities.LineItem, taxRate *float64) (entities.Estimate, error) {
	e, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.Status != entities.EstimateStatusDraft {
		return entities.Estimate{}, ErrEstimateLocked
	}

	rate := resolveTaxRate(taxRate, e.TaxRate)
	priced, totals, err := ledger.Recalculate(items, rate)
	if err != nil {
		return entities.Estimate{}, err
	}
	e.LineItems = priced
	e.TaxRate = rate
	e.Subtotal = totals.Subtotal
	e.TaxAmount = totals.TaxAmount
	e.Total = totals.Total
	e.UpdatedAt = u.Now()
	return u.save(ctx, e)
}

func (u *EstimateUseCase) Send(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusSent)
}

func (u *EstimateUseCase) Approve(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusApproved)
}

func (u *EstimateUseCase) Decline(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusDeclined)
}

func (u *EstimateUseCase) Expire(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusExpired)
}

func (u *EstimateUseCase) transition(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	e, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	now := u.Now()
	next, err := ledger.TransitionEstimate(e.Status, status, ledger.EstimateContext{ValidUntil: e.ValidUntil, Now: now})
	if err != nil {
		return entities.Estimate{}, err
	}
	e.Status = next
	e.UpdatedAt = now

	updated, err := u.save(ctx, e)
	if err != nil {
		return entities.Estimate{}, err
	}
	log.Printf("[estimate][usecase] status updated estimate_id=%s status=%s", updated.ID, updated.Status)
	return updated, nil
}

// ConvertToJob creates the job for an approved estimate and records its id
// on the estimate. A lead-owned estimate is billed to the customer the lead
// was converted into.
func (u *EstimateUseCase) ConvertToJob(ctx context.Context, id string) (entities.Job, error) {
	e, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}
	if e.JobID != "" {
		return entities.Job{}, ErrEstimateAlreadyConverted
	}
	if e.CustomerID == "" {
		if e.CustomerID, err = u.leadCustomer(ctx, e.LeadID); err != nil {
			log.Printf("[estimate][usecase] owner resolution failed estimate_id=%s lead_id=%s err=%v", e.ID, e.LeadID, err)
			return entities.Job{}, err
		}
	}

	now := u.Now()
	job, err := ledger.EstimateToJob(e, now)
	if err != nil {
		return entities.Job{}, err
	}
	job.ID = uuid.NewString()

	created, err := u.jobRepo.Create(ctx, job)
	if err != nil {
		log.Printf("[estimate][usecase] job create failed estimate_id=%s err=%v", e.ID, err)
		return entities.Job{}, err
	}

	e.JobID = created.ID
	e.UpdatedAt = now
	if _, err := u.save(ctx, e); err != nil {
		log.Printf("[estimate][usecase] marking estimate converted failed estimate_id=%s job_id=%s err=%v", e.ID, created.ID, err)
		return entities.Job{}, err
	}
	log.Printf("[estimate][usecase] converted estimate_id=%s job_id=%s price=%.2f", e.ID, created.ID, created.Price)
	return created, nil
}

func (u *EstimateUseCase) leadCustomer(ctx context.Context, leadID string) (string, error) {
	if leadID == "" || u.leadRepo == nil {
		return "", ErrEstimateOwnerNotCustomer
	}
	lead, err := u.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return "", err
	}
	if lead.CustomerID == "" {
		return "", ErrEstimateOwnerNotCustomer
	}
	return lead.CustomerID, nil
}

func (u *EstimateUseCase) save(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	updated, err := u.repo.Update(ctx, e)
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return updated, nil
}
