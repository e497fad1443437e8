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
	ErrLeadNotFound         = errors.New("lead not found")
	ErrInvalidLeadID        = errors.New("invalid lead id")
	ErrInvalidLeadName      = errors.New("invalid lead name")
	ErrInvalidLeadValue     = errors.New("invalid lead estimated value")
	ErrLeadAlreadyConverted = errors.New("lead already converted")
)

// ILeadUseCase exposes the sales pipeline operations.
//
// A lead advances through its stages via ledger.TransitionLead and, once won,
// is promoted into a customer exactly once.
type ILeadUseCase interface {
	Create(ctx context.Context, l entities.Lead) (entities.Lead, error)
	GetByID(ctx context.Context, id string) (entities.Lead, error)
	List(ctx context.Context) ([]entities.Lead, error)
	UpdateStatus(ctx context.Context, id string, status entities.LeadStatus) (entities.Lead, error)
	ConvertToCustomer(ctx context.Context, id string) (entities.Customer, error)
}

type LeadUseCase struct {
	repo         interfaces.ILeadRepository
	customerRepo interfaces.ICustomerRepository
	Now          func() time.Time
}

var _ ILeadUseCase = (*LeadUseCase)(nil)

func NewLeadUseCase(repo interfaces.ILeadRepository, customerRepo interfaces.ICustomerRepository) *LeadUseCase {
	return &LeadUseCase{repo: repo, customerRepo: customerRepo, Now: utcNow}
}

func (u *LeadUseCase) Create(ctx context.Context, l entities.Lead) (entities.Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return entities.Lead{}, ErrInvalidLeadName
	}
	if !finiteNonNegative(l.EstimatedValue) {
		return entities.Lead{}, ErrInvalidLeadValue
	}

	now := u.Now()
	l.ID = uuid.NewString()
	l.Status = entities.LeadStatusNew
	l.CustomerID = ""
	l.CreatedAt = now
	l.UpdatedAt = now
	return u.repo.Create(ctx, l)
}

func (u *LeadUseCase) GetByID(ctx context.Context, id string) (entities.Lead, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Lead{}, ErrInvalidLeadID
	}

	l, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Lead{}, err
	}
	if l.ID == "" {
		return entities.Lead{}, ErrLeadNotFound
	}
	return l, nil
}

func (u *LeadUseCase) List(ctx context.Context) ([]entities.Lead, error) {
	leads, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leads, func(i, j int) bool { return leads[i].CreatedAt.After(leads[j].CreatedAt) })
	return leads, nil
}

func (u *LeadUseCase) UpdateStatus(ctx context.Context, id string, status entities.LeadStatus) (entities.Lead, error) {
	l, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Lead{}, err
	}

	next, err := ledger.TransitionLead(l.Status, status)
	if err != nil {
		return entities.Lead{}, err
	}
	l.Status = next
	l.UpdatedAt = u.Now()

	updated, err := u.repo.Update(ctx, l)
	if err != nil {
		return entities.Lead{}, err
	}
	if updated.ID == "" {
		return entities.Lead{}, ErrLeadNotFound
	}
	log.Printf("[lead][usecase] status updated lead_id=%s status=%s", updated.ID, updated.Status)
	return updated, nil
}

// ConvertToCustomer promotes a won lead. The lead keeps the id of the
// customer it produced so it cannot be converted twice.
func (u *LeadUseCase) ConvertToCustomer(ctx context.Context, id string) (entities.Customer, error) {
	l, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Customer{}, err
	}
	if l.CustomerID != "" {
		return entities.Customer{}, ErrLeadAlreadyConverted
	}

	now := u.Now()
	c, err := ledger.LeadToCustomer(l, now)
	if err != nil {
		return entities.Customer{}, err
	}
	c.ID = uuid.NewString()

	created, err := u.customerRepo.Create(ctx, c)
	if err != nil {
		log.Printf("[lead][usecase] customer create failed lead_id=%s err=%v", l.ID, err)
		return entities.Customer{}, err
	}

	l.CustomerID = created.ID
	l.UpdatedAt = now
	if _, err := u.repo.Update(ctx, l); err != nil {
		log.Printf("[lead][usecase] marking lead converted failed lead_id=%s customer_id=%s err=%v", l.ID, created.ID, err)
		return entities.Customer{}, err
	}
	log.Printf("[lead][usecase] converted lead_id=%s customer_id=%s", l.ID, created.ID)
	return created, nil
}
