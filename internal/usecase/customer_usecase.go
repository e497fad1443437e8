package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInvalidCustomerID   = errors.New("invalid customer id")
	ErrInvalidCustomerName = errors.New("invalid customer name")
)

type ICustomerUseCase interface {
	Create(ctx context.Context, c entities.Customer) (entities.Customer, error)
	GetByID(ctx context.Context, id string) (entities.Customer, error)
	List(ctx context.Context) ([]entities.Customer, error)
}

type CustomerUseCase struct {
	repo interfaces.ICustomerRepository
	Now  func() time.Time
}

var _ ICustomerUseCase = (*CustomerUseCase)(nil)

func NewCustomerUseCase(repo interfaces.ICustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, Now: utcNow}
}

func (u *CustomerUseCase) Create(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return entities.Customer{}, ErrInvalidCustomerName
	}
	now := u.Now()
	c.ID = uuid.NewString()
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.CreatedAt = now
	c.UpdatedAt = now
	return u.repo.Create(ctx, c)
}

func (u *CustomerUseCase) GetByID(ctx context.Context, id string) (entities.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Customer{}, ErrInvalidCustomerID
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Customer{}, err
	}
	if c.ID == "" {
		return entities.Customer{}, ErrCustomerNotFound
	}
	return c, nil
}

func (u *CustomerUseCase) List(ctx context.Context) ([]entities.Customer, error) {
	customers, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
	return customers, nil
}
