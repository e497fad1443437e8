package usecase

import (
	"context"
	"errors"
	"testing"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	mock_interfaces "fieldledger/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestEstimateUseCase_Create(t *testing.T) {
	t.Run("missing owner", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil, nil, nil, EstimateDefaults{})
		_, err := uc.Create(context.Background(), EstimateInput{Title: "x"})
		if !errors.Is(err, ErrInvalidEstimateOwner) {
			t.Fatalf("expected ErrInvalidEstimateOwner, got %v", err)
		}
	})

	t.Run("invalid line item", func(t *testing.T) {
		uc := NewEstimateUseCase(nil, nil, nil, nil, EstimateDefaults{})
		_, err := uc.Create(context.Background(), EstimateInput{CustomerID: "c-1", LineItems: []entities.LineItem{{Quantity: -1, UnitPrice: 5}}})
		if !errors.Is(err, ledger.ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})

	t.Run("sequence error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		seq := mock_interfaces.NewMockISequenceRepository(ctrl)
		uc := NewEstimateUseCase(nil, nil, nil, seq, EstimateDefaults{})
		ddbErr := errors.New("ddb")
		seq.EXPECT().Next(gomock.Any(), "EST", gomock.Any(), gomock.Any()).Return(0, ddbErr)

		_, err := uc.Create(context.Background(), EstimateInput{CustomerID: "c-1"})
		if !errors.Is(err, ddbErr) {
			t.Fatalf("expected sequence error, got %v", err)
		}
	})

	t.Run("sequence overflow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		seq := mock_interfaces.NewMockISequenceRepository(ctrl)
		uc := NewEstimateUseCase(nil, nil, nil, seq, EstimateDefaults{})
		seq.EXPECT().Next(gomock.Any(), "EST", gomock.Any(), gomock.Any()).Return(10000, nil)

		_, err := uc.Create(context.Background(), EstimateInput{CustomerID: "c-1"})
		if !errors.Is(err, ledger.ErrNumberOverflow) {
			t.Fatalf("expected ErrNumberOverflow, got %v", err)
		}
	})

	t.Run("success computes totals and number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		seq := mock_interfaces.NewMockISequenceRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, seq, EstimateDefaults{TaxRate: 0.1, ValidDays: 30})
		uc.Now = fixedClock

		seq.EXPECT().Next(gomock.Any(), "EST", 2026, 2).Return(7, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.Number != "EST-2602-0007" || e.Status != entities.EstimateStatusDraft {
					t.Fatalf("unexpected estimate: %+v", e)
				}
				if e.Subtotal != 265 || e.TaxRate != 0.1 || e.LineItems[0].LineTotal != 240 {
					t.Fatalf("unexpected totals: %+v", e)
				}
				if !e.ValidUntil.Equal(fixedNow.AddDate(0, 0, 30)) {
					t.Fatalf("unexpected valid_until %s", e.ValidUntil)
				}
				return e, nil
			},
		)

		items := []entities.LineItem{{Description: "Labor", Quantity: 3, UnitPrice: 80}, {Description: "Filter", Quantity: 2, UnitPrice: 12.5}}
		if _, err := uc.Create(context.Background(), EstimateInput{CustomerID: "c-1", LineItems: items}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("explicit zero tax overrides default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		seq := mock_interfaces.NewMockISequenceRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, seq, EstimateDefaults{TaxRate: 0.1})
		uc.Now = fixedClock

		seq.EXPECT().Next(gomock.Any(), "EST", 2026, 2).Return(1, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.TaxRate != 0 || e.Total != 100 {
					t.Fatalf("unexpected estimate: %+v", e)
				}
				return e, nil
			},
		)

		zero := 0.0
		_, err := uc.Create(context.Background(), EstimateInput{LeadID: "l-1", TaxRate: &zero, LineItems: []entities.LineItem{{Quantity: 2, UnitPrice: 50}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestEstimateUseCase_UpdateLineItems(t *testing.T) {
	t.Run("locked after send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: entities.EstimateStatusSent}, nil)

		_, err := uc.UpdateLineItems(context.Background(), "e-1", nil, nil)
		if !errors.Is(err, ErrEstimateLocked) {
			t.Fatalf("expected ErrEstimateLocked, got %v", err)
		}
	})

	t.Run("reprices draft keeping tax rate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: entities.EstimateStatusDraft, TaxRate: 0.5}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) { return e, nil },
		)

		res, err := uc.UpdateLineItems(context.Background(), "e-1", []entities.LineItem{{Quantity: 4, UnitPrice: 25}}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Subtotal != 100 || res.TaxAmount != 50 || res.Total != 150 {
			t.Fatalf("unexpected totals: %+v", res)
		}
	})
}

func TestEstimateUseCase_Transitions(t *testing.T) {
	cases := []struct {
		name string
		call func(uc *EstimateUseCase, ctx context.Context, id string) (entities.Estimate, error)
		from entities.EstimateStatus
		want entities.EstimateStatus
	}{
		{name: "send", call: (*EstimateUseCase).Send, from: entities.EstimateStatusDraft, want: entities.EstimateStatusSent},
		{name: "approve", call: (*EstimateUseCase).Approve, from: entities.EstimateStatusSent, want: entities.EstimateStatusApproved},
		{name: "decline", call: (*EstimateUseCase).Decline, from: entities.EstimateStatusSent, want: entities.EstimateStatusDeclined},
		{name: "expire", call: (*EstimateUseCase).Expire, from: entities.EstimateStatusSent, want: entities.EstimateStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name+" invalid id", func(t *testing.T) {
			uc := NewEstimateUseCase(nil, nil, nil, nil, EstimateDefaults{})
			_, err := tc.call(uc, context.Background(), "")
			if !errors.Is(err, ErrInvalidEstimateID) {
				t.Fatalf("expected ErrInvalidEstimateID, got %v", err)
			}
		})

		t.Run(tc.name+" success", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
			uc.Now = fixedClock
			repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: tc.from, ValidUntil: fixedNow.AddDate(0, 0, -1)}, nil)
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, e entities.Estimate) (entities.Estimate, error) { return e, nil },
			)

			res, err := tc.call(uc, context.Background(), " e-1 ")
			if err != nil || res.Status != tc.want {
				t.Fatalf("unexpected result err=%v res=%+v", err, res)
			}
		})

		t.Run(tc.name+" not found on update", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
			uc.Now = fixedClock
			repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: tc.from, ValidUntil: fixedNow.AddDate(0, 0, -1)}, nil)
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, nil)

			_, err := tc.call(uc, context.Background(), "e-1")
			if !errors.Is(err, ErrEstimateNotFound) {
				t.Fatalf("expected ErrEstimateNotFound, got %v", err)
			}
		})
	}

	t.Run("expire before validity ends", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
		uc.Now = fixedClock
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: entities.EstimateStatusSent, ValidUntil: fixedNow.AddDate(0, 0, 1)}, nil)

		_, err := uc.Expire(context.Background(), "e-1")
		if !errors.Is(err, ledger.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestEstimateUseCase_ConvertToJob(t *testing.T) {
	t.Run("not approved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", CustomerID: "c-1", Status: entities.EstimateStatusSent}, nil)

		_, err := uc.ConvertToJob(context.Background(), "e-1")
		if !errors.Is(err, ledger.ErrInvalidSourceState) {
			t.Fatalf("expected ErrInvalidSourceState, got %v", err)
		}
	})

	t.Run("already converted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, nil, nil, EstimateDefaults{})
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(entities.Estimate{ID: "e-1", Status: entities.EstimateStatusApproved, JobID: "j-1"}, nil)

		_, err := uc.ConvertToJob(context.Background(), "e-1")
		if !errors.Is(err, ErrEstimateAlreadyConverted) {
			t.Fatalf("expected ErrEstimateAlreadyConverted, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		jobs := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewEstimateUseCase(repo, jobs, nil, nil, EstimateDefaults{})
		uc.Now = fixedClock

		est := entities.Estimate{
			ID:         "e-1",
			CustomerID: "c-1",
			Status:     entities.EstimateStatusApproved,
			LineItems:  []entities.LineItem{{Quantity: 2, UnitPrice: 50}},
			TaxRate:    0.2,
		}
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(est, nil)
		jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.ID == "" || j.Price != 100 || j.EstimateID != "e-1" || j.Status != entities.JobStatusUnscheduled {
					t.Fatalf("unexpected job: %+v", j)
				}
				return j, nil
			},
		)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.JobID == "" {
					t.Fatalf("estimate must be marked converted")
				}
				return e, nil
			},
		)

		job, err := uc.ConvertToJob(context.Background(), "e-1")
		if err != nil || job.Price != 100 {
			t.Fatalf("unexpected result err=%v job=%+v", err, job)
		}
	})
	t.Run("lead owner not converted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		leads := mock_interfaces.NewMockILeadRepository(ctrl)
		uc := NewEstimateUseCase(repo, nil, leads, nil, EstimateDefaults{})

		est := entities.Estimate{ID: "e-1", LeadID: "l-1", Status: entities.EstimateStatusApproved}
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(est, nil)
		leads.EXPECT().GetByID(gomock.Any(), "l-1").Return(entities.Lead{ID: "l-1", Status: entities.LeadStatusWon}, nil)

		_, err := uc.ConvertToJob(context.Background(), "e-1")
		if !errors.Is(err, ErrEstimateOwnerNotCustomer) {
			t.Fatalf("expected ErrEstimateOwnerNotCustomer, got %v", err)
		}
	})

	t.Run("lead owner converted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		jobs := mock_interfaces.NewMockIJobRepository(ctrl)
		leads := mock_interfaces.NewMockILeadRepository(ctrl)
		uc := NewEstimateUseCase(repo, jobs, leads, nil, EstimateDefaults{})
		uc.Now = fixedClock

		est := entities.Estimate{
			ID:        "e-1",
			LeadID:    "l-1",
			Status:    entities.EstimateStatusApproved,
			LineItems: []entities.LineItem{{Quantity: 2, UnitPrice: 50}},
		}
		repo.EXPECT().GetByID(gomock.Any(), "e-1").Return(est, nil)
		leads.EXPECT().GetByID(gomock.Any(), "l-1").Return(entities.Lead{ID: "l-1", CustomerID: "c-9"}, nil)
		jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.CustomerID != "c-9" {
					t.Fatalf("job must be owned by the lead's customer, got %+v", j)
				}
				return j, nil
			},
		)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.CustomerID != "c-9" || e.JobID == "" {
					t.Fatalf("estimate must record customer and job: %+v", e)
				}
				return e, nil
			},
		)

		job, err := uc.ConvertToJob(context.Background(), "e-1")
		if err != nil || job.CustomerID != "c-9" || job.Price != 100 {
			t.Fatalf("unexpected result err=%v job=%+v", err, job)
		}
	})
}
