package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"fieldledger/internal/adapter/http/handlers/mocks"
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newJobRouter(t *testing.T) (*mocks.MockIJobUseCase, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIJobUseCase(ctrl)
	h := NewJobHandler(uc)

	r := gin.New()
	r.POST("/v1/jobs", h.CreateJob)
	r.GET("/v1/jobs", h.ListJobs)
	r.PATCH("/v1/jobs/:id/status", h.UpdateJobStatus)
	r.PATCH("/v1/jobs/:id/schedule", h.ScheduleJob)
	r.PATCH("/v1/jobs/:id/checklist/:index", h.ToggleChecklistItem)
	r.POST("/v1/jobs/:id/invoice", h.InvoiceJob)
	r.POST("/v1/jobs/batch-invoice", h.BatchInvoiceJobs)
	return uc, r
}

func TestJobHandler(t *testing.T) {
	t.Run("create requires title", func(t *testing.T) {
		_, r := newJobRouter(t)
		w := serve(r, http.MethodPost, "/v1/jobs", `{"customer_id":"c1"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("list passes status filter", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().List(gomock.Any(), entities.JobStatusCompleted).Return([]entities.Job{{ID: "j1", Status: entities.JobStatusCompleted}}, nil)

		w := serve(r, http.MethodGet, "/v1/jobs?status=completed", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("status conflict", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().UpdateStatus(gomock.Any(), "j1", entities.JobStatusScheduled).
			Return(entities.Job{}, &ledger.TransitionError{Document: "job", From: "completed", To: "scheduled"})

		w := serve(r, http.MethodPatch, "/v1/jobs/j1/status", `{"status":"scheduled"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("schedule", func(t *testing.T) {
		uc, r := newJobRouter(t)
		at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		uc.EXPECT().Schedule(gomock.Any(), "j1", at).Return(entities.Job{ID: "j1", Status: entities.JobStatusScheduled, ScheduledAt: &at}, nil)

		w := serve(r, http.MethodPatch, "/v1/jobs/j1/schedule", `{"scheduled_at":"2026-03-01T09:00:00Z"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("checklist index must be numeric", func(t *testing.T) {
		_, r := newJobRouter(t)
		w := serve(r, http.MethodPatch, "/v1/jobs/j1/checklist/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("checklist toggle", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().ToggleChecklistItem(gomock.Any(), "j1", 1).Return(entities.Job{
			ID:        "j1",
			Checklist: []entities.ChecklistItem{{Text: "a"}, {Text: "b", Completed: true}},
		}, nil)

		w := serve(r, http.MethodPatch, "/v1/jobs/j1/checklist/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		checklist := decode(t, w)["checklist"].([]any)
		if checklist[1].(map[string]any)["completed"] != true {
			t.Fatalf("unexpected checklist %v", checklist)
		}
	})

	t.Run("invoice already invoiced", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().ConvertToInvoice(gomock.Any(), "j1").Return(entities.Invoice{}, usecase.ErrJobAlreadyInvoiced)

		w := serve(r, http.MethodPost, "/v1/jobs/j1/invoice", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestJobHandler_BatchInvoiceJobs(t *testing.T) {
	t.Run("partial failure still returns issued invoices", func(t *testing.T) {
		uc, r := newJobRouter(t)
		failed := errors.Join(&ledger.GroupError{CustomerID: "alice", Err: errors.New("throttled")})
		uc.EXPECT().BatchInvoice(gomock.Any()).Return([]entities.Invoice{{ID: "inv-bob", CustomerID: "bob", Total: 300}}, failed)

		w := serve(r, http.MethodPost, "/v1/jobs/batch-invoice", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		body := decode(t, w)
		if len(body["invoices"].([]any)) != 1 || len(body["errors"].([]any)) != 1 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("nested joined group errors", func(t *testing.T) {
		nested := errors.Join(
			errors.Join(&ledger.GroupError{CustomerID: "a", Err: ledger.ErrInvalidLineItem}),
			&ledger.GroupError{CustomerID: "b", Err: errors.New("x")},
		)
		if got := groupErrors(nested); len(got) != 2 {
			t.Fatalf("expected 2 group errors, got %d", len(got))
		}
	})

	t.Run("listing failure", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().BatchInvoice(gomock.Any()).Return(nil, fmt.Errorf("scan: %w", errors.New("boom")))

		w := serve(r, http.MethodPost, "/v1/jobs/batch-invoice", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("nothing eligible", func(t *testing.T) {
		uc, r := newJobRouter(t)
		uc.EXPECT().BatchInvoice(gomock.Any()).Return([]entities.Invoice{}, nil)

		w := serve(r, http.MethodPost, "/v1/jobs/batch-invoice", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if _, ok := decode(t, w)["errors"]; ok {
			t.Fatalf("unexpected errors: %s", w.Body.String())
		}
	})
}
