package handlers

import (
	"net/http"
	"testing"

	"fieldledger/internal/adapter/http/handlers/mocks"
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newEstimateRouter(t *testing.T) (*mocks.MockIEstimateUseCase, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIEstimateUseCase(ctrl)
	h := NewEstimateHandler(uc)

	r := gin.New()
	r.POST("/v1/estimates", h.CreateEstimate)
	r.GET("/v1/estimates", h.ListEstimates)
	r.GET("/v1/estimates/:id", h.GetEstimate)
	r.PUT("/v1/estimates/:id/items", h.UpdateEstimateItems)
	r.PATCH("/v1/estimates/:id/send", h.SendEstimate)
	r.PATCH("/v1/estimates/:id/approve", h.ApproveEstimate)
	r.PATCH("/v1/estimates/:id/decline", h.DeclineEstimate)
	r.PATCH("/v1/estimates/:id/expire", h.ExpireEstimate)
	r.POST("/v1/estimates/:id/convert", h.ConvertEstimate)
	return uc, r
}

func TestEstimateHandler_CreateEstimate(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, r := newEstimateRouter(t)
		w := serve(r, http.MethodPost, "/v1/estimates", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid line item", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, &ledger.LineItemError{Index: 0, Field: "quantity", Value: -1})

		w := serve(r, http.MethodPost, "/v1/estimates", `{"customer_id":"c1","line_items":[{"description":"x","quantity":-1,"unit_price":5}]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decode(t, w); body["code"] != "INVALID_LINE_ITEM" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("number overflow", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, ledger.ErrNumberOverflow)

		w := serve(r, http.MethodPost, "/v1/estimates", `{"customer_id":"c1"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if body := decode(t, w); body["code"] != "NUMBER_OVERFLOW" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, in usecase.EstimateInput) (entities.Estimate, error) {
			if in.TaxRate == nil || *in.TaxRate != 0 {
				t.Fatalf("explicit zero tax rate was lost: %+v", in.TaxRate)
			}
			if len(in.LineItems) != 1 || in.LineItems[0].UnitPrice != 80 {
				t.Fatalf("unexpected items %+v", in.LineItems)
			}
			return entities.Estimate{
				ID:        "est-1",
				Number:    "EST-2602-0001",
				LineItems: []entities.LineItem{{Description: "Labor", Quantity: 2, UnitPrice: 80, LineTotal: 160}},
				Subtotal:  160,
				Total:     160,
				Status:    entities.EstimateStatusDraft,
			}, nil
		})

		w := serve(r, http.MethodPost, "/v1/estimates", `{"customer_id":"c1","tax_rate":0,"line_items":[{"description":"Labor","quantity":2,"unit_price":80}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		body := decode(t, w)
		if body["number"] != "EST-2602-0001" || body["total_display"] != "160.00" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		items := body["line_items"].([]any)
		if items[0].(map[string]any)["line_total_display"] != "160.00" {
			t.Fatalf("unexpected items: %v", items)
		}
	})
}

func TestEstimateHandler_StatusRoutes(t *testing.T) {
	cases := []struct {
		path   string
		expect func(uc *mocks.MockIEstimateUseCase) *gomock.Call
	}{
		{"send", func(uc *mocks.MockIEstimateUseCase) *gomock.Call { return uc.EXPECT().Send(gomock.Any(), "est-1") }},
		{"approve", func(uc *mocks.MockIEstimateUseCase) *gomock.Call { return uc.EXPECT().Approve(gomock.Any(), "est-1") }},
		{"decline", func(uc *mocks.MockIEstimateUseCase) *gomock.Call { return uc.EXPECT().Decline(gomock.Any(), "est-1") }},
		{"expire", func(uc *mocks.MockIEstimateUseCase) *gomock.Call { return uc.EXPECT().Expire(gomock.Any(), "est-1") }},
	}

	for _, tc := range cases {
		t.Run(tc.path+" success", func(t *testing.T) {
			uc, r := newEstimateRouter(t)
			tc.expect(uc).Return(entities.Estimate{ID: "est-1", Status: entities.EstimateStatusSent}, nil)

			w := serve(r, http.MethodPatch, "/v1/estimates/est-1/"+tc.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
		})

		t.Run(tc.path+" invalid transition", func(t *testing.T) {
			uc, r := newEstimateRouter(t)
			tc.expect(uc).Return(entities.Estimate{}, &ledger.TransitionError{Document: "estimate", From: "approved", To: tc.path})

			w := serve(r, http.MethodPatch, "/v1/estimates/est-1/"+tc.path, "")
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", w.Code)
			}
		})
	}
}

func TestEstimateHandler_UpdateItemsAndConvert(t *testing.T) {
	t.Run("locked estimate", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().UpdateLineItems(gomock.Any(), "est-1", gomock.Any(), gomock.Nil()).Return(entities.Estimate{}, usecase.ErrEstimateLocked)

		w := serve(r, http.MethodPut, "/v1/estimates/est-1/items", `{"line_items":[{"description":"a","quantity":1,"unit_price":1}]}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("convert not approved", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().ConvertToJob(gomock.Any(), "est-1").Return(entities.Job{}, &ledger.SourceStateError{Conversion: "estimate to job", Status: "sent", Required: "approved"})

		w := serve(r, http.MethodPost, "/v1/estimates/est-1/convert", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if body := decode(t, w); body["code"] != "INVALID_SOURCE_STATE" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("convert lead not yet a customer", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().ConvertToJob(gomock.Any(), "est-1").Return(entities.Job{}, usecase.ErrEstimateOwnerNotCustomer)

		w := serve(r, http.MethodPost, "/v1/estimates/est-1/convert", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if body := decode(t, w); body["code"] != "ESTIMATE_OWNER_NOT_CUSTOMER" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("convert success", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().ConvertToJob(gomock.Any(), "est-1").Return(entities.Job{ID: "job-1", EstimateID: "est-1", Price: 100, Status: entities.JobStatusUnscheduled}, nil)

		w := serve(r, http.MethodPost, "/v1/estimates/est-1/convert", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if body := decode(t, w); body["price_display"] != "100.00" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, r := newEstimateRouter(t)
		uc.EXPECT().GetByID(gomock.Any(), "nope").Return(entities.Estimate{}, usecase.ErrEstimateNotFound)

		w := serve(r, http.MethodGet, "/v1/estimates/nope", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
