package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fieldledger/internal/domain/entities"
	mock_interfaces "fieldledger/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var paymentNow = time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

func sentInvoice() entities.Invoice {
	return entities.Invoice{
		ID:      "inv-1",
		Number:  "INV-2602-0001",
		Status:  entities.InvoiceStatusSent,
		Total:   77.2,
		DueDate: paymentNow.AddDate(0, 0, 10),
	}
}

func newPaymentUseCase(repo *mock_interfaces.MockIBillingPaymentRepository, invRepo *mock_interfaces.MockIInvoiceRepository, gateway *mock_interfaces.MockIPaymentGateway, mock bool) *BillingPaymentUseCase {
	uc := NewBillingPaymentUseCase(repo, invRepo, gateway, mock)
	if gateway == nil {
		uc.gateway = nil
	}
	uc.Now = func() time.Time { return paymentNow }
	return uc
}

func TestBillingPaymentUseCase_CreateAndApprove_Validations(t *testing.T) {
	t.Run("empty invoice id", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.CreateAndApprove(context.Background(), " ", json.RawMessage(`{}`))
		if !errors.Is(err, ErrInvalidPaymentInvoiceID) {
			t.Fatalf("expected ErrInvalidPaymentInvoiceID, got %v", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.CreateAndApprove(context.Background(), "inv-1", nil)
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("invalid json payload", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{`))
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix"}`))
		if !errors.Is(err, ErrPaymentGatewayNotConfigured) {
			t.Fatalf("expected ErrPaymentGatewayNotConfigured, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_CreateAndApprove_InvoiceChecks(t *testing.T) {
	payload := json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`)

	t.Run("invoice repo returns error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := newPaymentUseCase(nil, invRepo, gateway, false)

		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(entities.Invoice{}, errors.New("db"))

		_, err := uc.CreateAndApprove(context.Background(), "inv-1", payload)
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("invoice not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := newPaymentUseCase(nil, invRepo, gateway, false)

		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(entities.Invoice{}, nil)

		_, err := uc.CreateAndApprove(context.Background(), "inv-1", payload)
		if !errors.Is(err, ErrInvoiceNotFound) {
			t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
		}
	})

	for _, status := range []entities.InvoiceStatus{entities.InvoiceStatusDraft, entities.InvoiceStatusPaid} {
		t.Run("invoice "+string(status)+" not payable", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := newPaymentUseCase(nil, invRepo, gateway, false)

			inv := sentInvoice()
			inv.Status = status
			invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(inv, nil)

			_, err := uc.CreateAndApprove(context.Background(), "inv-1", payload)
			if !errors.Is(err, ErrInvoiceNotPayable) {
				t.Fatalf("expected ErrInvoiceNotPayable, got %v", err)
			}
		})
	}
}

func TestBillingPaymentUseCase_CreateAndApprove_PayloadValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload json.RawMessage
	}{
		{name: "missing payment_method_id", payload: json.RawMessage(`{"payer":{"email":"x@test.com"}}`)},
		{name: "missing payer", payload: json.RawMessage(`{"payment_method_id":"pix"}`)},
		{name: "non-object payload", payload: json.RawMessage(`[]`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := newPaymentUseCase(nil, invRepo, gateway, false)
			t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")
			t.Setenv("MERCADOPAGO_TEST_PAYER_EMAIL", "")

			invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)

			_, err := uc.CreateAndApprove(context.Background(), "inv-1", tc.payload)
			if !errors.Is(err, ErrInvalidMPPayload) {
				t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
			}
		})
	}
}

func TestBillingPaymentUseCase_CreateAndApprove_GatewayErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "customer not found", err: errors.New(`{"code":2002}`), want: ErrPaymentGatewayCustomerNotFound},
		{name: "invalid users", err: errors.New(`invalid users involved`), want: ErrPaymentGatewayInvalidUsers},
		{name: "unauthorized", err: errors.New(`{"error":"unauthorized"}`), want: ErrPaymentGatewayUnauthorized},
		{name: "bad request", err: errors.New(`{"status":400}`), want: ErrPaymentGatewayBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := newPaymentUseCase(nil, invRepo, gateway, false)

			invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, tc.err)

			_, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("unknown gateway error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := newPaymentUseCase(nil, invRepo, gateway, false)

		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New("boom"))

		_, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
		if err == nil || err.Error() != "boom" {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_CreateAndApprove_SuccessAndStatuses(t *testing.T) {
	cases := []struct {
		name           string
		providerStatus string
		want           entities.PaymentStatus
		providerResp   json.RawMessage
	}{
		{name: "approved", providerStatus: "approved", want: entities.PaymentStatusAprovado, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "rejected", providerStatus: "rejected", want: entities.PaymentStatusNegado, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "pending default", providerStatus: "in_process", want: entities.PaymentStatusPendente, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "invalid provider response json", providerStatus: "approved", want: entities.PaymentStatusAprovado, providerResp: json.RawMessage(`{`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
			invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := newPaymentUseCase(repo, invRepo, gateway, false)
			t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "TEST-token")
			t.Setenv("MERCADOPAGO_TEST_PAYER_USER_ID", "123")
			t.Setenv("MERCADOPAGO_TEST_PAYER_EMAIL", "sandbox@test.com")

			invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)

			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
					var body map[string]any
					if err := json.Unmarshal(payload, &body); err != nil {
						t.Fatalf("payload should be valid json: %v", err)
					}
					if body["external_reference"] != "inv-1" {
						t.Fatalf("external_reference not forced to invoice id: %v", body["external_reference"])
					}
					if body["description"] != "Invoice INV-2602-0001" {
						t.Fatalf("description not set")
					}
					if body["transaction_amount"] != float64(77.2) {
						t.Fatalf("transaction_amount should come from invoice balance, got %v", body["transaction_amount"])
					}
					payer := body["payer"].(map[string]any)
					if payer["email"] == nil {
						t.Fatalf("expected payer email fallback/mapping")
					}
					return "pay-1", tc.providerStatus, tc.providerResp, nil
				},
			)
			repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.BillingPayment{})).DoAndReturn(
				func(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) {
					if p.ID != "pay-1" || p.InvoiceID != "inv-1" || p.Status != tc.want || p.Amount != 77.2 {
						t.Fatalf("unexpected payment: %+v", p)
					}
					if !p.Date.Equal(paymentNow) {
						t.Fatalf("date must come from the clock")
					}
					return p, nil
				},
			)
			if tc.want == entities.PaymentStatusAprovado {
				invRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
						if inv.Status != entities.InvoiceStatusPaid || inv.AmountPaid != 77.2 || inv.PaidAt == nil {
							t.Fatalf("invoice not settled: %+v", inv)
						}
						return inv, nil
					},
				)
			}

			res, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"id":"123"},"external_reference":"spoofed"}`))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, res.Status)
			}
		})
	}

	t.Run("charges only the outstanding balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := newPaymentUseCase(repo, invRepo, gateway, false)

		inv := sentInvoice()
		inv.Total = 300
		inv.AmountPaid = 120
		inv.Status = entities.InvoiceStatusPartial
		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(inv, nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
				var body map[string]any
				_ = json.Unmarshal(payload, &body)
				if body["transaction_amount"] != float64(180) {
					t.Fatalf("expected balance 180, got %v", body["transaction_amount"])
				}
				return "pay-2", "approved", json.RawMessage(`{"id":2}`), nil
			},
		)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) { return p, nil },
		)
		invRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
				if inv.Status != entities.InvoiceStatusPaid || inv.AmountPaid != 300 {
					t.Fatalf("unexpected invoice: %+v", inv)
				}
				return inv, nil
			},
		)

		if _, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("mock mode skips gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		uc := newPaymentUseCase(repo, invRepo, nil, true)

		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) {
				if p.ID == "" || p.Status != entities.PaymentStatusAprovado || p.MPPayload["external_reference"] != "inv-1" {
					t.Fatalf("unexpected mock payment: %+v", p)
				}
				return p, nil
			},
		)
		invRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) { return inv, nil },
		)

		res, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.PaymentStatusAprovado {
			t.Fatalf("expected approved, got %s", res.Status)
		}
	})

	t.Run("repository create error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		invRepo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := newPaymentUseCase(repo, invRepo, gateway, false)

		invRepo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("pay-1", "approved", json.RawMessage(`{"id":123}`), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.BillingPayment{}, errors.New("db-create"))

		_, err := uc.CreateAndApprove(context.Background(), "inv-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
		if err == nil || err.Error() != "db-create" {
			t.Fatalf("expected db-create error, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Getters(t *testing.T) {
	t.Run("GetByID invalid", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.GetByID(context.Background(), "")
		if !errors.Is(err, ErrInvalidPaymentID) {
			t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
		}
	})

	t.Run("GetByID not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		uc := NewBillingPaymentUseCase(repo, nil, nil, false)
		repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(entities.BillingPayment{}, nil)

		_, err := uc.GetByID(context.Background(), "id-1")
		if !errors.Is(err, ErrBillingPaymentNotFound) {
			t.Fatalf("expected ErrBillingPaymentNotFound, got %v", err)
		}
	})

	t.Run("GetByID success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		uc := NewBillingPaymentUseCase(repo, nil, nil, false)
		repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(entities.BillingPayment{ID: "id-1"}, nil)

		res, err := uc.GetByID(context.Background(), " id-1 ")
		if err != nil || res.ID != "id-1" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})

	t.Run("ListByInvoiceID invalid", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, false)
		_, err := uc.ListByInvoiceID(context.Background(), " ")
		if !errors.Is(err, ErrInvalidPaymentInvoiceID) {
			t.Fatalf("expected ErrInvalidPaymentInvoiceID, got %v", err)
		}
	})

	t.Run("ListByInvoiceID success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIBillingPaymentRepository(ctrl)
		uc := NewBillingPaymentUseCase(repo, nil, nil, false)
		expected := []entities.BillingPayment{{ID: "p1", Date: paymentNow}}
		repo.EXPECT().ListByInvoiceID(gomock.Any(), "inv-1").Return(expected, nil)

		res, err := uc.ListByInvoiceID(context.Background(), " inv-1 ")
		if err != nil || len(res) != 1 || res[0].ID != "p1" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})
}

func TestBillingPaymentUseCase_HelperFunctions(t *testing.T) {
	t.Run("mapProviderStatus", func(t *testing.T) {
		cases := map[string]entities.PaymentStatus{
			"approved":   entities.PaymentStatusAprovado,
			" APPROVED ": entities.PaymentStatusAprovado,
			"rejected":   entities.PaymentStatusNegado,
			"cancelled":  entities.PaymentStatusNegado,
			"in_process": entities.PaymentStatusPendente,
			"":           entities.PaymentStatusPendente,
		}
		for in, want := range cases {
			if got := mapProviderStatus(in); got != want {
				t.Fatalf("mapProviderStatus(%q) = %s, want %s", in, got, want)
			}
		}
	})

	t.Run("hasNonEmptyString", func(t *testing.T) {
		if hasNonEmptyString(map[string]any{}, "x") {
			t.Fatalf("expected false")
		}
		if hasNonEmptyString(map[string]any{"x": 1}, "x") {
			t.Fatalf("expected false for non-string")
		}
		if hasNonEmptyString(map[string]any{"x": "   "}, "x") {
			t.Fatalf("expected false for empty string")
		}
		if !hasNonEmptyString(map[string]any{"x": "ok"}, "x") {
			t.Fatalf("expected true")
		}
	})

	t.Run("hasPayer and hasPayerID", func(t *testing.T) {
		if hasPayer(map[string]any{}) {
			t.Fatalf("expected false")
		}
		if hasPayer(map[string]any{"payer": "x"}) {
			t.Fatalf("expected false")
		}
		if !hasPayer(map[string]any{"payer": map[string]any{"email": "a@b.com"}}) {
			t.Fatalf("expected true with email")
		}
		if !hasPayer(map[string]any{"payer": map[string]any{"id": 10}}) {
			t.Fatalf("expected true with id")
		}
		if hasPayerID(map[string]any{"id": nil}) {
			t.Fatalf("expected false for nil id")
		}
	})

	t.Run("ensurePayerDefaults", func(t *testing.T) {
		t.Setenv("MERCADOPAGO_TEST_PAYER_EMAIL", "")
		t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")
		m := map[string]any{}
		ensurePayerDefaults(m)
		payer := m["payer"].(map[string]any)
		if payer["type"] != "customer" {
			t.Fatalf("expected type customer")
		}

		m2 := map[string]any{"payer": map[string]any{}}
		t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "TEST-123")
		ensurePayerDefaults(m2)
		if m2["payer"].(map[string]any)["email"] != "test_user_br@testuser.com" {
			t.Fatalf("expected sandbox fallback email")
		}
	})

	t.Run("normalizeSandboxPayerFromUserID", func(t *testing.T) {
		t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "TEST-123")
		t.Setenv("MERCADOPAGO_TEST_PAYER_USER_ID", "123")
		t.Setenv("MERCADOPAGO_TEST_PAYER_EMAIL", "sandbox@test.com")

		m := map[string]any{"payer": map[string]any{"id": "999"}}
		normalizeSandboxPayerFromUserID(m)
		if _, ok := m["payer"].(map[string]any)["email"]; ok {
			t.Fatalf("should not map mismatched id")
		}

		m2 := map[string]any{"payer": map[string]any{"id": "123"}}
		normalizeSandboxPayerFromUserID(m2)
		payer := m2["payer"].(map[string]any)
		if payer["email"] != "sandbox@test.com" {
			t.Fatalf("expected mapped email")
		}
		if _, ok := payer["id"]; ok {
			t.Fatalf("expected id removed")
		}
	})

	t.Run("gateway helper classifiers", func(t *testing.T) {
		if isGatewayBadRequest(nil) || isGatewayUnauthorized(nil) || isGatewayInvalidUsers(nil) || isGatewayCustomerNotFound(nil) {
			t.Fatalf("all nil checks should be false")
		}
		if mapGatewayError(errors.New("x")).Error() != "x" {
			t.Fatalf("unknown errors must pass through")
		}
	})
}
