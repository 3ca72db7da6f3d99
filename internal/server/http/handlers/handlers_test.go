package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/server/http/dto"
	"github.com/polkiloo/coffeeshop/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/coffeeshop/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, pattern, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return body.Error
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestCurrentAdmin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentAdmin(c); got != "" {
		t.Fatalf("expected empty admin when not set, got %q", got)
	}

	c.Set(middleware.AdminContextKey, "barista")
	if got := CurrentAdmin(c); got != "barista" {
		t.Fatalf("expected barista, got %q", got)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainErrors.NewValidationError("qty", "invalid quantity for latte"), http.StatusBadRequest},
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.NewPolicyErrorWithCause("order is already completed and cannot be modified", domainErrors.ErrOrderCompleted), http.StatusForbidden},
		{domainErrors.NewPolicyError("too close to pickup time (< 10 minutes)"), http.StatusBadRequest},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("cancel: %w", domainErrors.ErrConflict), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if status, _ := errorStatus(tc.err); status != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, status)
		}
	}

	if _, msg := errorStatus(errors.New("pq: secret detail")); msg != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("expected internal errors to be masked, got %q", msg)
	}
}

func TestOrderHandlerMenu(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/api/menu", "/api/menu", NewOrderHandler(testhelpers.OrderFacadeStub{}).Menu, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var menu dto.MenuResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if menu.Menu["latte"].Prices["medium"] != 150 {
		t.Fatalf("unexpected latte price in %+v", menu.Menu["latte"])
	}
	if menu.Currency != "INR" || menu.ExtraShotSurcharge != 20 {
		t.Fatalf("unexpected menu metadata %+v", menu)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	customer := testhelpers.RandomASCIIString(5, 12)
	var got model.CreateOrderRequest
	facade := testhelpers.OrderFacadeStub{CreateFn: func(_ context.Context, req model.CreateOrderRequest) (*model.Order, error) {
		got = req
		return &model.Order{
			ID:           "abcd1234",
			CustomerName: req.CustomerName,
			Status:       model.OrderStatusPending,
			Total:        280,
			Currency:     "INR",
			CreatedAt:    time.Date(2026, time.March, 14, 9, 30, 0, 0, time.Local),
			IsScheduled:  true,
			ScheduledFor: "2026-03-14 10:00",
			Items:        []model.OrderItem{{DrinkKey: "latte", Qty: 2, PricePerCup: 140, LineTotal: 280}},
		}, nil
	}}

	body := []byte(`{
		"customer_name": "` + customer + `",
		"srn": "R1",
		"fulfillment": "schedule",
		"scheduled_for": "2026-03-14T10:00",
		"items": [{"name": "latte", "size": "small", "qty": 2, "extra_shot": true}]
	}`)
	resp := performRequest(t, http.MethodPost, "/api/order", "/api/order", NewOrderHandler(facade).Create, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	if got.CustomerName != customer || got.FulfillmentMode != "schedule" || got.ScheduledTime != "2026-03-14T10:00" {
		t.Fatalf("unexpected request passed to facade: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Drink != "latte" || got.Items[0].Qty != "2" || !got.Items[0].ExtraShot {
		t.Fatalf("unexpected items passed to facade: %+v", got.Items)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.OrderID != "abcd1234" || order.Total != 280 || order.CreatedAt != "2026-03-14 09:30:00" {
		t.Fatalf("unexpected order response %+v", order)
	}
	if order.DueSoon != nil {
		t.Fatalf("customer responses must not carry due_soon")
	}
}

func TestOrderHandlerCreateErrors(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/api/order", "/api/order", NewOrderHandler(testhelpers.OrderFacadeStub{}).Create, nil, []byte("{"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}

	facade := testhelpers.OrderFacadeStub{CreateFn: func(context.Context, model.CreateOrderRequest) (*model.Order, error) {
		return nil, domainErrors.NewValidationError("drink", "invalid drink: chai")
	}}
	resp = performRequest(t, http.MethodPost, "/api/order", "/api/order", NewOrderHandler(facade).Create, nil, []byte(`{"items":[{"name":"chai"}]}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "invalid drink: chai" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	var gotID string
	facade := testhelpers.OrderFacadeStub{OrderFn: func(_ context.Context, id string) (*model.Order, error) {
		gotID = id
		if id == "missing" {
			return nil, domainErrors.ErrNotFound
		}
		return &model.Order{ID: id, Status: model.OrderStatusReady}, nil
	}}
	handler := NewOrderHandler(facade).Get

	resp := performRequest(t, http.MethodGet, "/api/order/:id", "/api/order/abc", handler, nil, nil)
	if resp.Code != http.StatusOK || gotID != "abc" {
		t.Fatalf("expected 200 for abc, got %d (%q)", resp.Code, gotID)
	}

	resp = performRequest(t, http.MethodGet, "/api/order/:id", "/api/order/missing", handler, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != msgNotFound {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/api/cancel_order", "/api/cancel_order", NewOrderHandler(testhelpers.OrderFacadeStub{}).Cancel, nil, []byte(`{"order_id":"abc"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body dto.CancelOrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OrderID != "abc" || body.Status != "cancelled" || body.Message == "" || body.RefundMessage == "" {
		t.Fatalf("unexpected cancel response %+v", body)
	}

	facade := testhelpers.OrderFacadeStub{CancelFn: func(context.Context, string) (*model.CancelConfirmation, error) {
		return nil, domainErrors.NewPolicyError("only scheduled orders can be cancelled")
	}}
	resp = performRequest(t, http.MethodPost, "/api/cancel_order", "/api/cancel_order", NewOrderHandler(facade).Cancel, nil, []byte(`{"order_id":"abc"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "only scheduled orders can be cancelled" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestOrderHandlerRefund(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/api/order/:id/refund", "/api/order/abc/refund", NewOrderHandler(testhelpers.OrderFacadeStub{}).Refund, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body dto.RefundResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OrderID != "abc" || body.Amount != 100 {
		t.Fatalf("unexpected refund response %+v", body)
	}

	facade := testhelpers.OrderFacadeStub{RefundFn: func(context.Context, string) (*model.RefundInfo, error) {
		return nil, domainErrors.NewPolicyError("refund is only available for cancelled orders")
	}}
	resp = performRequest(t, http.MethodGet, "/api/order/:id/refund", "/api/order/abc/refund", NewOrderHandler(facade).Refund, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAdminHandlerLogin(t *testing.T) {
	username := testhelpers.RandomASCIIString(5, 10)
	password := testhelpers.RandomASCIIString(12, 24)
	facade := testhelpers.AdminFacadeStub{LoginFn: func(_ context.Context, gotUser, gotPass string) (string, error) {
		if gotUser != username || gotPass != password {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "signed", nil
	}}
	handler := NewAdminHandler(facade, discardLogger()).Login

	body, _ := json.Marshal(dto.AdminLoginRequest{Username: username, Password: password})
	resp := performRequest(t, http.MethodPost, "/api/admin/login", "/api/admin/login", handler, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer signed" {
		t.Fatalf("expected auth header, got %q", got)
	}

	body, _ = json.Marshal(dto.AdminLoginRequest{Username: username, Password: "wrong"})
	resp = performRequest(t, http.MethodPost, "/api/admin/login", "/api/admin/login", handler, nil, body)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/api/admin/login", "/api/admin/login", handler, nil, []byte("nope"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestAdminHandlerLogout(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/api/admin/logout", "/api/admin/logout", NewAdminHandler(testhelpers.AdminFacadeStub{}, discardLogger()).Logout, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if len(resp.Result().Cookies()) != 1 {
		t.Fatalf("expected cookie to be cleared")
	}
}

func TestAdminHandlerList(t *testing.T) {
	facade := testhelpers.AdminFacadeStub{OrdersFn: func(context.Context) ([]model.ListedOrder, error) {
		return []model.ListedOrder{
			{Order: model.Order{ID: "a", Status: model.OrderStatusPending}},
			{Order: model.Order{ID: "b", Status: model.OrderStatusReady, IsScheduled: true}, DueSoon: true},
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/api/orders", "/api/orders", NewAdminHandler(facade, discardLogger()).List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 2 || orders[0].OrderID != "a" || orders[1].OrderID != "b" {
		t.Fatalf("unexpected board %+v", orders)
	}
	if orders[0].DueSoon == nil || *orders[0].DueSoon {
		t.Fatalf("expected explicit due_soon=false for a")
	}
	if orders[1].DueSoon == nil || !*orders[1].DueSoon {
		t.Fatalf("expected due_soon=true for b")
	}

	failing := testhelpers.AdminFacadeStub{OrdersFn: func(context.Context) ([]model.ListedOrder, error) {
		return nil, errors.New("db down")
	}}
	resp = performRequest(t, http.MethodGet, "/api/orders", "/api/orders", NewAdminHandler(failing, discardLogger()).List, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestAdminHandlerUpdateStatus(t *testing.T) {
	var gotID, gotStatus, gotCode string
	queue := int64(7)
	facade := testhelpers.AdminFacadeStub{UpdateStatusFn: func(_ context.Context, id, status, code string) (*model.Order, error) {
		gotID, gotStatus, gotCode = id, status, code
		return &model.Order{ID: id, Status: model.OrderStatusCompleted, CompletionQueue: &queue}, nil
	}}
	setup := func(c *gin.Context) { c.Set(middleware.AdminContextKey, "barista") }

	resp := performRequest(t, http.MethodPatch, "/api/order/:id/status", "/api/order/abc/status", NewAdminHandler(facade, discardLogger()).UpdateStatus, setup,
		[]byte(`{"status":"completed","completion_code":"0042"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotID != "abc" || gotStatus != "completed" || gotCode != "0042" {
		t.Fatalf("unexpected facade args %q %q %q", gotID, gotStatus, gotCode)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.CompletionQueue == nil || *order.CompletionQueue != 7 {
		t.Fatalf("expected queue 7, got %v", order.CompletionQueue)
	}
}

func TestAdminHandlerUpdateStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"completed order", domainErrors.NewPolicyErrorWithCause("order is already completed and cannot be modified", domainErrors.ErrOrderCompleted), http.StatusForbidden, "order is already completed and cannot be modified"},
		{"missing code", domainErrors.NewValidationError("completion_code", "pickup code is required"), http.StatusBadRequest, "pickup code is required"},
		{"wrong code", domainErrors.NewPolicyError("invalid pickup code"), http.StatusBadRequest, "invalid pickup code"},
		{"unknown order", domainErrors.ErrNotFound, http.StatusNotFound, msgNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := testhelpers.AdminFacadeStub{UpdateStatusFn: func(context.Context, string, string, string) (*model.Order, error) {
				return nil, tc.err
			}}
			resp := performRequest(t, http.MethodPatch, "/api/order/:id/status", "/api/order/abc/status", NewAdminHandler(facade, discardLogger()).UpdateStatus, nil,
				[]byte(`{"status":"completed"}`))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			if msg := decodeError(t, resp); msg != tc.msg {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/api/health", "/api/health", NewHealthHandler(testhelpers.HealthFacadeStub{}).Check, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/api/health", "/api/health", NewHealthHandler(testhelpers.HealthFacadeStub{Err: errors.New("down")}).Check, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
