package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/api/middleware"
	cartsvc "github.com/markberon/sari-store-backend/internal/cart"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

type testCartService struct {
	getFn    func(ctx context.Context, sessionID string) (*cartsvc.View, error)
	addFn    func(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.View, error)
	updateFn func(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.View, error)
	removeFn func(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.View, error)
	clearFn  func(ctx context.Context, sessionID string) (*cartsvc.View, error)
}

func (s *testCartService) GetCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	if s.getFn != nil {
		return s.getFn(ctx, sessionID)
	}
	return &cartsvc.View{SessionID: sessionID}, nil
}

func (s *testCartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.View, error) {
	if s.addFn != nil {
		return s.addFn(ctx, sessionID, productID, quantity)
	}
	return &cartsvc.View{SessionID: sessionID}, nil
}

func (s *testCartService) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.View, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, sessionID, productID, quantity)
	}
	return &cartsvc.View{SessionID: sessionID}, nil
}

func (s *testCartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.View, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, sessionID, productID)
	}
	return &cartsvc.View{SessionID: sessionID}, nil
}

func (s *testCartService) ClearCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	if s.clearFn != nil {
		return s.clearFn(ctx, sessionID)
	}
	return &cartsvc.View{SessionID: sessionID}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestCartAddSuccess(t *testing.T) {
	productID := uuid.New()
	svc := &testCartService{
		addFn: func(ctx context.Context, sessionID string, pid uuid.UUID, quantity int) (*cartsvc.View, error) {
			if sessionID != "session-1" {
				t.Fatalf("unexpected session %q", sessionID)
			}
			if pid != productID {
				t.Fatalf("unexpected product %s", pid)
			}
			if quantity != 2 {
				t.Fatalf("unexpected quantity %d", quantity)
			}
			return &cartsvc.View{
				SessionID: sessionID,
				ItemCount: 2,
				Subtotal:  decimal.NewFromInt(240),
				Total:     decimal.NewFromInt(290),
			}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()

	CartAdd(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			ItemCount int    `json:"item_count"`
			Total     string `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ItemCount != 2 || envelope.Data.Total != "290" {
		t.Fatalf("unexpected view %+v", envelope.Data)
	}
}

func TestCartAddUnavailableProduct(t *testing.T) {
	svc := &testCartService{
		addFn: func(ctx context.Context, sessionID string, pid uuid.UUID, quantity int) (*cartsvc.View, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is unavailable")
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()

	CartAdd(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestCartAddMalformedProductID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"not-a-uuid"}`))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()

	CartAdd(&testCartService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func withProductParam(req *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("productID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartUpdateQuantityZeroAllowed(t *testing.T) {
	productID := uuid.New()
	removedVia := -1
	svc := &testCartService{
		updateFn: func(ctx context.Context, sessionID string, pid uuid.UUID, quantity int) (*cartsvc.View, error) {
			if pid != productID {
				t.Fatalf("unexpected product %s", pid)
			}
			removedVia = quantity
			return &cartsvc.View{SessionID: sessionID}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"quantity":0}`))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	req = withProductParam(req, productID.String())
	resp := httptest.NewRecorder()

	CartUpdateQuantity(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if removedVia != 0 {
		t.Fatalf("expected zero quantity passed through, got %d", removedVia)
	}
}

func TestCartRemoveByPathParam(t *testing.T) {
	productID := uuid.New()
	var removed uuid.UUID
	svc := &testCartService{
		removeFn: func(ctx context.Context, sessionID string, pid uuid.UUID) (*cartsvc.View, error) {
			removed = pid
			return &cartsvc.View{SessionID: sessionID}, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	req = withProductParam(req, productID.String())
	resp := httptest.NewRecorder()

	CartRemove(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if removed != productID {
		t.Fatalf("expected %s removed, got %s", productID, removed)
	}
}

func TestCartRemoveMalformedProductID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	req = withProductParam(req, "not-a-uuid")
	resp := httptest.NewRecorder()

	CartRemove(&testCartService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCartFetchEmptySession(t *testing.T) {
	svc := &testCartService{
		getFn: func(ctx context.Context, sessionID string) (*cartsvc.View, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()

	CartFetch(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCartClearNilService(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()

	CartClear(nil, testLogger())(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
