package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petparadise/petparadise-api/api/middleware"
	cartsvc "github.com/petparadise/petparadise-api/internal/cart"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/logger"
)

type stubCartService struct {
	cart         *cartsvc.Cart
	summary      *cartsvc.Summary
	quantity     int
	err          error
	lastUser     uuid.UUID
	lastAdd      cartsvc.AddItemInput
	lastPetID    string
	lastQuantity int
	cleared      bool
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	s.lastUser = userID
	return s.cart, s.err
}

func (s *stubCartService) Quantity(ctx context.Context, userID uuid.UUID, petID string) (int, error) {
	s.lastUser, s.lastPetID = userID, petID
	return s.quantity, s.err
}

func (s *stubCartService) Summary(ctx context.Context, userID uuid.UUID) (*cartsvc.Summary, error) {
	s.lastUser = userID
	return s.summary, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	s.lastUser, s.lastAdd = userID, input
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, petID string, quantity int) (*cartsvc.Cart, error) {
	s.lastUser, s.lastPetID, s.lastQuantity = userID, petID, quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, petID string) (*cartsvc.Cart, error) {
	s.lastUser, s.lastPetID = userID, petID
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.lastUser = userID
	s.cleared = s.err == nil
	return s.err
}

func sampleCart(userID uuid.UUID) *cartsvc.Cart {
	return &cartsvc.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []cartsvc.LineItem{
			{ID: uuid.New(), PetID: "pet-1", PetName: "Rex", PetPrice: decimal.RequireFromString("100.50"), Quantity: 2},
			{ID: uuid.New(), PetID: "pet-2", PetName: "Tom", PetPrice: decimal.RequireFromString("20"), Quantity: 1},
		},
		Version:   3,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func authed(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withPetID(req *http.Request, petID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(PetIDParam, petID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var envelope struct {
		Data CartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartFetchSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodGet, "/cart", nil), userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := decodeCart(t, resp)
	if body.UserID != userID || len(body.Items) != 2 || body.Version != 3 {
		t.Fatalf("unexpected cart %+v", body)
	}
	if body.ItemCount != 3 {
		t.Fatalf("expected item count 3 got %d", body.ItemCount)
	}
	if !body.Subtotal.Equal(decimal.RequireFromString("221")) {
		t.Fatalf("expected subtotal 221 got %s", body.Subtotal)
	}
	if body.UpdatedAt == nil {
		t.Fatal("expected updated_at")
	}
}

func TestCartFetchEmptyCartHasItemsArray(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: &cartsvc.Cart{UserID: userID}}
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodGet, "/cart", nil), userID))

	if !strings.Contains(resp.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "updated_at") {
		t.Fatalf("unsaved cart should omit updated_at, got %s", resp.Body.String())
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.lastUser != uuid.Nil {
		t.Fatal("service should not be called without identity")
	}
}

func TestCartAddItemPassesSnapshot(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	body := `{"petId":"pet-1","petName":"Rex","petPrice":100.5,"petImage":"https://img/rex.png","quantity":2}`
	resp := httptest.NewRecorder()

	CartAddItem(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body)), userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	in := svc.lastAdd
	if in.PetID != "pet-1" || in.PetName != "Rex" || in.PetImage != "https://img/rex.png" {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.PetPrice == nil || !in.PetPrice.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("unexpected price %v", in.PetPrice)
	}
	if in.Quantity == nil || *in.Quantity != 2 {
		t.Fatalf("unexpected quantity %v", in.Quantity)
	}
}

func TestCartAddItemOmittedQuantityIsNil(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	resp := httptest.NewRecorder()

	CartAddItem(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"petId":"p","petName":"n","petPrice":"1"}`)), userID))

	if resp.Code != http.StatusOK || svc.lastAdd.Quantity != nil {
		t.Fatalf("expected nil quantity, got %v (status %d)", svc.lastAdd.Quantity, resp.Code)
	}
}

func TestCartAddItemServiceValidation(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "petName is required")}
	resp := httptest.NewRecorder()

	CartAddItem(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"petId":"p"}`)), userID))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemByPath(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	req := withPetID(httptest.NewRequest(http.MethodPut, "/cart/pet-1", strings.NewReader(`{"quantity":0}`)), "pet-1")
	resp := httptest.NewRecorder()

	CartUpdateItem(svc, nil).ServeHTTP(resp, authed(req, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastPetID != "pet-1" || svc.lastQuantity != 0 {
		t.Fatalf("unexpected update %s=%d", svc.lastPetID, svc.lastQuantity)
	}
}

func TestCartUpdateItemRequiresQuantity(t *testing.T) {
	userID := uuid.New()
	req := withPetID(httptest.NewRequest(http.MethodPut, "/cart/pet-1", strings.NewReader(`{}`)), "pet-1")
	resp := httptest.NewRecorder()

	CartUpdateItem(&stubCartService{}, nil).ServeHTTP(resp, authed(req, userID))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateByBody(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	resp := httptest.NewRecorder()

	CartUpdateByBody(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPut, "/cart", strings.NewReader(`{"petId":"pet-2","quantity":4}`)), userID))

	if resp.Code != http.StatusOK || svc.lastPetID != "pet-2" || svc.lastQuantity != 4 {
		t.Fatalf("unexpected update %s=%d (status %d)", svc.lastPetID, svc.lastQuantity, resp.Code)
	}
}

func TestCartRemoveItemNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")}
	req := withPetID(httptest.NewRequest(http.MethodDelete, "/cart/ghost", nil), "ghost")
	resp := httptest.NewRecorder()

	CartRemoveItem(svc, nil).ServeHTTP(resp, authed(req, userID))

	if resp.Code != http.StatusNotFound || svc.lastPetID != "ghost" {
		t.Fatalf("expected 404 for ghost, got %d", resp.Code)
	}
}

func TestCartRemoveItemLogsPetID(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")}
	req := withPetID(httptest.NewRequest(http.MethodDelete, "/cart/ghost", nil), "ghost")
	resp := httptest.NewRecorder()

	CartRemoveItem(svc, logg).ServeHTTP(resp, authed(req, uuid.New()))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(buf.String(), `"pet_id":"ghost"`) {
		t.Fatalf("expected pet_id on rejection log; entry=%s", buf.String())
	}
}

func TestCartItemQuantity(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{quantity: 2}
	req := withPetID(httptest.NewRequest(http.MethodGet, "/cart/pet-1", nil), "pet-1")
	resp := httptest.NewRecorder()

	CartItemQuantity(svc, nil).ServeHTTP(resp, authed(req, userID))

	var envelope struct {
		Data QuantityResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Quantity != 2 || envelope.Data.PetID != "pet-1" {
		t.Fatalf("unexpected body %+v", envelope.Data)
	}
}

func TestCartSummary(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{summary: &cartsvc.Summary{ItemCount: 3, LineCount: 2, Subtotal: decimal.NewFromInt(30)}}
	resp := httptest.NewRecorder()

	CartSummary(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodGet, "/cart/summary", nil), userID))

	if !strings.Contains(resp.Body.String(), `"item_count":3`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartClear(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{}
	resp := httptest.NewRecorder()

	CartClear(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodDelete, "/cart", nil), userID))

	if resp.Code != http.StatusOK || !svc.cleared {
		t.Fatalf("expected clear, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"cleared":true`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartConflictIs409(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently, please retry")}
	resp := httptest.NewRecorder()

	CartClear(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodDelete, "/cart", nil), userID))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
