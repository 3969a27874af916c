package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/quickshop/backend/internal/application/cart"
	checkoutapp "github.com/quickshop/backend/internal/application/checkout"
	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/domain/order"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
	"github.com/quickshop/backend/internal/infrastructure/session"
	"github.com/quickshop/backend/internal/interfaces/http/middleware"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Append(ctx context.Context, o *order.Order, beforeCommit func(context.Context) error) error {
	args := m.Called(ctx, o)
	if err := args.Error(0); err != nil {
		return err
	}
	if beforeCommit != nil {
		return beforeCommit(ctx)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]order.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

// setupCheckoutRouter wires checkout and order routes behind the session
// middleware, alongside the cart routes used to seed state.
func setupCheckoutRouter(productRepo *MockProductRepository, orderRepo *MockOrderRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryCartStore(0)
	pricing := cart.DefaultPricing()
	cartService := cartapp.NewCartService(store, productRepo, pricing, zap.NewNop())
	checkoutService := checkoutapp.NewCheckoutService(orderRepo, store, pricing, nil, zap.NewNop())

	cartHandler := NewCartHandler(cartService)
	checkoutHandler := NewCheckoutHandler(checkoutService)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.SessionRequired())
	api.POST("/cart/items", cartHandler.AddItem)
	api.POST("/checkout", checkoutHandler.Submit)
	api.GET("/orders", checkoutHandler.ListOrders)
	api.GET("/orders/:id", checkoutHandler.GetOrder)

	return r
}

func validCheckoutRequest() checkoutapp.CheckoutRequest {
	return checkoutapp.CheckoutRequest{
		FullName:      "Pat Doe",
		Email:         "pat@example.com",
		Address:       "1 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62701",
		PaymentMethod: "credit_card",
		CardNumber:    "4242424242424242",
		CardExpiry:    "12/30",
		CardCVC:       "123",
	}
}

func sessionRequest(method, path string, body interface{}, sessionID string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)
	return req
}

func seedSessionCart(t *testing.T, router *gin.Engine, productRepo *MockProductRepository, sessionID string) {
	t.Helper()

	mug := newCatalogTestProduct("Travel Mug", "20.00", "drinkware")
	notebook := newCatalogTestProduct("Notebook", "15.00", "stationery")
	productRepo.On("FindByID", mock.Anything, mug.ID).Return(mug, nil)
	productRepo.On("FindByID", mock.Anything, notebook.ID).Return(notebook, nil)

	for _, item := range []cartapp.AddItemRequest{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: notebook.ID, Quantity: 1},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, sessionRequest(http.MethodPost, "/api/cart/items", item, sessionID))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCheckoutHandler_Submit(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	seedSessionCart(t, router, productRepo, "sess-1")
	orderRepo.On("Append", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	req := sessionRequest(http.MethodPost, "/api/checkout", validCheckoutRequest(), "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Regexp(t, `^QS-\d{6}$`, data["number"])
	assert.Equal(t, "credit_card", data["payment_method"])
	assert.Equal(t, "55", data["subtotal"])
	assert.Equal(t, "5.99", data["shipping_fee"])
	assert.Equal(t, "5.5", data["tax"])
	assert.Equal(t, "66.49", data["grand_total"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 2)

	shipping := data["shipping"].(map[string]interface{})
	assert.Equal(t, "Pat Doe", shipping["full_name"])
}

func TestCheckoutHandler_Submit_EmptyCart(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	req := sessionRequest(http.MethodPost, "/api/checkout", validCheckoutRequest(), "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "ERR_EMPTY_CART", errInfo["code"])

	orderRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Submit_MissingShippingField(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	seedSessionCart(t, router, productRepo, "sess-1")

	reqBody := validCheckoutRequest()
	reqBody.City = ""

	req := sessionRequest(http.MethodPost, "/api/checkout", reqBody, "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Submit_InvalidPaymentMethod(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	seedSessionCart(t, router, productRepo, "sess-1")

	reqBody := validCheckoutRequest()
	reqBody.PaymentMethod = "barter"

	req := sessionRequest(http.MethodPost, "/api/checkout", reqBody, "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_ListOrders(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	orderRepo.On("ListBySession", mock.Anything, "sess-1").Return([]order.Order{}, nil)
	orderRepo.On("CountBySession", mock.Anything, "sess-1").Return(int64(0), nil)

	req := sessionRequest(http.MethodGet, "/api/orders", nil, "sess-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(0), meta["total"])
}

func TestCheckoutHandler_GetOrder_OtherSession(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	router := setupCheckoutRouter(productRepo, orderRepo)

	unitPrice := valueobject.NewMoneyUSD(decimal.RequireFromString("20.00"))
	items := []cart.LineItem{{
		ProductID: uuid.New(),
		Name:      "Travel Mug",
		UnitPrice: unitPrice,
		Category:  "drinkware",
		Quantity:  1,
	}}
	totals := cart.DefaultPricing().Compute(unitPrice)
	placed, err := order.NewOrder("sess-1", items, totals, order.ShippingInfo{
		FullName:   "Pat Doe",
		Email:      "pat@example.com",
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
	}, order.PaymentCashOnDelivery)
	require.NoError(t, err)

	orderRepo.On("FindByID", mock.Anything, placed.ID).Return(placed, nil)

	req := sessionRequest(http.MethodGet, "/api/orders/"+placed.ID.String(), nil, "sess-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
