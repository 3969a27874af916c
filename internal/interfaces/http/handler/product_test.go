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

	catalogapp "github.com/quickshop/backend/internal/application/catalog"
	"github.com/quickshop/backend/internal/domain/catalog"
	"github.com/quickshop/backend/internal/domain/shared"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
	"github.com/quickshop/backend/internal/infrastructure/auth"
	"github.com/quickshop/backend/internal/interfaces/http/middleware"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newCatalogTestProduct(name, price, category string) *catalog.Product {
	p, _ := catalog.NewProduct(name, "", valueobject.NewMoneyUSD(decimal.RequireFromString(price)), "", category)
	return p
}

// setupCatalogRouter wires the catalog routes the way the server does:
// reads are public, writes sit behind JWT auth plus the admin gate.
func setupCatalogRouter(productRepo *MockProductRepository, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	productService := catalogapp.NewProductService(productRepo)
	productHandler := NewProductHandler(productService)
	categoryHandler := NewCategoryHandler(productService)

	jwtAuth := middleware.JWTAuthMiddleware(jwtService)
	adminOnly := middleware.RequireAdmin()

	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.POST("/products", jwtAuth, adminOnly, productHandler.Create)
	api.PUT("/products/:id", jwtAuth, adminOnly, productHandler.Update)
	api.DELETE("/products/:id", jwtAuth, adminOnly, productHandler.Delete)
	api.GET("/categories", categoryHandler.List)

	return r
}

func issueTestToken(t *testing.T, jwtService *auth.JWTService, role string) string {
	t.Helper()
	issued, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  role + "@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return issued.AccessToken
}

func TestProductHandler_List(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	products := []catalog.Product{
		*newCatalogTestProduct("Travel Mug", "20.00", "drinkware"),
		*newCatalogTestProduct("Espresso Cup", "12.50", "drinkware"),
	}
	productRepo.On("FindAll", mock.Anything, mock.Anything).Return(products, nil)
	productRepo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total"])
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(20), meta["page_size"])
}

func TestProductHandler_List_CategoryFilter(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	products := []catalog.Product{
		*newCatalogTestProduct("Travel Mug", "20.00", "drinkware"),
	}
	productRepo.On("FindByCategory", mock.Anything, "drinkware", mock.Anything).Return(products, nil)
	productRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=drinkware", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestProductHandler_Get(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	product := newCatalogTestProduct("Travel Mug", "20.00", "drinkware")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Travel Mug", data["name"])
	assert.Equal(t, "20", data["price"])
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	missingID := uuid.New()
	productRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+missingID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Create_AsAdmin(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	reqBody := catalogapp.CreateProductRequest{
		Name:     "Travel Mug",
		Price:    decimal.RequireFromString("20.00"),
		Category: "drinkware",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, jwtService, "admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Travel Mug", data["name"])
	assert.Equal(t, "drinkware", data["category"])
}

func TestProductHandler_Create_CustomerForbidden(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	reqBody := catalogapp.CreateProductRequest{
		Name:     "Travel Mug",
		Price:    decimal.RequireFromString("20.00"),
		Category: "drinkware",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, jwtService, "customer"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_Create_Unauthenticated(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductHandler_Update_AsAdmin(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	product := newCatalogTestProduct("Travel Mug", "20.00", "drinkware")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	newPrice := decimal.RequireFromString("25.00")
	reqBody := catalogapp.UpdateProductRequest{Price: &newPrice}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+product.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, jwtService, "admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "25", data["price"])
	assert.Equal(t, "Travel Mug", data["name"])
}

func TestProductHandler_Delete_AsAdmin(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	productID := uuid.New()
	productRepo.On("Delete", mock.Anything, productID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+productID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, jwtService, "admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	productRepo.AssertExpectations(t)
}

func TestCategoryHandler_List(t *testing.T) {
	productRepo := new(MockProductRepository)
	jwtService := auth.NewJWTService(testJWTConfig())
	router := setupCatalogRouter(productRepo, jwtService)

	productRepo.On("DistinctCategories", mock.Anything).Return([]string{"drinkware", "stationery"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].([]interface{})
	assert.Equal(t, []interface{}{"drinkware", "stationery"}, data)
}
