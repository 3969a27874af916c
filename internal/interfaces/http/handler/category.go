package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/quickshop/backend/internal/application/catalog"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(productService *catalogapp.ProductService) *CategoryHandler {
	return &CategoryHandler{
		productService: productService,
	}
}

// List returns the distinct category names in use, sorted
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}
