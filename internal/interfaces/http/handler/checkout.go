package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/quickshop/backend/internal/application/checkout"
)

// CheckoutHandler handles checkout and order history endpoints. All routes
// require the X-Session-ID header via the session middleware.
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Submit runs the checkout workflow for the session's cart. On success the
// frozen order is returned and the cart is empty.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.checkoutService.Submit(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ListOrders returns the session's order history, newest first
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, 1, len(orders))
}

// GetOrder returns one of the session's orders by ID
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), getSessionID(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
