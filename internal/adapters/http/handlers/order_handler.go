package handlers

import (
	"messpay/internal/core/domain"
	"messpay/internal/core/services"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService services.OrderSettlement
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService services.OrderSettlement) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrderRequest represents place order request body.
// Either items or cart must be given; cart entries are priced from the mess menu.
type PlaceOrderRequest struct {
	MessID            string                   `json:"messId"`
	MessName          string                   `json:"messName"`
	Items             []domain.OrderItem       `json:"items"`
	Cart              []services.CartSelection `json:"cart"`
	OrderType         domain.OrderType         `json:"orderType"`
	DeliveryRequested bool                     `json:"deliveryRequested"`
	DeliveryAddress   string                   `json:"deliveryAddress"`
}

// UpdateStatusRequest represents update status request body
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// ListOrders handles listing orders visible to the session
// @Summary List orders
// @Description Reload orders; students see their own, owners and providers see all
// @Tags Orders
// @Produce json
// @Param state query string false "active, completed or all" default(all)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to list orders")
	}

	if _, err := h.orderService.Refresh(c.Context(), sess); err != nil {
		return writeError(c, err, "Failed to list orders")
	}

	var orders []domain.Order
	switch c.Query("state", "all") {
	case "active":
		orders, err = h.orderService.ActiveOrders(sess)
	case "completed":
		orders, err = h.orderService.CompletedOrders(sess)
	case "all":
		orders, err = h.orderService.Orders(sess)
	default:
		return response.BadRequest(c, "state must be one of active, completed, all")
	}
	if err != nil {
		return writeError(c, err, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

// PlaceOrder handles placing an order
// @Summary Place order
// @Description Debit the order total and create a pending order
// @Tags Orders
// @Accept json
// @Produce json
// @Param body body PlaceOrderRequest true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to place order")
	}

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	items := req.Items
	if len(items) == 0 && len(req.Cart) > 0 {
		items, err = h.orderService.ComposeItems(c.Context(), req.MessID, req.Cart)
		if err != nil {
			return writeError(c, err, "Failed to place order")
		}
	}

	order, err := h.orderService.PlaceOrder(c.Context(), sess, &services.PlaceOrderInput{
		MessID:            req.MessID,
		MessName:          req.MessName,
		Items:             items,
		OrderType:         req.OrderType,
		DeliveryRequested: req.DeliveryRequested,
		DeliveryAddress:   req.DeliveryAddress,
	})
	if err != nil {
		return writeError(c, err, "Failed to place order")
	}

	return response.Created(c, "Order placed successfully", order)
}

// UpdateStatus handles advancing an order status
// @Summary Update order status
// @Description Set the status of an order (mess owner or provider)
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to update order")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.UpdateOrderStatus(c.Context(), sess, c.Params("id"), req.Status)
	if err != nil {
		return writeError(c, err, "Failed to update order")
	}

	return response.Success(c, "Order updated successfully", order)
}

// CancelOrder handles a student cancelling their own order
// @Summary Cancel order
// @Description Cancel an open order and refund its tokens
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to cancel order")
	}

	order, err := h.orderService.CancelOrder(c.Context(), sess, c.Params("id"))
	if err != nil {
		return writeError(c, err, "Failed to cancel order")
	}

	return response.Success(c, "Order cancelled successfully", order)
}
