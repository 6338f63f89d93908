// internal/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/POSTANYIDEAS/Ecommerce/internal/billing"
	"github.com/POSTANYIDEAS/Ecommerce/internal/services"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders
//
// The buyer is always the authenticated caller; any user id in the body is
// ignored.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     "Order placed successfully",
		"order_id":    order.ID,
		"bill_number": order.BillNumber,
		"total":       order.TotalAmount,
	})
}

// GET /orders (admin)
func (h *OrderHandler) GetOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
//
// Customers may only read their own orders; admins may read any.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !callerMayReadOrder(c, order) {
		utils.ForbiddenResponse(c, "")
		return
	}
	utils.SuccessResponse(c, order)
}

// GET /orders/user/:userId
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	callerID, ok := authedUserID(c)
	if !ok {
		return
	}
	role, _ := utils.GetRoleFromContext(c)
	if role != utils.RoleAdmin && callerID != targetID {
		utils.ForbiddenResponse(c, "")
		return
	}

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), targetID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, orders)
}

// PUT /orders/:id/status (admin)
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Order status updated"})
}

// GET /orders/:id/bill
func (h *OrderHandler) DownloadBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !callerMayReadOrder(c, order) {
		utils.ForbiddenResponse(c, "")
		return
	}

	html, err := billing.Render(order)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", billing.Filename(order)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func authedUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func callerMayReadOrder(c *gin.Context, order *services.OrderView) bool {
	if role, _ := utils.GetRoleFromContext(c); role == utils.RoleAdmin {
		return true
	}
	callerIDStr, exists := utils.GetUserIDFromContext(c)
	return exists && callerIDStr == order.UserID.String()
}
