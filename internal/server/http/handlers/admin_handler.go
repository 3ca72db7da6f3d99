package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/coffeeshop/internal/server/http/dto"
	"github.com/polkiloo/coffeeshop/internal/server/http/middleware"
)

// AdminHandler processes staff login and the order board.
type AdminHandler struct {
	facade AdminFacade
	logger *slog.Logger
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade AdminFacade, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{facade: facade, logger: logger}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Logout handles POST /api/admin/logout.
func (h *AdminHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

// List handles GET /api/orders.
func (h *AdminHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		item := toOrderResponse(&orders[i].Order)
		dueSoon := orders[i].DueSoon
		item.DueSoon = &dueSoon
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PATCH /api/order/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	order, err := h.facade.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.CompletionCode)
	if err != nil {
		writeError(c, err)
		return
	}

	h.logger.Info("staff status update",
		slog.String("admin", CurrentAdmin(c)),
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)),
	)
	c.JSON(http.StatusOK, toOrderResponse(order))
}
