package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/server/http/dto"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Menu handles GET /api/menu.
func (h *OrderHandler) Menu(c *gin.Context) {
	menu := h.facade.Menu()
	drinks := make(map[string]dto.MenuDrink, len(menu.Drinks))
	for key, d := range menu.Drinks {
		drinks[key] = dto.MenuDrink{DisplayName: d.DisplayName, Prices: d.Prices}
	}
	c.JSON(http.StatusOK, dto.MenuResponse{
		Menu:               drinks,
		Currency:           menu.Currency,
		ExtraShotSurcharge: menu.ExtraShotSurcharge,
	})
}

// Create handles POST /api/order.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	items := make([]model.LineItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.LineItemRequest{
			Drink:      it.Name,
			Size:       it.Size,
			Qty:        string(it.Qty),
			SugarLevel: it.SugarLevel,
			MilkType:   it.MilkType,
			ExtraShot:  it.ExtraShot,
		})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), model.CreateOrderRequest{
		CustomerName:    req.CustomerName,
		SRN:             req.SRN,
		Items:           items,
		FulfillmentMode: req.Fulfillment,
		ScheduledTime:   req.ScheduledFor,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/order/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/cancel_order.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	res, err := h.facade.CancelOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CancelOrderResponse{
		Message:       res.Message,
		RefundMessage: res.RefundMessage,
		OrderID:       res.Order.ID,
		Status:        string(res.Order.Status),
	})
}

// Refund handles GET /api/order/:id/refund.
func (h *OrderHandler) Refund(c *gin.Context) {
	info, err := h.facade.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RefundResponse{
		OrderID:       info.OrderID,
		Amount:        info.Amount,
		Currency:      info.Currency,
		RefundMessage: info.RefundMessage,
	})
}
