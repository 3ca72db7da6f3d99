package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/server/http/dto"
	"github.com/polkiloo/coffeeshop/internal/server/http/middleware"
)

const (
	msgInvalidBody = "invalid request body"
	msgNotFound    = "order not found"
	msgConflict    = "order was modified concurrently, please retry"
)

const createdAtLayout = "2006-01-02 15:04:05"

// CurrentAdmin extracts the authenticated staff username from context.
func CurrentAdmin(c *gin.Context) string {
	val, ok := c.Get(middleware.AdminContextKey)
	if !ok {
		return ""
	}
	name, _ := val.(string)
	return name
}

func writeError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	c.JSON(status, dto.ErrorResponse{Error: msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domainErrors.ErrOrderCompleted):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domainErrors.ErrPolicyViolation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domainErrors.ErrConflict):
		return http.StatusConflict, msgConflict
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderItemResponse{
			DrinkKey:    it.DrinkKey,
			DisplayName: it.DisplayName,
			Size:        it.Size,
			Qty:         it.Qty,
			SugarLevel:  it.SugarLevel,
			MilkType:    it.MilkType,
			ExtraShot:   it.ExtraShot,
			PricePerCup: it.PricePerCup,
			LineTotal:   it.LineTotal,
		})
	}

	var createdAt string
	if !order.CreatedAt.IsZero() {
		createdAt = order.CreatedAt.Format(createdAtLayout)
	}

	return dto.OrderResponse{
		OrderID:         order.ID,
		CustomerName:    order.CustomerName,
		SRN:             order.SRN,
		Status:          string(order.Status),
		Total:           order.Total,
		Currency:        order.Currency,
		CreatedAt:       createdAt,
		CompletionCode:  order.CompletionCode,
		CompletionQueue: order.CompletionQueue,
		IsScheduled:     order.IsScheduled,
		ScheduledFor:    order.ScheduledFor,
		Items:           items,
	}
}
