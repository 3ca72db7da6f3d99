package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Quantity keeps the raw qty token so that numbers and numeric strings are
// both accepted and invalid values are reported by the order use case.
type Quantity string

// UnmarshalJSON accepts null, numbers (truncated toward zero) and strings.
// Numbers outside the int64 range are kept verbatim and fail quantity parsing.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil || f >= math.MaxInt64 || f < math.MinInt64 {
			*q = Quantity(data)
			return nil
		}
		*q = Quantity(strconv.FormatInt(int64(math.Trunc(f)), 10))
	}
	return nil
}

// OrderItemRequest is a single requested drink line.
type OrderItemRequest struct {
	Name       string   `json:"name"`
	Size       string   `json:"size"`
	Qty        Quantity `json:"qty"`
	SugarLevel string   `json:"sugar_level"`
	MilkType   string   `json:"milk_type"`
	ExtraShot  bool     `json:"extra_shot"`
}

// CreateOrderRequest is the customer order payload.
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	SRN          string             `json:"srn"`
	Items        []OrderItemRequest `json:"items"`
	Fulfillment  string             `json:"fulfillment"`
	ScheduledFor string             `json:"scheduled_for"`
}

// CancelOrderRequest identifies the order a customer wants to cancel.
type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
}

// CancelOrderResponse confirms a customer cancellation.
type CancelOrderResponse struct {
	Message       string `json:"message"`
	RefundMessage string `json:"refund_message"`
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
}

// UpdateStatusRequest is the staff status change payload.
type UpdateStatusRequest struct {
	Status         string `json:"status"`
	CompletionCode string `json:"completion_code"`
}

// OrderItemResponse describes a priced order line.
type OrderItemResponse struct {
	DrinkKey    string `json:"drink_key"`
	DisplayName string `json:"display_name"`
	Size        string `json:"size"`
	Qty         int    `json:"qty"`
	SugarLevel  string `json:"sugar_level"`
	MilkType    string `json:"milk_type"`
	ExtraShot   bool   `json:"extra_shot"`
	PricePerCup int64  `json:"price_per_cup"`
	LineTotal   int64  `json:"line_total"`
}

// OrderResponse describes an order. DueSoon is only set on the staff board.
type OrderResponse struct {
	OrderID         string              `json:"order_id"`
	CustomerName    string              `json:"customer_name"`
	SRN             string              `json:"srn"`
	Status          string              `json:"status"`
	Total           int64               `json:"total"`
	Currency        string              `json:"currency"`
	CreatedAt       string              `json:"created_at"`
	CompletionCode  string              `json:"completion_code"`
	CompletionQueue *int64              `json:"completion_queue"`
	IsScheduled     bool                `json:"is_scheduled"`
	ScheduledFor    string              `json:"scheduled_for"`
	Items           []OrderItemResponse `json:"items"`
	DueSoon         *bool               `json:"due_soon,omitempty"`
}

// RefundResponse describes the refund for a cancelled order.
type RefundResponse struct {
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	RefundMessage string `json:"refund_message"`
}

// MenuResponse wraps the drink catalog.
type MenuResponse struct {
	Menu               map[string]MenuDrink `json:"menu"`
	Currency           string               `json:"currency"`
	ExtraShotSurcharge int64                `json:"extra_shot_surcharge"`
}

// MenuDrink is a single catalog entry.
type MenuDrink struct {
	DisplayName string           `json:"display_name"`
	Prices      map[string]int64 `json:"prices"`
}
