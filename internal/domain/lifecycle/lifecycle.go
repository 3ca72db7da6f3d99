// Package lifecycle validates order status transitions.
//
// Customers may only cancel, and only while the cancellation window is open.
// Staff may set any known status, except that a completed order is frozen and
// completion itself requires the order's pickup code. Transitions are computed
// here and applied by the caller; completion additionally needs the caller to
// assign the next completion queue number atomically.
package lifecycle

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/domain/policy"
)

const (
	MsgInvalidStatus      = "invalid status"
	MsgOrderCompleted     = "order is already completed and cannot be modified"
	MsgPickupCodeRequired = "pickup code is required"
	MsgInvalidPickupCode  = "invalid pickup code"
	pickupCodeField       = "completion_code"
	statusField           = "status"
)

// Transition is an approved status change.
type Transition struct {
	From model.OrderStatus
	To   model.OrderStatus
}

// AssignsQueue reports whether applying t must assign a completion queue number.
func (t Transition) AssignsQueue() bool {
	return t.To == model.OrderStatusCompleted
}

// CustomerCancel approves a customer cancellation of order at now.
func CustomerCancel(order *model.Order, now time.Time) (Transition, error) {
	if ok, reason := policy.CanCancel(order, now); !ok {
		return Transition{}, domainErrors.NewPolicyError(reason)
	}
	return Transition{From: order.Status, To: model.OrderStatusCancelled}, nil
}

// ValidateStatus parses a staff-requested status. Matching ignores case only.
func ValidateStatus(requested string) (model.OrderStatus, error) {
	status, ok := model.ParseOrderStatus(strings.ToLower(requested))
	if !ok {
		return "", domainErrors.NewValidationError(statusField, MsgInvalidStatus)
	}
	return status, nil
}

// StaffTransition approves a staff status change of order to requested.
// pickupCode is consulted only when requested is completed.
func StaffTransition(order *model.Order, requested model.OrderStatus, pickupCode string) (Transition, error) {
	if _, ok := model.ParseOrderStatus(string(requested)); !ok {
		return Transition{}, domainErrors.NewValidationError(statusField, MsgInvalidStatus)
	}
	if order.Status == model.OrderStatusCompleted {
		return Transition{}, domainErrors.NewPolicyErrorWithCause(MsgOrderCompleted, domainErrors.ErrOrderCompleted)
	}
	if requested == model.OrderStatusCompleted {
		code := strings.TrimSpace(pickupCode)
		if code == "" {
			return Transition{}, domainErrors.NewValidationError(pickupCodeField, MsgPickupCodeRequired)
		}
		if code != order.CompletionCode {
			return Transition{}, domainErrors.NewPolicyError(MsgInvalidPickupCode)
		}
	}
	return Transition{From: order.Status, To: requested}, nil
}
