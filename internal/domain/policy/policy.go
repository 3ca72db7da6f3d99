// Package policy holds the time-window rules for scheduled orders. Every
// function takes the current instant explicitly.
package policy

import (
	"time"

	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

// CancelWindow is the minimum lead time a scheduled order must still have to
// be cancelled. It is also the width of the due-soon window.
const CancelWindow = 10 * time.Minute

const (
	ReasonNotScheduled  = "only scheduled orders can be cancelled"
	ReasonClosed        = "already completed or cancelled"
	ReasonNoSchedule    = "no scheduled time"
	ReasonInvalidTime   = "invalid scheduled time"
	ReasonTooCloseToDue = "too close to pickup time (< 10 minutes)"
)

// Accepted scheduled time layouts, tried in order.
var scheduleLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseScheduledTime parses s as a naive local timestamp.
func ParseScheduledTime(s string) (time.Time, bool) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RemainingSeconds is scheduled minus now in seconds; negative once passed.
func RemainingSeconds(scheduled, now time.Time) float64 {
	return scheduled.Sub(now).Seconds()
}

// CanCancel reports whether a customer may cancel order at now. When not,
// the reason names the first failing rule.
func CanCancel(order *model.Order, now time.Time) (bool, string) {
	if !order.IsScheduled {
		return false, ReasonNotScheduled
	}
	if order.Status.Closed() {
		return false, ReasonClosed
	}
	if order.ScheduledFor == "" {
		return false, ReasonNoSchedule
	}
	scheduled, ok := ParseScheduledTime(order.ScheduledFor)
	if !ok {
		return false, ReasonInvalidTime
	}
	if RemainingSeconds(scheduled, now) <= CancelWindow.Seconds() {
		return false, ReasonTooCloseToDue
	}
	return true, ""
}

// IsDueSoon reports whether a scheduled order is due within CancelWindow,
// both bounds inclusive.
func IsDueSoon(order *model.Order, now time.Time) bool {
	if !order.IsScheduled {
		return false
	}
	scheduled, ok := ParseScheduledTime(order.ScheduledFor)
	if !ok {
		return false
	}
	remaining := RemainingSeconds(scheduled, now)
	return remaining >= 0 && remaining <= CancelWindow.Seconds()
}
