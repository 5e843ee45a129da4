package workflow

import (
	"errors"
	"strings"
)

// ItemStatus is the per-line-item sub-approval state, independent of the
// parent request's stage.
type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemApproved ItemStatus = "approved"
	ItemRejected ItemStatus = "rejected"
)

var (
	ErrItemStageClosed    = errors.New("item decisions are only allowed during the manager stage")
	ErrItemReasonRequired = errors.New("a reason is required when rejecting an item")
)

// Normalize treats an absent item status as pending.
func (s ItemStatus) Normalize() ItemStatus {
	switch s {
	case ItemApproved, ItemRejected:
		return s
	default:
		return ItemPending
	}
}

// DecideItem validates a sub-approval decision against the parent's
// status. Item decisions are annotations: they never gate the parent's
// own approve action.
func DecideItem(parent Status, action Action, reason string) (ItemStatus, error) {
	if parent.Normalize() != StatusPendingManager {
		return "", ErrItemStageClosed
	}
	switch action {
	case ActionApprove:
		return ItemApproved, nil
	case ActionReject:
		if strings.TrimSpace(reason) == "" {
			return "", ErrItemReasonRequired
		}
		return ItemRejected, nil
	default:
		return "", ErrInvalidAction
	}
}
