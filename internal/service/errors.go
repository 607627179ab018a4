// Package service holds the domain logic of the restaurant: the order
// coordinator, the reservation allocator, the room/table service and
// staff authentication.  Services operate on the store interfaces and
// report failures as sentinel errors grouped into validation, not-found
// and conflict classes so handlers can map them to HTTP statuses.
package service

import "errors"

// Validation errors: the request itself is malformed.  No state is
// created or modified.
var (
	ErrEmptyItems          = errors.New("item list must not be empty")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidDiscount     = errors.New("discount must be either a percentage or a fixed amount")
	ErrInsufficientPayment = errors.New("amount paid is less than the total due")
	ErrValidation          = errors.New("validation failed")
)

// Conflict errors: the request is well-formed but the current state of
// the restaurant rejects it.  All state is left unchanged.
var (
	ErrTableBusy            = errors.New("table is busy, try again")
	ErrTableNotAvailable    = errors.New("table is not available")
	ErrInsufficientCapacity = errors.New("insufficient table capacity for number of guests")
	ErrNoActiveSession      = errors.New("no active session for table")
	ErrNoOrders             = errors.New("no orders to check out")
	ErrRoomLimitExceeded    = errors.New("room table or capacity limit exceeded")
)

var validationErrors = []error{
	ErrEmptyItems, ErrInvalidQuantity, ErrInvalidStatus,
	ErrInvalidDiscount, ErrInsufficientPayment, ErrValidation,
}

var conflictErrors = []error{
	ErrTableBusy, ErrTableNotAvailable, ErrInsufficientCapacity,
	ErrNoActiveSession, ErrNoOrders, ErrRoomLimitExceeded,
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool { return isAny(err, validationErrors) }

// IsConflict reports whether err belongs to the conflict class.
// Conflicts are business-rule rejections, not system failures; callers
// may retry ErrTableBusy.
func IsConflict(err error) bool { return isAny(err, conflictErrors) }

func isAny(err error, set []error) bool {
	for _, target := range set {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
