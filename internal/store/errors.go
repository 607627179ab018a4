// Package store defines the persistence boundary of the service: the
// Store and Tx interfaces the domain services operate against, and the
// sentinel errors implementations must return.  Sentinels let services
// and handlers distinguish failure scenarios with errors.Is without
// depending on a concrete backend.
package store

import "errors"

// Not-found sentinels are distinct per entity type because callers
// surface different messages for each (assigning a table to a missing
// reservation is not the same failure as assigning a missing table).
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenNotFound       = errors.New("refresh token not found")
)

// ErrInsufficientStock is returned by DeductStock when the variant's
// current quantity is lower than the requested deduction.  The
// decrement is guarded so stock can never go negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrConflict signals a write that cannot proceed because of dependent
// state, such as deleting a room that still has active tables or
// registering an email that is already taken.
var ErrConflict = errors.New("conflict")
