package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// Session errors
var (
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionClosed   = errors.New("session has been closed")
	ErrInvalidRole     = errors.New("invalid role")
)

// Ledger errors
var (
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidRecipient    = errors.New("recipient id and name are required")
)

// Order errors
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidOrderItem        = errors.New("invalid order item")
	ErrOrderNotOwned           = errors.New("order belongs to another user")
)

// RejectReason classifies why an order placement was rejected
type RejectReason string

const (
	RejectEmptyCart           RejectReason = "empty-cart"
	RejectInvalidItem         RejectReason = "invalid-item"
	RejectInsufficientBalance RejectReason = "insufficient-balance"
	RejectStorageError        RejectReason = "storage-error"
)

// OrderRejectedError is returned by order placement for every failure.
// Business rejections wrap a domain sentinel, storage failures wrap the I/O error.
type OrderRejectedError struct {
	Reason RejectReason
	Err    error
}

func (e *OrderRejectedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("order rejected: %s", e.Reason)
	}
	return fmt.Sprintf("order rejected: %s: %v", e.Reason, e.Err)
}

func (e *OrderRejectedError) Unwrap() error {
	return e.Err
}

// Reject builds an OrderRejectedError
func Reject(reason RejectReason, err error) *OrderRejectedError {
	return &OrderRejectedError{Reason: reason, Err: err}
}
