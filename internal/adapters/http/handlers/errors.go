package handlers

import (
	"errors"
	"log"

	"messpay/internal/adapters/http/middleware"
	"messpay/internal/core/domain"
	"messpay/internal/core/services"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service errors to API responses; fallback is the message for unexpected failures
func writeError(c *fiber.Ctx, err error, fallback string) error {
	var rejected *domain.OrderRejectedError
	if errors.As(err, &rejected) {
		if rejected.Reason == domain.RejectStorageError {
			log.Printf("❌ %s: %v", fallback, err)
			return c.Status(fiber.StatusInternalServerError).JSON(response.Response{
				Success: false,
				Error:   fallback,
				Reason:  string(rejected.Reason),
			})
		}
		return response.Rejected(c, string(rejected.Reason), rejectMessage(rejected.Reason))
	}

	switch {
	case errors.Is(err, domain.ErrNoActiveSession), errors.Is(err, domain.ErrSessionClosed):
		return response.Unauthorized(c, "No active session, please log in")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRecipient),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrInvalidOrderItem),
		errors.Is(err, domain.ErrEmptyCart):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrOrderNotOwned), errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return response.Conflict(c, err.Error())
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}

func rejectMessage(reason domain.RejectReason) string {
	switch reason {
	case domain.RejectEmptyCart:
		return "Your cart is empty"
	case domain.RejectInvalidItem:
		return "One or more items are not available"
	case domain.RejectInsufficientBalance:
		return "Insufficient token balance"
	}
	return "Order rejected"
}

// currentSession returns the session put in Locals by RequireSession
func currentSession(c *fiber.Ctx) (*services.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return sess, nil
}
