package handlers

import (
	"errors"
	"net/http"

	"usher/internal/inventory"
	"usher/internal/models"
	"usher/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps the domain error taxonomy onto HTTP statuses: business
// rejections become 409, bad input 400, missing entities 404. Everything
// else is a 500 with a generic body; the middleware logs the detail.
func respondError(c *gin.Context, err error) {
	var invalid *inventory.InvalidArgumentError
	var exceeded *inventory.CapacityExceededError

	switch {
	case errors.As(err, &exceeded):
		c.JSON(http.StatusConflict, models.CapacityExceededResponse{
			Error:     "capacity_exceeded",
			Reason:    exceeded.Error(),
			Current:   exceeded.Current,
			Max:       exceeded.Max,
			Requested: exceeded.Requested,
		})
	case errors.Is(err, inventory.ErrQuotaExhausted):
		c.JSON(http.StatusConflict, models.RejectionResponse{
			Error:  "quota_exhausted",
			Reason: err.Error(),
		})
	case errors.Is(err, inventory.ErrSeatTaken):
		c.JSON(http.StatusConflict, models.RejectionResponse{
			Error:  "seat_taken",
			Reason: err.Error(),
		})
	case errors.Is(err, inventory.ErrTicketConflict):
		c.JSON(http.StatusConflict, models.RejectionResponse{
			Error:  "ticket_conflict",
			Reason: err.Error(),
		})
	case errors.Is(err, inventory.ErrSeatRequired),
		errors.Is(err, inventory.ErrUnknownTicketType),
		errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, models.RejectionResponse{
			Error:  "invalid_request",
			Reason: err.Error(),
		})
	case errors.Is(err, inventory.ErrEventNotFound),
		errors.Is(err, inventory.ErrLocationNotFound),
		errors.Is(err, inventory.ErrRoomNotFound),
		errors.Is(err, inventory.ErrTicketNotFound),
		errors.Is(err, inventory.ErrTypeNotConfigured):
		c.JSON(http.StatusNotFound, models.RejectionResponse{
			Error:  "not_found",
			Reason: err.Error(),
		})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
