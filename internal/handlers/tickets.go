package handlers

import (
	"net/http"

	"usher/internal/models"

	"github.com/gin-gonic/gin"
)

// PurchaseTicket - POST /api/tickets
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")

	ticket, err := h.services.Tickets.Purchase(c.Request.Context(), &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListMyTickets - GET /api/tickets
func (h *Handlers) ListMyTickets(c *gin.Context) {
	userID := c.GetInt64("user_id")

	tickets, err := h.services.Tickets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// GetTicket - GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.services.Tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canAccess(c, ticket.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "ticket belongs to another user"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// CancelTicket - DELETE /api/tickets/:id
func (h *Handlers) CancelTicket(c *gin.Context) {
	ticket, err := h.services.Tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canAccess(c, ticket.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "ticket belongs to another user"})
		return
	}

	if err := h.services.Tickets.Cancel(c.Request.Context(), ticket.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReassignSeat - PATCH /api/tickets/:id/seat
func (h *Handlers) ReassignSeat(c *gin.Context) {
	ticket, err := h.services.Tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canAccess(c, ticket.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "ticket belongs to another user"})
		return
	}

	var req models.ReassignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.services.Tickets.ReassignSeat(c.Request.Context(), ticket.ID, req.SeatNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// canAccess allows the ticket's owner and admins.
func (h *Handlers) canAccess(c *gin.Context, ownerID int64) bool {
	if c.GetBool("is_admin") {
		return true
	}
	return c.GetInt64("user_id") == ownerID
}
