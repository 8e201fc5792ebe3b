package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"usher/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateLocation - POST /api/locations (admin)
func (h *Handlers) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Locations.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create location", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListLocations - GET /api/locations
func (h *Handlers) ListLocations(c *gin.Context) {
	locations, err := h.services.Locations.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list locations", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

// GetLocation - GET /api/locations/:id
func (h *Handlers) GetLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	location, err := h.services.Locations.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// ListRooms - GET /api/locations/:id/rooms
func (h *Handlers) ListRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	rooms, err := h.services.Locations.ListRooms(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// AssignRoom - POST /api/locations/:id/rooms (admin)
func (h *Handlers) AssignRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	var req models.AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Locations.AssignRoom(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ResizeRoom - PATCH /api/rooms/:id (admin)
func (h *Handlers) ResizeRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req models.ResizeRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Locations.ResizeRoom(c.Request.Context(), id, req.SeatCapacity); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
