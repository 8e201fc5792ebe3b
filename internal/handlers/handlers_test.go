package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"usher/internal/inventory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// setupRouter registers the routes with a handler set that has no backing
// services; only request validation paths are exercised here.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil)
	r := gin.New()

	api := r.Group("/api")
	{
		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.PUT("/:id/types/:label/price", h.SetTypePrice)
			events.PUT("/:id/types/:label/quota", h.SetTypeQuota)
		}

		locations := api.Group("/locations")
		{
			locations.POST("", h.CreateLocation)
			locations.POST("/:id/rooms", h.AssignRoom)
		}

		api.PATCH("/rooms/:id", h.ResizeRoom)
	}

	return r
}

func TestCreateEventValidation(t *testing.T) {
	r := setupRouter()

	// Missing required fields
	req, _ := http.NewRequest("POST", "/api/events", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed JSON
	req, _ = http.NewRequest("POST", "/api/events", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEventsValidation(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/events?page=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/events?pageSize=500", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventInvalidID(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/events/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetTypePriceInvalidBody(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("PUT", "/api/events/1/types/VIP/price", bytes.NewBufferString(`{"price_cents": "free"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignRoomValidation(t *testing.T) {
	r := setupRouter()

	// Invalid location id
	req, _ := http.NewRequest("POST", "/api/locations/xyz/rooms", bytes.NewBufferString(`{"name":"Hall A","seat_capacity":100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing seat capacity
	req, _ = http.NewRequest("POST", "/api/locations/1/rooms", bytes.NewBufferString(`{"name":"Hall A"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResizeRoomValidation(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("PATCH", "/api/rooms/1", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"quota exhausted", inventory.ErrQuotaExhausted, http.StatusConflict},
		{"seat taken", inventory.ErrSeatTaken, http.StatusConflict},
		{"ticket conflict", inventory.ErrTicketConflict, http.StatusConflict},
		{"capacity exceeded", &inventory.CapacityExceededError{Current: 500, Max: 600, Requested: 250}, http.StatusConflict},
		{"seat required", inventory.ErrSeatRequired, http.StatusBadRequest},
		{"unknown type", inventory.ErrUnknownTicketType, http.StatusBadRequest},
		{"invalid argument", &inventory.InvalidArgumentError{Field: "quota", Reason: "must not be negative"}, http.StatusBadRequest},
		{"event not found", inventory.ErrEventNotFound, http.StatusNotFound},
		{"ticket not found", inventory.ErrTicketNotFound, http.StatusNotFound},
		{"type not configured", inventory.ErrTypeNotConfigured, http.StatusNotFound},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrorCapacityPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &inventory.CapacityExceededError{Current: 500, Max: 600, Requested: 250})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{
		"error": "capacity_exceeded",
		"reason": "location capacity exceeded: 500 assigned + 250 requested > 600 maximum",
		"current": 500,
		"max": 600,
		"requested": 250
	}`, w.Body.String())
}
