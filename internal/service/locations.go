package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"usher/internal/inventory"
	"usher/internal/logger"
	"usher/internal/metrics"
	"usher/internal/models"
	"usher/internal/repository"
)

type LocationService struct {
	locationRepo *repository.LocationRepository
	roomRepo     *repository.RoomRepository
	capacity     *inventory.CapacityLedger
	nats         Publisher
}

func NewLocationService(
	locationRepo *repository.LocationRepository,
	roomRepo *repository.RoomRepository,
	capacity *inventory.CapacityLedger,
	nats Publisher,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		roomRepo:     roomRepo,
		capacity:     capacity,
		nats:         nats,
	}
}

// Create stores a new location. A zero ceiling leaves the location
// unconstrained.
func (s *LocationService) Create(ctx context.Context, req *models.CreateLocationRequest) (*models.CreateLocationResponse, error) {
	if req.MaxAvailableSeats < 0 {
		return nil, &inventory.InvalidArgumentError{Field: "max_available_seats", Reason: "must not be negative"}
	}

	location := &models.Location{
		Name:              req.Name,
		Address:           req.Address,
		MaxAvailableSeats: req.MaxAvailableSeats,
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return &models.CreateLocationResponse{ID: location.ID}, nil
}

// GetByID returns the location or inventory.ErrLocationNotFound.
func (s *LocationService) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return nil, inventory.ErrLocationNotFound
	}
	return location, nil
}

// List returns all locations.
func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// ListRooms returns the rooms assigned to a location.
func (s *LocationService) ListRooms(ctx context.Context, locationID int64) ([]models.Room, error) {
	if _, err := s.GetByID(ctx, locationID); err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// AssignRoom creates a room inside the location. The capacity ledger
// serializes the admission check per location, so the summed capacity of the
// location's rooms can never pass its ceiling even under concurrent
// assignments.
func (s *LocationService) AssignRoom(ctx context.Context, locationID int64, req *models.AssignRoomRequest) (*models.AssignRoomResponse, error) {
	room := &models.Room{
		Name:         req.Name,
		SeatCapacity: req.SeatCapacity,
		LocationID:   &locationID,
	}

	err := s.capacity.Assign(ctx, locationID, req.SeatCapacity, 0, func(ctx context.Context) error {
		if err := s.roomRepo.Create(ctx, room); err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return nil
	})
	metrics.CapacityChecks.WithLabelValues(capacityStatus(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventRoomAssigned, models.RoomAssignedEvent{
		RoomID:       room.ID,
		LocationID:   locationID,
		SeatCapacity: room.SeatCapacity,
		Timestamp:    time.Now(),
	})

	return &models.AssignRoomResponse{ID: room.ID}, nil
}

// ResizeRoom changes a room's seat capacity. For an assigned room the check
// excludes the room's own current capacity, so shrinking always fits and
// growing is admitted against the headroom the other rooms leave.
func (s *LocationService) ResizeRoom(ctx context.Context, roomID int64, seatCapacity int) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return inventory.ErrRoomNotFound
	}

	if room.LocationID == nil {
		if seatCapacity <= 0 {
			return &inventory.InvalidArgumentError{Field: "seat_capacity", Reason: "must be positive"}
		}
		return s.roomRepo.UpdateCapacity(ctx, roomID, seatCapacity)
	}

	err = s.capacity.Assign(ctx, *room.LocationID, seatCapacity, roomID, func(ctx context.Context) error {
		return s.roomRepo.UpdateCapacity(ctx, roomID, seatCapacity)
	})
	metrics.CapacityChecks.WithLabelValues(capacityStatus(err)).Inc()
	if err != nil {
		return err
	}

	s.publish(ctx, models.EventRoomResized, models.RoomResizedEvent{
		RoomID:       roomID,
		SeatCapacity: seatCapacity,
		Timestamp:    time.Now(),
	})

	return nil
}

func capacityStatus(err error) string {
	var exceeded *inventory.CapacityExceededError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &exceeded):
		return "rejected"
	default:
		return "error"
	}
}

func (s *LocationService) publish(ctx context.Context, subject string, data interface{}) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err,
			"event_type", subject)
	}
}
