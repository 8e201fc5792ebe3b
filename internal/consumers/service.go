package consumers

import (
	"context"
	"log/slog"

	"usher/internal/config"
	"usher/internal/database"
	"usher/internal/messaging"
	"usher/internal/models"
	"usher/internal/repository"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.EventTicketSold, "consumers", cs.handlers.HandleTicketSold); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventTicketCancelled, "consumers", cs.handlers.HandleTicketCancelled); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventTicketReassigned, "consumers", cs.handlers.HandleTicketReassigned); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventRoomAssigned, "consumers", cs.handlers.HandleRoomAssigned); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventRoomResized, "consumers", cs.handlers.HandleRoomResized); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventTypeConfigured, "consumers", cs.handlers.HandleTypeConfigured); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
