package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/storage"
)

type EventService interface {
	ListEvents(ctx context.Context) ([]*models.GameEvent, error)
	CreateEvent(ctx context.Context, event *models.GameEvent) (*models.GameEvent, error)
}

type eventService struct {
	log    *slog.Logger
	events storage.EventStorage
}

func NewEventService(log *slog.Logger, events storage.EventStorage) EventService {
	return &eventService{log: log, events: events}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*models.GameEvent, error) {
	const op = "service.EventService.ListEvents"

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		s.log.Error("failed to list events", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *models.GameEvent) (*models.GameEvent, error) {
	const op = "service.EventService.CreateEvent"

	event.Name = strings.TrimSpace(event.Name)
	switch {
	case event.Name == "":
		return nil, fmt.Errorf("%s: name is required: %w", op, ErrInvalidInput)
	case event.Points <= 0:
		return nil, fmt.Errorf("%s: points must be positive: %w", op, ErrInvalidInput)
	case event.Latitude < -90 || event.Latitude > 90 || event.Longitude < -180 || event.Longitude > 180:
		return nil, fmt.Errorf("%s: coordinates out of range: %w", op, ErrInvalidInput)
	}

	created, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		s.log.Error("failed to create event", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}
