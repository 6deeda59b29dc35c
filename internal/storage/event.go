package storage

import (
	"context"
	"database/sql"

	"github.com/linemk/levelup-shop/internal/domain/models"
)

type EventStorage interface {
	ListEvents(ctx context.Context) ([]*models.GameEvent, error)
	CreateEvent(ctx context.Context, event *models.GameEvent) (*models.GameEvent, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventStorage {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListEvents(ctx context.Context) ([]*models.GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, latitude, longitude, points FROM game_events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.GameEvent{}
	for rows.Next() {
		e := &models.GameEvent{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Latitude, &e.Longitude, &e.Points); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CreateEvent(ctx context.Context, event *models.GameEvent) (*models.GameEvent, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO game_events (name, latitude, longitude, points) VALUES ($1, $2, $3, $4) RETURNING id",
		event.Name, event.Latitude, event.Longitude, event.Points,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}
