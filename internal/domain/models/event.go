package models

// GameEvent: событие на карте мероприятий
type GameEvent struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Points    int     `json:"points"`
}
