package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linemk/levelup-shop/internal/domain/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel: часть *amqp.Channel, нужная издателю
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OrderPlaced: сообщение о созданном заказе
type OrderPlaced struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	TotalAmount int64              `json:"totalAmount"`
	Items       []models.OrderItem `json:"items"`
	Timestamp   int64              `json:"timestamp"` // unix millis
}

type OrderPublisher struct {
	ch Channel
}

func NewOrderPublisher(ch Channel) *OrderPublisher {
	return &OrderPublisher{ch: ch}
}

func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(OrderPlaced{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		Timestamp:   order.Timestamp.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("could not marshal order: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,
		OrderPlacedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    order.ID,
			Timestamp:    order.Timestamp,
			Body:         body,
		},
	)
}
