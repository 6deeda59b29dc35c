package rabbitmq

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/levelup-shop/internal/lib/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "levelup_shop"
	ExchangeType = "topic"

	OrderPlacedKey = "order.placed"
)

// SetupConn подключается к брокеру и объявляет exchange магазина
func SetupConn(log *slog.Logger, url string, attempts int) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn("failed to connect to rabbitmq", slog.Int("attempt", i+1), logger.Err(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}
