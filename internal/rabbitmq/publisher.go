package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-auth-service/internal/models"
)

// RoutingKeyUserRegistered — ключ маршрутизации события регистрации.
const RoutingKeyUserRegistered = "user.registered"

// Publisher публикует события пользовательского сервиса в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishUserRegistered публикует событие о регистрации пользователя.
func (p *Publisher) PublishUserRegistered(event models.UserRegisteredEvent) error {
	const op = "rabbitmq.PublishUserRegistered"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		ExchangeName,
		RoutingKeyUserRegistered,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
