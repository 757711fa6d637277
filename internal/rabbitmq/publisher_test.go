package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-auth-service/internal/models"
)

func TestPublishUserRegistered(t *testing.T) {
	ctx := context.Background()
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	queueName := "user-events"
	ch, err := SetupChannel(conn, []QueueConfig{
		{QueueName: queueName, RoutingKey: RoutingKeyUserRegistered},
	})
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	publisher := NewPublisher(ch)

	event := models.UserRegisteredEvent{
		Email:     "test@gmail.com",
		Name:      "Test name",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err = publisher.PublishUserRegistered(event)
	require.NoError(t, err)

	deliveries, err := ch.Consume(queueName, "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got models.UserRegisteredEvent
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, event.Email, got.Email)
		assert.Equal(t, event.Name, got.Name)
		assert.Equal(t, "application/json", d.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}
