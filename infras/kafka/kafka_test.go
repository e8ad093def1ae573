package kafka_test

import (
	"context"
	"math"
	"testing"

	"hotel/config"
	"hotel/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	message := kafka.Message{Key: "room-101", Value: map[string]string{"type": "booking.created"}}

	msg, err := message.ToKafkaMessage("hotel.bookings")

	require.NoError(t, err)
	assert.Equal(t, "hotel.bookings", msg.Topic)
	assert.Equal(t, []byte("room-101"), msg.Key)
	assert.JSONEq(t, `{"type":"booking.created"}`, string(msg.Value))
}

func TestMessage_ToKafkaMessageRejectsUnencodableValue(t *testing.T) {
	message := kafka.Message{Key: "k", Value: math.Inf(1)}

	_, err := message.ToKafkaMessage("hotel.bookings")

	assert.Error(t, err)
}

func TestNew_WithoutBrokersDropsMessages(t *testing.T) {
	client := kafka.New(&config.Config{})

	assert.NoError(t, client.SendMessages(context.Background(), "hotel.bookings", kafka.Message{Key: "k", Value: "v"}))
	assert.NoError(t, client.Close())
}
