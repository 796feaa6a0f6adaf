package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ChannelMock struct{ mock.Mock }

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func TestPublishMessage(t *testing.T) {
	type TestMsg struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	t.Run("success publish", func(t *testing.T) {
		ch := new(ChannelMock)
		msg := TestMsg{ID: 1, Name: "Hello"}
		ch.On("Publish", "vacations", "vacation.liked", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
			var got TestMsg
			if err := json.Unmarshal(p.Body, &got); err != nil {
				return false
			}
			return got == msg && p.ContentType == "application/json" && p.DeliveryMode == amqp.Persistent
		})).Return(nil).Once()

		require.NoError(t, PublishMessage(ch, "vacations", "vacation.liked", msg))
		ch.AssertExpectations(t)
	})

	t.Run("marshal error", func(t *testing.T) {
		ch := new(ChannelMock)
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)}

		err := PublishMessage(ch, "vacations", "x", badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish error", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(errors.New("channel closed")).Once()

		err := PublishMessage(ch, "vacations", "vacation.deleted", TestMsg{ID: 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel closed")
	})
}
