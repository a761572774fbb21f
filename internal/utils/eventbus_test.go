package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversToSubscribers(t *testing.T) {
	eb := NewEventBus()

	var got []Event
	eb.Subscribe("UPDATE_CARDS", func(e Event) {
		got = append(got, e)
	})

	eb.Publish("UPDATE_CARDS", "payload")
	eb.Publish("UPDATE_COLUMNS", "other")

	require.Len(t, got, 1)
	assert.Equal(t, "UPDATE_CARDS", got[0].Event)
	assert.Equal(t, "payload", got[0].Data)
}

func TestEventBusChannelReceives(t *testing.T) {
	eb := NewEventBus()

	eb.Publish("UPDATE_CARDS", 1)

	select {
	case e := <-eb.SubscribeCh():
		assert.Equal(t, "UPDATE_CARDS", e.Event)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	eb := NewEventBus()

	// Nobody drains the channel; publishing past the buffer must drop, not
	// hang.
	for i := 0; i < 500; i++ {
		eb.Publish("UPDATE_CARDS", i)
	}
}
