package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventDeduper(t *testing.T) {
	d := newMemoryEventDeduper(time.Hour)

	seen, err := d.Seen(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, seen, "first delivery is not a duplicate")

	seen, err = d.Seen(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, seen, "redelivery is a duplicate")

	seen, err = d.Seen(context.Background(), "evt-2")
	require.NoError(t, err)
	assert.False(t, seen, "distinct events are independent")
}

func TestMemoryEventDeduperExpiry(t *testing.T) {
	d := newMemoryEventDeduper(10 * time.Millisecond)

	_, err := d.Seen(context.Background(), "evt-1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	seen, err := d.Seen(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, seen, "expired entries are forgotten")
}

func TestNewEventDeduperFallsBackWithoutRedis(t *testing.T) {
	d, err := NewEventDeduper("", "", 0, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &memoryEventDeduper{}, d)
}
