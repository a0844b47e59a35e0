package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	ctx := context.Background()
	s, err := New(nil)
	require.NoError(t, err)

	assert.True(t, s.Add(ctx, "you", "hi"))
	assert.True(t, s.Add(ctx, "you", "bye"))

	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())

	assert.False(t, s.Add(ctx, "you", "too late"))

	var got []Message
	for msg := range s.Channel() {
		got = append(got, msg)
	}
	assert.Equal(t, []Message{{"you", "hi"}, {"you", "bye"}}, got)
}

func TestQueue_FullWaitsForSpace(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	for range bufferSize {
		require.True(t, s.Add(context.Background(), "you", "hi"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, s.Add(ctx, "you", "one more"))

	go func() {
		<-s.Channel()
	}()
	assert.True(t, s.Add(context.Background(), "you", "after a read"))
}
