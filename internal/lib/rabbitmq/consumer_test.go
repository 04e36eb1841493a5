package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquire(t *testing.T) {
	t.Run("свободный слот", func(t *testing.T) {
		sem := make(chan struct{}, 1)

		assert.True(t, acquire(context.Background(), sem))
		assert.Len(t, sem, 1)
	})

	t.Run("отмена при занятых слотах", func(t *testing.T) {
		sem := make(chan struct{}, 1)
		sem <- struct{}{}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan bool, 1)
		go func() { done <- acquire(ctx, sem) }()

		cancel()
		select {
		case got := <-done:
			assert.False(t, got)
		case <-time.After(time.Second):
			t.Fatal("acquire did not return after context cancellation")
		}
		assert.Len(t, sem, 1)
	})

	t.Run("слот освободился до отмены", func(t *testing.T) {
		sem := make(chan struct{}, 1)
		sem <- struct{}{}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		go func() { <-sem }()

		assert.True(t, acquire(ctx, sem))
	})
}
