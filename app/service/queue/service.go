package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service buffers incoming chat lines until the engine answers them.
type Service struct {
	queue     chan Message
	closeOnce sync.Once
}

type Message struct {
	Username string
	Text     string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Message, bufferSize),
	}, nil
}

// Add enqueues a line, waiting while the buffer is full, and reports whether
// it was accepted. Lines are dropped once ctx is done or the queue is shut
// down.
func (s *Service) Add(ctx context.Context, username, text string) (accepted bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Message queue is closed", "username", username)
			accepted = false
		}
	}()

	select {
	case s.queue <- Message{username, text}:
		return true
	case <-ctx.Done():
		slog.Warn("Message dropped", "username", username, "error", ctx.Err())
		return false
	}
}

func (s *Service) Channel() <-chan Message {
	return s.queue
}

// Shutdown closes the queue. Lines already buffered can still be received.
func (s *Service) Shutdown() error {
	s.closeOnce.Do(func() {
		close(s.queue)
	})

	return nil
}
