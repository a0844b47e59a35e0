package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"logicbot/app/client/console"
	"logicbot/app/service/conversation"
	"logicbot/app/service/queue"

	"github.com/samber/do"
)

var errQueueClosed = errors.New("queue closed")

// Service answers queued chat lines in order and sends the replies.
type Service struct {
	client          *console.Client
	conversationSvc *conversation.Service
	queueSvc        *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		client:          do.MustInvoke[*console.Client](di),
		conversationSvc: do.MustInvoke[*conversation.Service](di),
		queueSvc:        do.MustInvoke[*queue.Service](di),
	}, nil
}

// Run processes messages until ctx is done or the queue is shut down and
// drained.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := s.runIteration(ctx)
		switch {
		case errors.Is(err, errQueueClosed):
			slog.Debug("Queue closed, engine stopped")
			return
		case ctx.Err() != nil:
			return
		case err != nil:
			slog.Error("Error running iteration", "error", err)
		}
	}
}

func (s *Service) runIteration(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return errQueueClosed
			}

			start := time.Now()
			reply := s.conversationSvc.ProcessMessage(ctx, msg.Username, msg.Text)

			if err := s.client.SendMessage(reply); err != nil {
				return fmt.Errorf("could not send reply: %w", err)
			}

			slog.Debug("Processed message",
				"username", msg.Username,
				"text", msg.Text,
				"reply", reply,
				"duration", time.Since(start))
		}
	}
}
