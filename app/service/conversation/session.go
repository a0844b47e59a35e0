package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"logicbot/app/grammar"
	"logicbot/app/logic"
	"logicbot/app/service/markov"

	"github.com/google/uuid"
)

const (
	replyNoParse  = "I don't know what that means."
	replyConfused = "Sorry, I'm really confused by what you said."
)

var interjectionReplies = map[string]string{
	"hi":     "Hello.",
	"bye":    "Goodbye.",
	"yay":    "What are you so excited about?",
	"yes":    "Ok.",
	"no":     "Ok.",
	"darn":   "What's wrong?",
	"forget": "I forgot everything I know.",
	"reset":  "I forgot everything you told me.",
}

// Session is one conversation: a knowledge base, a flavor text chain and the
// recent chat lines. It is safe for concurrent use; lines are answered one at
// a time.
type Session struct {
	ID       uuid.UUID
	Username string

	svc *Service

	mu      sync.Mutex
	brain   *logic.Brain
	chain   *markov.Chain
	history *ChatHistory
}

// Respond answers one line of text. Failures are answered, never returned.
func (s *Session) Respond(ctx context.Context, text string) (reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.add(s.Username, text)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while responding",
				"session", s.ID,
				"text", text,
				"panic", r,
			)
			reply = replyConfused
		}

		s.history.add(s.svc.cfg.Chat.BotName, reply)
	}()

	reply, err := s.respond(ctx, text)
	if err != nil {
		slog.Error("Failed to respond",
			"session", s.ID,
			"text", text,
			"error", err,
		)
		return replyConfused
	}

	return reply
}

func (s *Session) respond(ctx context.Context, text string) (string, error) {
	debug := s.svc.cfg.Chat.Debug

	var b strings.Builder

	res, err := s.svc.parserSvc.Parse(ctx, text)
	if res != nil && debug {
		for _, tok := range res.Tokens {
			b.WriteString(tok.String())
			b.WriteByte(' ')
		}
		b.WriteString(" | ")
	}

	switch {
	case errors.Is(err, grammar.ErrNoParse):
		if debug {
			b.WriteString(res.Tree.String() + " | ")
		}
		b.WriteString(replyNoParse)
		return b.String(), nil
	case err != nil:
		return "", fmt.Errorf("parse %q: %w", text, err)
	}

	utterance := res.Utterance
	if debug {
		b.WriteString(res.Tree.String() + " | " + utterance.String() + " | ")
	}

	switch utterance.Kind {
	case logic.Interjection:
		b.WriteString(s.interject(utterance.Word))
		return b.String(), nil

	case logic.Declaration:
		if s.svc.brainSvc.Knows(ctx, s.brain, utterance.Sentence) {
			b.WriteString("Yes, that's right.")
		} else {
			b.WriteString("That's interesting.")
			s.brain.AddKnowledge(utterance.Sentence)
		}

	case logic.Question:
		if s.svc.brainSvc.Knows(ctx, s.brain, utterance.Sentence) {
			b.WriteString("Yes.")
		} else {
			b.WriteString("I don't know.")
		}
	}

	if s.svc.cfg.Chat.Flavor {
		if flavor := s.chain.Generate(text); flavor != "" {
			b.WriteString(" Also, " + flavor)
		}
	}
	s.chain.Learn(text)

	return b.String(), nil
}

func (s *Session) interject(word string) string {
	switch word {
	case "forget":
		s.brain.Reset()
		slog.Info("Session forgot everything",
			"session", s.ID,
			"username", s.Username,
			"history", s.history.format(),
		)
	case "reset":
		s.brain = s.svc.brainSvc.NewBrain()
		slog.Info("Session reset to education",
			"session", s.ID,
			"username", s.Username,
			"history", s.history.format(),
		)
	}

	if reply, ok := interjectionReplies[word]; ok {
		return reply
	}
	return "Ok."
}
