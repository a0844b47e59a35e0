package conversation

import (
	"context"
	"log/slog"
	"sync"

	"logicbot/app/config"
	"logicbot/app/service/brain"
	"logicbot/app/service/markov"
	"logicbot/app/service/parser"

	"github.com/google/uuid"
	"github.com/samber/do"
)

type Service struct {
	cfg       *config.Config
	parserSvc *parser.Service
	brainSvc  *brain.Service
	markovSvc *markov.Service

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		parserSvc: do.MustInvoke[*parser.Service](di),
		brainSvc:  do.MustInvoke[*brain.Service](di),
		markovSvc: do.MustInvoke[*markov.Service](di),
		sessions:  make(map[string]*Session),
	}, nil
}

// NewSession starts a conversation that knows the seed facts.
func (s *Service) NewSession(username string) *Session {
	session := &Session{
		ID:       uuid.New(),
		Username: username,
		svc:      s,
		brain:    s.brainSvc.NewBrain(),
		chain:    s.markovSvc.NewChain(),
		history:  newChatHistory(s.cfg.Chat.HistorySize),
	}

	for _, line := range s.brainSvc.Education() {
		session.chain.Learn(line)
	}

	slog.Info("New session",
		"session", session.ID,
		"username", username,
	)

	return session
}

// Session returns the conversation with username, starting one if needed.
func (s *Service) Session(username string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[username]
	if !ok {
		session = s.NewSession(username)
		s.sessions[username] = session
	}

	return session
}

// ProcessMessage answers text in the conversation with username.
func (s *Service) ProcessMessage(ctx context.Context, username, text string) string {
	return s.Session(username).Respond(ctx, text)
}
