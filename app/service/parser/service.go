package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"logicbot/app/config"
	"logicbot/app/grammar"
	"logicbot/app/lexicon"
	"logicbot/app/logic"
	"logicbot/app/semantic"

	"github.com/elliotchance/pie/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Result is everything understood about one line of text. Tree is nil when
// the line could not be parsed.
type Result struct {
	Tokens []lexicon.Token
	// Guessed lists the words whose tags were guessed from their spelling.
	Guessed   []string
	Tree      *grammar.Node
	Utterance logic.Utterance
}

// Parsed reports whether the line had a parse.
func (r *Result) Parsed() bool {
	return r.Tree != nil
}

type Service struct {
	lex        *lexicon.Lexicon
	grammar    *grammar.Grammar
	normalizer *semantic.Normalizer
	cache      *gocache.Cache
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	lex, err := loadLexicon(cfg.Lexicon.WordData)
	if err != nil {
		return nil, err
	}

	slog.Debug("Lexicon loaded", "words", lex.Size(), "path", cfg.Lexicon.WordData)

	return NewService(lex, cfg.Parser), nil
}

// NewService creates a parser over lex. A zero cache TTL disables caching.
func NewService(lex *lexicon.Lexicon, cfg config.Parser) *Service {
	s := &Service{
		lex:        lex,
		grammar:    grammar.New(),
		normalizer: semantic.New(lex),
	}
	if cfg.CacheTTL > 0 {
		s.cache = gocache.New(cfg.CacheTTL, cfg.CacheCleanup)
	}
	return s
}

func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, oops.In("lexicon").With("path", path).Wrapf(err, "failed to open word data")
	}
	defer file.Close()

	lex, err := lexicon.Load(file)
	if err != nil {
		return nil, oops.In("lexicon").With("path", path).Wrapf(err, "failed to load word data")
	}

	return lex, nil
}

// Parse tokenizes, parses and normalizes text. A line the grammar does not
// accept yields a Result without a tree and grammar.ErrNoParse.
func (s *Service) Parse(ctx context.Context, text string) (*Result, error) {
	tokens := s.lex.Tokens(text)
	key := cacheKey(tokens)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			res := cached.(*Result)
			if !res.Parsed() {
				return res, grammar.ErrNoParse
			}
			return res, nil
		}
	}

	res := &Result{Tokens: tokens, Guessed: s.guessed(tokens)}
	if len(res.Guessed) > 0 {
		slog.Debug("Guessed unknown words", "words", res.Guessed)
	}

	tree, err := s.grammar.ParseContext(ctx, tokens)
	switch {
	case errors.Is(err, grammar.ErrNoParse):
		slog.Debug("No parse", "text", text)
		s.remember(key, res)
		return res, err
	case err != nil:
		return res, err
	}

	utterance, err := s.normalizer.ToSentence(tree)
	if err != nil {
		return res, fmt.Errorf("normalize %s: %w", tree, err)
	}

	res.Tree = tree
	res.Utterance = utterance
	s.remember(key, res)

	return res, nil
}

func (s *Service) remember(key string, res *Result) {
	if s.cache != nil {
		s.cache.SetDefault(key, res)
	}
}

func (s *Service) guessed(tokens []lexicon.Token) []string {
	unknown := pie.Filter(tokens, func(tok lexicon.Token) bool {
		return !s.lex.Known(tok.Word)
	})
	return pie.Map(unknown, func(tok lexicon.Token) string {
		return tok.Word
	})
}

// cacheKey identifies a line by its canonical tokens, so "Hi!" and "hi."
// share an entry.
func cacheKey(tokens []lexicon.Token) string {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Word
	}
	return strings.Join(words, " ")
}
