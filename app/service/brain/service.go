package brain

import (
	"bufio"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"logicbot/app/config"
	"logicbot/app/logic"
	"logicbot/app/service/parser"

	"github.com/samber/do"
	"github.com/samber/oops"
)

//go:embed education.txt
var defaultEducation string

type Service struct {
	cfg    *config.Config
	parser *parser.Service

	education []string
	facts     []logic.Sentence
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{
		cfg:    cfg,
		parser: do.MustInvoke[*parser.Service](di),
	}

	if cfg.Education.Enabled {
		lines, err := loadEducation(cfg.Education.Path)
		if err != nil {
			return nil, err
		}
		s.education = lines
		s.facts = s.parseEducation(context.Background(), lines)

		slog.Debug("Education loaded",
			slog.Int("lines", len(lines)),
			slog.Int("facts", len(s.facts)),
		)
	}

	return s, nil
}

func loadEducation(path string) ([]string, error) {
	if path == "" {
		return readLines(strings.NewReader(defaultEducation))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, oops.In("education").With("path", path).Wrapf(err, "failed to open education file")
	}
	defer file.Close()

	lines, err := readLines(file)
	if err != nil {
		return nil, oops.In("education").With("path", path).Wrapf(err, "failed to read education file")
	}

	return lines, nil
}

// readLines returns the non-empty lines of r that are not # comments.
func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// parseEducation keeps the declarations among lines. Anything else is
// reported and skipped.
func (s *Service) parseEducation(ctx context.Context, lines []string) []logic.Sentence {
	facts := make([]logic.Sentence, 0, len(lines))

	for _, line := range lines {
		res, err := s.parser.Parse(ctx, line)
		if err != nil {
			slog.Warn("Bad education", slog.String("line", line), slog.Any("error", err))
			continue
		}
		if res.Utterance.Kind != logic.Declaration {
			slog.Warn("Bad education", slog.String("line", line), slog.String("kind", res.Utterance.Kind.String()))
			continue
		}
		facts = append(facts, res.Utterance.Sentence)
	}

	return facts
}

// Education returns the seed lines, including those that were skipped.
func (s *Service) Education() []string {
	return append([]string(nil), s.education...)
}

// NewBrain creates a Brain that knows the seed facts.
func (s *Service) NewBrain() *logic.Brain {
	b := logic.NewBrain()
	s.Educate(b)
	return b
}

// Educate teaches b the seed facts.
func (s *Service) Educate(b *logic.Brain) {
	for _, fact := range s.facts {
		b.AddKnowledge(fact)
	}
}

// Knows asks b about sentence with the configured depth and time budget.
func (s *Service) Knows(ctx context.Context, b *logic.Brain, sentence logic.Sentence) bool {
	start := time.Now()
	known := b.Knows(ctx, sentence, s.cfg.Brain.MaxDepth, s.cfg.Brain.TimeBudget)

	stats := b.Stats()
	slog.Debug("Query answered",
		slog.String("sentence", sentence.String()),
		slog.Bool("known", known),
		slog.Int("max_depth", s.cfg.Brain.MaxDepth),
		slog.Duration("took", time.Since(start)),
		slog.Int("implications", stats.Implications),
		slog.Int("existence_facts", stats.ExistenceFacts),
	)

	return known
}
