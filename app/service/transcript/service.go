package transcript

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"logicbot/app/config"
	"logicbot/app/service/conversation"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

type Exchange struct {
	Said  string
	Reply string
}

// Result is one evaluated transcript.
type Result struct {
	Name      string
	Exchanges []Exchange
}

// Service plays transcripts, one utterance per line, each in a fresh
// conversation.
type Service struct {
	cfg             *config.Config
	conversationSvc *conversation.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:             do.MustInvoke[*config.Config](di),
		conversationSvc: do.MustInvoke[*conversation.Service](di),
	}, nil
}

// Evaluate answers every line of r in a new session. Blank lines and #
// comments are skipped.
func (s *Service) Evaluate(ctx context.Context, name string, r io.Reader) (*Result, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.In("transcript").With("name", name).Wrapf(err, "failed to read transcript")
	}

	lines = pie.Filter(lines, func(line string) bool {
		return line != "" && !strings.HasPrefix(line, "#")
	})

	session := s.conversationSvc.NewSession(s.cfg.Chat.Username)
	result := &Result{Name: name, Exchanges: make([]Exchange, 0, len(lines))}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Exchanges = append(result.Exchanges, Exchange{
			Said:  line,
			Reply: session.Respond(ctx, line),
		})
	}

	return result, nil
}

func (s *Service) evaluateFile(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, oops.In("transcript").With("path", path).Wrapf(err, "failed to open transcript")
	}
	defer file.Close()

	return s.Evaluate(ctx, path, file)
}

// RunFiles evaluates the transcripts at paths concurrently. Results are in
// the order of paths; the first failure cancels the rest.
func (s *Service) RunFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Batch.Concurrency, 1))

	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()

			res, err := s.evaluateFile(ctx, path)
			if err != nil {
				return err
			}

			slog.Debug("Transcript evaluated",
				"path", path,
				"lines", len(res.Exchanges),
				"duration", time.Since(start))

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Write prints results as the lines said followed by the replies.
func Write(w io.Writer, results []*Result) error {
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", res.Name); err != nil {
			return err
		}
		for _, ex := range res.Exchanges {
			if _, err := fmt.Fprintf(w, "> %s\n%s\n", ex.Said, ex.Reply); err != nil {
				return err
			}
		}
	}

	return nil
}
