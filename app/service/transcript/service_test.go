package transcript

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicbot/app/config"
	"logicbot/app/service/brain"
	"logicbot/app/service/conversation"
	"logicbot/app/service/markov"
	"logicbot/app/service/parser"
)

func newService(t *testing.T, concurrency int) *Service {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, &config.Config{
		Brain:     config.Brain{MaxDepth: 2, TimeBudget: 2 * time.Second},
		Education: config.Education{Enabled: true},
		Chat:      config.Chat{Seed: 1, HistorySize: 20, BotName: "bot", Username: "you"},
		Batch:     config.Batch{Concurrency: concurrency},
	})
	do.Provide(di, parser.New)
	do.Provide(di, brain.New)
	do.Provide(di, markov.New)
	do.Provide(di, conversation.New)

	s, err := New(di)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEvaluate(t *testing.T) {
	s := newService(t, 1)

	input := "# penguins\nhi\n\npenguins are birds\n  penguins are birds?  \n"
	res, err := s.Evaluate(context.Background(), "penguins", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "penguins", res.Name)
	assert.Equal(t, []Exchange{
		{Said: "hi", Reply: "Hello."},
		{Said: "penguins are birds", Reply: "That's interesting."},
		{Said: "penguins are birds?", Reply: "Yes."},
	}, res.Exchanges)
}

func TestRunFiles_IsolatedSessions(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for i := range 6 {
		content := "penguins are birds?\n"
		if i%2 == 0 {
			content = "penguins are birds\n" + content
		}
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("t%d.txt", i), content))
	}

	results, err := newService(t, 3).RunFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, res := range results {
		assert.Equal(t, paths[i], res.Name)

		last := res.Exchanges[len(res.Exchanges)-1].Reply
		if i%2 == 0 {
			assert.Equal(t, "Yes.", last, res.Name)
		} else {
			assert.Equal(t, "I don't know.", last, res.Name)
		}
	}
}

func TestRunFiles_MissingFile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "ok.txt", "hi\n"),
		filepath.Join(dir, "missing.txt"),
	}

	_, err := newService(t, 2).RunFiles(context.Background(), paths)
	assert.ErrorContains(t, err, "missing.txt")
}

func TestWrite(t *testing.T) {
	results := []*Result{
		{Name: "a", Exchanges: []Exchange{{"hi", "Hello."}}},
		{Name: "b", Exchanges: []Exchange{{"bye", "Goodbye."}}},
	}

	var out bytes.Buffer
	require.NoError(t, Write(&out, results))
	assert.Equal(t, "== a ==\n> hi\nHello.\n\n== b ==\n> bye\nGoodbye.\n", out.String())
}
