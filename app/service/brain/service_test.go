package brain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicbot/app/config"
	"logicbot/app/logic"
	"logicbot/app/service/parser"
)

func testConfig() *config.Config {
	return &config.Config{
		Brain:     config.Brain{MaxDepth: 2, TimeBudget: 2 * time.Second},
		Education: config.Education{Enabled: true},
	}
}

func newService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, parser.New)

	s, err := New(di)
	require.NoError(t, err)
	return s
}

func question(t *testing.T, s *Service, text string) logic.Sentence {
	t.Helper()

	res, err := s.parser.Parse(context.Background(), text)
	require.NoError(t, err, text)
	require.Equal(t, logic.Question, res.Utterance.Kind, text)
	return res.Utterance.Sentence
}

func TestEducation_AllSeedFactsParse(t *testing.T) {
	s := newService(t, testConfig())

	assert.Len(t, s.Education(), 26)
	assert.Len(t, s.facts, 26)
}

func TestKnows_Educated(t *testing.T) {
	s := newService(t, testConfig())
	b := s.NewBrain()
	ctx := context.Background()

	assert.True(t, s.Knows(ctx, b, question(t, s, "you are a chatbot?")))
	assert.True(t, s.Knows(ctx, b, question(t, s, "llamas walk?")))
	assert.False(t, s.Knows(ctx, b, question(t, s, "birds walk?")))
}

func TestNewBrain_Independent(t *testing.T) {
	s := newService(t, testConfig())
	ctx := context.Background()

	first := s.NewBrain()
	second := s.NewBrain()

	first.Reset()
	assert.False(t, s.Knows(ctx, first, question(t, s, "you are a chatbot?")))
	assert.True(t, s.Knows(ctx, second, question(t, s, "you are a chatbot?")))

	s.Educate(first)
	assert.True(t, s.Knows(ctx, first, question(t, s, "you are a chatbot?")))
}

func TestEducation_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Education.Enabled = false
	s := newService(t, cfg)

	assert.Empty(t, s.Education())
	assert.Equal(t, logic.Stats{}, s.NewBrain().Stats())
}

func TestEducation_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "education.txt")
	content := "# pets\ncats are animals\n\nin on under\nhi\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := testConfig()
	cfg.Education.Path = path
	s := newService(t, cfg)

	assert.Equal(t, []string{"cats are animals", "in on under", "hi"}, s.Education())
	require.Len(t, s.facts, 1)
	assert.Equal(t, "[be,[all,[cat]],[some,[animal]]]", s.facts[0].String())
}

func TestEducation_MissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.Education.Path = filepath.Join(t.TempDir(), "nope.txt")

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, parser.New)

	_, err := New(di)
	assert.Error(t, err)
}
