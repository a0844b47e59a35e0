package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("LOGICBOT_CHAT_FLAVOR", "false")
	t.Setenv("LOGICBOT_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestAsk(t *testing.T) {
	out, err := execute(t, "", "ask", "hi", "penguins are birds", "penguins are birds?", "llamas walk?")
	require.NoError(t, err)
	assert.Equal(t, "Hello.\nThat's interesting.\nYes.\nYes.\n", out)
}

func TestAsk_MaxDepthFlag(t *testing.T) {
	out, err := execute(t, "", "ask", "--max-depth", "0", "llamas walk?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.\n", out)
}

func TestAsk_Debug(t *testing.T) {
	out, err := execute(t, "", "ask", "--debug", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "[interjection,hi] | Hello.")
}

func TestChat(t *testing.T) {
	out, err := execute(t, "hi\n\npenguins are birds\npenguins are birds?\nbye\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, "bot: Hello.\nbot: That's interesting.\nbot: Yes.\nbot: Goodbye.\n", out)
}

func TestParse(t *testing.T) {
	out, err := execute(t, "", "parse", "cats are animals", "in on under")
	require.NoError(t, err)

	assert.Contains(t, out, "tokens:    cats/noun are/verb animals/noun\n")
	assert.Contains(t, out, "utterance: [declaration,[be,[all,[cat]],[some,[animal]]]]\n")
	assert.Contains(t, out, "tree:      <nil>\nutterance: no parse\n")
	assert.NotContains(t, out, "guessed:")
}

func TestParse_GuessedWords(t *testing.T) {
	out, err := execute(t, "", "parse", "jessica is a freshman at stanford")
	require.NoError(t, err)

	assert.Contains(t, out, "tokens:    jessica/noun/verb/adjective is/verb a/determiner freshman/noun at/preposition stanford/noun/verb/adjective\n"+
		"guessed:   jessica stanford\n")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("# seed\npenguins are birds\npenguins are birds?\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("penguins are birds?\n"), 0o644))

	out, err := execute(t, "", "run", "--concurrency", "2", first, second)
	require.NoError(t, err)

	want := "== " + first + " ==\n" +
		"> penguins are birds\nThat's interesting.\n" +
		"> penguins are birds?\nYes.\n" +
		"\n" +
		"== " + second + " ==\n" +
		"> penguins are birds?\nI don't know.\n"
	assert.Equal(t, want, out)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "", "config", "show", "--max-depth", "5", "--time-budget", "300ms")
	require.NoError(t, err)

	assert.Contains(t, out, "max_depth: 5\n")
	assert.Contains(t, out, "time_budget: 300ms\n")
	assert.Contains(t, out, "flavor: false\n")
}

func TestConfigShow_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat:\n  bot_name: eliza\n"), 0o644))

	out, err := execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "bot_name: eliza\n")
}

func TestInvalidFlag(t *testing.T) {
	_, err := execute(t, "", "ask", "--max-depth", "99", "hi")
	assert.ErrorContains(t, err, "validate")
}
