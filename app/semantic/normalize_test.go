package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicbot/app/grammar"
	"logicbot/app/lexicon"
	"logicbot/app/logic"
	"logicbot/app/semantic"
)

var lex = lexicon.Default()

func normalize(t *testing.T, text string) logic.Utterance {
	t.Helper()

	tree, err := grammar.Parse(lex.Tokens(text))
	require.NoError(t, err, text)

	u, err := semantic.New(lex).ToSentence(tree)
	require.NoError(t, err, tree.String())
	return u
}

func TestToSentence(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"all penguins are birds", "[declaration,[be,[all,[penguin]],[some,[bird]]]]"},
		{"penguins are birds.", "[declaration,[be,[all,[penguin]],[some,[bird]]]]"},
		{"some penguin flies", "[declaration,[fly,[some,[penguin]],[some,[]]]]"},
		{"something is black", "[declaration,[be,[some,[]],[some,[black]]]]"},
		{"i am a human", "[declaration,[be,[all,[i]],[some,[human]]]]"},
		{"hello!", "[interjection,hi]"},
		{"nope", "[interjection,no]"},
		{"is a penguin a bird?", "[question,[be,[some,[penguin]],[some,[bird]]]]"},
		{"all cats are black?", "[question,[be,[all,[cat]],[some,[black]]]]"},
		{"are birds animals?", "[question,[be,[all,[]],[some,[bird,animal]]]]"},
		{
			"all things that fly are birds",
			"[declaration,[be,[all,[[fly,it,[some,[]]]]],[some,[bird]]]]",
		},
		{
			"everything that walks moves",
			"[declaration,[move,[all,[[walk,it,[some,[]]]]],[some,[]]]]",
		},
		{
			"birds that are green fly",
			"[declaration,[fly,[all,[bird,green]],[some,[]]]]",
		},
		{
			"birds that cats chase fly",
			"[declaration,[fly,[all,[bird,[chase,[some,[cat]],it]]],[some,[]]]]",
		},
		{
			"jessica is a freshman at stanford",
			"[declaration,[be,[all,[jessica]],[some,[freshman,[in,it,[some,[stanford]]]]]]]",
		},
		{
			"my cat eats flying birds?",
			"[question,[eat,[some,[[of,it,[all,[i]]],cat]],[some,[[fly,it,[some,[]]],bird]]]]",
		},
		{
			"the eaten fish is food",
			"[declaration,[be,[some,[[eat,[some,[]],it],fish]],[some,[food]]]]",
		},
		{
			"animals that have legs walk",
			"[declaration,[walk,[all,[animal,[have,it,[some,[leg]]]]],[some,[]]]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(t, tt.text).String())
		})
	}
}

func TestToSentence_Kinds(t *testing.T) {
	assert.Equal(t, logic.Declaration, normalize(t, "cats eat fish.").Kind)
	assert.Equal(t, logic.Question, normalize(t, "cats eat fish?").Kind)
	assert.Equal(t, logic.Question, normalize(t, "are cats animals?").Kind)
	assert.Equal(t, logic.Interjection, normalize(t, "bye").Kind)
}

func TestToClass_DefaultQuantifier(t *testing.T) {
	n := semantic.New(lex)
	np := &grammar.Node{Label: grammar.Determined, Children: []*grammar.Node{
		{Label: grammar.None},
		{Label: grammar.List, Children: []*grammar.Node{{POS: lexicon.Noun, Word: "ones"}, {POS: lexicon.Adjective, Word: "green"}}},
		{Label: grammar.List},
	}}

	c, err := n.ToClass(np, logic.Some)
	require.NoError(t, err)
	assert.Equal(t, "[some,[green]]", c.String())

	c, err = n.ToClass(np, logic.All)
	require.NoError(t, err)
	assert.Equal(t, "[all,[green]]", c.String())
}

func TestMalformedTrees(t *testing.T) {
	n := semantic.New(lex)

	trees := map[string]*grammar.Node{
		"nil":           nil,
		"unknown label": {Label: "bogus"},
		"leaf":          {POS: lexicon.Noun, Word: "cat"},
		"missing children": {Label: grammar.BasicSentence, Children: []*grammar.Node{
			{POS: lexicon.Pronoun, Word: "i"},
		}},
		"bad object": {Label: grammar.BasicSentence, Children: []*grammar.Node{
			{POS: lexicon.Pronoun, Word: "i"},
			{POS: lexicon.Verb, Word: "am"},
			{Label: grammar.List},
			{Label: grammar.None},
		}},
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			_, err := n.ToSentence(tree)
			assert.ErrorIs(t, err, semantic.ErrMalformedTree)
		})
	}

	_, err := n.ToClass(&grammar.Node{Label: grammar.Determined}, logic.Some)
	assert.ErrorIs(t, err, semantic.ErrMalformedTree)
}
