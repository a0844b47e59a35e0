// Package grammar parses token streams into parse trees with a fixed sentence
// grammar built from backtracking matchers.
package grammar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"logicbot/app/lexicon"
	"logicbot/app/search"
)

// ErrNoParse is returned when the grammar cannot consume the whole input.
var ErrNoParse = errors.New("no parse")

type cursor struct {
	tokens []lexicon.Token
	pos    int
}

type action = search.Action[cursor]
type env = search.Env[cursor]

// Grammar is an immutable sentence grammar. It is safe for concurrent use.
type Grammar struct {
	sentence   action
	nounPhrase action
}

var defaultGrammar = New()

// Parse parses tokens with the default grammar.
func Parse(tokens []lexicon.Token) (*Node, error) {
	return defaultGrammar.Parse(tokens)
}

// New builds the sentence grammar.
func New() *Grammar {
	g := &Grammar{}

	// Noun phrases nest through post-noun modifiers.
	nounPhrase := search.Lazy[cursor](func() action { return g.nounPhrase })

	verbPhrase := matchPOS(lexicon.Verb)

	object := search.OneOf[cursor](
		compound(None),
		compound(Object, nounPhrase),
	)

	preNounModifier := matchAnyPOS(lexicon.PastParticiple, lexicon.Gerund, lexicon.Noun, lexicon.Adjective)

	postNounModifier := search.OneOf[cursor](
		compound(RelativeSubject, matchPOS(lexicon.RelativePronoun), verbPhrase, object),
		compound(RelativeObject, matchPOS(lexicon.RelativePronoun), nounPhrase, verbPhrase),
		compound(Prepositional, matchPOS(lexicon.Preposition), nounPhrase),
	)

	g.nounPhrase = search.OneOf[cursor](
		matchAnyPOS(lexicon.Pronoun),
		compound(Determined,
			search.OneOf[cursor](matchAnyPOS(lexicon.Determiner, lexicon.PossessivePronoun), compound(None)),
			many(preNounModifier),
			many(postNounModifier),
		),
		compound(ThingDetermined,
			matchPOS(lexicon.ThingDeterminer),
			many(preNounModifier),
			many(postNounModifier),
		),
	)

	g.sentence = search.OneOf[cursor](
		compound(Interjection,
			matchPOS(lexicon.Interjection),
			search.OneOf[cursor](compound(None), matchPOS(lexicon.Period)),
		),
		compound(BasicSentence,
			nounPhrase,
			verbPhrase,
			object,
			search.OneOf[cursor](compound(None), matchAnyPOS(lexicon.Period, lexicon.QuestionMark)),
		),
		compound(Question,
			verbPhrase,
			nounPhrase,
			object,
			search.OneOf[cursor](compound(None), matchPOS(lexicon.QuestionMark)),
		),
	)

	return g
}

// Parse returns the first parse of the whole token stream, or ErrNoParse.
func (g *Grammar) Parse(tokens []lexicon.Token) (*Node, error) {
	return g.ParseContext(context.Background(), tokens)
}

// ParseContext is Parse with cancellation.
func (g *Grammar) ParseContext(ctx context.Context, tokens []lexicon.Token) (*Node, error) {
	e := search.NewEnv(cursor{tokens: tokens})
	e.Enqueue(g.sentence, search.Func[cursor](matchEOF))

	ok, err := e.RunContext(ctx)
	slog.Debug("Grammar search finished",
		slog.Int("tokens", len(tokens)),
		slog.Int("steps", e.Steps()),
		slog.Bool("parsed", ok),
	)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if !ok {
		return nil, ErrNoParse
	}

	node, ok := e.Pop().(*Node)
	if !ok {
		return nil, ErrNoParse
	}
	return node, nil
}

func readToken(e *env) (lexicon.Token, bool) {
	if e.State.pos >= len(e.State.tokens) {
		e.Fail()
		return lexicon.Token{}, false
	}
	tok := e.State.tokens[e.State.pos]
	e.State.pos++
	return tok, true
}

func matchEOF(e *env) {
	if e.State.pos != len(e.State.tokens) {
		e.Fail()
	}
}

// matchPOS reads a token that must carry pos.
func matchPOS(pos lexicon.POS) action {
	return search.Func[cursor](func(e *env) {
		tok, ok := readToken(e)
		if !ok {
			return
		}
		if !tok.Has(pos) {
			e.Fail()
			return
		}
		e.Push(leaf(pos, tok.Word))
	})
}

// matchAnyPOS reads a token and tags it with the first of tags it carries.
func matchAnyPOS(tags ...lexicon.POS) action {
	return search.Func[cursor](func(e *env) {
		tok, ok := readToken(e)
		if !ok {
			return
		}
		for _, pos := range tags {
			if tok.Has(pos) {
				e.Push(leaf(pos, tok.Word))
				return
			}
		}
		e.Fail()
	})
}

// compound runs every part and wraps their results in a node labeled label.
func compound(label Label, parts ...action) action {
	return search.Sequence[cursor](
		search.CollectAll[cursor](parts...),
		wrap(label),
	)
}

// many matches item greedily zero or more times into a List node.
func many(item action) action {
	return search.Sequence[cursor](
		search.Repeat[cursor](item),
		wrap(List),
	)
}

func wrap(label Label) action {
	return search.Func[cursor](func(e *env) {
		values, _ := e.Pop().([]any)
		node := &Node{Label: label, Children: make([]*Node, 0, len(values))}
		for _, v := range values {
			node.Children = append(node.Children, v.(*Node))
		}
		e.Push(node)
	})
}
