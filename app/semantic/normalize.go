// Package semantic turns parse trees into quantified logical form.
package semantic

import (
	"errors"
	"fmt"

	"logicbot/app/grammar"
	"logicbot/app/lexicon"
	"logicbot/app/logic"
)

// ErrMalformedTree is returned for trees the grammar cannot produce.
var ErrMalformedTree = errors.New("malformed parse tree")

// Placeholder nouns carry no meaning of their own.
var placeholders = map[string]bool{
	"thing": true, "things": true, "one": true, "ones": true,
}

// Normalizer converts parse trees using the base forms of a lexicon.
type Normalizer struct {
	lex *lexicon.Lexicon
}

// New creates a Normalizer.
func New(lex *lexicon.Lexicon) *Normalizer {
	return &Normalizer{lex: lex}
}

// ToSentence converts a parsed sentence into an utterance. Sentences ending
// in a question mark are questions.
func (n *Normalizer) ToSentence(tree *grammar.Node) (logic.Utterance, error) {
	switch {
	case tree.Is(grammar.Interjection):
		word, err := n.leafBase(tree.Child(0), lexicon.Interjection)
		if err != nil {
			return logic.Utterance{}, err
		}
		return logic.Utterance{Kind: logic.Interjection, Word: word}, nil

	case tree.Is(grammar.BasicSentence):
		kind := logic.Declaration
		if end := tree.Child(3); end != nil && end.IsLeaf() && end.POS == lexicon.QuestionMark {
			kind = logic.Question
		}
		s, err := n.sentence(tree.Child(1), tree.Child(0), tree.Child(2))
		if err != nil {
			return logic.Utterance{}, err
		}
		return logic.Utterance{Kind: kind, Sentence: s}, nil

	case tree.Is(grammar.Question):
		s, err := n.sentence(tree.Child(0), tree.Child(1), tree.Child(2))
		if err != nil {
			return logic.Utterance{}, err
		}
		return logic.Utterance{Kind: logic.Question, Sentence: s}, nil
	}

	return logic.Utterance{}, malformed(tree, "sentence")
}

func (n *Normalizer) sentence(verbNode, subjectNode, objectNode *grammar.Node) (logic.Sentence, error) {
	verb, err := n.leafBase(verbNode, lexicon.Verb)
	if err != nil {
		return logic.Sentence{}, err
	}
	subject, err := n.ToClass(subjectNode, logic.All)
	if err != nil {
		return logic.Sentence{}, err
	}
	object, err := n.object(objectNode)
	if err != nil {
		return logic.Sentence{}, err
	}
	return logic.Sentence{Verb: verb, Subject: subject, Object: object}, nil
}

// object converts an optional object, which defaults to something.
func (n *Normalizer) object(node *grammar.Node) (logic.Class, error) {
	switch {
	case node.Is(grammar.None):
		return logic.Something(), nil
	case node.Is(grammar.Object):
		return n.ToClass(node.Child(0), logic.Some)
	}
	return logic.Class{}, malformed(node, "object")
}

// ToClass converts a parsed noun phrase. Phrases without a determiner take
// defaultQuantifier.
func (n *Normalizer) ToClass(np *grammar.Node, defaultQuantifier logic.Quantifier) (logic.Class, error) {
	switch {
	case np != nil && np.IsLeaf() && np.POS == lexicon.Pronoun:
		return logic.NewClass(logic.All, logic.Word(n.lex.BaseForm(np.Word, lexicon.Pronoun))), nil

	case np.Is(grammar.Determined):
		det := np.Child(0)
		q := defaultQuantifier
		var adjs []logic.Adjective

		switch {
		case det.Is(grammar.None):
		case det != nil && det.IsLeaf():
			base := n.lex.BaseForm(det.Word, det.POS)
			q = logic.Quantifier(base)
			if q != logic.Some && q != logic.All {
				// "my cat" is some cat of all of me.
				adjs = append(adjs, logic.Relation("of", logic.It, logic.NewClass(logic.All, logic.Word(base))))
				q = logic.Some
			}
		default:
			return logic.Class{}, malformed(det, "determiner")
		}

		adjs, err := n.modifiers(np, adjs)
		if err != nil {
			return logic.Class{}, err
		}
		return logic.Class{Quantifier: q, Adjectives: adjs}, nil

	case np.Is(grammar.ThingDetermined):
		base, err := n.leafBase(np.Child(0), lexicon.ThingDeterminer)
		if err != nil {
			return logic.Class{}, err
		}
		adjs, err := n.modifiers(np, nil)
		if err != nil {
			return logic.Class{}, err
		}
		return logic.Class{Quantifier: logic.Quantifier(base), Adjectives: adjs}, nil
	}

	return logic.Class{}, malformed(np, "noun phrase")
}

// modifiers appends the pre- and post-noun modifiers of a noun phrase.
func (n *Normalizer) modifiers(np *grammar.Node, adjs []logic.Adjective) ([]logic.Adjective, error) {
	pre, post := np.Child(1), np.Child(2)
	if !pre.Is(grammar.List) || !post.Is(grammar.List) {
		return nil, malformed(np, "modifier lists")
	}

	for _, mod := range pre.Children {
		if !mod.IsLeaf() {
			return nil, malformed(mod, "pre-noun modifier")
		}
		if placeholders[mod.Word] {
			continue
		}
		base := n.lex.BaseForm(mod.Word, mod.POS)
		switch mod.POS {
		case lexicon.Gerund:
			adjs = append(adjs, logic.Relation(base, logic.It, logic.Something()))
		case lexicon.PastParticiple:
			adjs = append(adjs, logic.Relation(base, logic.Something(), logic.It))
		default:
			adjs = append(adjs, logic.Word(base))
		}
	}

	for _, clause := range post.Children {
		var err error
		if adjs, err = n.clause(clause, adjs); err != nil {
			return nil, err
		}
	}

	return adjs, nil
}

func (n *Normalizer) clause(clause *grammar.Node, adjs []logic.Adjective) ([]logic.Adjective, error) {
	switch {
	case clause.Is(grammar.RelativeSubject):
		verb, err := n.leafBase(clause.Child(1), lexicon.Verb)
		if err != nil {
			return nil, err
		}
		object, err := n.object(clause.Child(2))
		if err != nil {
			return nil, err
		}
		return addRelation(adjs, logic.Sentence{Verb: verb, Subject: logic.It, Object: object}), nil

	case clause.Is(grammar.RelativeObject):
		subject, err := n.ToClass(clause.Child(1), logic.Some)
		if err != nil {
			return nil, err
		}
		verb, err := n.leafBase(clause.Child(2), lexicon.Verb)
		if err != nil {
			return nil, err
		}
		return addRelation(adjs, logic.Sentence{Verb: verb, Subject: subject, Object: logic.It}), nil

	case clause.Is(grammar.Prepositional):
		prep, err := n.leafBase(clause.Child(0), lexicon.Preposition)
		if err != nil {
			return nil, err
		}
		object, err := n.ToClass(clause.Child(1), logic.Some)
		if err != nil {
			return nil, err
		}
		return append(adjs, logic.Relation(prep, logic.It, object)), nil
	}

	return nil, malformed(clause, "post-noun modifier")
}

// addRelation appends a relative clause. A copular clause contributes the
// adjectives of its other side directly: "birds that are green" are green birds.
func addRelation(adjs []logic.Adjective, rel logic.Sentence) []logic.Adjective {
	if !rel.Copular() {
		return append(adjs, logic.Adjective{Relation: &rel})
	}
	if rel.Subject.It {
		adjs = append(adjs, rel.Object.Adjectives...)
	}
	if rel.Object.It {
		adjs = append(adjs, rel.Subject.Adjectives...)
	}
	return adjs
}

func (n *Normalizer) leafBase(node *grammar.Node, pos lexicon.POS) (string, error) {
	if node == nil || !node.IsLeaf() {
		return "", malformed(node, string(pos))
	}
	return n.lex.BaseForm(node.Word, pos), nil
}

func malformed(node *grammar.Node, want string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrMalformedTree, want, node)
}
