package lexicon

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// POS is a part-of-speech tag.
type POS string

const (
	Noun              POS = "noun"
	Verb              POS = "verb"
	Adjective         POS = "adjective"
	Adverb            POS = "adverb"
	Gerund            POS = "gerund"
	PastParticiple    POS = "past participle"
	Pronoun           POS = "pronoun"
	Determiner        POS = "determiner"
	ThingDeterminer   POS = "thing determiner"
	PossessivePronoun POS = "possessive pronoun"
	RelativePronoun   POS = "relative pronoun"
	Interjection      POS = "interjection"
	Preposition       POS = "preposition"
	Period            POS = "period"
	Comma             POS = "comma"
	QuestionMark      POS = "question mark"
	Number            POS = "number"
)

// Token is a canonical word, number or punctuation mark together with every
// part of speech it may have.
type Token struct {
	Word string
	Tags []POS
}

// Has reports whether the token may be used as pos.
func (t Token) Has(pos POS) bool {
	return pie.Contains(t.Tags, pos)
}

// String renders the token as word/tag/tag.
func (t Token) String() string {
	parts := make([]string, 0, len(t.Tags)+1)
	parts = append(parts, t.Word)
	for _, tag := range t.Tags {
		parts = append(parts, string(tag))
	}
	return strings.Join(parts, "/")
}
