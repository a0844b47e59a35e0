// Package logic holds the quantified logical form of sentences and the Brain
// that learns them and answers entailment queries.
package logic

import (
	"slices"
	"strings"
)

// Be is the copular verb.
const Be = "be"

// Quantifier is the determiner of a Class.
type Quantifier string

const (
	Some Quantifier = "some"
	All  Quantifier = "all"
)

// Class is a quantified description of an entity, or the self-reference it.
type Class struct {
	It         bool
	Quantifier Quantifier
	Adjectives []Adjective
}

// It refers to the entity the enclosing relation is about.
var It = Class{It: true}

// Something is the existential class without adjectives.
func Something() Class {
	return Class{Quantifier: Some}
}

// NewClass returns a quantified class.
func NewClass(q Quantifier, adjs ...Adjective) Class {
	return Class{Quantifier: q, Adjectives: adjs}
}

// Universal reports whether c quantifies over everything it describes.
func (c Class) Universal() bool {
	return !c.It && c.Quantifier == All
}

func (c Class) write(b *strings.Builder) {
	if c.It {
		b.WriteString("it")
		return
	}
	b.WriteByte('[')
	b.WriteString(string(c.Quantifier))
	b.WriteByte(',')
	writeAdjectives(b, c.Adjectives)
	b.WriteByte(']')
}

func (c Class) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

// Adjective is a bare descriptor such as "green", or a relation in which one
// side is usually It, such as "flies" or "that cats chase".
type Adjective struct {
	Word     string
	Relation *Sentence
}

// Word returns a bare descriptor.
func Word(w string) Adjective {
	return Adjective{Word: w}
}

// Relation returns a relational adjective.
func Relation(verb string, subject, object Class) Adjective {
	return Adjective{Relation: &Sentence{Verb: verb, Subject: subject, Object: object}}
}

// IsRelation reports whether a is relational.
func (a Adjective) IsRelation() bool {
	return a.Relation != nil
}

// Key is the canonical form of a; structurally equal adjectives share a key.
func (a Adjective) Key() string {
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a Adjective) String() string {
	return a.Key()
}

func (a Adjective) write(b *strings.Builder) {
	if a.Relation != nil {
		a.Relation.write(b)
		return
	}
	b.WriteString(a.Word)
}

func writeAdjectives(b *strings.Builder, adjs []Adjective) {
	b.WriteByte('[')
	for i, a := range adjs {
		if i > 0 {
			b.WriteByte(',')
		}
		a.write(b)
	}
	b.WriteByte(']')
}

// AdjectivesKey is the canonical form of an adjective sequence.
func AdjectivesKey(adjs []Adjective) string {
	var b strings.Builder
	writeAdjectives(&b, adjs)
	return b.String()
}

// Sentence is a verb applied to a subject and an object.
type Sentence struct {
	Verb    string
	Subject Class
	Object  Class
}

// Copular reports whether s is a "be" sentence.
func (s Sentence) Copular() bool {
	return s.Verb == Be
}

// Arg returns the subject for 0 and the object for 1.
func (s Sentence) Arg(i int) Class {
	if i == 0 {
		return s.Subject
	}
	return s.Object
}

// WithIt returns s with argument i replaced by It.
func (s Sentence) WithIt(i int) Sentence {
	if i == 0 {
		s.Subject = It
	} else {
		s.Object = It
	}
	return s
}

// Key is the canonical form of s.
func (s Sentence) Key() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Sentence) String() string {
	return s.Key()
}

func (s Sentence) write(b *strings.Builder) {
	b.WriteByte('[')
	b.WriteString(s.Verb)
	b.WriteByte(',')
	s.Subject.write(b)
	b.WriteByte(',')
	s.Object.write(b)
	b.WriteByte(']')
}

// Kind is the kind of a top-level utterance.
type Kind int

const (
	Interjection Kind = iota
	Declaration
	Question
)

func (k Kind) String() string {
	switch k {
	case Interjection:
		return "interjection"
	case Declaration:
		return "declaration"
	case Question:
		return "question"
	default:
		return "unknown"
	}
}

// Utterance is an interjection word, or a sentence that is declared or asked.
type Utterance struct {
	Kind     Kind
	Word     string
	Sentence Sentence
}

func (u Utterance) String() string {
	if u.Kind == Interjection {
		return "[interjection," + u.Word + "]"
	}
	return "[" + u.Kind.String() + "," + u.Sentence.String() + "]"
}

func concat(a, b []Adjective) []Adjective {
	return slices.Concat(a, b)
}
