package logic

import (
	"context"
	"slices"
	"time"

	"github.com/elliotchance/pie/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NoBudget disables the wall-clock limit of a query.
const NoBudget time.Duration = -1

type implication struct {
	requires []Adjective
	implies  []Adjective
}

// Stats counts what a Brain has learned.
type Stats struct {
	Implications   int
	ExistenceFacts int
	Asserted       int
}

// Brain stores implications between adjective sequences and the adjective
// sequences known to describe something that exists.
//
// A Brain is not safe for concurrent use; each conversation owns its own.
type Brain struct {
	implications    []implication
	implicationKeys map[string]struct{}
	exists          *orderedmap.OrderedMap[string, []Adjective]
	asserted        map[string]struct{}
	now             func() time.Time
}

// Option configures a Brain.
type Option func(*Brain)

// WithClock replaces the clock used for query deadlines.
func WithClock(now func() time.Time) Option {
	return func(b *Brain) {
		b.now = now
	}
}

// NewBrain creates an empty Brain.
func NewBrain(opts ...Option) *Brain {
	b := &Brain{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// Reset forgets everything.
func (b *Brain) Reset() {
	b.implications = nil
	b.implicationKeys = map[string]struct{}{}
	b.exists = orderedmap.New[string, []Adjective]()
	b.asserted = map[string]struct{}{}
}

// Stats returns the size of the knowledge base.
func (b *Brain) Stats() Stats {
	return Stats{
		Implications:   len(b.implications),
		ExistenceFacts: b.exists.Len(),
		Asserted:       len(b.asserted),
	}
}

// AddKnowledge learns that s is true.
func (b *Brain) AddKnowledge(s Sentence) {
	b.asserted[s.Key()] = struct{}{}

	if s.Copular() {
		if s.Subject.Universal() {
			b.addImplication(s.Subject.Adjectives, s.Object.Adjectives)
		}
		if s.Object.Universal() {
			b.addImplication(s.Object.Adjectives, s.Subject.Adjectives)
		}
		b.addExists(concat(s.Subject.Adjectives, s.Object.Adjectives))
		return
	}

	for i := range 2 {
		arg := s.Arg(i)
		if arg.It {
			continue
		}
		implied := s.WithIt(i)
		rel := Adjective{Relation: &implied}
		if arg.Universal() {
			b.addImplication(arg.Adjectives, []Adjective{rel})
		}
		b.addExists(concat(arg.Adjectives, []Adjective{rel}))
	}
}

// Knows reports whether s follows from what the Brain has learned, searching
// with iterative deepening up to maxDepth. The search gives up, answering
// false, when budget elapses or ctx is done. A zero budget is already
// elapsed; NoBudget removes the limit. A sentence that was itself learned is
// always known.
func (b *Brain) Knows(ctx context.Context, s Sentence, maxDepth int, budget time.Duration) bool {
	if _, ok := b.asserted[s.Key()]; ok {
		return true
	}

	q := b.newQuery(ctx, budget)
	for depth := 0; depth <= maxDepth; depth++ {
		if !q.hasTime() {
			return false
		}
		if q.knowsBasic(s, depth) {
			return true
		}
	}
	return false
}

func (b *Brain) addImplication(requires, implies []Adjective) {
	key := AdjectivesKey(requires) + "=>" + AdjectivesKey(implies)
	if _, ok := b.implicationKeys[key]; ok {
		return
	}
	b.implicationKeys[key] = struct{}{}
	b.implications = append(b.implications, implication{
		requires: slices.Clone(requires),
		implies:  slices.Clone(implies),
	})
}

func (b *Brain) addExists(adjs []Adjective) {
	key := AdjectivesKey(adjs)
	if _, ok := b.exists.Get(key); ok {
		return
	}
	b.exists.Set(key, slices.Clone(adjs))
}

// query is the state of one Knows call.
type query struct {
	brain    *Brain
	ctx      context.Context
	deadline time.Time
	limited  bool
	expired  bool
}

func (b *Brain) newQuery(ctx context.Context, budget time.Duration) *query {
	q := &query{brain: b, ctx: ctx}
	switch {
	case budget == 0:
		q.expired = true
	case budget > 0:
		q.limited = true
		q.deadline = b.now().Add(budget)
	}
	return q
}

func (q *query) hasTime() bool {
	if q.expired {
		return false
	}
	if q.ctx.Err() != nil || (q.limited && q.brain.now().After(q.deadline)) {
		q.expired = true
		return false
	}
	return true
}

func (q *query) knowsBasic(s Sentence, depth int) bool {
	if s.Copular() {
		switch {
		case s.Subject.Universal():
			return q.adjectivesImply(s.Subject.Adjectives, s.Object.Adjectives, depth)
		case s.Object.Universal():
			return q.adjectivesImply(s.Object.Adjectives, s.Subject.Adjectives, depth)
		}
		return q.knowsExists(concat(s.Subject.Adjectives, s.Object.Adjectives), depth)
	}

	for i := range 2 {
		if arg := s.Arg(i); arg.Universal() {
			implied := s.WithIt(i)
			return q.adjectivesImply(arg.Adjectives, []Adjective{{Relation: &implied}}, depth)
		}
	}

	for i := range 2 {
		if !q.hasTime() {
			return false
		}
		arg := s.Arg(i)
		if arg.It {
			continue
		}
		implied := s.WithIt(i)
		if q.knowsExists(concat(arg.Adjectives, []Adjective{{Relation: &implied}}), depth) {
			return true
		}
	}
	return false
}

// adjectivesImply forward-chains from implier through the stored
// implications until everything in implied is known or nothing new follows.
func (q *query) adjectivesImply(implier, implied []Adjective, depth int) bool {
	if depth < 0 {
		return false
	}

	known := orderedmap.New[string, Adjective]()
	for _, a := range implier {
		known.Set(a.Key(), a)
	}

	// Bare descriptors are known by equality, relations by implication from a
	// known relation one level deeper.
	isKnown := func(x Adjective) bool {
		if !q.hasTime() {
			return false
		}
		if !x.IsRelation() {
			_, ok := known.Get(x.Key())
			return ok
		}
		for pair := known.Oldest(); pair != nil; pair = pair.Next() {
			if !q.hasTime() {
				return false
			}
			if pair.Value.IsRelation() && q.sentenceImplies(*pair.Value.Relation, *x.Relation, depth-1) {
				return true
			}
		}
		return false
	}

	allKnown := func(adjs []Adjective) bool {
		return pie.All(adjs, isKnown)
	}

	for q.hasTime() {
		if allKnown(implied) {
			return true
		}

		added := false
		for _, imp := range q.brain.implications {
			if !q.hasTime() {
				return false
			}
			if !allKnown(imp.requires) {
				continue
			}
			for _, c := range imp.implies {
				if !q.hasTime() {
					return false
				}
				key := c.Key()
				if _, present := known.Get(key); present || isKnown(c) {
					continue
				}
				known.Set(key, c)
				added = true
			}
		}

		if !added {
			return false
		}
	}
	return false
}

// knowsExists reports whether something satisfying every adjective is known
// to exist. Nothing at all, or a single bare descriptor, is assumed to exist.
func (q *query) knowsExists(adjs []Adjective, depth int) bool {
	if depth < 0 {
		return false
	}
	if len(adjs) == 0 || (len(adjs) == 1 && !adjs[0].IsRelation()) {
		return true
	}

	// Entailment checks below record new existence facts.
	facts := make([][]Adjective, 0, q.brain.exists.Len())
	for pair := q.brain.exists.Oldest(); pair != nil; pair = pair.Next() {
		facts = append(facts, pair.Value)
	}

	for _, fact := range facts {
		if !q.hasTime() {
			return false
		}
		if q.adjectivesImply(fact, adjs, depth) {
			return true
		}
	}
	return false
}

// classImplies reports whether a relation holding for a also holds for b.
func (q *query) classImplies(a, b Class, depth int) bool {
	if depth < 0 {
		return false
	}
	if a.It {
		return b.It
	}
	if b.It {
		return false
	}

	// Anything talked about is assumed to exist.
	q.brain.addExists(a.Adjectives)
	q.brain.addExists(b.Adjectives)

	if a.Quantifier == Some {
		if b.Quantifier == All {
			return false
		}
		return q.adjectivesImply(a.Adjectives, b.Adjectives, depth)
	}
	if b.Quantifier == All {
		return q.adjectivesImply(b.Adjectives, a.Adjectives, depth)
	}
	return q.knowsExists(concat(a.Adjectives, b.Adjectives), depth)
}

func (q *query) sentenceImplies(a, b Sentence, depth int) bool {
	if depth < 0 || a.Verb != b.Verb {
		return false
	}
	return q.classImplies(a.Subject, b.Subject, depth) &&
		q.classImplies(a.Object, b.Object, depth)
}
