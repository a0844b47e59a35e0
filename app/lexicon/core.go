package lexicon

type builder struct {
	lex *Lexicon
}

func newBuilder() *builder {
	return &builder{lex: &Lexicon{
		tags:  map[string][]POS{},
		bases: map[baseKey]string{},
	}}
}

func (b *builder) define(word string, pos POS, base string) {
	b.lex.bases[baseKey{word: word, pos: pos}] = base

	tags := b.lex.tags[word]
	for _, t := range tags {
		if t == pos {
			return
		}
	}
	b.lex.tags[word] = append(tags, pos)
}

// group is a base form followed by the words that share it. The base itself
// is only defined when it is repeated among the words.
type group []string

func same(word string) group {
	return group{word, word}
}

func (b *builder) defineGroups(pos POS, groups ...group) {
	for _, g := range groups {
		for _, word := range g[1:] {
			b.define(word, pos, g[0])
		}
	}
}

func (b *builder) defineCore() {
	b.defineGroups(Pronoun,
		group{"i", "i", "me", "myself"},
		same("you"),
		group{"he", "he", "him", "himself"},
		group{"she", "she", "her", "herself"},
		group{"it", "it", "itself"},
		group{"they", "they", "themself", "themselves"},
		group{"we", "we", "us", "ourselves"},
		group{"who", "who", "whom"},
		same("what"),
		same("this"),
		same("that"),
	)
	b.defineGroups(Determiner,
		group{"some", "some", "a", "an", "the"},
		group{"all", "all", "every", "each"},
	)
	b.defineGroups(ThingDeterminer,
		group{"some", "something", "someone", "somebody"},
		group{"all", "everything", "everyone", "everybody"},
	)
	b.defineGroups(PossessivePronoun,
		group{"i", "my"},
		group{"you", "your"},
		group{"he", "his"},
		group{"she", "her"},
		group{"it", "its"},
		group{"they", "their"},
		group{"we", "our"},
	)
	b.defineGroups(Verb,
		group{"be", "is", "am", "are", "were", "was"},
		group{"have", "have", "has"},
	)
	b.defineGroups(RelativePronoun,
		group{"that", "that", "which", "who", "whom"},
	)
	b.defineGroups(Interjection,
		group{"hi", "hi", "hello", "hey", "sup", "yo"},
		group{"bye", "bye", "goodbye"},
		group{"yay", "yay", "hooray", "yipee", "whoo", "woot"},
		group{"yes", "yes", "yep", "yeah"},
		group{"no", "no", "nope", "nah", "nay"},
		group{"darn", "darn", "drat", "damn"},
		same("reset"),
		same("forget"),
	)
	b.defineGroups(Preposition,
		group{"in", "in", "inside", "within", "at"},
		same("outside"),
		group{"over", "over", "above", "on", "upon"},
		group{"under", "under", "beneath", "underneath"},
		same("of"),
		same("with"),
		same("about"),
		group{"after", "after", "beyond", "past"},
		same("before"),
		group{"among", "among", "between"},
		group{"by", "by", "near"},
		same("for"),
		group{"through", "through", "via"},
	)
}
