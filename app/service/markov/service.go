package markov

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"logicbot/app/config"
	"logicbot/app/lexicon"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const (
	boundary = "."
	maxOrder = 2
	// maxWords caps each half of a generated sentence; chains may cycle.
	maxWords = 24
	sep      = "\x00"
)

var swaps = map[string]string{
	"i":      "you",
	"you":    "i",
	"me":     "you",
	"myself": "yourself",
}

// Service hands out flavor text chains, one per conversation.
type Service struct {
	seed   uint64
	chains atomic.Uint64
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	seed := cfg.Chat.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Service{seed: seed}, nil
}

// NewChain creates an empty chain. Chains made by a service with a fixed seed
// generate the same text for the same input, in creation order.
func (s *Service) NewChain() *Chain {
	return NewChain(rand.New(rand.NewPCG(s.seed, s.chains.Add(1))))
}

// Chain generates sentences that continue words it has seen, walking word
// n-grams of order one and two forwards and backwards.
//
// A Chain is not safe for concurrent use.
type Chain struct {
	rng      *rand.Rand
	forward  map[string][]string
	backward map[string][]string
}

func NewChain(rng *rand.Rand) *Chain {
	return &Chain{
		rng:      rng,
		forward:  map[string][]string{},
		backward: map[string][]string{},
	}
}

func key(words ...string) string {
	return strings.Join(words, sep)
}

func words(text string) []string {
	tokens := pie.Filter(lexicon.Tokenize(text), func(tok string) bool {
		return tok != ","
	})
	for i, tok := range tokens {
		if tok == "?" {
			tokens[i] = boundary
		}
	}
	return tokens
}

// Learn adds the word sequences of text.
func (c *Chain) Learn(text string) {
	tokens := append([]string{boundary}, words(text)...)
	if tokens[len(tokens)-1] != boundary {
		tokens = append(tokens, boundary)
	}

	for order := 1; order <= maxOrder; order++ {
		for i := 1; i+order < len(tokens); i++ {
			k := key(tokens[i : i+order]...)
			c.forward[k] = append(c.forward[k], tokens[i+order])
		}

		for i := len(tokens) - 1; i-order >= 0; i-- {
			from := make([]string, order)
			for j := range order {
				from[j] = tokens[i-j]
			}
			k := key(from...)
			c.backward[k] = append(c.backward[k], tokens[i-order])
		}
	}
}

// Generate makes up a sentence around a random word of text that the chain
// has seen. It returns "" when there is none.
func (c *Chain) Generate(text string) string {
	seen := pie.Filter(words(text), func(w string) bool {
		_, ok := c.forward[w]
		return ok && w != boundary
	})
	if len(seen) == 0 {
		return ""
	}

	src := seen[c.rng.IntN(len(seen))]

	tail := c.walk(c.forward, src)
	head := c.walk(c.backward, src)

	out := make([]string, 0, len(head)+1+len(tail))
	for i := len(head) - 1; i >= 0; i-- {
		out = append(out, swap(head[i]))
	}
	out = append(out, swap(src))
	for _, w := range tail {
		out = append(out, swap(w))
	}

	return strings.Join(out, " ") + "."
}

// walk follows m from src until a sentence boundary, preferring the order
// two continuation of the last two words.
func (c *Chain) walk(m map[string][]string, src string) []string {
	var out []string

	prev := src
	next, ok := c.pick(m[src])
	for ok && next != boundary && len(out) < maxWords {
		out = append(out, next)
		k := key(prev, next)
		prev = next
		next, ok = c.pick(m[k])
	}

	return out
}

func (c *Chain) pick(options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	return options[c.rng.IntN(len(options))], true
}

func swap(w string) string {
	if s, ok := swaps[w]; ok {
		return s
	}
	return w
}
