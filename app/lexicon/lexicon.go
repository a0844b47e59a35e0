// Package lexicon maps surface words to part-of-speech tokens and base forms.
//
// A Lexicon is built once from a fixed table of closed-class words plus an
// open word list, and is read-only afterwards, so it may be shared freely.
package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"
)

//go:embed worddata.txt
var defaultWordData string

type baseKey struct {
	word string
	pos  POS
}

// Lexicon is an immutable word lookup table.
type Lexicon struct {
	tags  map[string][]POS
	bases map[baseKey]string
}

// Default returns a Lexicon built from the core table and the embedded word list.
func Default() *Lexicon {
	lex, err := Load(strings.NewReader(defaultWordData))
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded word data: %v", err))
	}
	return lex
}

// Load builds a Lexicon from the core table and a word list read from r.
//
// Each entry is "word base letters [base letters ...]", where letters are
// part-of-speech codes: n noun, v verb, a or s adjective, r adverb. Entries
// are separated by newlines or semicolons; blank lines and lines starting with
// # are ignored. Words already in the core table keep their core tags.
func Load(r io.Reader) (*Lexicon, error) {
	b := newBuilder()
	b.defineCore()

	core := make(map[string]bool, len(b.lex.tags))
	for word := range b.lex.tags {
		core[word] = true
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		for _, entry := range strings.Split(scanner.Text(), ";") {
			entry = strings.TrimSpace(entry)
			if entry == "" || strings.HasPrefix(entry, "#") {
				continue
			}

			fields := strings.Fields(strings.ToLower(entry))
			if len(fields) < 3 || len(fields)%2 == 0 {
				return nil, fmt.Errorf("line %d: malformed entry %q", lineNo, entry)
			}

			word := fields[0]
			if core[word] {
				continue
			}

			for j := len(fields) - 2; j >= 1; j -= 2 {
				base, letters := fields[j], fields[j+1]
				for _, pos := range inflectedTags(word, base, letters) {
					b.define(word, pos, base)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word data: %w", err)
	}

	return b.lex, nil
}

// Lookup returns the token for a canonical word, number or punctuation mark.
// Unknown words get guessed tags.
func (l *Lexicon) Lookup(word string) Token {
	switch {
	case isNumber(word):
		return Token{Word: word, Tags: []POS{Number}}
	case word == ".":
		return Token{Word: word, Tags: []POS{Period}}
	case word == ",":
		return Token{Word: word, Tags: []POS{Comma}}
	case word == "?":
		return Token{Word: word, Tags: []POS{QuestionMark}}
	}

	if tags, ok := l.tags[word]; ok {
		return Token{Word: word, Tags: append([]POS(nil), tags...)}
	}

	return Token{Word: word, Tags: Guess(word)}
}

// Known reports whether Lookup resolves word without guessing its tags.
func (l *Lexicon) Known(word string) bool {
	switch {
	case isNumber(word), word == ".", word == ",", word == "?":
		return true
	}
	_, ok := l.tags[word]
	return ok
}

// BaseForm returns the base form of word used as pos, or the word itself.
func (l *Lexicon) BaseForm(word string, pos POS) string {
	if base, ok := l.bases[baseKey{word: word, pos: pos}]; ok {
		return base
	}
	return word
}

// Tokens tokenizes text and looks every token up.
func (l *Lexicon) Tokens(text string) []Token {
	words := Tokenize(text)
	res := make([]Token, 0, len(words))
	for _, w := range words {
		res = append(res, l.Lookup(w))
	}
	return res
}

// Size returns the number of distinct words with an entry.
func (l *Lexicon) Size() int {
	return len(l.tags)
}

// Guess tags a word that has no entry from its suffix alone.
func Guess(word string) []POS {
	switch {
	case strings.HasSuffix(word, "ing"):
		return []POS{Gerund}
	case strings.HasSuffix(word, "ed"), strings.HasSuffix(word, "en"), strings.HasSuffix(word, "nt"):
		return []POS{PastParticiple, Verb}
	}

	res := []POS{Noun, Verb, Adjective}
	if strings.HasSuffix(word, "ly") {
		res = append(res, Adverb)
	}
	return res
}

// inflectedTags derives the tags of word from the tag letters of its base.
func inflectedTags(word, base, letters string) []POS {
	var res []POS
	seen := map[rune]bool{}

	for _, letter := range letters {
		if letter == 's' {
			letter = 'a'
		}
		if seen[letter] {
			continue
		}
		seen[letter] = true

		switch letter {
		case 'n':
			res = append(res, Noun)
		case 'v':
			switch {
			case word == base:
				res = append(res, Verb)
			case strings.HasSuffix(word, "ing"):
				res = append(res, Gerund)
			case strings.HasSuffix(word, "ed"), strings.HasSuffix(word, "en"),
				strings.HasSuffix(word, "nt"), strings.HasSuffix(word, "own"):
				res = append(res, PastParticiple, Verb)
			default:
				res = append(res, Verb)
			}
		case 'a':
			res = append(res, Adjective)
		case 'r':
			res = append(res, Adverb)
		}
	}

	return res
}
