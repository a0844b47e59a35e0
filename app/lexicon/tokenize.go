package lexicon

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	rawTokenRe = regexp.MustCompile(`[a-zA-Z']+|\d[\d.,\s]*|[.,:;!?][.,:;!?\s]*`)
	wordRe     = regexp.MustCompile(`^[a-zA-Z']+$`)
	numberRe   = regexp.MustCompile(`^\d*\.?\d*`)
)

// Tokenize splits text into canonical tokens: lowercase words, numbers with
// grouping commas removed, and punctuation runs. A run starting with any of
// .:;! becomes "."; runs starting with "," or "?" keep only that mark.
// Anything else in the input is skipped.
func Tokenize(text string) []string {
	raw := rawTokenRe.FindAllString(text, -1)
	res := make([]string, 0, len(raw))
	for _, tok := range raw {
		res = append(res, canonical(tok))
	}
	return res
}

func canonical(tok string) string {
	tok = strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, tok))

	if wordRe.MatchString(tok) {
		return tok
	}

	switch tok[0] {
	case '.', ':', ';', '!':
		return "."
	case ',', '?':
		return tok[:1]
	}

	return canonicalNumber(strings.ReplaceAll(tok, ",", ""))
}

// canonicalNumber parses the longest numeric prefix, so "3.5." reads as 3.5.
func canonicalNumber(tok string) string {
	prefix := strings.TrimSuffix(numberRe.FindString(tok), ".")
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return tok
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isNumber(tok string) bool {
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}
