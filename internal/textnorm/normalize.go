// ABOUTME: Text normalization and tokenization shared by the index builder and router
// ABOUTME: Lowercases, strips punctuation and dashes, and filters a closed stop-word list
package textnorm

import (
	"strings"
	"unicode"
)

// stopWords is the closed list of tokens that never carry document identity.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "for": {}, "of": {}, "and": {}, "to": {}, "in": {}, "on": {},
	"vs": {}, "with": {}, "using": {}, "based": {}, "from": {}, "by": {}, "at": {}, "is": {},
	"are": {}, "this": {}, "that": {}, "into": {}, "as": {}, "via": {}, "be": {}, "we": {},
	"our": {}, "study": {}, "paper": {},
}

// IsStopWord reports whether tok is in the stop-word list
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}

// StopWords returns a copy of the stop-word list
func StopWords() []string {
	out := make([]string, 0, len(stopWords))
	for w := range stopWords {
		out = append(out, w)
	}
	return out
}

// Normalize lowercases s, turns dashes and anything that is not a letter,
// digit or whitespace into spaces, then collapses whitespace and trims.
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Pd, r):
			return ' '
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize normalizes s and returns its distinct non-stop-word tokens in
// first-seen order.
func Tokenize(s string) []string {
	fields := strings.Split(Normalize(s), " ")
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || IsStopWord(f) {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet returns Tokenize(s) as a set
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
