package tfidf

import (
	"regexp"
	"strings"
)

// minTokenLen is the minimum length of a token kept by Tokenize.
const minTokenLen = 3

// stopWords are terms carrying no retrieval signal: articles,
// prepositions, auxiliaries, HTML entity fragments, and catalogue
// filler that appears in nearly every package description.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"been": {}, "has": {}, "have": {}, "had": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "such": {}, "your": {},
	"our": {}, "you": {}, "they": {}, "their": {}, "them": {}, "she": {},
	"his": {}, "her": {}, "all": {}, "each": {}, "every": {}, "any": {},
	"not": {}, "but": {}, "than": {}, "then": {}, "also": {}, "just": {},
	"only": {}, "very": {}, "more": {}, "most": {}, "out": {}, "into": {},
	"over": {}, "after": {}, "before": {}, "through": {}, "during": {},
	"about": {}, "between": {}, "under": {}, "again": {}, "where": {},
	"when": {}, "how": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "why": {}, "can": {}, "may": {}, "must": {}, "shall": {},
	"get": {}, "got": {}, "make": {}, "made": {}, "take": {}, "took": {},
	"come": {}, "see": {}, "look": {}, "give": {}, "know": {},
	"think": {}, "tell": {}, "let": {}, "with": {}, "from": {},
	"its": {}, "strong": {}, "nbsp": {}, "amp": {}, "quot": {},
	"one": {}, "two": {}, "three": {}, "day": {}, "days": {},
	"night": {}, "nights": {}, "hotel": {}, "accommodation": {},
	"breakfast": {}, "included": {}, "including": {}, "includes": {},
	"per": {}, "person": {}, "package": {}, "trip": {}, "travel": {},
	"journey": {}, "experience": {},
}

var (
	markupRe = regexp.MustCompile(`<[^>]+>`)
	wordRe   = regexp.MustCompile(`[a-z]{3,}`)
)

// Tokenize normalizes text into a stream of index terms: markup is
// stripped, the text is lower-cased, alphabetic runs of at least three
// characters are extracted, and stop words are removed. The result may
// be empty; Tokenize never fails.
func Tokenize(text string) []string {
	clean := markupRe.ReplaceAllString(text, " ")
	words := wordRe.FindAllString(strings.ToLower(clean), -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minTokenLen {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
