// Package knowledge answers "why" questions from a static business brief by
// lexical containment match. This is deliberately not an embedding index; the
// limitation is part of the system's contract.
package knowledge

import (
	"os"
	"strings"
)

// defaultBrief is the embedded ShopEase business brief. The first section is
// the fallback when nothing matches.
const defaultBrief = `ShopEase is a mid-size e-commerce platform in India operating both D2C and marketplace models across Electronics, Fashion, Home & Kitchen, and Beauty.

Leadership is concerned about increasing customer churn and declining repeat purchase rates, particularly from paid acquisition channels. This is the central problem under investigation.

Leadership suspects poor delivery experience, discount dependency, and low post-purchase engagement are the main contributing factors to churn.

The marketing budget is capped and heavy discounting is discouraged; any fix has to come from operational or engagement improvements, not from spending more.`

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "for": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"do": {}, "does": {}, "did": {}, "why": {}, "what": {}, "how": {},
	"who": {}, "our": {}, "we": {}, "me": {}, "my": {}, "you": {}, "it": {},
	"due": {}, "about": {}, "tell": {}, "show": {}, "with": {}, "from": {},
}

// Base holds the brief split into ordered sections.
type Base struct {
	sections []string
}

// Default returns a base over the embedded ShopEase brief.
func Default() *Base {
	return Parse(defaultBrief)
}

// Parse splits a brief into sections on blank lines. Empty input yields an
// empty base whose Retrieve always returns "".
func Parse(document string) *Base {
	var sections []string
	for _, block := range strings.Split(document, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			sections = append(sections, block)
		}
	}
	return &Base{sections: sections}
}

// LoadFile parses a brief from disk.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Retrieve returns every section containing at least one query keyword, in
// section order, joined by newlines. When nothing matches it falls back to
// the first section; an empty base returns "". Deterministic for identical
// inputs.
func (b *Base) Retrieve(query string) string {
	if b == nil || len(b.sections) == 0 {
		return ""
	}

	keywords := Keywords(query)

	var matched []string
	for _, section := range b.sections {
		lower := strings.ToLower(section)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, section)
				break
			}
		}
	}

	if len(matched) == 0 {
		return b.sections[0]
	}
	return strings.Join(matched, "\n")
}

// Retrieve is the standalone form: match query keywords against an ad-hoc
// document instead of a prebuilt base.
func Retrieve(query, document string) string {
	return Parse(document).Retrieve(query)
}

// Keywords tokenizes a query into lowercase keywords, dropping stop words
// and short tokens. Plural endings are trimmed so "deliveries" still matches
// "delivery" in the brief.
func Keywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var keywords []string
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		f = singular(f)
		if len(f) < 3 {
			continue
		}
		keywords = append(keywords, f)
	}
	return keywords
}

func singular(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}
