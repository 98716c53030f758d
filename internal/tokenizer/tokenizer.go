package tokenizer

import (
	"regexp"
	"strings"
)

// Tokenizer supplies sentence and word boundaries to the analyzer. The
// exact boundary rules are owned by the implementation; the analyzer only
// relies on ordered, case-preserving output.
type Tokenizer interface {
	Sentences(text string) []string
	Words(text string) []string
}

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
	wordRe     = regexp.MustCompile(`[A-Za-z0-9]+(?:'[A-Za-z]+)?|[^\sA-Za-z0-9]`)
)

type regexTokenizer struct{}

func New() Tokenizer {
	return regexTokenizer{}
}

func (regexTokenizer) Sentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

// Words returns word tokens plus standalone punctuation tokens, the way a
// treebank-style tokenizer would. Contractions stay in one token.
func (regexTokenizer) Words(text string) []string {
	return wordRe.FindAllString(text, -1)
}
