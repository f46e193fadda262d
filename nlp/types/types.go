package types

import (
	"math"
	"reflect"

	"depbeam/util"
)

const (
	ROOT_TOKEN = "ROOT"
	ROOT_POS   = "ROOT"
	ROOT_LABEL = "ROOT"
)

type TaggedToken struct {
	Token, Lemma, POS string
	// position in the rooted sentence, 0 is reserved for the root
	Index int
	// number of atomic units covered by a compound token; 0 is read as 1
	AtomicParts int
	// tagger confidence, 0 is read as 1
	Probability float64
}

func (t TaggedToken) Atoms() int {
	if t.AtomicParts < 1 {
		return 1
	}
	return t.AtomicParts
}

func (t TaggedToken) IsRoot() bool {
	return t.Index == 0 && t.POS == ROOT_POS
}

func (t TaggedToken) String() string {
	return t.Token + "|" + t.POS
}

type Sentence interface {
	util.Equaler
	Tokens() []string
}

type TaggedSentence interface {
	Sentence
	TaggedTokens() []TaggedToken
}

type BasicTaggedSentence []TaggedToken

var _ TaggedSentence = BasicTaggedSentence{}

func (b BasicTaggedSentence) Tokens() []string {
	tokens := make([]string, len(b))
	for i, token := range b {
		tokens[i] = token.Token
	}
	return tokens
}

func (b BasicTaggedSentence) TaggedTokens() []TaggedToken {
	return []TaggedToken(b)
}

func (b BasicTaggedSentence) Equal(otherEq util.Equaler) bool {
	asTagged, ok := otherEq.(BasicTaggedSentence)
	return ok && reflect.DeepEqual(b, asTagged)
}

// Rooted returns the token arena a parse indexes into: the synthetic root at
// position 0 followed by the sentence tokens, renumbered 1..n.
func Rooted(s TaggedSentence) []TaggedToken {
	tokens := s.TaggedTokens()
	arena := make([]TaggedToken, len(tokens)+1)
	arena[0] = TaggedToken{Token: ROOT_TOKEN, Lemma: ROOT_TOKEN, POS: ROOT_POS, Index: 0, AtomicParts: 1, Probability: 1}
	for i, token := range tokens {
		token.Index = i + 1
		arena[i+1] = token
	}
	return arena
}

// AtomicTokenCount sums the atomic parts of all non-root tokens.
func AtomicTokenCount(s TaggedSentence) int {
	var count int
	for _, token := range s.TaggedTokens() {
		count += token.Atoms()
	}
	return count
}

// TagScore is the geometric mean of the tagger probabilities.
func TagScore(s TaggedSentence) float64 {
	tokens := s.TaggedTokens()
	if len(tokens) == 0 {
		return 1.0
	}
	var logSum float64
	for _, token := range tokens {
		p := token.Probability
		if p <= 0 {
			p = 1
		}
		logSum += math.Log(p)
	}
	return math.Exp(logSum / float64(len(tokens)))
}
