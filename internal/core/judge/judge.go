// Package judge re-derives edge validity from the two endpoint records alone.
package judge

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agenthands/lexigraph/internal/core/model"
)

// Verdict is the judgment of one edge. Directional reports whether the relation carries a
// source-to-target direction at all; DirectionOK is meaningful only when it does.
type Verdict struct {
	Strict      bool `json:"strict" yaml:"strict"`
	Lenient     bool `json:"lenient" yaml:"lenient"`
	Directional bool `json:"directional" yaml:"directional"`
	DirectionOK bool `json:"direction_ok" yaml:"direction_ok"`
}

var (
	wordRE = regexp.MustCompile(`[A-Za-z']+`)
	folder = cases.Fold()
)

// Judge applies the strict and lenient rule sets for the edge's relation. Missing endpoints
// are passed as zero Entity values.
func Judge(e model.Edge, source, target model.Entity) Verdict {
	ts := strings.ToLower(string(source.Type))
	tt := strings.ToLower(string(target.Type))
	bothVocab := ts == string(model.VocabularyEntry) && tt == string(model.VocabularyEntry)
	bothGrammar := ts == string(model.GrammarPattern) && tt == string(model.GrammarPattern)
	vocabToGrammar := ts == string(model.VocabularyEntry) && tt == string(model.GrammarPattern)

	var v Verdict
	switch e.Relation.Kind {
	case model.RelationExampleOccurrence:
		v.Strict = vocabToGrammar && strings.Contains(target.Ex, source.Label)
		v.Lenient = vocabToGrammar
		v.Directional = true
		v.DirectionOK = vocabToGrammar
	case model.RelationPartOfSpeech:
		v.Strict = bothVocab && source.POS != "" && target.POS != ""
		v.Lenient = bothVocab
	case model.RelationVocabLevel:
		v.Strict = bothVocab && source.HasTag(e.Relation.Key) && target.HasTag(e.Relation.Key)
		v.Lenient = bothVocab
	case model.RelationGrammarLevel:
		v.Strict = bothGrammar && source.HasTag(e.Relation.Key) && target.HasTag(e.Relation.Key)
		v.Lenient = bothGrammar
	case model.RelationTag:
		v.Strict = source.HasTag(e.Relation.Key) && target.HasTag(e.Relation.Key)
		v.Lenient = true
	case model.RelationSemanticSimilarity:
		overlap := Overlap(source.En, target.En)
		v.Strict = bothVocab && overlap >= 2
		v.Lenient = bothVocab && overlap >= 1
	default:
		v.Strict = ts == tt || vocabToGrammar
		v.Lenient = true
	}
	return v
}

// Tokens returns the case-folded alphabetic words of s.
func Tokens(s string) map[string]bool {
	words := wordRE.FindAllString(s, -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[folder.String(w)] = true
	}
	return set
}

// Overlap counts the distinct words a and b share.
func Overlap(a, b string) int {
	ta, tb := Tokens(a), Tokens(b)
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	n := 0
	for w := range ta {
		if tb[w] {
			n++
		}
	}
	return n
}
