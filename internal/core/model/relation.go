package model

import (
	"encoding/json"
	"strings"
)

// RelationKind is the heuristic family an edge came from.
type RelationKind int

const (
	RelationUnknown RelationKind = iota
	RelationGrammarLevel
	RelationVocabLevel
	RelationPartOfSpeech
	RelationTag
	RelationExampleOccurrence
	RelationSemanticSimilarity
)

const (
	prefixGrammarLevel     = "jlpt_grammar:"
	prefixVocabLevel       = "jlpt_vocab:"
	prefixPartOfSpeech     = "pos:"
	prefixTag              = "tag:"
	nameExampleOccurrence  = "appears_in_example"
	nameSemanticSimilarity = "semantic_similarity"
)

func (k RelationKind) String() string {
	switch k {
	case RelationGrammarLevel:
		return "grammar_level"
	case RelationVocabLevel:
		return "vocab_level"
	case RelationPartOfSpeech:
		return "part_of_speech"
	case RelationTag:
		return "tag"
	case RelationExampleOccurrence:
		return "example_occurrence"
	case RelationSemanticSimilarity:
		return "semantic_similarity"
	}
	return "unknown"
}

// Relation is the decoded form of an edge's relation label.
//
// Key carries the level, part of speech or tag for the keyed kinds. For
// ExampleOccurrence and SemanticSimilarity it holds whatever followed the family name
// (normally nothing), and for RelationUnknown the whole raw label, so String always
// reproduces the label the relation was parsed from.
type Relation struct {
	Kind RelationKind
	Key  string
}

func GrammarLevel(level string) Relation {
	return Relation{Kind: RelationGrammarLevel, Key: level}
}

func VocabLevel(tag string) Relation {
	return Relation{Kind: RelationVocabLevel, Key: tag}
}

func PartOfSpeech(pos string) Relation {
	return Relation{Kind: RelationPartOfSpeech, Key: pos}
}

func Tag(tag string) Relation {
	return Relation{Kind: RelationTag, Key: tag}
}

func ExampleOccurrence() Relation {
	return Relation{Kind: RelationExampleOccurrence}
}

func SemanticSimilarity() Relation {
	return Relation{Kind: RelationSemanticSimilarity}
}

// ParseRelation decodes a relation label by prefix. Prefixes are tried in a fixed order,
// so "appears_in_example_v2" is still an example-occurrence relation.
func ParseRelation(s string) Relation {
	switch {
	case strings.HasPrefix(s, nameExampleOccurrence):
		return Relation{Kind: RelationExampleOccurrence, Key: s[len(nameExampleOccurrence):]}
	case strings.HasPrefix(s, prefixPartOfSpeech):
		return Relation{Kind: RelationPartOfSpeech, Key: s[len(prefixPartOfSpeech):]}
	case strings.HasPrefix(s, prefixVocabLevel):
		return Relation{Kind: RelationVocabLevel, Key: s[len(prefixVocabLevel):]}
	case strings.HasPrefix(s, prefixGrammarLevel):
		return Relation{Kind: RelationGrammarLevel, Key: s[len(prefixGrammarLevel):]}
	case strings.HasPrefix(s, prefixTag):
		return Relation{Kind: RelationTag, Key: s[len(prefixTag):]}
	case strings.HasPrefix(s, nameSemanticSimilarity):
		return Relation{Kind: RelationSemanticSimilarity, Key: s[len(nameSemanticSimilarity):]}
	}
	return Relation{Kind: RelationUnknown, Key: s}
}

func (r Relation) String() string {
	switch r.Kind {
	case RelationGrammarLevel:
		return prefixGrammarLevel + r.Key
	case RelationVocabLevel:
		return prefixVocabLevel + r.Key
	case RelationPartOfSpeech:
		return prefixPartOfSpeech + r.Key
	case RelationTag:
		return prefixTag + r.Key
	case RelationExampleOccurrence:
		return nameExampleOccurrence + r.Key
	case RelationSemanticSimilarity:
		return nameSemanticSimilarity + r.Key
	}
	return r.Key
}

func (r Relation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Relation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string labels are kept verbatim and judged by the fallback rule.
		*r = Relation{Kind: RelationUnknown, Key: string(data)}
		return nil
	}
	*r = ParseRelation(s)
	return nil
}
