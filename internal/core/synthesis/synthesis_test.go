package synthesis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/model"
)

func fixture() ([]model.VocabularyRecord, []model.GrammarRecord) {
	var vocab []model.VocabularyRecord
	lemmas := []string{"食べる", "飲む", "行く", "来る", "見る", "買う", "本", "水"}
	for i, lemma := range lemmas {
		level := "jlpt_n5"
		if i%3 == 0 {
			level = "jlpt_n4"
		}
		pos := "verb"
		if i >= 6 {
			pos = "noun"
		}
		vocab = append(vocab, model.VocabularyRecord{
			ID:       fmt.Sprintf("v%d", i),
			Lemma:    lemma,
			POS:      pos,
			Meanings: []string{"to do something " + lemma},
			Tags:     []string{"vocabulary", level, "daily"},
			Level:    1,
		})
	}
	var grammar []model.GrammarRecord
	for i := 0; i < 5; i++ {
		grammar = append(grammar, model.GrammarRecord{
			ID:        fmt.Sprintf("g%d", i),
			Title:     fmt.Sprintf("pattern %d", i),
			JLPTLevel: "N5",
			Tags:      []string{"grammar", "particle"},
			Examples:  []model.Example{{Ja: "水を飲む。本を買う。", En: "Drink water. Buy a book."}},
			Level:     2,
		})
	}
	return vocab, grammar
}

func newTestSynthesizer() *Synthesizer {
	s := NewSynthesizer(config.Default().Synthesis, nil)
	s.UUIDGenerator = func() string { return "run-1" }
	return s
}

func TestRun_Deterministic(t *testing.T) {
	vocab, grammar := fixture()

	a := newTestSynthesizer().Run(vocab, grammar, 42)
	b := newTestSynthesizer().Run(vocab, grammar, 42)

	require.NotEmpty(t, a.Edges)
	assert.Equal(t, a.Edges, b.Edges)
	assert.Equal(t, a.Summary.Fingerprint, b.Summary.Fingerprint)
	assert.Equal(t, "run-1", a.Summary.RunID)
	assert.Equal(t, uint64(42), a.Summary.Seed)
}

func TestRun_Invariants(t *testing.T) {
	vocab, grammar := fixture()
	known := make(map[string]bool)
	for _, v := range vocab {
		known[v.ID] = true
	}
	for _, g := range grammar {
		known[g.ID] = true
	}

	res := newTestSynthesizer().Run(vocab, grammar, 42)

	require.Len(t, res.Nodes, len(vocab)+len(grammar))
	assert.Equal(t, "g0", res.Nodes[0].ID, "grammar nodes come first")
	for _, e := range res.Edges {
		assert.NotEqual(t, e.Source, e.Target)
		assert.True(t, known[e.Source], e.Source)
		assert.True(t, known[e.Target], e.Target)
		assert.Greater(t, e.Weight, 0.0)
		assert.LessOrEqual(t, e.Weight, 1.0)
		assert.NotEqual(t, model.RelationUnknown, e.Relation.Kind)
	}

	total := 0
	for _, n := range res.Summary.EdgesByFamily {
		total += n
	}
	assert.Equal(t, len(res.Edges), total)
	assert.Equal(t, res.Summary.Edges, len(res.Edges))
	assert.Equal(t, 13, res.Summary.Nodes)
	assert.Equal(t, map[string]int{"verb": 6, "noun": 2}, res.Summary.PartsOfSpeech)
	assert.Equal(t, map[int]int{1: 8, 2: 5}, res.Summary.Levels)
}

func TestRun_FamilyOrder(t *testing.T) {
	vocab, grammar := fixture()

	res := newTestSynthesizer().Run(vocab, grammar, 42)

	rank := map[model.RelationKind]int{
		model.RelationGrammarLevel:       0,
		model.RelationVocabLevel:         1,
		model.RelationPartOfSpeech:       2,
		model.RelationTag:                3,
		model.RelationExampleOccurrence:  5,
		model.RelationSemanticSimilarity: 6,
	}
	last := 0
	for _, e := range res.Edges {
		r := rank[e.Relation.Kind]
		assert.GreaterOrEqual(t, r, last, "edge %v out of order", e.ID())
		last = r
	}
}

func TestRun_OccurrenceCap(t *testing.T) {
	vocab, grammar := fixture()

	res := newTestSynthesizer().Run(vocab, grammar, 42)

	perGrammar := make(map[string]int)
	for _, e := range res.Edges {
		if e.Relation.Kind == model.RelationExampleOccurrence {
			assert.Contains(t, []string{"v1", "v5", "v6", "v7"}, e.Source)
			perGrammar[e.Target]++
		}
	}
	for g, n := range perGrammar {
		assert.LessOrEqual(t, n, 3, g)
	}
}

func TestRun_Empty(t *testing.T) {
	res := newTestSynthesizer().Run(nil, nil, 42)

	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Edges)
	assert.Equal(t, Fingerprint(nil), res.Summary.Fingerprint)
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	a := model.Edge{Source: "a", Target: "b", Relation: model.Tag("x"), Weight: 0.6}
	b := model.Edge{Source: "b", Target: "a", Relation: model.Tag("x"), Weight: 0.6}

	assert.NotEqual(t, Fingerprint([]model.Edge{a, b}), Fingerprint([]model.Edge{b, a}))
	assert.Len(t, Fingerprint(nil), 16)
}
