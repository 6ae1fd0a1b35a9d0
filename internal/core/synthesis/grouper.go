package synthesis

import (
	"strings"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/model"
)

const unknownKey = "unknown"

// Bucket is a grouping key with its members in ingestion order.
type Bucket struct {
	Key     string
	Members []string
}

// Occurrence lists the vocabulary entries whose lemma appears in a grammar pattern's examples.
type Occurrence struct {
	GrammarID string
	VocabIDs  []string
}

// bucketSet keeps keys in first-seen order and members unique per key.
type bucketSet struct {
	index   map[string]int
	seen    []map[string]bool
	buckets []Bucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{index: make(map[string]int)}
}

func (s *bucketSet) add(key, id string) {
	i, ok := s.index[key]
	if !ok {
		i = len(s.buckets)
		s.index[key] = i
		s.buckets = append(s.buckets, Bucket{Key: key})
		s.seen = append(s.seen, make(map[string]bool))
	}
	if s.seen[i][id] {
		return
	}
	s.seen[i][id] = true
	s.buckets[i].Members = append(s.buckets[i].Members, id)
}

// result drops buckets that cannot produce a pair.
func (s *bucketSet) result() []Bucket {
	out := make([]Bucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		if len(b.Members) >= 2 {
			out = append(out, b)
		}
	}
	return out
}

// Grouper partitions records into candidate buckets, one method per heuristic.
type Grouper struct {
	LevelTagPrefix     string
	VocabStoplist      map[string]bool
	GrammarStoplist    map[string]bool
	MeaningPrefixWords int
}

func NewGrouper(cfg config.SynthesisConfig) *Grouper {
	return &Grouper{
		LevelTagPrefix:     cfg.LevelTagPrefix,
		VocabStoplist:      toSet(cfg.VocabTagStoplist),
		GrammarStoplist:    toSet(cfg.GrammarTagStoplist),
		MeaningPrefixWords: cfg.MeaningPrefixWords,
	}
}

// ByGrammarLevel groups grammar patterns by their level field.
func (g *Grouper) ByGrammarLevel(grammar []model.GrammarRecord) []Bucket {
	set := newBucketSet()
	for _, r := range grammar {
		set.add(orUnknown(r.JLPTLevel), r.ID)
	}
	return set.result()
}

// ByVocabLevel groups vocabulary by the first tag carrying the level prefix.
func (g *Grouper) ByVocabLevel(vocab []model.VocabularyRecord) []Bucket {
	set := newBucketSet()
	for _, r := range vocab {
		key := unknownKey
		for _, tag := range r.Tags {
			if strings.HasPrefix(tag, g.LevelTagPrefix) {
				key = tag
				break
			}
		}
		set.add(key, r.ID)
	}
	return set.result()
}

func (g *Grouper) ByPartOfSpeech(vocab []model.VocabularyRecord) []Bucket {
	set := newBucketSet()
	for _, r := range vocab {
		set.add(orUnknown(r.POS), r.ID)
	}
	return set.result()
}

func (g *Grouper) ByVocabTag(vocab []model.VocabularyRecord) []Bucket {
	set := newBucketSet()
	for _, r := range vocab {
		for _, tag := range r.Tags {
			if !g.VocabStoplist[tag] {
				set.add(tag, r.ID)
			}
		}
	}
	return set.result()
}

func (g *Grouper) ByGrammarTag(grammar []model.GrammarRecord) []Bucket {
	set := newBucketSet()
	for _, r := range grammar {
		for _, tag := range r.Tags {
			if !g.GrammarStoplist[tag] {
				set.add(tag, r.ID)
			}
		}
	}
	return set.result()
}

// ByMeaningPrefix groups vocabulary by the leading words of the first meaning.
// Entries without a usable first meaning are left out.
func (g *Grouper) ByMeaningPrefix(vocab []model.VocabularyRecord) []Bucket {
	set := newBucketSet()
	for _, r := range vocab {
		if len(r.Meanings) == 0 {
			continue
		}
		key := meaningPrefix(r.Meanings[0], g.MeaningPrefixWords)
		if key == "" {
			continue
		}
		set.add(key, r.ID)
	}
	return set.result()
}

// ExampleOccurrences finds, per grammar pattern, the vocabulary lemmas that occur literally
// in its example sentences. Candidates are ordered by first occurrence: example order,
// then vocabulary order.
func (g *Grouper) ExampleOccurrences(vocab []model.VocabularyRecord, grammar []model.GrammarRecord) []Occurrence {
	type lemma struct{ id, text string }
	lemmas := make([]lemma, 0, len(vocab))
	for _, v := range vocab {
		if text := strings.TrimSpace(v.Lemma); text != "" {
			lemmas = append(lemmas, lemma{id: v.ID, text: text})
		}
	}

	var out []Occurrence
	for _, gr := range grammar {
		occ := Occurrence{GrammarID: gr.ID}
		seen := make(map[string]bool)
		for _, ex := range gr.Examples {
			for _, l := range lemmas {
				if seen[l.id] || !strings.Contains(ex.Ja, l.text) {
					continue
				}
				seen[l.id] = true
				occ.VocabIDs = append(occ.VocabIDs, l.id)
			}
		}
		if len(occ.VocabIDs) > 0 {
			out = append(out, occ)
		}
	}
	return out
}

func meaningPrefix(meaning string, words int) string {
	fields := strings.Fields(strings.ToLower(meaning))
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " ")
}

func orUnknown(s string) string {
	if s == "" {
		return unknownKey
	}
	return s
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
