package synthesis

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/model"
	"github.com/agenthands/lexigraph/internal/core/nodes"
	"github.com/agenthands/lexigraph/internal/logger"
)

// Family names, in the order they run.
const (
	FamilyGrammarLevel      = "grammar_level"
	FamilyVocabLevel        = "vocab_level"
	FamilyPartOfSpeech      = "part_of_speech"
	FamilyVocabTag          = "vocab_tag"
	FamilyGrammarTag        = "grammar_tag"
	FamilyExampleOccurrence = "example_occurrence"
	FamilySemanticPrefix    = "semantic_prefix"
)

// Summary describes one synthesis run.
type Summary struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	Seed           uint64         `json:"seed" yaml:"seed"`
	Nodes          int            `json:"nodes" yaml:"nodes"`
	Edges          int            `json:"edges" yaml:"edges"`
	EdgesByFamily  map[string]int `json:"edges_by_family" yaml:"edges_by_family"`
	Levels         map[int]int    `json:"level_distribution" yaml:"level_distribution"`
	PartsOfSpeech  map[string]int `json:"pos_distribution" yaml:"pos_distribution"`
	SkippedRecords int            `json:"skipped_records" yaml:"skipped_records"`
	Fingerprint    string         `json:"fingerprint" yaml:"fingerprint"`
}

type Result struct {
	Nodes   []model.Entity
	Edges   []model.Edge
	Summary Summary
}

// Synthesizer turns cleaned records into a node list and a sampled edge list.
type Synthesizer struct {
	Config        config.SynthesisConfig
	Logger        *logger.Logger
	UUIDGenerator func() string
}

func NewSynthesizer(cfg config.SynthesisConfig, log *logger.Logger) *Synthesizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Synthesizer{
		Config:        cfg,
		Logger:        log,
		UUIDGenerator: uuid.NewString,
	}
}

// Run builds nodes and samples edges with a fresh random stream seeded by seed.
// Identical input and seed produce identical edges in identical order.
func (s *Synthesizer) Run(vocab []model.VocabularyRecord, grammar []model.GrammarRecord, seed uint64) Result {
	runID := s.UUIDGenerator()
	log := s.Logger.With("run_id", runID, "seed", seed)

	entities := nodes.Build(vocab, grammar)
	grouper := NewGrouper(s.Config)
	sampler := NewSampler(seed)
	byFamily := make(map[string]int)

	var edges []model.Edge
	collect := func(name string, batch []model.Edge) {
		byFamily[name] = len(batch)
		edges = append(edges, batch...)
		log.Debug("Family sampled", "family", name, "edges", len(batch))
	}
	sampleBuckets := func(name string, fc config.FamilyConfig, buckets []Bucket, rel func(key string) model.Relation) {
		f := familyFrom(name, fc)
		var batch []model.Edge
		for _, b := range buckets {
			batch = append(batch, sampler.SampleBucket(b, f, rel(b.Key))...)
		}
		collect(name, batch)
	}

	cfg := s.Config
	sampleBuckets(FamilyGrammarLevel, cfg.GrammarLevel, grouper.ByGrammarLevel(grammar), model.GrammarLevel)
	sampleBuckets(FamilyVocabLevel, cfg.VocabLevel, grouper.ByVocabLevel(vocab), model.VocabLevel)
	sampleBuckets(FamilyPartOfSpeech, cfg.PartOfSpeech, grouper.ByPartOfSpeech(vocab), model.PartOfSpeech)
	sampleBuckets(FamilyVocabTag, cfg.VocabTag, grouper.ByVocabTag(vocab), model.Tag)
	sampleBuckets(FamilyGrammarTag, cfg.GrammarTag, grouper.ByGrammarTag(grammar), model.Tag)
	collect(FamilyExampleOccurrence, sampler.SampleOccurrences(
		grouper.ExampleOccurrences(vocab, grammar), familyFrom(FamilyExampleOccurrence, cfg.ExampleOccurrence)))
	sampleBuckets(FamilySemanticPrefix, cfg.SemanticPrefix, grouper.ByMeaningPrefix(vocab),
		func(string) model.Relation { return model.SemanticSimilarity() })

	summary := Summary{
		RunID:         runID,
		Seed:          seed,
		Nodes:         len(entities),
		Edges:         len(edges),
		EdgesByFamily: byFamily,
		Levels:        make(map[int]int),
		PartsOfSpeech: make(map[string]int),
		Fingerprint:   Fingerprint(edges),
	}
	for _, e := range entities {
		summary.Levels[e.Level]++
		if e.Type == model.VocabularyEntry {
			summary.PartsOfSpeech[e.POS]++
		}
	}

	log.Info("Synthesis complete", "nodes", summary.Nodes, "edges", summary.Edges, "fingerprint", summary.Fingerprint)
	return Result{Nodes: entities, Edges: edges, Summary: summary}
}

// Fingerprint hashes the ordered edge list. Equal fingerprints mean equal output.
func Fingerprint(edges []model.Edge) string {
	d := xxhash.New()
	for _, e := range edges {
		_, _ = d.WriteString(e.Source)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(e.Target)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(e.Relation.String())
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(strconv.FormatFloat(e.Weight, 'g', -1, 64))
		_, _ = d.WriteString("\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
