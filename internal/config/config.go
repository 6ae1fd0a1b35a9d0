package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// TierConfig is one distance band of a sampling family. MaxDistance 0 means unbounded.
type TierConfig struct {
	MaxDistance int     `toml:"max_distance" validate:"gte=0"`
	Probability float64 `toml:"probability" validate:"gte=0,lte=1"`
	Weight      float64 `toml:"weight" validate:"gt=0,lte=1"`
}

type FamilyConfig struct {
	Cap   int          `toml:"cap" validate:"gte=1"`
	Tiers []TierConfig `toml:"tiers" validate:"min=1,dive"`
}

type SynthesisConfig struct {
	GrammarLevel      FamilyConfig `toml:"grammar_level"`
	VocabLevel        FamilyConfig `toml:"vocab_level"`
	PartOfSpeech      FamilyConfig `toml:"part_of_speech"`
	VocabTag          FamilyConfig `toml:"vocab_tag"`
	GrammarTag        FamilyConfig `toml:"grammar_tag"`
	ExampleOccurrence FamilyConfig `toml:"example_occurrence"`
	SemanticPrefix    FamilyConfig `toml:"semantic_prefix"`

	LevelTagPrefix     string   `toml:"level_tag_prefix" validate:"required"`
	VocabTagStoplist   []string `toml:"vocab_tag_stoplist"`
	GrammarTagStoplist []string `toml:"grammar_tag_stoplist"`
	MeaningPrefixWords int      `toml:"meaning_prefix_words" validate:"gte=1"`
}

type EvaluationConfig struct {
	CoreKeywords        []string `toml:"core_keywords" validate:"min=1"`
	CommunityIterations int      `toml:"community_iterations" validate:"gte=1"`
}

// PathsConfig locates the artifacts relative to Root.
type PathsConfig struct {
	Vocabulary    string `toml:"vocabulary" validate:"required"`
	Grammar       string `toml:"grammar" validate:"required"`
	Nodes         string `toml:"nodes" validate:"required"`
	Edges         string `toml:"edges" validate:"required"`
	PreviousEdges string `toml:"previous_edges" validate:"required"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Mode string `toml:"mode" validate:"omitempty,oneof=dev development prod production"`
}

type Config struct {
	Root       string           `toml:"root"`
	Seed       uint64           `toml:"seed"`
	Paths      PathsConfig      `toml:"paths"`
	Synthesis  SynthesisConfig  `toml:"synthesis"`
	Evaluation EvaluationConfig `toml:"evaluation"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// DefaultSeed keeps runs byte-identical unless a seed is configured.
const DefaultSeed uint64 = 42

// Default returns the built-in configuration.
func Default() *Config {
	levelTags := []string{"jlpt_n5", "jlpt_n4", "jlpt_n3", "jlpt_n2", "jlpt_n1"}
	return &Config{
		Root: ".",
		Seed: DefaultSeed,
		Paths: PathsConfig{
			Vocabulary:    "data/clean/vocabulary_entry.json",
			Grammar:       "data/clean/grammar_pattern.json",
			Nodes:         "network_output/nodes.json",
			Edges:         "network_output/edges.json",
			PreviousEdges: "network_output/edges_prev.json",
		},
		Synthesis: SynthesisConfig{
			GrammarLevel: FamilyConfig{Cap: 3, Tiers: []TierConfig{
				{MaxDistance: 3, Probability: 0.7, Weight: 1.0},
				{MaxDistance: 10, Probability: 0.3, Weight: 0.8},
			}},
			VocabLevel:        FamilyConfig{Cap: 2, Tiers: []TierConfig{{MaxDistance: 5, Probability: 0.6, Weight: 0.9}}},
			PartOfSpeech:      FamilyConfig{Cap: 2, Tiers: []TierConfig{{MaxDistance: 8, Probability: 0.5, Weight: 0.7}}},
			VocabTag:          FamilyConfig{Cap: 2, Tiers: []TierConfig{{MaxDistance: 6, Probability: 0.6, Weight: 0.6}}},
			GrammarTag:        FamilyConfig{Cap: 2, Tiers: []TierConfig{{MaxDistance: 4, Probability: 0.7, Weight: 0.8}}},
			ExampleOccurrence: FamilyConfig{Cap: 3, Tiers: []TierConfig{{Probability: 0.8, Weight: 0.9}}},
			SemanticPrefix:    FamilyConfig{Cap: 2, Tiers: []TierConfig{{Probability: 0.7, Weight: 0.8}}},

			LevelTagPrefix:     "jlpt_",
			VocabTagStoplist:   append([]string{"vocabulary", "anki", "jlpt"}, levelTags...),
			GrammarTagStoplist: append([]string{"grammar", "jlpt"}, levelTags...),
			MeaningPrefixWords: 3,
		},
		Evaluation: EvaluationConfig{
			CoreKeywords:        []string{"は", "を", "に", "で", "の", "が", "です", "ます", "いる", "ある", "食べる", "行く", "来る"},
			CommunityIterations: 20,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Mode: "dev"},
	}
}

// Load reads a TOML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	// Decode into a zero value: array tables append to existing slices, so defaults are
	// filled in afterwards rather than decoded over.
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.fillDefaults(Default())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillDefaults copies def into every field left at its zero value. A zero seed counts as unset.
func (c *Config) fillDefaults(def *Config) {
	setString(&c.Root, def.Root)
	if c.Seed == 0 {
		c.Seed = def.Seed
	}

	setString(&c.Paths.Vocabulary, def.Paths.Vocabulary)
	setString(&c.Paths.Grammar, def.Paths.Grammar)
	setString(&c.Paths.Nodes, def.Paths.Nodes)
	setString(&c.Paths.Edges, def.Paths.Edges)
	setString(&c.Paths.PreviousEdges, def.Paths.PreviousEdges)

	s, ds := &c.Synthesis, def.Synthesis
	setFamily(&s.GrammarLevel, ds.GrammarLevel)
	setFamily(&s.VocabLevel, ds.VocabLevel)
	setFamily(&s.PartOfSpeech, ds.PartOfSpeech)
	setFamily(&s.VocabTag, ds.VocabTag)
	setFamily(&s.GrammarTag, ds.GrammarTag)
	setFamily(&s.ExampleOccurrence, ds.ExampleOccurrence)
	setFamily(&s.SemanticPrefix, ds.SemanticPrefix)
	setString(&s.LevelTagPrefix, ds.LevelTagPrefix)
	if s.VocabTagStoplist == nil {
		s.VocabTagStoplist = ds.VocabTagStoplist
	}
	if s.GrammarTagStoplist == nil {
		s.GrammarTagStoplist = ds.GrammarTagStoplist
	}
	if s.MeaningPrefixWords == 0 {
		s.MeaningPrefixWords = ds.MeaningPrefixWords
	}

	if c.Evaluation.CoreKeywords == nil {
		c.Evaluation.CoreKeywords = def.Evaluation.CoreKeywords
	}
	if c.Evaluation.CommunityIterations == 0 {
		c.Evaluation.CommunityIterations = def.Evaluation.CommunityIterations
	}

	setString(&c.Server.Addr, def.Server.Addr)
	setString(&c.Log.Mode, def.Log.Mode)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// setFamily replaces a family only when it was left out entirely.
func setFamily(dst *FamilyConfig, def FamilyConfig) {
	if dst.Cap == 0 && len(dst.Tiers) == 0 {
		*dst = def
	}
}

var validate = validator.New()

// Validate checks ranges on every family and the required paths.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed '%s'", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides selected values from the environment.
func (c *Config) ApplyEnv() error {
	if root := os.Getenv("LEXIGRAPH_ROOT"); root != "" {
		c.Root = root
	}
	if seed := os.Getenv("LEXIGRAPH_SEED"); seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid LEXIGRAPH_SEED %q: %w", seed, err)
		}
		c.Seed = n
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if mode := os.Getenv("LOG_MODE"); mode != "" {
		c.Log.Mode = mode
	}
	return c.Validate()
}
