package model

import "encoding/json"

type EntityType string

const (
	VocabularyEntry EntityType = "vocabulary_entry"
	GrammarPattern  EntityType = "grammar_pattern"
)

// Entity is a graph node: one vocabulary entry or one grammar pattern.
type Entity struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Type       EntityType `json:"type"`
	POS        string     `json:"pos"`
	Level      int        `json:"level"`
	Difficulty string     `json:"difficulty,omitempty"`
	Tags       []string   `json:"tags"`
	En         string     `json:"en"`
	Ex         string     `json:"ex"`
	ClusterKey string     `json:"cluster_key,omitempty"`

	// Extra carries members the core does not interpret. They survive a round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

var entityKeys = []string{"id", "label", "type", "pos", "level", "difficulty", "tags", "en", "ex", "cluster_key"}

// HasTag reports whether tag is in the entity's tag set.
func (n Entity) HasTag(tag string) bool {
	return contains(n.Tags, tag)
}

// DisplayLabel is the label, or the id when the label is empty.
func (n Entity) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

func (n Entity) MarshalJSON() ([]byte, error) {
	type plain Entity
	p := plain(n)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return marshalWithExtra(p, n.Extra)
}

func (n *Entity) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	id, ok := f.id()
	if !ok {
		return ErrMissingID
	}
	*n = Entity{
		ID:         id,
		Label:      f.str("label"),
		Type:       EntityType(f.str("type")),
		POS:        f.str("pos"),
		Level:      f.integer("level", 1),
		Difficulty: f.str("difficulty"),
		Tags:       f.strs("tags"),
		En:         f.str("en"),
		Ex:         f.str("ex"),
		ClusterKey: f.str("cluster_key"),
		Extra:      f.rest(entityKeys),
	}
	return nil
}

// DecodeEntities parses a node list. Elements without a string id are skipped and counted.
func DecodeEntities(data []byte) ([]Entity, int, error) {
	return decodeArray[Entity](data, "node")
}
