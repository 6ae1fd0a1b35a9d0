package model

import "encoding/json"

// Edge links two entities. Edges are undirected for graph assembly; the example
// occurrence family additionally implies vocabulary -> grammar direction.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
	Weight   float64  `json:"weight"`

	Extra map[string]json.RawMessage `json:"-"`
}

var edgeKeys = []string{"source", "target", "relation", "weight"}

// EdgeID is the identity used to compare snapshots.
type EdgeID struct {
	Source   string
	Target   string
	Relation string
}

func (e Edge) ID() EdgeID {
	return EdgeID{Source: e.Source, Target: e.Target, Relation: e.Relation.String()}
}

func (e Edge) MarshalJSON() ([]byte, error) {
	type plain Edge
	return marshalWithExtra(plain(e), e.Extra)
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	rel := Relation{}
	if raw, ok := f["relation"]; ok {
		if err := rel.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	// Endpoints must be strings; anything else leaves the endpoint empty and unresolvable.
	source, _ := f.text("source")
	target, _ := f.text("target")
	*e = Edge{
		Source:   source,
		Target:   target,
		Relation: rel,
		Weight:   f.number("weight"),
		Extra:    f.rest(edgeKeys),
	}
	return nil
}

// DecodeEdges parses an edge list. Elements that are not objects are dropped.
func DecodeEdges(data []byte) ([]Edge, error) {
	edges, _, err := decodeArray[Edge](data, "edge")
	return edges, err
}

// Snapshot is one persisted graph: the synthesis output and the evaluation input.
type Snapshot struct {
	Nodes []Entity `json:"nodes"`
	Edges []Edge   `json:"edges"`
}
