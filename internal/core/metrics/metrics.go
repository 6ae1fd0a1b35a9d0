// Package metrics scores a synthesized network without human annotations.
package metrics

import (
	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/community"
	"github.com/agenthands/lexigraph/internal/core/graph"
	"github.com/agenthands/lexigraph/internal/core/judge"
	"github.com/agenthands/lexigraph/internal/core/model"
)

// Report holds the evaluation metrics. Ratios are rounded to three decimals; CoreCoverage
// is a percentage.
type Report struct {
	Precision          float64 `json:"precision" yaml:"precision"`
	DirectionAccuracy  float64 `json:"direction_accuracy" yaml:"direction_accuracy"`
	KappaValid         float64 `json:"kappa_valid" yaml:"kappa_valid"`
	KappaDirection     float64 `json:"kappa_direction" yaml:"kappa_direction"`
	CoreCoverage       float64 `json:"core_coverage" yaml:"core_coverage"`
	OrphansShare       float64 `json:"orphans_share" yaml:"orphans_share"`
	MainComponentShare float64 `json:"main_component_share" yaml:"main_component_share"`
	EdgeJaccard        float64 `json:"edge_jaccard" yaml:"edge_jaccard"`
	CommunityCount     int     `json:"community_count" yaml:"community_count"`
	NodeCount          int     `json:"node_count" yaml:"node_count"`
	EdgeCount          int     `json:"edge_count" yaml:"edge_count"`
}

// Value is one named metric.
type Value struct {
	Name  string
	Value float64
}

// Values lists every metric in report order.
func (r Report) Values() []Value {
	return []Value{
		{"precision", r.Precision},
		{"direction_accuracy", r.DirectionAccuracy},
		{"kappa_valid", r.KappaValid},
		{"kappa_direction", r.KappaDirection},
		{"core_coverage", r.CoreCoverage},
		{"orphans_share", r.OrphansShare},
		{"main_component_share", r.MainComponentShare},
		{"edge_jaccard", r.EdgeJaccard},
		{"community_count", float64(r.CommunityCount)},
		{"node_count", float64(r.NodeCount)},
		{"edge_count", float64(r.EdgeCount)},
	}
}

// Input is one snapshot to evaluate. Previous is compared only when HasPrevious is set.
type Input struct {
	Nodes       []model.Entity
	Edges       []model.Edge
	Previous    []model.Edge
	HasPrevious bool
}

type Aggregator struct {
	Keywords []string
	Detector community.CommunityDetector
}

func NewAggregator(cfg config.EvaluationConfig) *Aggregator {
	return &Aggregator{
		Keywords: cfg.CoreKeywords,
		Detector: community.NewDetector(cfg.CommunityIterations),
	}
}

// Compute assembles the graph and derives every metric. The judge sees every input edge,
// including those whose endpoints are unknown.
func (a *Aggregator) Compute(in Input) Report {
	g := graph.New(in.Nodes, in.Edges)
	n := g.NodeCount()

	// 1. Structure
	var r Report
	r.NodeCount = n
	r.EdgeCount = g.EdgeCount()
	if comps := g.Components(); len(comps) > 0 {
		r.MainComponentShare = Round3(share(len(comps[0]), n))
	}
	orphans := 0
	labels := make([]string, 0, n)
	for _, node := range g.Nodes() {
		if g.Degree(node.ID) == 0 {
			orphans++
		}
		labels = append(labels, node.DisplayLabel())
	}
	r.OrphansShare = Round3(share(orphans, n))
	r.CommunityCount = len(a.Detector.Detect(g))

	// 2. Coverage
	r.CoreCoverage = Round3(CoreCoverage(labels, a.Keywords))

	// 3. Judgments
	strict := make([]bool, 0, len(in.Edges))
	lenient := make([]bool, 0, len(in.Edges))
	accepted, directed, directedOK := 0, 0, 0
	for _, e := range in.Edges {
		src, _ := g.Node(e.Source)
		dst, _ := g.Node(e.Target)
		v := judge.Judge(e, src, dst)
		strict = append(strict, v.Strict)
		lenient = append(lenient, v.Lenient)
		if v.Strict {
			accepted++
		}
		if v.Directional {
			directed++
			if v.DirectionOK {
				directedOK++
			}
		}
	}
	r.Precision = Round3(share(accepted, len(in.Edges)))
	r.DirectionAccuracy = 1
	if directed > 0 {
		r.DirectionAccuracy = Round3(share(directedOK, directed))
	}
	kappa := Round3(CohenKappa(strict, lenient))
	r.KappaValid = kappa
	// Same pair as KappaValid; no independent direction judgment exists yet.
	r.KappaDirection = kappa

	// 4. Reproducibility
	r.EdgeJaccard = 1
	if in.HasPrevious {
		r.EdgeJaccard = Round3(Jaccard(in.Edges, in.Previous))
	}
	return r
}
