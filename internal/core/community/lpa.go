package community

import (
	"sort"

	"github.com/agenthands/lexigraph/internal/core/graph"
)

// LabelPropagationDetector implements community detection using Label Propagation Algorithm (LPA).
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

// Detect runs asynchronous label propagation in node order, weighting neighbours by edge
// multiplicity. Ties go to the lexicographically largest label, so results are stable.
func (d *LabelPropagationDetector) Detect(g Adjacency) [][]string {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return nil
	}

	// 1. Each node starts with its own label
	labels := make(map[string]string, len(ids))
	for _, id := range ids {
		labels[id] = id
	}

	// 2. Propagation loop
	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range ids {
			neighbors := g.NeighborWeights(u)
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				if v == u {
					continue
				}
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}
			if maxCount == 0 {
				continue
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	// 3. Group by label, dropping singletons
	clusters := make(map[string][]string)
	for _, id := range ids {
		clusters[labels[id]] = append(clusters[labels[id]], id)
	}

	var communities [][]string
	for _, cluster := range clusters {
		if len(cluster) >= 2 {
			sort.Strings(cluster)
			communities = append(communities, cluster)
		}
	}
	graph.SortGroups(communities)
	return communities
}
