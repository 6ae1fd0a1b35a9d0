package graph

import (
	"sort"

	"github.com/agenthands/lexigraph/internal/core/model"
)

// Graph is an undirected simple graph over entities. Parallel edges between the same pair
// collapse into one adjacency entry whose multiplicity is kept for weighting.
type Graph struct {
	order []string
	nodes map[string]model.Entity
	adj   map[string]map[string]int
	edges []model.Edge
	pairs int
}

// New indexes nodes and keeps the edges whose endpoints are both known. Empty endpoints never
// resolve. A repeated node id keeps its first position and its last record.
func New(nodes []model.Entity, edges []model.Edge) *Graph {
	g := &Graph{
		nodes: make(map[string]model.Entity, len(nodes)),
		adj:   make(map[string]map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; !ok {
			g.order = append(g.order, n.ID)
			g.adj[n.ID] = make(map[string]int)
		}
		g.nodes[n.ID] = n
	}

	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		if _, ok := g.nodes[e.Source]; !ok {
			continue
		}
		if _, ok := g.nodes[e.Target]; !ok {
			continue
		}
		g.edges = append(g.edges, e)
		if g.adj[e.Source][e.Target] == 0 {
			g.pairs++
		}
		g.adj[e.Source][e.Target]++
		if e.Source != e.Target {
			g.adj[e.Target][e.Source]++
		}
	}
	return g
}

func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount is the number of distinct connected pairs.
func (g *Graph) EdgeCount() int { return g.pairs }

// Edges returns the usable edges in input order.
func (g *Graph) Edges() []model.Edge { return g.edges }

// Nodes returns the entities in first-seen order.
func (g *Graph) Nodes() []model.Entity {
	out := make([]model.Entity, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns the node ids in first-seen order.
func (g *Graph) NodeIDs() []string { return g.order }

func (g *Graph) Node(id string) (model.Entity, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Degree counts distinct neighbours; a self-loop counts twice.
func (g *Graph) Degree(id string) int {
	nbrs := g.adj[id]
	d := len(nbrs)
	if nbrs[id] > 0 {
		d++
	}
	return d
}

// Neighbors returns the sorted distinct neighbours of id.
func (g *Graph) Neighbors(id string) []string {
	out := make([]string, 0, len(g.adj[id]))
	for v := range g.adj[id] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NeighborWeights maps each neighbour to its edge multiplicity. The map must not be modified.
func (g *Graph) NeighborWeights(id string) map[string]int { return g.adj[id] }

// Components returns the connected components, members sorted, largest first and ties
// broken by smallest member id.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.order))
	var comps [][]string
	for _, start := range g.order {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := []string{start}
		stack := []string{start}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for v := range g.adj[u] {
				if !visited[v] {
					visited[v] = true
					comp = append(comp, v)
					stack = append(stack, v)
				}
			}
		}
		sort.Strings(comp)
		comps = append(comps, comp)
	}
	SortGroups(comps)
	return comps
}

// SortGroups orders groups largest first, ties by smallest member. Members must be sorted.
func SortGroups(groups [][]string) {
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})
}
