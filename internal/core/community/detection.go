package community

// Adjacency is the view of a graph community detection needs.
type Adjacency interface {
	NodeIDs() []string
	NeighborWeights(id string) map[string]int
}

// CommunityDetector groups node ids into communities of at least two members.
type CommunityDetector interface {
	Detect(g Adjacency) [][]string
}

// NewDetector returns the default detector.
func NewDetector(maxIterations int) CommunityDetector {
	d := NewLabelPropagationDetector()
	if maxIterations > 0 {
		d.MaxIterations = maxIterations
	}
	return d
}
