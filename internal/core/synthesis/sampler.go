package synthesis

import (
	"math/rand/v2"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/model"
)

// Tier accepts candidates within MaxDistance positions (0 = any distance) with Probability,
// and gives accepted edges Weight.
type Tier struct {
	MaxDistance int
	Probability float64
	Weight      float64
}

// Family is the sampling policy of one heuristic.
type Family struct {
	Name  string
	Cap   int
	Tiers []Tier
}

func familyFrom(name string, fc config.FamilyConfig) Family {
	f := Family{Name: name, Cap: fc.Cap, Tiers: make([]Tier, len(fc.Tiers))}
	for i, t := range fc.Tiers {
		f.Tiers[i] = Tier{MaxDistance: t.MaxDistance, Probability: t.Probability, Weight: t.Weight}
	}
	return f
}

// Sampler draws edges from buckets. It owns the random stream for one synthesis run.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler seeds a PCG stream; equal seeds give equal edge sequences for equal input.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed))}
}

// SampleBucket proposes edges from every member to the others. Candidates are scanned in
// ascending bucket index, so lower-indexed members fill the per-source cap first.
func (s *Sampler) SampleBucket(b Bucket, f Family, rel model.Relation) []model.Edge {
	n := len(b.Members)
	if n < 2 {
		return nil
	}
	limit := min(f.Cap, n-1)
	order := scanOrder(n)

	var edges []model.Edge
	linked := make(map[[2]string]bool)
	for i, source := range b.Members {
		accepted := 0
		for _, j := range order {
			if accepted >= limit {
				break
			}
			target := b.Members[j]
			pair := [2]string{source, target}
			if j == i || target == source || linked[pair] {
				continue
			}
			weight, ok := s.accept(f, abs(i-j))
			if !ok {
				continue
			}
			edges = append(edges, model.Edge{Source: source, Target: target, Relation: rel, Weight: weight})
			linked[pair] = true
			accepted++
		}
	}
	return edges
}

// SampleOccurrences links vocabulary to the grammar patterns whose examples contain it,
// with no positional decay and at most f.Cap edges per grammar pattern.
func (s *Sampler) SampleOccurrences(occs []Occurrence, f Family) []model.Edge {
	var edges []model.Edge
	for _, occ := range occs {
		accepted := 0
		for _, vid := range occ.VocabIDs {
			if accepted >= f.Cap {
				break
			}
			if vid == occ.GrammarID {
				continue
			}
			weight, ok := s.accept(f, 0)
			if !ok {
				continue
			}
			edges = append(edges, model.Edge{Source: vid, Target: occ.GrammarID, Relation: model.ExampleOccurrence(), Weight: weight})
			accepted++
		}
	}
	return edges
}

// accept tries each tier whose distance bound holds, drawing once per tier.
func (s *Sampler) accept(f Family, distance int) (float64, bool) {
	for _, t := range f.Tiers {
		if t.MaxDistance > 0 && distance > t.MaxDistance {
			continue
		}
		if s.rng.Float64() < t.Probability {
			return t.Weight, true
		}
	}
	return 0, false
}

// scanOrder is the candidate tie-break: ascending bucket index.
func scanOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
