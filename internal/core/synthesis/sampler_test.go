package synthesis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/lexigraph/internal/core/model"
)

func bucketOf(n int) Bucket {
	b := Bucket{Key: "k"}
	for i := 0; i < n; i++ {
		b.Members = append(b.Members, fmt.Sprintf("m%02d", i))
	}
	return b
}

func alwaysFamily(limit int) Family {
	return Family{Name: "always", Cap: limit, Tiers: []Tier{{Probability: 1, Weight: 0.5}}}
}

func TestSampleBucket_AscendingScanFillsCap(t *testing.T) {
	edges := NewSampler(42).SampleBucket(bucketOf(5), alwaysFamily(2), model.Tag("k"))

	require.Len(t, edges, 10)
	assert.Equal(t, "m00", edges[0].Source)
	assert.Equal(t, "m01", edges[0].Target)
	assert.Equal(t, "m02", edges[1].Target)
	// m02 scans m00 and m01 first.
	assert.Equal(t, "m02", edges[4].Source)
	assert.Equal(t, "m00", edges[4].Target)
	assert.Equal(t, "m01", edges[5].Target)
	for _, e := range edges {
		assert.Equal(t, 0.5, e.Weight)
		assert.Equal(t, "tag:k", e.Relation.String())
	}
}

func TestSampleBucket_CapBoundedByMembers(t *testing.T) {
	edges := NewSampler(1).SampleBucket(bucketOf(2), alwaysFamily(3), model.Tag("k"))

	require.Len(t, edges, 2)
	assert.Equal(t, "m00", edges[0].Source)
	assert.Equal(t, "m01", edges[1].Source)
}

func TestSampleBucket_NeverDrawsBeyondDistance(t *testing.T) {
	f := Family{Cap: 10, Tiers: []Tier{{MaxDistance: 1, Probability: 1, Weight: 1}}}

	edges := NewSampler(7).SampleBucket(bucketOf(6), f, model.Tag("k"))

	for _, e := range edges {
		var i, j int
		_, _ = fmt.Sscanf(e.Source, "m%d", &i)
		_, _ = fmt.Sscanf(e.Target, "m%d", &j)
		assert.LessOrEqual(t, abs(i-j), 1)
	}
	assert.Len(t, edges, 10)
}

func TestSampleBucket_RejectAll(t *testing.T) {
	f := Family{Cap: 3, Tiers: []Tier{{Probability: 0, Weight: 1}}}

	assert.Empty(t, NewSampler(42).SampleBucket(bucketOf(8), f, model.Tag("k")))
}

func TestSampleBucket_SkipsDuplicateMembers(t *testing.T) {
	b := Bucket{Key: "k", Members: []string{"a", "a", "b"}}

	edges := NewSampler(42).SampleBucket(b, alwaysFamily(2), model.Tag("k"))

	for _, e := range edges {
		assert.NotEqual(t, e.Source, e.Target)
	}
	seen := make(map[model.EdgeID]bool)
	for _, e := range edges {
		if e.Source == "a" {
			assert.False(t, seen[e.ID()], "duplicate edge %v", e.ID())
		}
		seen[e.ID()] = true
	}
}

func TestSampleBucket_PropertyCapAndNoSelfLoop(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		f := Family{Cap: 3, Tiers: []Tier{
			{MaxDistance: 3, Probability: 0.7, Weight: 1.0},
			{MaxDistance: 10, Probability: 0.3, Weight: 0.8},
		}}
		edges := NewSampler(seed).SampleBucket(bucketOf(15), f, model.GrammarLevel("N5"))

		perSource := make(map[string]int)
		for _, e := range edges {
			assert.NotEqual(t, e.Source, e.Target)
			assert.Contains(t, []float64{1.0, 0.8}, e.Weight)
			perSource[e.Source]++
		}
		for src, n := range perSource {
			assert.LessOrEqual(t, n, 3, "seed %d source %s", seed, src)
		}
	}
}

func TestSampleOccurrences_CapPerGrammar(t *testing.T) {
	occs := []Occurrence{
		{GrammarID: "g1", VocabIDs: []string{"a", "b", "c", "d", "e"}},
		{GrammarID: "g2", VocabIDs: []string{"a"}},
	}

	edges := NewSampler(42).SampleOccurrences(occs, alwaysFamily(3))

	require.Len(t, edges, 4)
	assert.Equal(t, model.EdgeID{Source: "a", Target: "g1", Relation: "appears_in_example"}, edges[0].ID())
	assert.Equal(t, "c", edges[2].Source)
	assert.Equal(t, "g2", edges[3].Target)
}

func TestSampler_SameSeedSameStream(t *testing.T) {
	f := Family{Cap: 2, Tiers: []Tier{{MaxDistance: 5, Probability: 0.6, Weight: 0.9}}}

	a := NewSampler(42).SampleBucket(bucketOf(30), f, model.Tag("k"))
	b := NewSampler(42).SampleBucket(bucketOf(30), f, model.Tag("k"))
	c := NewSampler(43).SampleBucket(bucketOf(30), f, model.Tag("k"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
