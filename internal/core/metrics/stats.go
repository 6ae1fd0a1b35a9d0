package metrics

import (
	"math"
	"strings"

	"github.com/agenthands/lexigraph/internal/core/model"
)

// CohenKappa measures agreement between two boolean judgments using averaged marginals.
// Empty or mismatched inputs yield 0; full expected agreement yields 1.
func CohenKappa(a, b []bool) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	n := float64(len(a))
	var agree, yesA, yesB float64
	for i := range a {
		if a[i] == b[i] {
			agree++
		}
		if a[i] {
			yesA++
		}
		if b[i] {
			yesB++
		}
	}
	po := agree / n
	pYes := (yesA/n + yesB/n) / 2
	pNo := 1 - pYes
	pe := pYes*pYes + pNo*pNo
	if pe == 1 {
		return 1
	}
	return (po - pe) / (1 - pe)
}

// Jaccard compares two edge sets by (source, target, relation). Two empty sets are identical.
func Jaccard(current, previous []model.Edge) float64 {
	cur := edgeSet(current)
	prev := edgeSet(previous)
	inter := 0
	for id := range cur {
		if prev[id] {
			inter++
		}
	}
	union := len(cur) + len(prev) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func edgeSet(edges []model.Edge) map[model.EdgeID]bool {
	set := make(map[model.EdgeID]bool, len(edges))
	for _, e := range edges {
		set[e.ID()] = true
	}
	return set
}

// CoreCoverage is the percentage of distinct keywords found inside at least one label.
func CoreCoverage(labels, keywords []string) float64 {
	unique := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		unique[kw] = true
	}
	covered := 0
	for kw := range unique {
		for _, l := range labels {
			if strings.Contains(l, kw) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(max(1, len(unique))) * 100
}

// Round3 rounds half away from zero to three decimals.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
