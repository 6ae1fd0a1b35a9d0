// Package report renders evaluation metrics for people and for machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/lexigraph/internal/core/metrics"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Render writes r to w in the given format. An empty format is text.
func Render(w io.Writer, r metrics.Report, format string) error {
	switch format {
	case "", FormatText:
		return renderText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type line struct {
	label string
	value string
}

type section struct {
	title string
	lines []line
}

func renderText(w io.Writer, r metrics.Report) error {
	sections := []section{
		{"Connection correctness", []line{
			{"precision", num(r.Precision)},
			{"direction_accuracy", num(r.DirectionAccuracy)},
			{"kappa_valid", num(r.KappaValid)},
			{"kappa_direction", num(r.KappaDirection)},
		}},
		{"Coverage & connectivity", []line{
			{"core_coverage (%)", num(r.CoreCoverage)},
			{"orphans_share", num(r.OrphansShare)},
			{"main_component", num(r.MainComponentShare)},
			{"community_count", strconv.Itoa(r.CommunityCount)},
		}},
		{"Reproducibility", []line{
			{"edge_jaccard", num(r.EdgeJaccard)},
		}},
	}

	ew := &errWriter{w: w}
	ew.printf("=== Lexigraph Network Evaluation (Baseline) ===\n")
	ew.printf("(Heuristic, no human annotations; %d nodes, %d edges)\n\n", r.NodeCount, r.EdgeCount)
	for _, s := range sections {
		ew.printf("-- %s --\n", s.title)
		for _, l := range s.lines {
			ew.printf("%-20s%s\n", l.label+":", l.value)
		}
		ew.printf("\n")
	}
	return ew.err
}

// num prints whole numbers with one decimal and everything else in shortest form.
func num(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
