// Package nodes turns cleaned vocabulary and grammar records into graph entities.
package nodes

import (
	"fmt"
	"strings"

	"github.com/agenthands/lexigraph/internal/core/model"
)

const (
	maxMeaningRunes = 240
	maxTipRunes     = 200
	minTipRunes     = 10
	tipMarker       = "💡 "
	lessonMarker    = "📚 "
)

// FromGrammar derives the node for a grammar pattern.
func FromGrammar(g model.GrammarRecord) model.Entity {
	var ex string
	if isGuidebookLesson(g.Type, g.ID) {
		ex = enrichLessonTopic(g.Description)
		ex = appendBlock(ex, flattenExamples(g.Examples, true))
		ex = appendTip(ex, g.Tips)
	} else {
		ex = flattenExamples(g.Examples, false)
		if ex == "" {
			ex = g.Description
		}
	}

	level := levelOf(g.Level)
	pos := g.POS
	if pos == "" {
		pos = "Grammar"
	}
	return model.Entity{
		ID:         g.ID,
		Label:      firstNonEmpty(g.TitleJa, g.Title, g.ID),
		Type:       model.GrammarPattern,
		POS:        pos,
		Level:      level,
		Difficulty: fmt.Sprintf("Level %d", level),
		Tags:       copyTags(g.Tags),
		En:         g.Description,
		Ex:         ex,
		ClusterKey: fmt.Sprintf("grammar_level_%d", level),
	}
}

// FromVocabulary derives the node for a vocabulary entry.
func FromVocabulary(v model.VocabularyRecord) model.Entity {
	var ex string
	if isGuidebookLesson(v.Type, v.ID) {
		if v.Description != "" {
			ex = lessonMarker + v.Description
		}
		ex = appendBlock(ex, flattenExamples(v.Examples, true))
		ex = appendTip(ex, v.Tips)
	} else {
		ex = flattenExamples(v.Examples, false)
		if ex == "" && v.Meaning != "" {
			ex = "Meaning: " + v.Meaning
		}
		if ex == "" {
			ex = v.Description
		}
	}

	level := levelOf(v.Level)
	pos := v.POS
	if pos == "" {
		pos = "unknown"
	}
	return model.Entity{
		ID:         v.ID,
		Label:      v.Label(),
		Type:       model.VocabularyEntry,
		POS:        pos,
		Level:      level,
		Difficulty: fmt.Sprintf("Level %d", level),
		Tags:       copyTags(v.Tags),
		En:         truncateRunes(strings.Join(v.Meanings, ", "), maxMeaningRunes),
		Ex:         ex,
		ClusterKey: fmt.Sprintf("vocab_level_%d_%s", level, pos),
	}
}

// Build returns grammar nodes followed by vocabulary nodes, each in input order.
func Build(vocab []model.VocabularyRecord, grammar []model.GrammarRecord) []model.Entity {
	out := make([]model.Entity, 0, len(vocab)+len(grammar))
	for _, g := range grammar {
		out = append(out, FromGrammar(g))
	}
	for _, v := range vocab {
		out = append(out, FromVocabulary(v))
	}
	return out
}

func isGuidebookLesson(typ, id string) bool {
	return typ == "guidebook_lesson" || strings.Contains(id, "guidebook_")
}

// flattenExamples renders examples as "ja\nen" blocks separated by blank lines.
// Strict mode keeps only pairs with both sides present.
func flattenExamples(examples []model.Example, strict bool) string {
	parts := make([]string, 0, len(examples))
	for _, ex := range examples {
		ja := strings.TrimSpace(ex.Ja)
		en := strings.TrimSpace(ex.En)
		if strict && (ja == "" || en == "") {
			continue
		}
		if ja == "" && en == "" {
			continue
		}
		parts = append(parts, ja+"\n"+en)
	}
	return strings.Join(parts, "\n\n")
}

func appendBlock(text, block string) string {
	if block == "" {
		return text
	}
	if text == "" {
		return block
	}
	return text + "\n\n" + block
}

func appendTip(text, tip string) string {
	if len([]rune(tip)) <= minTipRunes {
		return text
	}
	short := truncateRunes(tip, maxTipRunes)
	if short != tip {
		short += "..."
	}
	if text == "" {
		return tipMarker + short
	}
	return text + "\n\n" + tipMarker + short
}

// enrichLessonTopic adds canned context for the few lesson topics that have it.
func enrichLessonTopic(topic string) string {
	t := strings.ToLower(topic)
	switch {
	case strings.Contains(t, "buy") || strings.Contains(t, "purchase"):
		if strings.Contains(t, "stationery") {
			return "🛒 Learn vocabulary and phrases for buying stationery items like pens, notebooks, and paper.\n\n" +
				"💡 Useful phrases:\n• これをください (Please give me this)\n• いくらですか (How much is it?)\n• ありがとうございます (Thank you very much)"
		}
		if strings.Contains(t, "food") {
			return "🍽️ Learn how to order food and drinks in Japanese restaurants and cafes.\n\n" +
				"💡 Key vocabulary:\n• メニュー (menu)\n• おいしい (delicious)\n• いただきます (let's eat - said before meals)"
		}
	case strings.Contains(t, "order"):
		if strings.Contains(t, "food") || strings.Contains(t, "drink") {
			return "🍽️ Master food and drink ordering vocabulary and polite expressions.\n\n" +
				"💡 Key phrases:\n• 〜をください (Please give me...)\n• おいしい (delicious)\n• いただきます (let's eat)"
		}
	}
	return ""
}

// levelOf treats zero as unset.
func levelOf(level int) int {
	if level == 0 {
		return 1
	}
	return level
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
