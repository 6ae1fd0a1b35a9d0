package model

// Example is one example sentence pair.
type Example struct {
	Ja string `json:"ja"`
	En string `json:"en"`
}

// VocabularyRecord is a cleaned vocabulary entry as produced by ingestion.
type VocabularyRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type,omitempty"`
	Lemma       string    `json:"lemma,omitempty"`
	Reading     string    `json:"reading,omitempty"`
	POS         string    `json:"pos,omitempty"`
	Meanings    []string  `json:"meanings,omitempty"`
	Meaning     string    `json:"meaning,omitempty"`
	Description string    `json:"description,omitempty"`
	Examples    []Example `json:"examples,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Level       int       `json:"level,omitempty"`
	Tips        string    `json:"tips,omitempty"`

	hasLemma bool
}

// Label is the lemma, or the id when no lemma was given. A lemma present but empty stays empty.
func (v VocabularyRecord) Label() string {
	if v.hasLemma || v.Lemma != "" {
		return v.Lemma
	}
	return v.ID
}

func (v *VocabularyRecord) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	id, ok := f.id()
	if !ok {
		return ErrMissingID
	}
	*v = VocabularyRecord{
		ID:          id,
		Type:        f.str("type"),
		Lemma:       f.str("lemma"),
		Reading:     f.str("reading"),
		POS:         f.str("pos"),
		Meanings:    f.strs("meanings"),
		Meaning:     f.str("meaning"),
		Description: f.str("description"),
		Examples:    f.examples("examples"),
		Tags:        f.strs("tags"),
		Level:       f.integer("level", 1),
		Tips:        f.str("tips"),
		hasLemma:    f.has("lemma"),
	}
	return nil
}

// GrammarRecord is a cleaned grammar pattern as produced by ingestion.
type GrammarRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type,omitempty"`
	Title       string    `json:"title,omitempty"`
	TitleJa     string    `json:"title_ja,omitempty"`
	Description string    `json:"description,omitempty"`
	JLPTLevel   string    `json:"jlpt_level,omitempty"`
	POS         string    `json:"pos,omitempty"`
	Examples    []Example `json:"examples,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Level       int       `json:"level,omitempty"`
	Tips        string    `json:"tips,omitempty"`
}

func (g *GrammarRecord) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	id, ok := f.id()
	if !ok {
		return ErrMissingID
	}
	*g = GrammarRecord{
		ID:          id,
		Type:        f.str("type"),
		Title:       f.str("title"),
		TitleJa:     f.str("title_ja"),
		Description: f.str("description"),
		JLPTLevel:   f.str("jlpt_level"),
		POS:         f.str("pos"),
		Examples:    f.examples("examples"),
		Tags:        f.strs("tags"),
		Level:       f.integer("level", 1),
		Tips:        f.str("tips"),
	}
	return nil
}

// DecodeVocabulary parses a vocabulary list, skipping and counting records without a string id.
func DecodeVocabulary(data []byte) ([]VocabularyRecord, int, error) {
	return decodeArray[VocabularyRecord](data, "vocabulary")
}

// DecodeGrammar parses a grammar list, skipping and counting records without a string id.
func DecodeGrammar(data []byte) ([]GrammarRecord, int, error) {
	return decodeArray[GrammarRecord](data, "grammar")
}
