package core

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/agenthands/lexigraph/internal/core/model"
)

type MockDriver struct {
	Vocabulary []model.VocabularyRecord
	Grammar    []model.GrammarRecord
	Skipped    int

	Snapshot    *model.Snapshot
	Previous    []model.Edge
	HasPrevious bool

	Saved   *model.Snapshot
	Rotated int
	Err     error
}

func (m *MockDriver) LoadVocabulary(ctx context.Context) ([]model.VocabularyRecord, int, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return m.Vocabulary, m.Skipped, nil
}

func (m *MockDriver) LoadGrammar(ctx context.Context) ([]model.GrammarRecord, int, error) {
	return m.Grammar, 0, nil
}

func (m *MockDriver) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	if m.Snapshot == nil {
		return model.Snapshot{}, fmt.Errorf("failed to read 'nodes.json': %w", fs.ErrNotExist)
	}
	return *m.Snapshot, nil
}

func (m *MockDriver) LoadPrevious(ctx context.Context) ([]model.Edge, bool, error) {
	return m.Previous, m.HasPrevious, nil
}

func (m *MockDriver) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	m.Saved = &snap
	m.Snapshot = &snap
	return nil
}

func (m *MockDriver) RotatePrevious(ctx context.Context) error {
	m.Rotated++
	if m.Snapshot != nil {
		m.Previous = m.Snapshot.Edges
		m.HasPrevious = true
	}
	return nil
}
