package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/model"
	"github.com/agenthands/lexigraph/internal/logger"
)

// FileDriver keeps every artifact as a JSON file under Root.
type FileDriver struct {
	Root   string
	Paths  config.PathsConfig
	Logger *logger.Logger
}

func NewFileDriver(root string, paths config.PathsConfig, log *logger.Logger) *FileDriver {
	if log == nil {
		log = logger.Nop()
	}
	return &FileDriver{Root: root, Paths: paths, Logger: log}
}

func (d *FileDriver) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(d.Root, rel)
}

func (d *FileDriver) LoadVocabulary(ctx context.Context) ([]model.VocabularyRecord, int, error) {
	data, err := d.readOptional(ctx, d.Paths.Vocabulary)
	if err != nil || data == nil {
		return nil, 0, err
	}
	recs, skipped, err := model.DecodeVocabulary(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", d.path(d.Paths.Vocabulary), err)
	}
	return recs, skipped, nil
}

func (d *FileDriver) LoadGrammar(ctx context.Context) ([]model.GrammarRecord, int, error) {
	data, err := d.readOptional(ctx, d.Paths.Grammar)
	if err != nil || data == nil {
		return nil, 0, err
	}
	recs, skipped, err := model.DecodeGrammar(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", d.path(d.Paths.Grammar), err)
	}
	return recs, skipped, nil
}

func (d *FileDriver) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	nodesData, err := d.read(ctx, d.Paths.Nodes)
	if err != nil {
		return model.Snapshot{}, err
	}
	edgesData, err := d.read(ctx, d.Paths.Edges)
	if err != nil {
		return model.Snapshot{}, err
	}

	nodes, skipped, err := model.DecodeEntities(nodesData)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%s: %w", d.path(d.Paths.Nodes), err)
	}
	if skipped > 0 {
		d.Logger.Warn("Skipped nodes without a string id", "count", skipped)
	}
	edges, err := model.DecodeEdges(edgesData)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%s: %w", d.path(d.Paths.Edges), err)
	}
	return model.Snapshot{Nodes: nodes, Edges: edges}, nil
}

func (d *FileDriver) LoadPrevious(ctx context.Context) ([]model.Edge, bool, error) {
	data, err := d.readOptional(ctx, d.Paths.PreviousEdges)
	if err != nil || data == nil {
		return nil, false, err
	}
	edges, err := model.DecodeEdges(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", d.path(d.Paths.PreviousEdges), err)
	}
	return edges, true, nil
}

func (d *FileDriver) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	nodes := snap.Nodes
	if nodes == nil {
		nodes = []model.Entity{}
	}
	edges := snap.Edges
	if edges == nil {
		edges = []model.Edge{}
	}
	if err := d.writeJSON(ctx, d.Paths.Nodes, nodes); err != nil {
		return err
	}
	return d.writeJSON(ctx, d.Paths.Edges, edges)
}

func (d *FileDriver) RotatePrevious(ctx context.Context) error {
	data, err := d.readOptional(ctx, d.Paths.Edges)
	if err != nil {
		return err
	}
	if data == nil {
		d.Logger.Debug("No edges to rotate", "path", d.path(d.Paths.Edges))
		return nil
	}
	return d.writeFile(d.Paths.PreviousEdges, data)
}

func (d *FileDriver) read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.path(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", d.path(rel), err)
	}
	return data, nil
}

// readOptional returns nil data when the file does not exist.
func (d *FileDriver) readOptional(ctx context.Context, rel string) ([]byte, error) {
	data, err := d.read(ctx, rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (d *FileDriver) writeJSON(ctx context.Context, rel string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode '%s': %w", rel, err)
	}
	return d.writeFile(rel, buf.Bytes())
}

// writeFile replaces the target atomically through a temp file in the same directory.
func (d *FileDriver) writeFile(rel string, data []byte) error {
	target := d.path(rel)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create '%s': %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for '%s': %w", target, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write '%s': %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", target, err)
	}
	d.Logger.Debug("Wrote artifact", "path", target, "bytes", len(data))
	return nil
}
