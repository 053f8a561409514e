package location

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the zone layout in a JSON file. It suits single-node
// deployments where the layout changes rarely; multi-node deployments
// use the database-backed store instead.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed zone store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the layout. A missing file yields an empty layout rather
// than an error so a fresh deployment starts clean.
func (s *FileStore) Load(_ context.Context) (*Config, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read zone config: %w", err)
	}

	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse zone config: %w", err)
	}
	if cfg.Zones == nil {
		cfg.Zones = make(map[string]Zone)
	}
	return cfg, nil
}

// Save writes the layout atomically via a temp file rename.
func (s *FileStore) Save(_ context.Context, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode zone config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".zones-*.json")
	if err != nil {
		return fmt.Errorf("create temp zone config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write zone config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close zone config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace zone config: %w", err)
	}
	return nil
}
