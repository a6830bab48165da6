package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"expenses/internal/core"
	"expenses/internal/log"
)

// FileStore keeps the ledger in a single indented JSON document.
//
// Saves write a sibling temporary file and rename it over the target, so a
// crash mid-save leaves either the previous or the new document on disk.
type FileStore struct {
	path   string
	logger *log.Logger
}

func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Discard()
	}
	return &FileStore{path: path, logger: logger.WithComponent(log.ComponentStorage)}
}

// Load implements Store. A missing file yields an empty ledger.
func (s *FileStore) Load(ctx context.Context) (*core.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.DebugContext(ctx, "Ledger file does not exist, starting empty", log.FieldPath, s.path)
		return core.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file %s: %w", s.path, err)
	}

	l, err := DecodeLedger(data)
	if err != nil {
		return nil, fmt.Errorf("decode ledger file %s: %w", s.path, err)
	}

	s.logger.DebugContext(ctx, "Ledger loaded", log.FieldPath, s.path, log.FieldCount, l.Len())
	return l, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, l *core.Ledger) error {
	payload, err := EncodeLedger(l)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp ledger file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	s.logger.DebugContext(ctx, "Ledger saved", log.FieldPath, s.path, log.FieldCount, l.Len())
	return nil
}

// EncodeLedger renders l as the on-disk JSON document.
func EncodeLedger(l *core.Ledger) ([]byte, error) {
	if l == nil {
		l = core.NewLedger()
	}
	out := *l
	if out.Expenses == nil {
		out.Expenses = []core.Expense{}
	}
	payload, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// DecodeLedger parses a ledger document. Besides the current object layout it
// accepts a bare array of records, the layout of files written before the id
// counter was persisted.
func DecodeLedger(data []byte) (*core.Ledger, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return core.NewLedger(), nil
	}

	if trimmed[0] == '[' {
		var expenses []core.Expense
		if err := json.Unmarshal(trimmed, &expenses); err != nil {
			return nil, err
		}
		return (&core.Ledger{Expenses: expenses}).Normalize(), nil
	}

	var l core.Ledger
	if err := json.Unmarshal(trimmed, &l); err != nil {
		return nil, err
	}
	return l.Normalize(), nil
}
