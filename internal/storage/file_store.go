package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/llm-scam-check/internal/core"
	"go.uber.org/zap"
)

// FileStore writes one pretty-printed JSON file per assessment event. Files
// are never read back by this program.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

// Save writes the record. When filename is empty one is derived from the
// record's timestamp. Name collisions overwrite; timestamp granularity plus
// the distinguishing prefixes used by the batch and email paths make them
// practically impossible.
func (s *FileStore) Save(record *core.Record, filename string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create assessments directory: %w", err)
	}

	if filename == "" {
		filename = DefaultFilename(record.Timestamp)
	}
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assessment record: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write assessment record: %w", err)
	}

	s.logger.Info("Assessment saved", zap.String("path", path))
	return nil
}

// DefaultFilename derives a filesystem-safe name from a timestamp by
// replacing ':' and '.' with '-'.
func DefaultFilename(ts time.Time) string {
	safe := strings.NewReplacer(":", "-", ".", "-").Replace(ts.Format(time.RFC3339Nano))
	return "assessment-" + safe + ".json"
}

// EmailFilename names records produced by the email intake path.
func EmailFilename(ts time.Time) string {
	safe := strings.NewReplacer(":", "-", ".", "-").Replace(ts.Format(time.RFC3339Nano))
	return "email-" + safe + ".json"
}
