// Package csvstore keeps ideas, votes and activity in comma-separated files.
// One Store owns the directory; every read and write goes through its mutex.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

const (
	IdeasFile    = "ideas.csv"
	VotesFile    = "votes.csv"
	ActivityFile = "activity.csv"
)

var tableHeaders = map[string][]string{
	IdeasFile:    IdeaHeader,
	VotesFile:    VoteHeader,
	ActivityFile: ActivityHeader,
}

// Store is the table manager for a directory of CSV files.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// Open prepares dir, writes the header of any missing or empty table and
// upgrades tables saved without idea ids.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{dir: dir, logger: logger}

	for name := range tableHeaders {
		if err := s.ensureTable(name); err != nil {
			return nil, err
		}
	}
	if err := s.upgradeLegacy(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) ensureTable(name string) error {
	info, err := os.Stat(s.path(name))
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, tableHeaders[name]); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path(name), &buf); err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if s.logger != nil {
		s.logger.Info("created table", "file", s.path(name))
	}
	return nil
}

func writeHeader(w io.Writer, header []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// load opens a table and decodes it. Caller holds s.mu.
func load[T any](s *Store, name string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	rows, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return rows, nil
}

// rewrite replaces a table in one rename. Caller holds s.mu.
func (s *Store) rewrite(name string, encode func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := atomic.WriteFile(s.path(name), &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// appendRow adds one record at the end of a table, preceded by the header
// when the file was emptied underneath the store. Caller holds s.mu.
func (s *Store) appendRow(name string, row []string) error {
	f, err := os.OpenFile(s.path(name), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(tableHeaders[name]); err != nil {
			f.Close()
			return fmt.Errorf("failed to append to %s: %w", name, err)
		}
	}
	if err := cw.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	return f.Close()
}
