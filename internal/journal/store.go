// Package journal implements the durable, append-only invoice journals.
// Each journal is a line-delimited JSON file; one JSON object per record.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"inn-backend/internal/logger"
	"inn-backend/internal/metrics"
	"inn-backend/internal/models"
)

// Name identifies a ledger partition.
type Name string

const (
	Outstanding Name = "outstanding"
	Settled     Name = "settled"
)

// Store owns the journal files. Appends to the same journal are serialized,
// scans run concurrently, and a filtering rewrite holds the journal
// exclusively for its full read-modify-write duration.
type Store struct {
	paths map[Name]string
	locks map[Name]*sync.RWMutex
	log   zerolog.Logger
}

// Open prepares the journal directory and returns a store for the
// outstanding and settled journals. The files themselves are created
// lazily on first append.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: creating directory %s: %w", dir, err)
	}
	return &Store{
		paths: map[Name]string{
			Outstanding: filepath.Join(dir, "outstanding-invoices.log"),
			Settled:     filepath.Join(dir, "settled-invoices.log"),
		},
		locks: map[Name]*sync.RWMutex{
			Outstanding: {},
			Settled:     {},
		},
		log: logger.WithComponent("journal"),
	}, nil
}

// Path returns the file backing a journal.
func (s *Store) Path(journal Name) string {
	return s.paths[journal]
}

// Journals returns the ledger partitions managed by the store.
func (s *Store) Journals() []Name {
	return []Name{Outstanding, Settled}
}

func (s *Store) lock(journal Name) (*sync.RWMutex, string, error) {
	mu, ok := s.locks[journal]
	if !ok {
		return nil, "", fmt.Errorf("journal: unknown journal %q", journal)
	}
	return mu, s.paths[journal], nil
}

// Append serializes the record and appends it as one line, flushing before
// returning so a crash after Append cannot lose the record.
func (s *Store) Append(journal Name, rec models.InvoiceRecord) error {
	mu, path, err := s.lock(journal)
	if err != nil {
		return err
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal: marshaling record: %w", err)
	}
	line = append(line, '\n')

	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("journal: opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("journal: appending to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("journal: flushing %s: %w", path, err)
	}

	metrics.JournalAppendsTotal.WithLabelValues(string(journal)).Inc()
	return nil
}

// ScanAll reads the journal top to bottom and returns its records in append
// order. Lines that fail to parse are logged and skipped; a missing journal
// yields an empty result, not an error.
func (s *Store) ScanAll(journal Name) ([]models.InvoiceRecord, error) {
	mu, path, err := s.lock(journal)
	if err != nil {
		return nil, err
	}

	mu.RLock()
	defer mu.RUnlock()

	return s.readAll(journal, path)
}

// readAll assumes the caller holds at least a read lock on the journal.
// Lines are read with bufio.Reader so record size is unbounded; notes are
// free text and can push a line past any fixed scanner token limit.
func (s *Store) readAll(journal Name, path string) ([]models.InvoiceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}
	defer f.Close()

	var records []models.InvoiceRecord
	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\n")
		if len(line) > 0 {
			var rec models.InvoiceRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				s.log.Warn().
					Str("journal", string(journal)).
					Str("line", truncateForLog(line)).
					Err(err).
					Msg("skipping malformed journal line")
				metrics.MalformedRecordsTotal.WithLabelValues(string(journal)).Inc()
			} else {
				records = append(records, rec)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("journal: reading %s: %w", path, readErr)
		}
	}
	return records, nil
}

// truncateForLog keeps malformed-line warnings readable when the line is huge.
func truncateForLog(line []byte) string {
	const max = 256
	if len(line) <= max {
		return string(line)
	}
	return string(line[:max]) + "..."
}

// RewriteFiltered replaces the journal with only the records the predicate
// keeps. The replacement is written to a temp file and renamed over the
// journal so no reader ever observes a truncated or half-written file.
// This is the only destructive operation on a journal; malformed lines do
// not survive a rewrite. A missing journal is a no-op.
func (s *Store) RewriteFiltered(journal Name, keep func(models.InvoiceRecord) bool) error {
	mu, path, err := s.lock(journal)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	records, err := s.readAll(journal, path)
	if err != nil {
		return err
	}
	if records == nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".rewrite-*")
	if err != nil {
		return fmt.Errorf("journal: creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens with 0600; the rename must not tighten the journal's
	// permissions relative to what Append creates.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("journal: setting temp file mode for %s: %w", path, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if !keep(rec) {
			continue
		}
		line, err := json.Marshal(rec)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("journal: marshaling record: %w", err)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			tmp.Close()
			return fmt.Errorf("journal: writing temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("journal: flushing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("journal: syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("journal: closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("journal: replacing %s: %w", path, err)
	}

	metrics.JournalRewritesTotal.WithLabelValues(string(journal)).Inc()
	return nil
}
