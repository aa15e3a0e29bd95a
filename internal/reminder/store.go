package reminder

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/notexe/nevermiss/internal/apperr"
)

// Columns is the canonical header of the backing file, in order.
var Columns = []string{
	"reminder_id", "raw_input", "title", "category",
	"date", "time", "priority", "notes", "status", "created_at",
}

// Store keeps reminders in a single CSV file.
//
// Every mutation reads the whole file and rewrites it under the store's
// write lock, so callers sharing a Store never interleave rewrites or read
// a half-written file. Other processes editing the file are not guarded.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for rewrite diagnostics.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a store backed by the CSV file at path. The file does
// not need to exist yet.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// LoadAll returns every row in file order. A missing file is an empty table.
func (s *Store) LoadAll() ([]Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() ([]Reminder, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Reminder{}, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", apperr.ErrStorageRead, s.path, err)
	}
	defer f.Close()

	rows, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrStorageRead, s.path, err)
	}
	return rows, nil
}

// Append adds r as the last row.
func (s *Store) Append(r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return err
	}

	rows = append(rows, r)
	return s.writeAll(rows)
}

// Create assigns the next id and appends the row build returns, holding
// the write lock throughout. Nothing is written when build fails.
func (s *Store) Create(build func(id int64) (Reminder, error)) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return Reminder{}, err
	}

	r, err := build(NextID(rows))
	if err != nil {
		return Reminder{}, err
	}

	if err := s.writeAll(append(rows, r)); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// UpdateStatus sets the status of the row with the given id.
// It returns an apperr.ErrNotFound error, and leaves the file alone, when
// no row matches.
func (s *Store) UpdateStatus(id int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q (use %s or %s)",
			apperr.ErrValidation, status, StatusPending, StatusCompleted)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return err
	}

	matched := 0
	for i := range rows {
		if rows[i].ID == id {
			rows[i].Status = status
			matched++
		}
	}
	if matched == 0 {
		return fmt.Errorf("reminder %d %w", id, apperr.ErrNotFound)
	}

	return s.writeAll(rows)
}

// NextID returns the id for a new row: one past the row count, or past
// the largest existing id if rows were removed by hand.
func NextID(rows []Reminder) int64 {
	next := int64(len(rows))
	for _, r := range rows {
		if r.ID > next {
			next = r.ID
		}
	}
	return next + 1
}

func (s *Store) writeAll(rows []Reminder) error {
	var buf bytes.Buffer
	if err := encode(&buf, rows); err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	s.logger.Debug("store rewritten",
		zap.String("path", s.path),
		zap.Int("rows", len(rows)),
		zap.Int("bytes", buf.Len()))
	return nil
}

func encode(w io.Writer, rows []Reminder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.RawInput,
			r.Title,
			r.Category,
			Deref(r.Date),
			Deref(r.Time),
			r.Priority,
			r.Notes,
			r.Status,
			r.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decode(r io.Reader) ([]Reminder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err == io.EOF {
		// Zero-byte file: same as a fresh table.
		return []Reminder{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	rows := []Reminder{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid reminder_id %q", line, record[0])
		}

		rows = append(rows, Reminder{
			ID:        id,
			RawInput:  record[1],
			Title:     record[2],
			Category:  record[3],
			Date:      StringPtr(record[4]),
			Time:      StringPtr(record[5]),
			Priority:  record[6],
			Notes:     record[7],
			Status:    record[8],
			CreatedAt: record[9],
		})
	}
	return rows, nil
}
