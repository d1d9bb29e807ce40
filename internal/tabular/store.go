package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"garage/internal/logging"
)

// ErrSchema reports a header row that cannot be reconciled with the canonical
// column set.
var ErrSchema = errors.New("schema mismatch")

// Store caches the rows of one delimited file and keeps the cache consistent
// with the file via modification-time staleness checks. All mutations rewrite
// the whole file atomically and replace the in-memory snapshot without a
// re-read.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock // optional cross-process write guard

	mu         sync.RWMutex
	lockHeld   bool // guarded by mu, prevents nested flock acquire/release
	rows       []Record
	modTime    time.Time
	loaded     bool
	generation uint64
}

// Option customizes store construction.
type Option func(*Store)

// WithLockFile makes every load-mutate-save cycle acquire an advisory file
// lock, so two processes sharing the store cannot interleave their rewrites.
func WithLockFile(path string) Option {
	return func(s *Store) {
		if strings.TrimSpace(path) != "" {
			s.lock = flock.New(path)
		}
	}
}

// Status reports cache state for the admin surface.
type Status struct {
	Path     string    `json:"path"`
	RowCount int       `json:"rowCount"`
	Loaded   bool      `json:"loaded"`
	ModTime  time.Time `json:"modTime"`
}

// NewStore binds a store to a file path. The file is created with only the
// header row on first use.
func NewStore(path string, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "tabular"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file path the store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Rows returns the current snapshot, reloading it first if the file changed
// since the last observed modification time. The generation counter increments
// only when the snapshot actually changes, so callers can cache derived
// structures against it. The returned slice is a copy.
func (s *Store) Rows() ([]Record, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return nil, 0, err
	}
	return s.copyRowsLocked(), s.generation, nil
}

// Save rewrites the whole file from the given rows, then adopts them as the
// in-memory snapshot under the freshly observed modification time.
func (s *Store) Save(rows []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.withFileLock(func() error { return s.saveLocked(rows) }); err != nil {
		return err
	}
	return nil
}

// Update runs one serialized load-mutate-save cycle. fn receives a copy of the
// fresh snapshot and returns the replacement rows plus whether anything
// changed; when changed is false the file is left untouched.
func (s *Store) Update(fn func(rows []Record) ([]Record, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(func() error {
		if err := s.refreshLocked(); err != nil {
			return err
		}
		next, changed, err := fn(s.copyRowsLocked())
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return s.saveLocked(next)
	})
}

// Invalidate discards the recorded modification time so the next read reloads
// from disk unconditionally.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.modTime = time.Time{}
}

// Status returns cache metadata without forcing a reload.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Path:     s.path,
		RowCount: len(s.rows),
		Loaded:   s.loaded,
		ModTime:  s.modTime,
	}
}

func (s *Store) withFileLock(fn func() error) error {
	if s.lock == nil || s.lockHeld {
		return fn()
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	s.lockHeld = true
	defer func() {
		s.lockHeld = false
		s.lock.Unlock() //nolint:errcheck
	}()
	return fn()
}

func (s *Store) copyRowsLocked() []Record {
	out := make([]Record, len(s.rows))
	copy(out, s.rows)
	return out
}

// refreshLocked brings the snapshot up to date with the file, creating the
// file when absent.
func (s *Store) refreshLocked() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.createLocked(); err != nil {
			return err
		}
		info, err = os.Stat(s.path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	if s.loaded && s.modTime.Equal(info.ModTime()) {
		return nil
	}

	rows, healed, err := s.readFile()
	if err != nil {
		return err
	}

	if healed {
		// Self-healing policy: rewrite with the canonical header and the
		// rows recovered from the recognized columns. The rewrite goes
		// through the same advisory lock as every other write.
		if err := s.withFileLock(func() error { return s.saveLocked(rows) }); err != nil {
			return fmt.Errorf("rewrite after header recovery: %w", err)
		}
		s.logger.Warn("rewrote file with canonical header",
			logging.String("path", s.path),
			logging.Int("row_count", len(rows)))
		return nil
	}

	s.rows = rows
	s.modTime = info.ModTime()
	s.loaded = true
	s.generation++
	s.logger.Debug("reloaded snapshot",
		logging.String("path", s.path),
		logging.Int("row_count", len(rows)))
	return nil
}

func (s *Store) createLocked() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	return s.writeFile(nil)
}

// readFile parses the file. The second return value reports that the header
// deviated from the canonical one and the rows were recovered by column name.
func (s *Store) readFile() ([]Record, bool, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// Empty file: treat like a fresh store.
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	if headerMatches(header) {
		var rows []Record
		for {
			fields, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, false, fmt.Errorf("read %s: %w", s.path, err)
			}
			rows = append(rows, recordFromFields(fields))
		}
		return rows, false, nil
	}

	rows, err := recoverRows(reader, header)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.path, err)
	}
	return rows, true, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(Header) {
		return false
	}
	for i, name := range header {
		if strings.TrimSpace(name) != Header[i] {
			return false
		}
	}
	return true
}

// recoverRows maps whatever canonical columns the actual header carries
// (case-insensitive, any order) onto Records. A header without a single
// recognized column is unrecoverable.
func recoverRows(reader *csv.Reader, header []string) ([]Record, error) {
	columns := make(map[string]int, len(Header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, canonical := range Header {
			if name == canonical {
				if _, dup := columns[canonical]; !dup {
					columns[canonical] = i
				}
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no recognized columns in header %v", ErrSchema, header)
	}

	var rows []Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows for recovery: %w", err)
		}
		ordered := make([]string, len(Header))
		for i, canonical := range Header {
			if idx, ok := columns[canonical]; ok && idx < len(fields) {
				ordered[i] = fields[idx]
			}
		}
		rows = append(rows, recordFromFields(ordered))
	}
	return rows, nil
}

// saveLocked rewrites the file and adopts rows as the snapshot. Callers hold
// the store mutex.
func (s *Store) saveLocked(rows []Record) error {
	if err := s.writeFile(rows); err != nil {
		return err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat after save: %w", err)
	}

	s.rows = make([]Record, len(rows))
	copy(s.rows, rows)
	s.modTime = info.ModTime()
	s.loaded = true
	s.generation++
	return nil
}

// writeFile performs the atomic full-snapshot rewrite via temp file + rename.
func (s *Store) writeFile(rows []Record) error {
	tmpPath := s.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	writer := csv.NewWriter(file)
	writeErr := writer.Write(Header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(row.fields())
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, writeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
