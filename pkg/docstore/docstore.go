package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Observer receives timings for document operations. Used for metrics.
type Observer func(op, document string, duration time.Duration)

// Store persists named JSON documents under a base directory. Each document
// is a whole file (`<dir>/<name>.json`) read and written in full. A mutex per
// document serialises read-modify-write cycles so concurrent admin requests
// cannot lose updates.
type Store struct {
	dir      string
	observer Observer

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// New ensures the data directory exists and returns a store handle.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.RWMutex)}, nil
}

// SetObserver installs a timing callback for load/save operations.
func (s *Store) SetObserver(obs Observer) {
	s.observer = obs
}

// Load reads a document into v. A missing file leaves v untouched so the
// caller's zero value acts as the empty collection. Malformed JSON is an
// error; there is no recovery path for a corrupt document.
func (s *Store) Load(name string, v interface{}) error {
	lock := s.lockFor(name)
	lock.RLock()
	defer lock.RUnlock()
	return s.read(name, v)
}

// Save overwrites a document with the JSON encoding of v. The write goes to
// a temp file in the same directory and is renamed into place so readers
// never observe a partial document.
func (s *Store) Save(name string, v interface{}) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()
	return s.write(name, v)
}

// Update runs a read-modify-write cycle under the document lock: v is loaded,
// mutate edits it in place, and the result is written back. Returning an
// error from mutate aborts the write.
func (s *Store) Update(name string, v interface{}, mutate func() error) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	if err := s.read(name, v); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return s.write(name, v)
}

// Path returns the absolute file path backing a document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) read(name string, v interface{}) error {
	start := time.Now()
	defer s.observe("load", name, start)

	raw, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read document %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", name, err)
	}
	return nil
}

func (s *Store) write(name string, v interface{}) error {
	start := time.Now()
	defer s.observe("save", name, start)

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage document %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		os.Remove(tmpName)
		return fmt.Errorf("write document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush document %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document %s: %w", name, err)
	}
	return nil
}

func (s *Store) lockFor(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.RWMutex{}
		s.locks[name] = lock
	}
	return lock
}

func (s *Store) observe(op, name string, start time.Time) {
	if s.observer != nil {
		s.observer(op, name, time.Since(start))
	}
}
