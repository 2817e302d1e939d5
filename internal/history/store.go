package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	lockTimeout = 5 * time.Second
	fileMode    = 0644
	dirMode     = 0755

	lockShared    = syscall.LOCK_SH
	lockExclusive = syscall.LOCK_EX
)

// historyFile represents the on-disk history format.
type historyFile struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

type jsonStore struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// NewStore creates a new JSON-backed history store.
func NewStore(path string) *jsonStore {
	return &jsonStore{path: path, now: time.Now}
}

func (s *jsonStore) Add(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	err := s.withExclusiveLock(ctx, func(hf *historyFile) error {
		for _, e := range hf.Entries {
			if e.ID == entry.ID {
				return ErrAlreadyExists
			}
		}

		hf.Entries = append(hf.Entries, entry)
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *jsonStore) Get(ctx context.Context, id string) (*Entry, error) {
	var result *Entry

	err := s.withSharedLock(ctx, func(hf *historyFile) error {
		for i := range hf.Entries {
			if hf.Entries[i].ID == id {
				entry := hf.Entries[i]
				result = &entry
				return nil
			}
		}
		return ErrNotFound
	})

	return result, err
}

func (s *jsonStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	var result []Entry

	err := s.withSharedLock(ctx, func(hf *historyFile) error {
		for _, e := range hf.Entries {
			if filter.Run != "" && e.Run != filter.Run {
				continue
			}
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}
	return result, nil
}

func (s *jsonStore) Runs(ctx context.Context) ([]RunSummary, error) {
	byRun := make(map[string]*RunSummary)

	err := s.withSharedLock(ctx, func(hf *historyFile) error {
		for _, e := range hf.Entries {
			sum, ok := byRun[e.Run]
			if !ok {
				sum = &RunSummary{Run: e.Run, First: e.CreatedAt, Last: e.CreatedAt}
				byRun[e.Run] = sum
			}

			switch e.Status {
			case StatusCreated:
				sum.Created++
			case StatusMissing:
				sum.Missing++
			default:
				sum.Failed++
			}

			if e.CreatedAt.Before(sum.First) {
				sum.First = e.CreatedAt
			}
			if e.CreatedAt.After(sum.Last) {
				sum.Last = e.CreatedAt
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]RunSummary, 0, len(byRun))
	for _, sum := range byRun {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Last.Equal(result[j].Last) {
			return result[i].Run < result[j].Run
		}
		return result[i].Last.After(result[j].Last)
	})
	return result, nil
}

func (s *jsonStore) Clear(ctx context.Context, run string) (int, error) {
	var removed int

	err := s.withExclusiveLock(ctx, func(hf *historyFile) error {
		kept := hf.Entries[:0]
		for _, e := range hf.Entries {
			if run == "" || e.Run == run {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		hf.Entries = kept
		return nil
	})

	return removed, err
}

// withSharedLock executes fn with a shared (read) lock.
func (s *jsonStore) withSharedLock(ctx context.Context, fn func(*historyFile) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, err := s.lock(ctx, lockShared)
	if err != nil {
		return err
	}
	defer unlock(lock)

	hf, err := s.load()
	if err != nil {
		return err
	}
	return fn(hf)
}

// withExclusiveLock executes fn with an exclusive (write) lock.
// Changes made by fn are persisted to disk.
func (s *jsonStore) withExclusiveLock(ctx context.Context, fn func(*historyFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, err := s.lock(ctx, lockExclusive)
	if err != nil {
		return err
	}
	defer unlock(lock)

	hf, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(hf); err != nil {
		return err
	}

	return s.save(hf)
}

// lock opens the sidecar lock file and acquires a lock on it. The data file
// itself is replaced on every save, so it cannot carry the lock.
func (s *jsonStore) lock(ctx context.Context, lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	file, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open history lock: %w", err)
	}

	if err := acquireLock(ctx, file, lockType); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// acquireLock attempts to acquire a file lock with timeout.
func acquireLock(ctx context.Context, file *os.File, lockType int) error {
	deadline := time.Now().Add(lockTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := syscall.Flock(int(file.Fd()), lockType|syscall.LOCK_NB)
		if err == nil {
			return nil
		}

		if err != syscall.EWOULDBLOCK {
			return fmt.Errorf("acquire file lock: %w", err)
		}

		if time.Now().After(deadline) {
			return ErrLockTimeout
		}

		time.Sleep(10 * time.Millisecond)
	}
}

// unlock releases the lock and closes the file.
func unlock(file *os.File) {
	syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	file.Close()
}

// load reads and parses the history file. A missing or empty file is an
// empty history.
func (s *jsonStore) load() (*historyFile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		return &historyFile{Version: 1, Entries: []Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var hf historyFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}
	if hf.Entries == nil {
		hf.Entries = []Entry{}
	}

	return &hf, nil
}

// save writes the history to disk atomically.
func (s *jsonStore) save(hf *historyFile) error {
	hf.Version = 1

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "history-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(hf); err != nil {
		tmp.Close()
		return fmt.Errorf("encode history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename history file: %w", err)
	}

	tmpPath = ""
	return nil
}
