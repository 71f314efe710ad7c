package store

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const stockFileExt = ".txt"

// FileInventoryStore keeps one plain-text file per service under dir, one
// credential per line, newline-terminated. Every rewrite goes through a temp
// file and rename so a crash never leaves a half-written sequence behind.
//
// A per-service mutex serializes select-remove-persist so two overlapping
// draws cannot read the same pre-mutation sequence and clobber each other's
// write.
type FileInventoryStore struct {
	dir string

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewFileInventoryStore creates the stock directory if needed and returns a
// file-backed inventory store.
func NewFileInventoryStore(dir string) (*FileInventoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create stock dir: %v", ErrPersistence, err)
	}

	log.Printf("[FileInventoryStore] Initialized with directory: %s", dir)
	return &FileInventoryStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// serviceLock returns the mutex owning the named service's file.
func (s *FileInventoryStore) serviceLock(service string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[service]
	if !ok {
		l = &sync.Mutex{}
		s.locks[service] = l
	}
	return l
}

func (s *FileInventoryStore) path(service string) string {
	return filepath.Join(s.dir, service+stockFileExt)
}

// readItems loads the service's sequence. known reports whether the backing
// file exists at all, which is how an unknown service is told apart from an
// empty one.
func (s *FileInventoryStore) readItems(service string) (items []string, known bool, err error) {
	data, err := os.ReadFile(s.path(service))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read stock file: %v", ErrPersistence, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items, true, nil
}

// writeItems atomically replaces the service's file with the given sequence.
func (s *FileInventoryStore) writeItems(service string, items []string) error {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(s.dir, service+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp stock file: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write stock file: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close stock file: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path(service)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace stock file: %v", ErrPersistence, err)
	}
	return nil
}

// Create creates an empty sequence for the service.
func (s *FileInventoryStore) Create(ctx context.Context, service string) error {
	service = NormalizeService(service)

	lock := s.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(s.path(service)); err == nil {
		return ErrAlreadyExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat stock file: %v", ErrPersistence, err)
	}

	return s.writeItems(service, nil)
}

// Count returns the number of items in stock, 0 for an unknown service.
func (s *FileInventoryStore) Count(ctx context.Context, service string) (int, error) {
	service = NormalizeService(service)

	items, _, err := s.readItems(service)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ListServices returns all known service names, sorted.
func (s *FileInventoryStore) ListServices(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read stock dir: %v", ErrPersistence, err)
	}

	services := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), stockFileExt) {
			continue
		}
		services = append(services, strings.TrimSuffix(e.Name(), stockFileExt))
	}
	sort.Strings(services)
	return services, nil
}

// Append adds items in order, creating the service implicitly.
func (s *FileInventoryStore) Append(ctx context.Context, service string, items []string) (int, error) {
	service = NormalizeService(service)

	lock := s.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	existing, _, err := s.readItems(service)
	if err != nil {
		return 0, err
	}

	// Items are opaque; only truly empty entries are dropped, since the
	// line format cannot represent them.
	for _, item := range items {
		if item == "" {
			continue
		}
		existing = append(existing, item)
	}

	if err := s.writeItems(service, existing); err != nil {
		return 0, err
	}
	return len(existing), nil
}

// PopRandom removes and returns one uniformly drawn item.
func (s *FileInventoryStore) PopRandom(ctx context.Context, service string) (string, error) {
	service = NormalizeService(service)

	lock := s.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	items, known, err := s.readItems(service)
	if err != nil {
		return "", err
	}
	if !known {
		return "", ErrNotFound
	}
	if len(items) == 0 {
		return "", ErrOutOfStock
	}

	i := rand.Intn(len(items))
	item := items[i]
	items = append(items[:i], items[i+1:]...)

	if err := s.writeItems(service, items); err != nil {
		return "", err
	}
	return item, nil
}

// PeekMany returns the first n items without removing them.
func (s *FileInventoryStore) PeekMany(ctx context.Context, service string, n int) ([]string, error) {
	service = NormalizeService(service)

	items, known, err := s.readItems(service)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrNotFound
	}

	if n > len(items) {
		n = len(items)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out, nil
}

// Clear removes every item; the service stays known.
func (s *FileInventoryStore) Clear(ctx context.Context, service string) (int, error) {
	service = NormalizeService(service)

	lock := s.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	items, known, err := s.readItems(service)
	if err != nil {
		return 0, err
	}
	if !known {
		return 0, ErrNotFound
	}

	if err := s.writeItems(service, nil); err != nil {
		return 0, err
	}
	return len(items), nil
}

// Stats returns service and item totals for the admin surface.
func (s *FileInventoryStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, svc := range services {
		n, err := s.Count(ctx, svc)
		if err != nil {
			return nil, err
		}
		total += n
	}

	return map[string]interface{}{
		"backend":        "file",
		"total_services": len(services),
		"total_accounts": total,
	}, nil
}

// PruneEmpty deletes backing files of empty services untouched for longer
// than olderThan. Used by the reaper; returns the number removed.
func (s *FileInventoryStore) PruneEmpty(ctx context.Context, olderThan time.Duration) (int, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	pruned := 0

	for _, svc := range services {
		lock := s.serviceLock(svc)
		lock.Lock()

		info, err := os.Stat(s.path(svc))
		if err != nil {
			lock.Unlock()
			if os.IsNotExist(err) {
				continue
			}
			return pruned, fmt.Errorf("%w: stat stock file: %v", ErrPersistence, err)
		}

		items, _, err := s.readItems(svc)
		if err != nil {
			lock.Unlock()
			return pruned, err
		}

		if len(items) == 0 && info.ModTime().Before(cutoff) {
			if err := os.Remove(s.path(svc)); err != nil {
				lock.Unlock()
				return pruned, fmt.Errorf("%w: remove stock file: %v", ErrPersistence, err)
			}
			pruned++
		}
		lock.Unlock()
	}
	return pruned, nil
}

// Close is a no-op for the file store.
func (s *FileInventoryStore) Close() error {
	return nil
}

// Ensure FileInventoryStore implements InventoryStore
var _ InventoryStore = (*FileInventoryStore)(nil)
