package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"semicloud-gen-bot/internal/model"
)

const genLogTimeLayout = "2006-01-02 15:04:05"

// FileGenLog appends one line per generation to a plain-text file:
//
//	[2024-01-02 15:04:05] User: 123 | Service: netflix | Account: a:b
//
// Undelivered records carry an " | UNDELIVERED" suffix so operators can
// recover credentials that were drawn but never reached the requester.
type FileGenLog struct {
	path string
	mu   sync.Mutex
}

// NewFileGenLog creates the log directory if needed.
func NewFileGenLog(path string) (*FileGenLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create log dir: %v", ErrPersistence, err)
	}
	return &FileGenLog{path: path}, nil
}

// Record appends one audit line. A write failure propagates to the caller.
func (l *FileGenLog) Record(ctx context.Context, rec model.GenRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] User: %s | Service: %s | Account: %s",
		rec.CreatedAt.Format(genLogTimeLayout), rec.UserID, rec.Service, rec.Account)
	if rec.Undelivered {
		line += " | UNDELIVERED"
	}
	line += "\n"

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open gen log: %v", ErrPersistence, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: append gen log: %v", ErrPersistence, err)
	}
	return nil
}

// Ensure FileGenLog implements GenLog
var _ GenLog = (*FileGenLog)(nil)
