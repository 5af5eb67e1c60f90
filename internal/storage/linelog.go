package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

// LineLog is an append-only text file holding one score line per win.
type LineLog struct {
	mu   sync.Mutex
	path string
}

var _ memory.ScoreStore = (*LineLog)(nil)

// OpenLineLog prepares a line log at path. The file is created on the first
// append.
func OpenLineLog(path string) (*LineLog, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return &LineLog{path: path}, nil
}

// Path returns the resolved file path.
func (l *LineLog) Path() string {
	return l.path
}

// Append writes the record's line to the end of the file.
func (l *LineLog) Append(ctx context.Context, rec memory.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", memory.ErrStoreUnavailable, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: storage: cannot open score log: %w", memory.ErrStoreUnavailable, err)
	}
	if _, err := f.WriteString(rec.Line() + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("%w: storage: cannot write score: %w", memory.ErrStoreUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: storage: cannot close score log: %w", memory.ErrStoreUnavailable, err)
	}
	return nil
}

// ReadAll returns every line in the file. A missing file is an empty log.
func (l *LineLog) ReadAll(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", memory.ErrStoreUnavailable, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: storage: cannot open score log: %w", memory.ErrStoreUnavailable, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: storage: cannot read score log: %w", memory.ErrStoreUnavailable, err)
	}
	return lines, nil
}
