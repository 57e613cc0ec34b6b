package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/draad/tokeneditor/pkg/observability"
)

// DefaultDir is the snapshot directory used when none is configured,
// relative to the project root.
const DefaultDir = ".tokeneditor/snapshots"

// FileStore is a file-based snapshot store.
// Snapshots are stored as JSON files named after their ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	logger  *log.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLogger sets the logger used for skipped or unreadable files.
func WithLogger(l *log.Logger) FileStoreOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a file-based snapshot store rooted at baseDir,
// creating the directory if needed. If baseDir is empty, [DefaultDir] is
// used.
func NewFileStore(baseDir string, opts ...FileStoreOption) (*FileStore, error) {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	s := &FileStore{baseDir: baseDir, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Latest(ctx context.Context) (*Snapshot, error) {
	snaps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		observability.Snapshot().OnSnapshotLoad(ctx, "", false)
		return nil, nil
	}
	observability.Snapshot().OnSnapshotLoad(ctx, snaps[0].ID, true)
	return snaps[0], nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, notFound(id)
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.snapshotPath(id))
	s.mu.RUnlock()
	if err == nil {
		snap, err := decode(data)
		if err != nil {
			return nil, err
		}
		observability.Snapshot().OnSnapshotLoad(ctx, snap.ID, true)
		return snap, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	snaps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := match(snaps, id)
	observability.Snapshot().OnSnapshotLoad(ctx, id, err == nil)
	return snap, err
}

func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath(snap.ID), data, 0o600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	observability.Snapshot().OnSnapshotSave(ctx, snap.ID, snap.Version)
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var snaps []*Snapshot
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot", "path", path, "error", err)
			continue
		}
		snap, err := decode(data)
		if err != nil {
			s.logger.Warn("skipping invalid snapshot", "path", path, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	sortNewest(snaps)
	return snaps, nil
}

func (s *FileStore) Prune(ctx context.Context, keep int) (int, error) {
	snaps, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(snaps) <= keep {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, snap := range snaps[keep:] {
		if err := os.Remove(s.snapshotPath(snap.ID)); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove snapshot file: %w", err)
		}
		removed++
	}
	observability.Snapshot().OnSnapshotPrune(ctx, removed)
	return removed, nil
}

// Path returns the base directory for snapshot files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// SnapshotPath returns the file path of the snapshot with the given ID.
func (s *FileStore) SnapshotPath(id string) string {
	return s.snapshotPath(id)
}

var _ Store = (*FileStore)(nil)

func decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("parse snapshot: missing id")
	}
	return &snap, nil
}
