package snapshot

import (
	"context"
	"sync"

	"github.com/draad/tokeneditor/pkg/observability"
)

// MemoryStore keeps snapshots in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Latest(ctx context.Context) (*Snapshot, error) {
	snaps, _ := m.List(ctx)
	if len(snaps) == 0 {
		observability.Snapshot().OnSnapshotLoad(ctx, "", false)
		return nil, nil
	}
	observability.Snapshot().OnSnapshotLoad(ctx, snaps[0].ID, true)
	return snaps[0], nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	snaps, _ := m.List(ctx)
	snap, err := match(snaps, id)
	observability.Snapshot().OnSnapshotLoad(ctx, id, err == nil)
	return snap, err
}

func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *snap
	m.snaps[snap.ID] = &cp
	observability.Snapshot().OnSnapshotSave(ctx, snap.ID, snap.Version)
	return nil
}

func (m *MemoryStore) List(context.Context) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps := make([]*Snapshot, 0, len(m.snaps))
	for _, s := range m.snaps {
		cp := *s
		snaps = append(snaps, &cp)
	}
	sortNewest(snaps)
	return snaps, nil
}

func (m *MemoryStore) Prune(ctx context.Context, keep int) (int, error) {
	snaps, _ := m.List(ctx)
	if keep < 0 {
		keep = 0
	}
	if len(snaps) <= keep {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snaps[keep:] {
		delete(m.snaps, s.ID)
	}
	removed := len(snaps) - keep
	observability.Snapshot().OnSnapshotPrune(ctx, removed)
	return removed, nil
}

var _ Store = (*MemoryStore)(nil)
