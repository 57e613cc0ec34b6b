// Package snapshot stores the user's edits to a token set.
//
// A [Snapshot] records the overrides and custom token edits at one point in
// time. Custom tokens are stored relative to the loaded custom token file:
// added or changed tokens plus the names of removed ones, so later changes
// to the file still show through. Loaded token files are never rewritten; instead every edit produces a new
// snapshot whose Parent is the previous one, and each run of the editor
// rebuilds its [token.Set] from the loaded files plus the latest snapshot.
//
// # Stores
//
// Snapshots are kept by a [Store]:
//   - [FileStore]: one JSON file per snapshot in a project directory
//   - [MemoryStore]: in-process storage for tests and embedding
//
// # Usage
//
//	store, err := snapshot.NewFileStore(".tokeneditor/snapshots")
//	if err != nil {
//	    return err
//	}
//
//	latest, err := store.Latest(ctx)    // nil when nothing was saved yet
//	set = latest.Apply(set)             // nil-safe
//
//	set, err = set.Override("brand", "color.primary", token.String("#0055ff"))
//	snap, saved, err := snapshot.Commit(ctx, store, latest, set, "brand color")
//
// [token.Set]: github.com/draad/tokeneditor/pkg/token.Set
package snapshot

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/draad/tokeneditor/pkg/token"
)

// Snapshot is one saved state of the user's edits.
type Snapshot struct {
	ID          string          `json:"id"`
	Version     int             `json:"version"`
	Parent      string          `json:"parent,omitempty"`
	Message     string          `json:"message,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Overrides   token.Overrides `json:"overrides"`
	Custom      []token.Token   `json:"custom"`
	Removed     []string        `json:"removed,omitempty"`
	Fingerprint string          `json:"fingerprint"`
}

// New creates a snapshot of set's edits on top of parent. parent may be nil
// for the first snapshot.
func New(parent *Snapshot, set token.Set, message string) *Snapshot {
	custom, removed := customEdits(set.LoadedCustom(), set.Custom())
	s := &Snapshot{
		ID:        uuid.NewString(),
		Version:   1,
		Message:   message,
		CreatedAt: time.Now().UTC(),
		Overrides: set.Overrides(),
		Custom:    custom,
		Removed:   removed,
	}
	if parent != nil {
		s.Parent = parent.ID
		s.Version = parent.Version + 1
	}
	if s.Custom == nil {
		s.Custom = []token.Token{}
	}
	s.Fingerprint = Fingerprint(s.Overrides, s.Custom, s.Removed)
	return s
}

// customEdits returns the tokens of current that are new or differ from
// loaded, and the names of loaded tokens missing from current.
func customEdits(loaded, current []token.Token) (changed []token.Token, removed []string) {
	byName := make(map[string]token.Token, len(loaded))
	for _, t := range loaded {
		byName[t.Name] = t
	}
	kept := make(map[string]bool, len(current))
	for _, t := range current {
		kept[t.Name] = true
		if prev, ok := byName[t.Name]; !ok || prev != t {
			changed = append(changed, t)
		}
	}
	for _, t := range loaded {
		if !kept[t.Name] {
			removed = append(removed, t.Name)
		}
	}
	return changed, removed
}

// Apply returns set with the snapshot's overrides and custom token edits. A
// nil snapshot returns set unchanged.
func (s *Snapshot) Apply(set token.Set) token.Set {
	if s == nil {
		return set
	}
	custom := slices.DeleteFunc(set.Custom(), func(t token.Token) bool {
		return slices.Contains(s.Removed, t.Name)
	})
	for _, t := range s.Custom {
		i := slices.IndexFunc(custom, func(c token.Token) bool { return c.Name == t.Name })
		if i >= 0 {
			custom[i] = t
		} else {
			custom = append(custom, t)
		}
	}
	return set.WithOverrides(s.Overrides).WithCustom(custom)
}

// ShortID returns the first eight characters of the ID.
func (s *Snapshot) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// Summary describes the snapshot's content in a few words.
func (s *Snapshot) Summary() string {
	out := fmt.Sprintf("%d override(s), %d custom token(s)", s.Overrides.Len(), len(s.Custom))
	if len(s.Removed) > 0 {
		out += fmt.Sprintf(", %d removed", len(s.Removed))
	}
	return out
}

// Fingerprint hashes the content of a set of edits. Two snapshots with the
// same overrides and custom tokens have the same fingerprint regardless of
// map iteration order. Custom tokens contribute every saved field, so an
// edited description is a change.
func Fingerprint(overrides token.Overrides, custom []token.Token, removed []string) string {
	h := xxhash.New()

	for _, cat := range slices.Sorted(maps.Keys(overrides)) {
		vals := overrides[cat]
		if len(vals) == 0 {
			continue
		}
		_, _ = h.WriteString(cat)
		_, _ = h.Write([]byte{0})
		for _, name := range slices.Sorted(maps.Keys(vals)) {
			writeEntry(h, name, vals[name], "")
		}
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0}) // Section separator

	for _, t := range custom {
		writeEntry(h, t.Name, t.Value, t.Type)
		_, _ = h.WriteString(t.Description)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(t.DependsOn)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	for _, name := range slices.Sorted(slices.Values(removed)) {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func writeEntry(h *xxhash.Digest, name string, v token.Value, typ string) {
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{'=', byte(v.Kind())})
	_, _ = h.WriteString(v.String())
	_, _ = h.Write([]byte{':'})
	_, _ = h.WriteString(typ)
	_, _ = h.Write([]byte{0})
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Latest returns the snapshot with the highest version.
	// Returns nil, nil if the store is empty.
	Latest(ctx context.Context) (*Snapshot, error)

	// Get retrieves a snapshot by ID or unique ID prefix.
	// Returns a SNAPSHOT_NOT_FOUND error if nothing matches.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Save stores a snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]*Snapshot, error)

	// Prune removes all but the newest keep snapshots and returns how many
	// were removed.
	Prune(ctx context.Context, keep int) (int, error)
}

// Commit saves the edits in set as a new snapshot on top of latest. When the
// edits are identical to latest, nothing is written and latest is returned
// with saved == false.
func Commit(ctx context.Context, store Store, latest *Snapshot, set token.Set, message string) (snap *Snapshot, saved bool, err error) {
	next := New(latest, set, message)
	if latest != nil && latest.Fingerprint == next.Fingerprint {
		return latest, false, nil
	}
	if err := store.Save(ctx, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// sortNewest orders snapshots by descending version, then creation time.
func sortNewest(snaps []*Snapshot) {
	slices.SortStableFunc(snaps, func(a, b *Snapshot) int {
		if a.Version != b.Version {
			return b.Version - a.Version
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// match finds the snapshot whose ID equals id or starts with it.
func match(snaps []*Snapshot, id string) (*Snapshot, error) {
	if id == "" {
		return nil, notFound(id)
	}
	var found *Snapshot
	for _, s := range snaps {
		if s.ID == id {
			return s, nil
		}
		if strings.HasPrefix(s.ID, id) {
			if found != nil {
				return nil, ambiguous(id)
			}
			found = s
		}
	}
	if found == nil {
		return nil, notFound(id)
	}
	return found, nil
}
