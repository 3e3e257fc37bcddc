// Package history keeps a persistent catalog of terminations so that an
// operator can audit what the watchdog killed across sessions.
package history

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is a threadsafe in-memory catalog of termination records. A
// secondary index enables cheap queries by role.
type Store struct {
	mu     sync.RWMutex
	nextID RecordID
	byID   map[RecordID]*Record
	byRole map[string]map[RecordID]struct{}

	// Where to snapshot. If empty, snapshotting is disabled.
	SnapshotPath string
}

// New loads the snapshot if present and returns a ready store.
func New(snapshotPath string) (*Store, error) {
	s := &Store{
		nextID:       1,
		byID:         make(map[RecordID]*Record),
		byRole:       make(map[string]map[RecordID]struct{}),
		SnapshotPath: snapshotPath,
	}
	if snapshotPath != "" {
		if err := s.loadSnapshot(snapshotPath); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a record and returns its assigned ID.
func (s *Store) Add(r Record) RecordID {
	s.mu.Lock()
	id := s.nextID
	s.nextID++

	r.ID = id
	if r.At.IsZero() {
		r.At = now()
	}
	s.byID[id] = &r
	if _, ok := s.byRole[r.Role]; !ok {
		s.byRole[r.Role] = make(map[RecordID]struct{})
	}
	s.byRole[r.Role][id] = struct{}{}
	s.mu.Unlock()

	s.maybeSave()
	return id
}

// List returns matching records, sorted by ID asc.
func (s *Store) List(f Filter) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]RecordID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}

	if len(f.Roles) > 0 {
		roleSet := make(map[RecordID]struct{})
		for _, role := range f.Roles {
			for id := range s.byRole[role] {
				roleSet[id] = struct{}{}
			}
		}
		ids = filterIDs(ids, func(id RecordID) bool {
			_, ok := roleSet[id]
			return ok
		})
	}
	if f.RunID != "" {
		ids = filterIDs(ids, func(id RecordID) bool {
			return s.byID[id].RunID == f.RunID
		})
	}
	if !f.Since.IsZero() {
		ids = filterIDs(ids, func(id RecordID) bool {
			return !s.byID[id].At.Before(f.Since)
		})
	}
	if q := strings.TrimSpace(f.TextSearch); q != "" {
		ids = filterIDs(ids, func(id RecordID) bool {
			return strings.Contains(s.byID[id].Command, q)
		})
	}

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		cp := *s.byID[id]
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Reset clears the store and resets the ID counter.
func (s *Store) Reset() {
	s.mu.Lock()
	s.nextID = 1
	s.byID = make(map[RecordID]*Record)
	s.byRole = make(map[string]map[RecordID]struct{})
	s.mu.Unlock()

	s.maybeSave()
}

// maybeSave performs a best-effort snapshot write if a path is configured.
func (s *Store) maybeSave() {
	if s.SnapshotPath == "" {
		return
	}
	if err := s.saveSnapshot(s.SnapshotPath); err != nil {
		log.Printf("history snapshot failed: %v", err)
	}
}

func filterIDs(ids []RecordID, keep func(RecordID) bool) []RecordID {
	dst := ids[:0]
	for _, id := range ids {
		if keep(id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func now() time.Time {
	return time.Now().UTC()
}
