package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Snapshot schema versioning for forward-compatibility.
const snapshotVersion = 1

type snapshot struct {
	Version int      `json:"version"`
	NextID  uint64   `json:"next_id"`
	Records []Record `json:"records"`
	Created int64    `json:"created_unix"`
}

func (s *Store) loadSnapshot(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = RecordID(snap.NextID)
	if s.nextID == 0 {
		s.nextID = 1
	}
	s.byID = make(map[RecordID]*Record)
	s.byRole = make(map[string]map[RecordID]struct{})

	for i := range snap.Records {
		// Store pointer to copy to avoid referencing slice backing array.
		rec := snap.Records[i]
		s.byID[rec.ID] = &rec
		if _, ok := s.byRole[rec.Role]; !ok {
			s.byRole[rec.Role] = make(map[RecordID]struct{})
		}
		s.byRole[rec.Role][rec.ID] = struct{}{}
	}
	return nil
}

func (s *Store) saveSnapshot(path string) error {
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	s.mu.RLock()
	snap := snapshot{
		Version: snapshotVersion,
		NextID:  uint64(s.nextID),
		Created: now().Unix(),
	}
	snap.Records = make([]Record, 0, len(s.byID))
	for _, r := range s.byID {
		snap.Records = append(snap.Records, *r)
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
