package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/pinlon/community_bot/internal/models"
	"github.com/pinlon/community_bot/pkg/errors"
)

// SnapshotStore is the persistence gateway: it reads and writes the snapshot
// document on behalf of the content store and never mutates in-memory state
// itself.
type SnapshotStore struct {
	path      string
	backupDir string
}

func NewSnapshotStore(path, backupDir string) *SnapshotStore {
	return &SnapshotStore{path: path, backupDir: backupDir}
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the previous one, so a crash mid-write never leaves a
// truncated snapshot behind.
func (s *SnapshotStore) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to create data directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to create temp snapshot")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to close snapshot")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrCodePersistence, "failed to replace snapshot")
	}
	return nil
}

// Load reads the snapshot from disk. A missing file is not an error: the
// process simply starts with an empty store.
func (s *SnapshotStore) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodePersistence, "failed to read snapshot")
	}
	return s.Decode(data)
}

// Decode parses snapshot bytes, as uploaded by /restore. Validation is
// syntactic only: a well-formed document is accepted as-is.
func (s *SnapshotStore) Decode(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "snapshot is not valid JSON")
	}
	return &snap, nil
}

// Quarantine moves an unreadable snapshot aside under a timestamped name so
// the next save does not overwrite the evidence. Returns the new path.
func (s *SnapshotStore) Quarantine() (string, error) {
	path := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102_150405"))
	if err := os.Rename(s.path, path); err != nil {
		return "", errors.Wrap(err, errors.ErrCodePersistence, "failed to move corrupt snapshot")
	}
	return path, nil
}

// Backup writes an independently timestamped copy of the snapshot under the
// backup directory and returns its path. Live state is untouched.
func (s *SnapshotStore) Backup(snap *models.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodePersistence, "failed to encode backup")
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodePersistence, "failed to create backup directory")
	}

	name := fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodePersistence, "failed to write backup")
	}
	return path, nil
}
