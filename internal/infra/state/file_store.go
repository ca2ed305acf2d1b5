package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileStore persists the dedup map as a flat JSON object on disk. Writes go
// to a temporary file in the same directory, are flushed, and then renamed
// over the real path, so a crash mid-write never leaves a truncated store.
type FileStore struct {
	path   string
	logger *logrus.Logger
}

func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted state. A missing, unreadable, or corrupt file
// degrades to an empty map: the worst case is one duplicate send after a
// restart, which is the accepted tradeoff.
func (s *FileStore) Load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Infof("State file %s does not exist yet; starting with empty state.", s.path)
		} else {
			s.logger.Errorf("Could not read state file %s: %v. Treating as empty.", s.path, err)
		}
		return map[string]string{}
	}

	state := map[string]string{}
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Errorf("Could not parse state file %s: %v. Treating as empty.", s.path, err)
		return map[string]string{}
	}
	return state
}

// Save writes the full map atomically via temp-file-plus-rename.
func (s *FileStore) Save(state map[string]string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing state file: %w", err)
	}
	return nil
}
