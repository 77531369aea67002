package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/portal"
)

// MemStore keeps the session in memory, for tests and for one-shot commands.
type MemStore struct {
	mutex sync.RWMutex
	data  map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", portal.ErrKeyNotFound
}

func (s *MemStore) Set(key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemStore) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore keeps the session in a JSON file readable only by its owner.
type FileStore struct {
	mutex sync.Mutex
	path  string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() (map[string]string, error) {
	data := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decoding session file")
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "writing session file")
}

func (s *FileStore) Get(key string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := s.read()
	if err != nil {
		return "", err
	}
	if v, ok := data[key]; ok {
		return v, nil
	}
	return "", portal.ErrKeyNotFound
}

func (s *FileStore) Set(key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = value
	return s.write(data)
}

func (s *FileStore) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}
