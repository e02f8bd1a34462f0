package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

var (
	ErrStorageClosed = errors.New("storage closed")
)

// Storage holds the persisted client session. Writes are last-writer-wins; there is no
// compare-and-swap between concurrent writers.
type Storage interface {
	GetSession() (*model.Session, error)
	SaveServerAddress(address string) error
	SaveUsername(username string) error
	SaveToken(token string) error
	// ClearSession removes the server address and token. The username is kept so the
	// next setup can be pre-filled.
	ClearSession() error
	Close() error
}

// MemoryStorage implements Storage in process memory
type MemoryStorage struct {
	mu      sync.RWMutex
	session model.Session
	closed  bool
}

// NewMemoryStorage creates an empty in-memory session store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (ms *MemoryStorage) GetSession() (*model.Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.closed {
		return nil, ErrStorageClosed
	}
	clone := ms.session
	return &clone, nil
}

func (ms *MemoryStorage) SaveServerAddress(address string) error {
	return ms.update(func(s *model.Session) { s.ServerAddress = address })
}

func (ms *MemoryStorage) SaveUsername(username string) error {
	return ms.update(func(s *model.Session) { s.Username = username })
}

func (ms *MemoryStorage) SaveToken(token string) error {
	return ms.update(func(s *model.Session) { s.Token = token })
}

func (ms *MemoryStorage) ClearSession() error {
	return ms.update(func(s *model.Session) {
		s.ServerAddress = ""
		s.Token = ""
	})
}

func (ms *MemoryStorage) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.closed = true
	return nil
}

func (ms *MemoryStorage) update(fn func(*model.Session)) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.closed {
		return ErrStorageClosed
	}
	fn(&ms.session)
	ms.session.UpdatedAt = time.Now()
	return nil
}
