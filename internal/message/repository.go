package message

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("message not found")

// Repository provides access to messages.
type Repository interface {
	Create(m Message) (Message, error)
	ListInbox(userID int) ([]Message, error)
	CountUnread(userID int) (int, error)
	MarkRead(id, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int
	messages []Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryRepository) ListInbox(userID int) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, 0)
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].ToUserID == userID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) CountUnread(userID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.messages {
		if m.ToUserID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) MarkRead(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id && r.messages[i].ToUserID == userID {
			r.messages[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}
