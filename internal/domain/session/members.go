package session

import "sync"

// Members запоминает, в какую группу пришел пользователь по ссылке /start или создал через /grouptest
type Members struct {
	mu sync.RWMutex
	m  map[int64]int64
}

func NewMembers() *Members {
	return &Members{m: make(map[int64]int64)}
}

// Bind привязывает пользователя к группе, заменяя прежнюю привязку
func (m *Members) Bind(userID, companyID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[userID] = companyID
}

// Company возвращает группу пользователя или nil
func (m *Members) Company(userID int64) *int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.m[userID]
	if !ok {
		return nil
	}
	return &id
}

// Unbind убирает привязку
func (m *Members) Unbind(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, userID)
}
