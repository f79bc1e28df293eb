package session

import (
	"sync"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Store хранит незавершенные сессии по id пользователя.
// Изменять сессию можно только под блокировкой пользователя, полученной через Lock.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
	locks    map[int64]*keyLock
}

// NewStore создает пустое хранилище сессий
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*model.Session),
		locks:    make(map[int64]*keyLock),
	}
}

// Lock захватывает блокировку пользователя и возвращает функцию для ее освобождения
func (s *Store) Lock(userID int64) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &keyLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Get возвращает сессию пользователя
func (s *Store) Get(userID int64) (*model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Set сохраняет сессию, заменяя предыдущую
func (s *Store) Set(sess *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

// Delete удаляет сессию. Возвращает false, если сессии не было.
func (s *Store) Delete(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Len число активных сессий
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет сессии, неактивные дольше ttl. Сессии, с которыми
// в этот момент работает обработчик, пропускаются до следующего прохода.
// Время активности читается только под блокировкой пользователя.
func (s *Store) Sweep(now time.Time, ttl time.Duration) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []int64
	for id, sess := range s.sessions {
		l, ok := s.locks[id]
		if !ok {
			// блокировка регистрируется под s.mu, без нее сессию никто не держит
			l = &keyLock{}
		}
		if !l.mu.TryLock() {
			continue
		}
		stale := now.Sub(sess.LastActive) > ttl
		if stale {
			delete(s.sessions, id)
		}
		l.mu.Unlock()

		if stale {
			removed = append(removed, id)
		}
	}
	return removed
}
