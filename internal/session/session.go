// Package session хранит явную сессию пользователя вместо глобального
// состояния: сессия создаётся при входе и уничтожается при выходе.
package session

import (
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

// Session аутентифицированный пользователь
type Session struct {
	UID        string
	Email      string
	SignedInAt time.Time
}

// New создаёт сессию для вошедшего пользователя
func New(uid, email string) *Session {
	return &Session{
		UID:        uid,
		Email:      email,
		SignedInAt: time.Now().UTC(),
	}
}

// Require возвращает model.ErrNotAuthenticated для nil-сессии
func Require(s *Session) error {
	if s == nil || s.UID == "" {
		return model.ErrNotAuthenticated
	}
	return nil
}

// Manager сессии по чатам
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // chatID -> Session
}

// NewManager создаёт новый менеджер сессий
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Bind привязывает сессию к чату, заменяя прежнюю
func (m *Manager) Bind(chatID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[chatID] = s
}

// Current получает сессию чата или nil
func (m *Manager) Current(chatID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessions[chatID]
}

// End завершает сессию. Возвращает false, если сессии не было
func (m *Manager) End(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[chatID]; !exists {
		return false
	}
	delete(m.sessions, chatID)
	return true
}

// Count число активных сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
