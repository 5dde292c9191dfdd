package state

import (
	"sync"
)

// Manager управляет шагами диалогов по чатам
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*ChatData // chatID -> ChatData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*ChatData),
	}
}

// GetState получает текущий шаг диалога
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.states[chatID]; exists {
		return data.State
	}
	return StateNone
}

// SetState устанавливает шаг диалога, сохраняя собранные данные
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, chatID)
		return
	}

	if data, exists := sm.states[chatID]; exists {
		data.State = state
		return
	}
	sm.states[chatID] = &ChatData{
		State: state,
		Data:  make(map[string]interface{}),
	}
}

// GetString получает строковое значение из данных диалога
func (sm *Manager) GetString(chatID int64, key string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, exists := sm.states[chatID]
	if !exists {
		return "", false
	}
	value, ok := data.Data[key].(string)
	return value, ok
}

// GetInt получает целое значение из данных диалога
func (sm *Manager) GetInt(chatID int64, key string) (int, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, exists := sm.states[chatID]
	if !exists {
		return 0, false
	}
	value, ok := data.Data[key].(int)
	return value, ok
}

// SetData сохраняет значение. Без активного диалога данные не сохраняются
func (sm *Manager) SetData(chatID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data, exists := sm.states[chatID]; exists {
		data.Data[key] = value
	}
}

// ClearState очищает состояние и данные чата
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, chatID)
}
