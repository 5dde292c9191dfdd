package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_Dialog(t *testing.T) {
	sm := NewManager()
	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetData(1, KeyEmail, "ignored@x.io")
	_, ok := sm.GetString(1, KeyEmail)
	assert.False(t, ok)

	sm.SetState(1, StateSignUpEmail)
	sm.SetData(1, KeyEmail, "bob@example.com")
	sm.SetState(1, StateSignUpPassword)

	email, ok := sm.GetString(1, KeyEmail)
	assert.True(t, ok)
	assert.Equal(t, "bob@example.com", email)
	assert.Equal(t, StateSignUpPassword, sm.GetState(1))

	sm.SetData(1, KeyPrice, 1500)
	price, ok := sm.GetInt(1, KeyPrice)
	assert.True(t, ok)
	assert.Equal(t, 1500, price)

	sm.SetState(1, StateNone)
	assert.Equal(t, StateNone, sm.GetState(1))
	_, ok = sm.GetString(1, KeyEmail)
	assert.False(t, ok)
}
