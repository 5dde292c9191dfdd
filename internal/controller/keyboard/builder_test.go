package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Wrap(t *testing.T) {
	markup := NewBuilder().
		Row(Button("Math", "noop")).
		Wrap(2, Button("a", "1"), Button("b", "2"), Button("c", "3")).
		Build()

	rows := markup.InlineKeyboard
	assert.Len(t, rows, 3)
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 1)
	assert.Equal(t, "3", rows[2][0].CallbackData)
}

func TestBuilder_EmptyRowsSkipped(t *testing.T) {
	markup := NewBuilder().Row().Wrap(3).Build()
	assert.Empty(t, markup.InlineKeyboard)
}
