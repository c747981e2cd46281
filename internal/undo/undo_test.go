package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// counter registers symmetric undo/redo actions the way editing contexts do.
type counter struct {
	value   int
	history *History
}

func (c *counter) set(v int) {
	old := c.value
	c.value = v
	c.registerUndo(old, v)
}

func (c *counter) registerUndo(old, v int) {
	c.history.RegisterUndo(func() {
		c.value = old
		c.history.RegisterRedo(func() {
			c.value = v
			c.registerUndo(old, v)
		})
	})
}

func TestHistory(t *testing.T) {
	c := &counter{history: NewHistory(0)}

	c.set(1)
	c.set(2)
	assert.True(t, c.history.CanUndo())
	assert.False(t, c.history.CanRedo())

	assert.True(t, c.history.Undo())
	assert.Equal(t, 1, c.value)
	assert.True(t, c.history.CanRedo())

	assert.True(t, c.history.Undo())
	assert.Equal(t, 0, c.value)
	assert.False(t, c.history.Undo())

	assert.True(t, c.history.Redo())
	assert.Equal(t, 1, c.value)
	assert.True(t, c.history.Redo())
	assert.Equal(t, 2, c.value)
	assert.False(t, c.history.Redo())

	assert.True(t, c.history.Undo())
	assert.Equal(t, 1, c.value)
}

func TestHistoryNewEditDropsRedo(t *testing.T) {
	c := &counter{history: NewHistory(0)}

	c.set(1)
	c.set(2)
	assert.True(t, c.history.Undo())
	assert.True(t, c.history.CanRedo())

	c.set(5)
	assert.False(t, c.history.CanRedo())
	assert.True(t, c.history.Undo())
	assert.Equal(t, 1, c.value)
}

func TestHistoryRedoKeepsRemainingRedos(t *testing.T) {
	c := &counter{history: NewHistory(0)}

	c.set(1)
	c.set(2)
	c.set(3)
	assert.True(t, c.history.Undo())
	assert.True(t, c.history.Undo())
	assert.True(t, c.history.Redo())
	assert.Equal(t, 2, c.value)
	assert.True(t, c.history.CanRedo())
	assert.True(t, c.history.Redo())
	assert.Equal(t, 3, c.value)
}

func TestHistoryLevels(t *testing.T) {
	c := &counter{history: NewHistory(2)}

	c.set(1)
	c.set(2)
	c.set(3)

	assert.True(t, c.history.Undo())
	assert.True(t, c.history.Undo())
	assert.False(t, c.history.Undo())
	assert.Equal(t, 1, c.value)
}

func TestHistoryClear(t *testing.T) {
	c := &counter{history: NewHistory(0)}
	c.set(1)
	c.history.Clear()
	assert.False(t, c.history.CanUndo())
	assert.False(t, c.history.Undo())
}
