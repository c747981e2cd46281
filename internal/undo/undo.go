// Package undo provides the host undo facility used by editing contexts.
//
// Callers register reverse actions after each change. While an undo action
// runs it registers the matching redo action and vice versa, which keeps the
// two stacks symmetric without the manager knowing what the actions do.
package undo

// Action reverses or replays one change.
type Action func()

// Manager is the narrow capability an editing context needs.
type Manager interface {
	RegisterUndo(Action)
	RegisterRedo(Action)
}

// History is a Manager with bounded undo and redo stacks. It is not safe
// for concurrent use.
type History struct {
	levels int
	undos  []Action
	redos  []Action

	undoing bool
	redoing bool
}

// NewHistory returns a History keeping at most levels undo steps. Zero or
// less means unbounded.
func NewHistory(levels int) *History {
	return &History{levels: levels}
}

// RegisterUndo records a reverse action. A registration that does not come
// from a redo action starts a new line of history and drops pending redos.
func (h *History) RegisterUndo(a Action) {
	if !h.undoing && !h.redoing {
		h.redos = nil
	}
	h.undos = push(h.undos, a, h.levels)
}

// RegisterRedo records a replay action. It is meant to be called while an
// undo action runs.
func (h *History) RegisterRedo(a Action) {
	h.redos = push(h.redos, a, h.levels)
}

// Undo runs the most recent undo action. It returns false if there is none.
func (h *History) Undo() bool {
	if len(h.undos) == 0 || h.undoing || h.redoing {
		return false
	}
	a := h.undos[len(h.undos)-1]
	h.undos = h.undos[:len(h.undos)-1]

	h.undoing = true
	defer func() { h.undoing = false }()
	a()
	return true
}

// Redo runs the most recent redo action. It returns false if there is none.
func (h *History) Redo() bool {
	if len(h.redos) == 0 || h.undoing || h.redoing {
		return false
	}
	a := h.redos[len(h.redos)-1]
	h.redos = h.redos[:len(h.redos)-1]

	h.redoing = true
	defer func() { h.redoing = false }()
	a()
	return true
}

func (h *History) CanUndo() bool { return len(h.undos) > 0 }

func (h *History) CanRedo() bool { return len(h.redos) > 0 }

func (h *History) Clear() {
	h.undos = nil
	h.redos = nil
}

func push(stack []Action, a Action, levels int) []Action {
	stack = append(stack, a)
	if levels > 0 && len(stack) > levels {
		stack = stack[len(stack)-levels:]
	}
	return stack
}
