package editor

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/document"
	"github.com/stateful/typstify/internal/filetree"
	"github.com/stateful/typstify/internal/undo"
)

// Cursor points at a node by persistent ID, so it stays valid when undo
// swaps the whole tree.
type Cursor struct {
	ID string
}

// Context applies structural edits to a document and registers their undo
// with the host. Every edit snapshots the whole tree before it runs; undo
// restores that snapshot and registers a redo that restores the state it
// replaced. All calls must come from one goroutine.
type Context struct {
	doc    *document.Document
	undo   undo.Manager
	logger *zap.Logger
}

type Option func(*Context)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// New creates a context. manager may be nil, in which case edits are
// applied without undo.
func New(doc *document.Document, manager undo.Manager, opts ...Option) *Context {
	c := &Context{
		doc:  doc,
		undo: manager,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

func (c *Context) Document() *document.Document {
	return c.doc
}

func (c *Context) RootCursor() Cursor {
	return Cursor{ID: c.doc.Root().ID()}
}

// CursorAt returns the cursor of the node at path.
func (c *Context) CursorAt(path []string) (Cursor, error) {
	loc, err := filetree.Lookup(c.doc.Root(), path)
	if err != nil {
		return Cursor{}, err
	}
	return Cursor{ID: loc.Node.ID()}, nil
}

// Locate resolves a cursor against the live tree.
func (c *Context) Locate(cur Cursor) (filetree.Location, error) {
	loc, ok := filetree.Locate(c.doc.Root(), cur.ID)
	if !ok {
		return filetree.Location{}, errors.Wrapf(filetree.ErrNotFound, "cursor %s", cur.ID)
	}
	return loc, nil
}

// registerUndo runs mutate and, if it succeeds, registers the restoration
// of the tree as it was before.
func (c *Context) registerUndo(op string, mutate func() error) error {
	before := c.doc.Snapshot()

	if err := mutate(); err != nil {
		return err
	}

	c.logger.Debug("applied edit", zap.String("op", op))
	c.registerRestore(op, before)
	return nil
}

func (c *Context) registerRestore(op string, before *document.Snapshot) {
	if c.undo == nil {
		return
	}

	c.undo.RegisterUndo(func() {
		after := c.doc.Snapshot()
		c.doc.Restore(before)
		c.logger.Debug("undid edit", zap.String("op", op))

		c.undo.RegisterRedo(func() {
			redone := c.doc.Snapshot()
			c.doc.Restore(after)
			c.logger.Debug("redid edit", zap.String("op", op))
			c.registerRestore(op, redone)
		})
	})
}
