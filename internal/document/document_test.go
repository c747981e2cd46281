package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stateful/typstify/internal/filetree"
)

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, filetree.KindFolder, d.Root().Kind())
	assert.Equal(t, 0, d.RootFolder().Len())
	assert.Equal(t, DefaultSidecarName, d.SidecarName())
}

func TestNewWithText(t *testing.T) {
	d := NewWithText("= Hello", WithLogger(zaptest.NewLogger(t)))

	node, ok := d.RootFolder().Get(DefaultMainName)
	require.True(t, ok)
	file, ok := node.File()
	require.True(t, ok)
	text, ok := file.Payload.Text()
	require.True(t, ok)
	assert.Equal(t, "= Hello", text)
}

func TestSnapshotIsIndependent(t *testing.T) {
	d := NewWithText("before")
	snapshot := d.Snapshot()

	main, _ := d.RootFolder().Get(DefaultMainName)
	file, _ := main.File()
	file.Payload.SetText("after")
	d.RootFolder().Add(filetree.NewFolderNode(), "Folder")

	tree := snapshot.Tree()
	folder, _ := tree.Folder()
	assert.Equal(t, []string{DefaultMainName}, folder.Names())
	node, _ := folder.Get(DefaultMainName)
	f, _ := node.File()
	text, _ := f.Payload.Text()
	assert.Equal(t, "before", text)

	// Changing what Tree returned does not reach the snapshot either.
	folder.Add(filetree.NewFolderNode(), "Other")
	assert.Equal(t, []string{"/main.typ"}, snapshot.Files())
}

func TestRestore(t *testing.T) {
	d := NewWithText("text")
	before := d.Snapshot()
	mainID := before.IDMap()

	_, err := d.RootFolder().Remove(DefaultMainName)
	require.NoError(t, err)
	after := d.Snapshot()
	assert.False(t, before.Equal(after))

	d.Restore(before)
	assert.True(t, d.Snapshot().Equal(before))
	id, _ := mainID.Get("/main.typ")
	node, _ := d.RootFolder().Get(DefaultMainName)
	assert.Equal(t, id, node.ID())

	// A restored tree does not alias the snapshot, so the snapshot can be
	// restored again after further edits.
	_, err = d.RootFolder().Remove(DefaultMainName)
	require.NoError(t, err)
	d.Restore(before)
	assert.True(t, d.Snapshot().Equal(before))

	d.Restore(after)
	assert.True(t, d.Snapshot().Equal(after))
}
