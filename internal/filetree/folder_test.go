package filetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/typstify/internal/ulid"
)

func newTestTree(t *testing.T) *Node {
	t.Helper()

	root := NewFolderNode()
	rootFolder, _ := root.Folder()

	chapters := NewFolderNode()
	require.NoError(t, rootFolder.Insert("chapters", chapters))
	require.NoError(t, rootFolder.Insert("main.typ", NewFileNode(NewTextPayload("#include \"chapters/intro.typ\""))))
	require.NoError(t, rootFolder.Insert(".hidden", NewFileNode(NewTextPayload("secret"))))

	chaptersFolder, _ := chapters.Folder()
	require.NoError(t, chaptersFolder.Insert("intro.typ", NewFileNode(NewTextPayload("= Intro"))))
	require.NoError(t, chaptersFolder.Insert("logo.png", NewFileNode(NewDataPayload([]byte{0x89, 'P', 'N', 'G'}))))

	return root
}

func TestFolderInsertAndGet(t *testing.T) {
	folder := newFolder()
	node := NewFileNode(nil)

	require.NoError(t, folder.Insert("a.typ", node))
	got, ok := folder.Get("a.typ")
	require.True(t, ok)
	assert.Equal(t, node.ID(), got.ID())

	err := folder.Insert("a.typ", NewFileNode(nil))
	assert.ErrorIs(t, err, ErrNameCollision)

	err = folder.Insert("a/b", NewFileNode(nil))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFolderAdd(t *testing.T) {
	t.Run("Disambiguates", func(t *testing.T) {
		folder := newFolder()

		first := folder.Add(NewFileNode(nil), "untitled.typ")
		second := folder.Add(NewFileNode(nil), "untitled.typ")
		third := folder.Add(NewFileNode(nil), "untitled.typ")

		assert.Equal(t, "untitled.typ", first)
		assert.Equal(t, "untitled 2.typ", second)
		assert.Equal(t, "untitled 3.typ", third)
		assert.Equal(t, 3, folder.Len())
	})

	t.Run("Folders", func(t *testing.T) {
		folder := newFolder()

		assert.Equal(t, "Folder", folder.Add(NewFolderNode(), "Folder"))
		assert.Equal(t, "Folder 2", folder.Add(NewFolderNode(), "Folder"))
	})

	t.Run("InvalidPreferredName", func(t *testing.T) {
		folder := newFolder()

		assert.Equal(t, "untitled.typ", folder.Add(NewFileNode(nil), ""))
		assert.Equal(t, "Folder", folder.Add(NewFolderNode(), "a/b"))
	})

	t.Run("NamesStayUnique", func(t *testing.T) {
		folder := newFolder()
		preferred := []string{"a.typ", "a.typ", "a 2.typ", "a.typ", ".env", ".env", "b"}

		for _, p := range preferred {
			name := folder.Add(NewFileNode(nil), p)
			stem, ext := SplitName(p)
			assert.True(t, strings.HasPrefix(name, stem), "%q does not start with %q", name, stem)
			assert.True(t, strings.HasSuffix(name, ext), "%q does not end with %q", name, ext)
		}

		assert.Equal(t, len(preferred), folder.Len())
		assert.Equal(t, len(preferred), len(folder.Names()))
	})
}

func TestFolderRemove(t *testing.T) {
	folder := newFolder()
	node := NewFileNode(nil)
	require.NoError(t, folder.Insert("a.typ", node))

	removed, err := folder.Remove("a.typ")
	require.NoError(t, err)
	assert.Same(t, node, removed)

	_, err = folder.Remove("a.typ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFolderRename(t *testing.T) {
	folder := newFolder()
	node := NewFileNode(nil)
	require.NoError(t, folder.Insert("a.typ", node))
	require.NoError(t, folder.Insert("b.typ", NewFileNode(nil)))

	require.NoError(t, folder.Rename("a.typ", "c.typ"))
	got, ok := folder.Get("c.typ")
	require.True(t, ok)
	assert.Equal(t, node.ID(), got.ID())
	_, ok = folder.Get("a.typ")
	assert.False(t, ok)

	assert.ErrorIs(t, folder.Rename("missing.typ", "x.typ"), ErrNotFound)
	assert.ErrorIs(t, folder.Rename("c.typ", "b.typ"), ErrNameCollision)
	assert.ErrorIs(t, folder.Rename("c.typ", ""), ErrInvalidName)
	assert.NoError(t, folder.Rename("c.typ", "c.typ"))
	assert.Equal(t, []string{"b.typ", "c.typ"}, folder.Names())
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"untitled.typ", "untitled", ".typ"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{".gitignore", ".gitignore", ""},
		{"Folder", "Folder", ""},
	}
	for _, tt := range tests {
		stem, ext := SplitName(tt.name)
		assert.Equal(t, tt.stem, stem, tt.name)
		assert.Equal(t, tt.ext, ext, tt.name)
	}
}

func TestNodeCopyAndDuplicate(t *testing.T) {
	root := newTestTree(t)

	cp := root.Copy()
	assert.True(t, root.Equal(cp))

	// Mutating the copy leaves the original untouched.
	loc, err := Lookup(cp, []string{"chapters", "intro.typ"})
	require.NoError(t, err)
	file, _ := loc.Node.File()
	file.Payload.SetText("changed")
	assert.False(t, root.Equal(cp))

	orig, err := Lookup(root, []string{"chapters", "intro.typ"})
	require.NoError(t, err)
	origFile, _ := orig.Node.File()
	text, _ := origFile.Payload.Text()
	assert.Equal(t, "= Intro", text)

	dup := root.Duplicate()
	assert.NotEqual(t, root.ID(), dup.ID())
	assert.Equal(t, Count(root), Count(dup))
}

func TestNodeIDsAreDistinct(t *testing.T) {
	ulid.ResetGenerator()
	root := newTestTree(t)

	seen := make(map[string]struct{})
	_ = Walk(root, func(_ []string, n *Node) error {
		_, dup := seen[n.ID()]
		assert.False(t, dup, "duplicate id %s", n.ID())
		seen[n.ID()] = struct{}{}
		return nil
	})
	assert.Len(t, seen, 6)
}

func TestFolderAddAvoiding(t *testing.T) {
	folder := newFolder()
	reserved := func(name string) bool { return name == ".git" || name == ".git 2" }

	assert.Equal(t, ".git 3", folder.AddAvoiding(NewFolderNode(), ".git", reserved))
	assert.Equal(t, "notes", folder.AddAvoiding(NewFolderNode(), "notes", reserved))
	assert.Equal(t, "notes 2", folder.AddAvoiding(NewFolderNode(), "notes", nil))
}
