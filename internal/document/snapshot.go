package document

import (
	"github.com/stateful/typstify/internal/filetree"
)

// Snapshot is an immutable deep copy of a document tree. It is used for
// persistence and as the unit of undo.
type Snapshot struct {
	root *filetree.Node
}

// Tree returns a private copy of the captured tree.
func (s *Snapshot) Tree() *filetree.Node {
	return s.root.Copy()
}

func (s *Snapshot) IDMap() *filetree.IDMap {
	return filetree.BuildIDMap(s.root)
}

// Equal reports whether both snapshots hold the same tree, identifiers
// included.
func (s *Snapshot) Equal(other *Snapshot) bool {
	return s.root.Equal(other.root)
}

// Files lists the paths of all files in walk order.
func (s *Snapshot) Files() []string {
	var files []string
	_ = filetree.Walk(s.root, func(path []string, node *filetree.Node) error {
		if node.Kind() == filetree.KindFile {
			files = append(files, filetree.PathString(path))
		}
		return nil
	})
	return files
}
