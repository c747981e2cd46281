package filetree

import (
	"github.com/stateful/typstify/internal/ulid"
)

// Kind tells which variant a Node holds.
type Kind int

const (
	KindFile Kind = iota + 1
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// File is a leaf owning exactly one payload.
type File struct {
	Payload *Payload
}

// Node is a tagged union over File and Folder. Exactly one of the variants
// is set. The persistent ID is assigned at creation and never changes for
// the lifetime of the logical entity, renames included.
type Node struct {
	id     string
	file   *File
	folder *Folder
}

func NewFileNode(payload *Payload) *Node {
	return newFileNodeWithID(ulid.GenerateID(), payload)
}

func NewFolderNode() *Node {
	return newFolderNodeWithID(ulid.GenerateID())
}

func newFileNodeWithID(id string, payload *Payload) *Node {
	if payload == nil {
		payload = NewTextPayload("")
	}
	return &Node{id: id, file: &File{Payload: payload}}
}

func newFolderNodeWithID(id string) *Node {
	return &Node{id: id, folder: newFolder()}
}

func (n *Node) ID() string {
	return n.id
}

func (n *Node) Kind() Kind {
	if n.folder != nil {
		return KindFolder
	}
	return KindFile
}

func (n *Node) File() (*File, bool) {
	return n.file, n.file != nil
}

func (n *Node) Folder() (*Folder, bool) {
	return n.folder, n.folder != nil
}

// Copy returns a deep copy of the subtree keeping every identifier.
func (n *Node) Copy() *Node {
	return n.copyWith(func(id string) string { return id })
}

// Duplicate returns a deep copy of the subtree with freshly minted
// identifiers, suitable for inserting next to the original.
func (n *Node) Duplicate() *Node {
	return n.copyWith(func(string) string { return ulid.GenerateID() })
}

func (n *Node) copyWith(id func(string) string) *Node {
	switch n.Kind() {
	case KindFile:
		return newFileNodeWithID(id(n.id), n.file.Payload.Clone())
	default:
		c := newFolderNodeWithID(id(n.id))
		for name, child := range n.folder.children {
			c.folder.children[name] = child.copyWith(id)
		}
		return c
	}
}

// Equal reports whether two subtrees have the same shape, names, payloads
// and identifiers.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.id != other.id || n.Kind() != other.Kind() {
		return false
	}
	if n.Kind() == KindFile {
		return n.file.Payload.Equal(other.file.Payload)
	}
	if len(n.folder.children) != len(other.folder.children) {
		return false
	}
	for name, child := range n.folder.children {
		o, ok := other.folder.children[name]
		if !ok || !child.Equal(o) {
			return false
		}
	}
	return true
}

// Flush recomputes cached payload data throughout the subtree.
func (n *Node) Flush() {
	if n.Kind() == KindFile {
		n.file.Payload.Flush()
		return
	}
	for _, child := range n.folder.children {
		child.Flush()
	}
}
