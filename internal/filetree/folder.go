package filetree

import (
	"sort"

	"github.com/pkg/errors"
)

// Folder maps child names, unique among siblings, to child nodes.
// Children are owned; there are no back-references.
type Folder struct {
	children map[string]*Node
}

func newFolder() *Folder {
	return &Folder{children: make(map[string]*Node)}
}

func (f *Folder) Get(name string) (*Node, bool) {
	n, ok := f.children[name]
	return n, ok
}

func (f *Folder) Len() int {
	return len(f.children)
}

// Names returns the child names in lexical order.
func (f *Folder) Names() []string {
	names := make([]string, 0, len(f.children))
	for name := range f.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Insert adds node under name. It fails if the name is taken.
func (f *Folder) Insert(name string, node *Node) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := f.children[name]; ok {
		return errors.Wrapf(ErrNameCollision, "insert %q", name)
	}
	f.children[name] = node
	return nil
}

// Add inserts node under preferredName, or under a name derived from it if
// that is taken. It returns the name actually used.
func (f *Folder) Add(node *Node, preferredName string) string {
	return f.AddAvoiding(node, preferredName, nil)
}

// AddAvoiding is like Add but also treats names for which reserved returns
// true as taken.
func (f *Folder) AddAvoiding(node *Node, preferredName string, reserved func(name string) bool) string {
	if validName(preferredName) != nil {
		preferredName = defaultName(node)
	}
	name := UniqueName(preferredName, func(candidate string) bool {
		if _, ok := f.children[candidate]; ok {
			return true
		}
		return reserved != nil && reserved(candidate)
	})
	f.children[name] = node
	return name
}

// Remove detaches and returns the child called name.
func (f *Folder) Remove(name string) (*Node, error) {
	n, ok := f.children[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "remove %q", name)
	}
	delete(f.children, name)
	return n, nil
}

// Rename moves the child called name to newName within the folder.
func (f *Folder) Rename(name, newName string) error {
	n, ok := f.children[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "rename %q", name)
	}
	if name == newName {
		return nil
	}
	if err := validName(newName); err != nil {
		return err
	}
	if _, ok := f.children[newName]; ok {
		return errors.Wrapf(ErrNameCollision, "rename %q to %q", name, newName)
	}
	delete(f.children, name)
	f.children[newName] = n
	return nil
}
