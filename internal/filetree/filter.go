package filetree

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// DefaultHiddenPatterns hides dot-files from navigator listings.
var DefaultHiddenPatterns = []string{".*"}

// Entry is a read-only view of a node for listings.
type Entry struct {
	ID       string
	Name     string
	Kind     Kind
	Path     string
	Children []Entry
}

// Filter hides nodes whose names match any of its glob patterns. It only
// produces views and never modifies a tree.
type Filter struct {
	patterns []glob.Glob
}

func NewFilter(patterns ...string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid navigator pattern %q", p)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

func (f *Filter) Hidden(name string) bool {
	for _, g := range f.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Entries builds the visible view of root. The root itself is always shown.
func (f *Filter) Entries(root *Node) Entry {
	return f.entry(nil, "", root)
}

func (f *Filter) entry(path []string, name string, node *Node) Entry {
	e := Entry{
		ID:   node.ID(),
		Name: name,
		Kind: node.Kind(),
		Path: PathString(path),
	}
	folder, ok := node.Folder()
	if !ok {
		return e
	}
	for _, childName := range folder.Names() {
		if f.Hidden(childName) {
			continue
		}
		child, _ := folder.Get(childName)
		childPath := append(append([]string(nil), path...), childName)
		e.Children = append(e.Children, f.entry(childPath, childName, child))
	}
	return e
}
