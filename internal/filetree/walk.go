package filetree

import (
	"strings"

	"github.com/pkg/errors"
)

// PathString renders a path from the root as "/a/b". The root is "/".
func PathString(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// ParsePath is the inverse of PathString. Empty segments are dropped.
func ParsePath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// SkipDir can be returned from a WalkFunc to skip a folder's children.
// Returned for a file, it skips the remaining siblings of that file.
var SkipDir = errors.New("skip this folder")

// WalkFunc is called for every node. path is empty for the root.
type WalkFunc func(path []string, node *Node) error

// Walk visits root and its descendants depth-first, children in name order.
// The path slice is only valid during the call.
func Walk(root *Node, fn WalkFunc) error {
	err := walk(nil, root, fn)
	if errors.Is(err, SkipDir) {
		return nil
	}
	return err
}

func walk(path []string, node *Node, fn WalkFunc) error {
	if err := fn(path, node); err != nil {
		return err
	}
	folder, ok := node.Folder()
	if !ok {
		return nil
	}
	for _, name := range folder.Names() {
		child := folder.children[name]
		if err := walk(append(path, name), child, fn); err != nil {
			if !errors.Is(err, SkipDir) {
				return err
			}
			if child.Kind() == KindFolder {
				continue
			}
			return nil
		}
	}
	return nil
}

// Location describes where a node sits in a tree.
type Location struct {
	Node *Node
	// Parent is nil for the root.
	Parent *Folder
	Name   string
	Path   []string
}

// Locate finds the node with the given persistent ID.
func Locate(root *Node, id string) (Location, bool) {
	if root.ID() == id {
		return Location{Node: root}, true
	}
	var found Location
	err := Walk(root, func(path []string, node *Node) error {
		folder, ok := node.Folder()
		if !ok {
			return nil
		}
		for name, child := range folder.children {
			if child.ID() == id {
				p := make([]string, len(path), len(path)+1)
				copy(p, path)
				found = Location{Node: child, Parent: folder, Name: name, Path: append(p, name)}
				return errFound
			}
		}
		return nil
	})
	return found, errors.Is(err, errFound)
}

var errFound = errors.New("found")

// Lookup resolves a path of names starting at root.
func Lookup(root *Node, path []string) (Location, error) {
	loc := Location{Node: root}
	for i, name := range path {
		folder, ok := loc.Node.Folder()
		if !ok {
			return Location{}, errors.Wrapf(ErrNotFound, "%s is not a folder", PathString(path[:i]))
		}
		child, ok := folder.Get(name)
		if !ok {
			return Location{}, errors.Wrapf(ErrNotFound, "lookup %s", PathString(path[:i+1]))
		}
		loc = Location{Node: child, Parent: folder, Name: name, Path: path[:i+1]}
	}
	return loc, nil
}

// Count returns the number of nodes in the subtree, root included.
func Count(root *Node) int {
	n := 0
	_ = Walk(root, func([]string, *Node) error {
		n++
		return nil
	})
	return n
}
