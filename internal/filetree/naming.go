package filetree

import (
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	untitledFile   = "untitled.typ"
	untitledFolder = "Folder"
)

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func defaultName(n *Node) string {
	if n.Kind() == KindFolder {
		return untitledFolder
	}
	return untitledFile
}

// SplitName separates a name into stem and extension. A leading dot does
// not start an extension, so ".gitignore" has no extension.
func SplitName(name string) (stem, ext string) {
	ext = path.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// UniqueName returns preferred if it is not taken, otherwise the first of
// "<stem> 2<ext>", "<stem> 3<ext>", ... that is free.
func UniqueName(preferred string, taken func(string) bool) string {
	if !taken(preferred) {
		return preferred
	}
	stem, ext := SplitName(preferred)
	for i := 2; ; i++ {
		candidate := stem + " " + strconv.Itoa(i) + ext
		if !taken(candidate) {
			return candidate
		}
	}
}
