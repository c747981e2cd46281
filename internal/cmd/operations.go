package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/stateful/typstify/internal/filetree"
)

func (p *project) touch(path string) (string, error) {
	folder, name, err := p.parentCursor(path)
	if err != nil {
		return "", err
	}
	_, used, err := p.editor.AddFile(folder, name)
	return used, err
}

func (p *project) mkdir(path string) (string, error) {
	folder, name, err := p.parentCursor(path)
	if err != nil {
		return "", err
	}
	_, used, err := p.editor.AddFolder(folder, name)
	return used, err
}

func (p *project) mv(path, newName string) error {
	cur, err := p.cursor(path)
	if err != nil {
		return err
	}
	return p.editor.Rename(cur, &newName)
}

func (p *project) rm(path string) error {
	if len(filetree.ParsePath(path)) == 0 {
		return errors.New("cannot remove the project root")
	}
	cur, err := p.cursor(path)
	if err != nil {
		return err
	}
	return p.editor.Remove(cur)
}

func (p *project) write(path, text string) error {
	cur, err := p.cursor(path)
	if err != nil {
		return err
	}
	return p.editor.SetText(cur, text)
}

func (p *project) importImage(file, folder string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %q", file)
	}
	cur, err := p.cursor(folder)
	if err != nil {
		return "", err
	}
	_, name, err := p.editor.ImportImage(cur, data)
	return name, err
}

func (p *project) cat(w io.Writer, path string) error {
	loc, err := filetree.Lookup(p.doc.Root(), filetree.ParsePath(path))
	if err != nil {
		return err
	}
	file, ok := loc.Node.File()
	if !ok {
		return errors.Errorf("%s is a folder", filetree.PathString(loc.Path))
	}
	data, err := file.Payload.Data()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.WithStack(err)
}

// printTree writes one line per visible node, indented by depth. Folders
// end with a slash.
func (p *project) printTree(w io.Writer, all, ids bool) error {
	hidden := projectConfig.Navigator.Hidden
	if all {
		hidden = nil
	}

	filter, err := filetree.NewFilter(hidden...)
	if err != nil {
		return err
	}

	var printEntry func(e filetree.Entry, depth int)
	printEntry = func(e filetree.Entry, depth int) {
		for _, child := range e.Children {
			name := child.Name
			if child.Kind == filetree.KindFolder {
				name += "/"
			}
			line := strings.Repeat("  ", depth) + name
			if ids {
				line += "\t" + child.ID
			}
			_, _ = fmt.Fprintln(w, line)
			printEntry(child, depth+1)
		}
	}

	printEntry(filter.Entries(p.doc.Root()), 0)
	return nil
}
