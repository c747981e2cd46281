package editor

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/filetree"
)

// Rename gives the node at cur the name held by editedName. Nothing happens
// if editedName is nil or empty, if the name does not change, or if cur is
// the root. On success editedName is cleared to signal that editing is
// over. A name that is already taken or kept by the storage is an error.
func (c *Context) Rename(cur Cursor, editedName *string) error {
	if editedName == nil || *editedName == "" {
		return nil
	}
	newName := *editedName

	loc, err := c.Locate(cur)
	if err != nil {
		return err
	}
	if loc.Parent == nil || loc.Name == newName {
		*editedName = ""
		return nil
	}

	target := append(append([]string(nil), loc.Path[:len(loc.Path)-1]...), newName)
	if c.doc.Reserved(target, loc.Node.Kind() == filetree.KindFolder) {
		return errors.Wrapf(filetree.ErrNameCollision, "%s is reserved for storage", filetree.PathString(target))
	}

	err = c.registerUndo("rename", func() error {
		return loc.Parent.Rename(loc.Name, newName)
	})
	if err != nil {
		return err
	}

	c.logger.Info("renamed", zap.String("from", loc.Name), zap.String("to", newName))
	*editedName = ""
	return nil
}

// Add inserts item into the folder at folderCur under preferredName or, if
// that is taken, a name derived from it. It returns the cursor of the new
// node and the name used. Names the storage keeps for itself count as
// taken. The caller's item is copied, never shared.
func (c *Context) Add(item *filetree.Node, folderCur Cursor, preferredName string) (Cursor, string, error) {
	loc, err := c.Locate(folderCur)
	if err != nil {
		return Cursor{}, "", err
	}
	folder, ok := loc.Node.Folder()
	if !ok {
		return Cursor{}, "", errors.Wrapf(filetree.ErrNotFound, "%s is not a folder", filetree.PathString(loc.Path))
	}

	node := item.Copy()
	if _, taken := filetree.Locate(c.doc.Root(), node.ID()); taken {
		node = item.Duplicate()
	}

	isDir := node.Kind() == filetree.KindFolder
	reserved := func(candidate string) bool {
		return c.doc.Reserved(append(append([]string(nil), loc.Path...), candidate), isDir)
	}

	var name string
	_ = c.registerUndo("add", func() error {
		name = folder.AddAvoiding(node, preferredName, reserved)
		return nil
	})

	c.logger.Info("added", zap.String("name", name), zap.Stringer("kind", node.Kind()))
	return Cursor{ID: node.ID()}, name, nil
}

// AddFile adds an empty text file.
func (c *Context) AddFile(folderCur Cursor, preferredName string) (Cursor, string, error) {
	return c.Add(filetree.NewFileNode(filetree.NewTextPayload("")), folderCur, preferredName)
}

// AddFolder adds an empty folder.
func (c *Context) AddFolder(folderCur Cursor, preferredName string) (Cursor, string, error) {
	return c.Add(filetree.NewFolderNode(), folderCur, preferredName)
}

// Remove deletes the node at cur. Removing the root does nothing.
func (c *Context) Remove(cur Cursor) error {
	loc, err := c.Locate(cur)
	if err != nil {
		return err
	}
	if loc.Parent == nil {
		return nil
	}

	err = c.registerUndo("remove", func() error {
		_, err := loc.Parent.Remove(loc.Name)
		return err
	})
	if err != nil {
		return err
	}

	c.logger.Info("removed", zap.String("path", filetree.PathString(loc.Path)))
	return nil
}

// SetText replaces the content of the file at cur.
func (c *Context) SetText(cur Cursor, text string) error {
	loc, err := c.Locate(cur)
	if err != nil {
		return err
	}
	file, ok := loc.Node.File()
	if !ok {
		return errors.Wrapf(filetree.ErrNotFound, "%s is not a file", filetree.PathString(loc.Path))
	}
	if current, isText := file.Payload.Text(); isText && current == text {
		return nil
	}

	return c.registerUndo("edit", func() error {
		file.Payload.SetText(text)
		return nil
	})
}

// ImportImage adds image data to the folder at folderCur. The file is named
// after the MD5 of the data with the extension of the detected type, so the
// same picture imported twice gets a numbered second name.
func (c *Context) ImportImage(folderCur Cursor, data []byte) (Cursor, string, error) {
	name := ImageName(data)
	payload := filetree.NewPayload(name, data, c.doc.TextExtensions())
	return c.Add(filetree.NewFileNode(payload), folderCur, name)
}

// ImageName derives a stable file name from image content.
func ImageName(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]) + mimetype.Detect(data).Extension()
}
