package document

import (
	"bytes"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/filetree"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Load reads a project from a folder-of-files container. Persistent IDs are
// taken from the sidecar when it is present and readable; every other node
// gets a fresh ID.
func Load(fsys billy.Filesystem, opts ...Option) (*Document, error) {
	d := New(opts...)

	info, err := fsys.Stat(".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat project root")
	}
	if !info.IsDir() {
		d.logger.Error("project root is not a directory", zap.String("root", fsys.Root()))
		return nil, errors.Wrapf(filetree.ErrCorruptData, "%s is not a directory", fsys.Root())
	}

	idMap := d.readSidecar(fsys)

	matcher := d.matcher()
	root := filetree.NewFolderNode()
	rootFolder, _ := root.Folder()
	if err := d.readDir(fsys, matcher, nil, rootFolder); err != nil {
		return nil, err
	}

	filetree.ApplyIDMap(root, idMap)
	d.root = root

	d.logger.Debug(
		"loaded document",
		zap.String("root", fsys.Root()),
		zap.Int("nodes", filetree.Count(root)),
		zap.Bool("sidecar", idMap != nil),
	)

	return d, nil
}

func (d *Document) readSidecar(fsys billy.Filesystem) *filetree.IDMap {
	data, err := util.ReadFile(fsys, d.sidecarName)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("failed to read id map, assigning fresh ids", zap.Error(err))
		}
		return nil
	}
	idMap, err := filetree.UnmarshalIDMap(data)
	if err != nil {
		d.logger.Warn("ignoring unreadable id map", zap.Error(err))
		return nil
	}
	return idMap
}

func (d *Document) matcher() gitignore.Matcher {
	patterns := make([]gitignore.Pattern, 0, len(d.ignorePatterns))
	for _, p := range d.ignorePatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(patterns)
}

// Reserved reports whether an entry at path would be skipped by Load or
// overwritten by the sidecar on Save.
func (d *Document) Reserved(path []string, isDir bool) bool {
	return d.skip(d.matcher(), path, isDir)
}

func (d *Document) skip(matcher gitignore.Matcher, path []string, isDir bool) bool {
	if len(path) == 1 && path[0] == d.sidecarName {
		return true
	}
	return matcher.Match(path, isDir)
}

func (d *Document) readDir(fsys billy.Filesystem, matcher gitignore.Matcher, dir []string, folder *filetree.Folder) error {
	entries, err := fsys.ReadDir(fsPath(fsys, dir))
	if err != nil {
		return errors.Wrapf(err, "failed to read directory %s", filetree.PathString(dir))
	}

	for _, entry := range entries {
		path := append(append([]string(nil), dir...), entry.Name())
		if d.skip(matcher, path, entry.IsDir()) {
			continue
		}

		switch {
		case entry.IsDir():
			child := filetree.NewFolderNode()
			childFolder, _ := child.Folder()
			if err := d.readDir(fsys, matcher, path, childFolder); err != nil {
				return err
			}
			if err := folder.Insert(entry.Name(), child); err != nil {
				return errors.Wrapf(filetree.ErrCorruptData, "%s: %v", filetree.PathString(path), err)
			}
		case entry.Mode().IsRegular():
			data, err := util.ReadFile(fsys, fsPath(fsys, path))
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", filetree.PathString(path))
			}
			child := filetree.NewFileNode(filetree.NewPayload(entry.Name(), data, d.textExt))
			if err := folder.Insert(entry.Name(), child); err != nil {
				return errors.Wrapf(filetree.ErrCorruptData, "%s: %v", filetree.PathString(path), err)
			}
		default:
			return errors.Wrapf(filetree.ErrCorruptData, "%s is neither a file nor a directory", filetree.PathString(path))
		}
	}

	return nil
}

// SaveResult describes what Save changed in the container.
type SaveResult struct {
	Written        []string
	Unchanged      int
	Removed        []string
	SidecarWritten bool
}

// Changed reports whether Save touched the container at all.
func (r *SaveResult) Changed() bool {
	return len(r.Written) > 0 || len(r.Removed) > 0 || r.SidecarWritten
}

// Save writes the document into fsys. Files whose content did not change
// are left alone and so is the sidecar when its bytes are identical, so
// saving an unmodified document writes nothing.
func (d *Document) Save(fsys billy.Filesystem) (*SaveResult, error) {
	snapshot := d.Snapshot()
	result, err := d.writeSnapshot(fsys, snapshot)
	if err != nil {
		return result, err
	}

	d.logger.Debug(
		"saved document",
		zap.String("root", fsys.Root()),
		zap.Strings("written", result.Written),
		zap.Strings("removed", result.Removed),
		zap.Bool("sidecar", result.SidecarWritten),
	)

	return result, nil
}

func (d *Document) writeSnapshot(fsys billy.Filesystem, s *Snapshot) (*SaveResult, error) {
	result := &SaveResult{}

	if err := d.checkReserved(s.root); err != nil {
		return result, err
	}

	if err := fsys.MkdirAll(".", dirPerm); err != nil {
		return result, errors.Wrap(err, "failed to create project root")
	}

	pruneErr := d.prune(fsys, d.matcher(), s.root, nil, result)

	err := filetree.Walk(s.root, func(path []string, node *filetree.Node) error {
		if len(path) == 0 {
			return nil
		}
		name := fsPath(fsys, path)

		if node.Kind() == filetree.KindFolder {
			return errors.Wrapf(fsys.MkdirAll(name, dirPerm), "failed to create %s", name)
		}

		file, _ := node.File()
		data, err := file.Payload.Data()
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s", name)
		}
		written, err := writeIfChanged(fsys, name, data)
		if err != nil {
			return err
		}
		if written {
			result.Written = append(result.Written, filetree.PathString(path))
		} else {
			result.Unchanged++
		}
		return nil
	})
	if err != nil {
		return result, multierr.Append(pruneErr, err)
	}

	idMapData, err := s.IDMap().Marshal()
	if err != nil {
		return result, multierr.Append(pruneErr, err)
	}
	result.SidecarWritten, err = writeIfChanged(fsys, d.sidecarName, idMapData)

	return result, multierr.Append(pruneErr, err)
}

// checkReserved fails if the tree holds an entry that could not be read
// back after saving.
func (d *Document) checkReserved(root *filetree.Node) error {
	matcher := d.matcher()
	return filetree.Walk(root, func(path []string, node *filetree.Node) error {
		if len(path) > 0 && d.skip(matcher, path, node.Kind() == filetree.KindFolder) {
			return errors.Wrapf(filetree.ErrNameCollision, "%s is reserved for storage", filetree.PathString(path))
		}
		return nil
	})
}

// prune removes entries of dir that are not in the tree or changed kind.
// Ignored entries and the sidecar are kept.
func (d *Document) prune(fsys billy.Filesystem, matcher gitignore.Matcher, node *filetree.Node, dir []string, result *SaveResult) error {
	folder, _ := node.Folder()

	entries, err := fsys.ReadDir(fsPath(fsys, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read directory %s", filetree.PathString(dir))
	}

	var errs error
	for _, entry := range entries {
		path := append(append([]string(nil), dir...), entry.Name())
		if d.skip(matcher, path, entry.IsDir()) {
			continue
		}

		child, ok := folder.Get(entry.Name())
		keep := ok && (child.Kind() == filetree.KindFolder) == entry.IsDir()
		if !keep {
			if err := util.RemoveAll(fsys, fsPath(fsys, path)); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "failed to remove %s", filetree.PathString(path)))
				continue
			}
			result.Removed = append(result.Removed, filetree.PathString(path))
			continue
		}

		if entry.IsDir() {
			errs = multierr.Append(errs, d.prune(fsys, matcher, child, path, result))
		}
	}
	return errs
}

func writeIfChanged(fsys billy.Filesystem, name string, data []byte) (bool, error) {
	existing, err := util.ReadFile(fsys, name)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := util.WriteFile(fsys, name, data, filePerm); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", name)
	}
	return true, nil
}

func fsPath(fsys billy.Filesystem, path []string) string {
	if len(path) == 0 {
		return "."
	}
	return fsys.Join(path...)
}
