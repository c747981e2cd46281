package document

import (
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/filetree"
)

const (
	// DefaultSidecarName is the file holding the persistent ID map.
	DefaultSidecarName = ".FileMap.plist"

	// DefaultMainName is the entry file of a new document.
	DefaultMainName = "main.typ"
)

// DefaultIgnorePatterns are skipped when loading and never pruned on save.
var DefaultIgnorePatterns = []string{".git", ".DS_Store"}

// Document owns the root folder of a project tree. All methods must be
// called from a single goroutine.
type Document struct {
	root *filetree.Node

	logger         *zap.Logger
	textExt        filetree.TextExtensions
	sidecarName    string
	ignorePatterns []string
}

type Option func(*Document)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

func WithTextExtensions(exts filetree.TextExtensions) Option {
	return func(d *Document) {
		d.textExt = exts
	}
}

func WithSidecarName(name string) Option {
	return func(d *Document) {
		d.sidecarName = name
	}
}

// WithIgnorePatterns sets gitignore-style patterns for entries that are
// neither loaded nor removed by Save.
func WithIgnorePatterns(patterns []string) Option {
	return func(d *Document) {
		d.ignorePatterns = patterns
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		root:           filetree.NewFolderNode(),
		textExt:        filetree.DefaultTextExtensions,
		sidecarName:    DefaultSidecarName,
		ignorePatterns: DefaultIgnorePatterns,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	return d
}

// NewWithText creates a document with a single main.typ holding text.
func NewWithText(text string, opts ...Option) *Document {
	d := New(opts...)
	_ = d.RootFolder().Insert(DefaultMainName, filetree.NewFileNode(filetree.NewTextPayload(text)))
	return d
}

func (d *Document) Root() *filetree.Node {
	return d.root
}

func (d *Document) RootFolder() *filetree.Folder {
	folder, _ := d.root.Folder()
	return folder
}

// TextExtensions returns the classifier used for files read into the tree.
func (d *Document) TextExtensions() filetree.TextExtensions {
	return d.textExt
}

func (d *Document) SidecarName() string {
	return d.sidecarName
}

// IDMap derives the path to ID table of the live tree.
func (d *Document) IDMap() *filetree.IDMap {
	return filetree.BuildIDMap(d.root)
}

// Snapshot captures the whole tree. Later changes to the document do not
// affect the snapshot.
func (d *Document) Snapshot() *Snapshot {
	d.root.Flush()
	return &Snapshot{root: d.root.Copy()}
}

// Restore replaces the live tree with the content of s, identifiers
// included. s itself stays untouched and can be restored again.
func (d *Document) Restore(s *Snapshot) {
	d.root = s.root.Copy()
	d.logger.Debug("restored snapshot", zap.Int("nodes", filetree.Count(d.root)))
}
