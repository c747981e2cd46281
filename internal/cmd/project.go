package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/config"
	"github.com/stateful/typstify/internal/document"
	"github.com/stateful/typstify/internal/editor"
	"github.com/stateful/typstify/internal/filetree"
	"github.com/stateful/typstify/internal/log"
	"github.com/stateful/typstify/internal/undo"
)

func loadConfig() (*config.Config, error) {
	if fConfig == "" {
		loader := config.NewLoader(config.DefaultName, os.DirFS(fChdir), config.WithLogger(log.Get()))
		return loader.Load()
	}

	data, err := os.ReadFile(fConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", fConfig)
	}

	format := config.FormatYAML
	if strings.EqualFold(filepath.Ext(fConfig), ".toml") {
		format = config.FormatTOML
	}

	return config.Parse(data, format)
}

func documentOptions(cfg *config.Config) []document.Option {
	return []document.Option{
		document.WithLogger(log.Get()),
		document.WithSidecarName(cfg.Document.Sidecar),
		document.WithTextExtensions(filetree.NewTextExtensions(cfg.Document.TextExtensions...)),
		document.WithIgnorePatterns(cfg.Document.Ignore),
	}
}

// project is a loaded document bound to the directory it came from.
type project struct {
	dir     string
	fs      billy.Filesystem
	doc     *document.Document
	history *undo.History
	editor  *editor.Context
	logger  *zap.Logger
}

func openProject() (*project, error) {
	dir, err := filepath.Abs(fChdir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	fs := osfs.New(dir)

	doc, err := document.Load(fs, documentOptions(projectConfig)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load project %q", dir)
	}

	history := undo.NewHistory(projectConfig.Undo.Levels)

	return &project{
		dir:     dir,
		fs:      fs,
		doc:     doc,
		history: history,
		editor:  editor.New(doc, history, editor.WithLogger(log.Get())),
		logger:  log.Get(),
	}, nil
}

func (p *project) save() error {
	result, err := p.doc.Save(p.fs)
	if err != nil {
		return errors.Wrap(err, "failed to save project")
	}
	p.logger.Info("saved project", zap.Int("written", len(result.Written)), zap.Int("removed", len(result.Removed)))
	return nil
}

// cursor resolves a "/"-separated path inside the project.
func (p *project) cursor(path string) (editor.Cursor, error) {
	return p.editor.CursorAt(filetree.ParsePath(path))
}

// parentCursor splits path into the cursor of its folder and the last name.
func (p *project) parentCursor(path string) (editor.Cursor, string, error) {
	segments := filetree.ParsePath(path)
	if len(segments) == 0 {
		return editor.Cursor{}, "", errors.Errorf("invalid path %q", path)
	}
	cur, err := p.editor.CursorAt(segments[:len(segments)-1])
	if err != nil {
		return editor.Cursor{}, "", err
	}
	return cur, segments[len(segments)-1], nil
}
