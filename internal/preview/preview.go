// Package preview recompiles a project whenever its files change.
package preview

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/compiler"
	"github.com/stateful/typstify/internal/document"
)

const (
	DefaultOutput   = "main.pdf"
	DefaultDebounce = 200 * time.Millisecond
)

// Result describes one build.
type Result struct {
	// Output is the number of bytes written, zero if the build failed.
	Output int
	Err    error
}

type Watcher struct {
	dir      string
	fsys     billy.Filesystem
	compiler compiler.Compiler

	mainName string
	sidecar  string
	output   string
	debounce time.Duration
	docOpts  []document.Option
	onBuild  func(Result)
	logger   *zap.Logger
}

type Option func(*Watcher)

func WithMainName(name string) Option {
	return func(w *Watcher) {
		if name != "" {
			w.mainName = name
		}
	}
}

// WithOutput sets the PDF path relative to the project directory.
func WithOutput(output string) Option {
	return func(w *Watcher) {
		if output != "" {
			w.output = output
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func WithDocumentOptions(opts ...document.Option) Option {
	return func(w *Watcher) {
		w.docOpts = append(w.docOpts, opts...)
	}
}

// WithOnBuild registers a function called after every build from the
// watcher goroutine.
func WithOnBuild(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onBuild = fn
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

func New(dir string, c compiler.Compiler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		fsys:     osfs.New(dir),
		compiler: c,
		mainName: document.DefaultMainName,
		output:   DefaultOutput,
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	w.sidecar = document.New(w.docOpts...).SidecarName()

	return w
}

// Build loads the project, compiles its main file and writes the PDF.
func (w *Watcher) Build(ctx context.Context) Result {
	doc, err := document.Load(w.fsys, append([]document.Option{document.WithLogger(w.logger)}, w.docOpts...)...)
	if err != nil {
		return Result{Err: err}
	}

	source, err := compiler.MainSource(doc, w.mainName)
	if err != nil {
		return Result{Err: err}
	}

	pdf, err := w.compiler.Compile(ctx, source)
	if err != nil {
		return Result{Err: err}
	}

	if err := util.WriteFile(w.fsys, w.output, pdf, 0o644); err != nil {
		return Result{Err: errors.Wrapf(err, "write %s", w.output)}
	}

	return Result{Output: len(pdf)}
}

// Run builds once and then again after every burst of changes, until ctx
// is done. All builds happen on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, "."); err != nil {
		return err
	}

	w.build(ctx)

	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}

			w.logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			if event.Op&fsnotify.Create != 0 {
				if info, err := w.fsys.Lstat(w.rel(event.Name)); err == nil && info.IsDir() {
					if err := w.addTree(watcher, w.rel(event.Name)); err != nil {
						w.logger.Info("failed to watch new folder", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}

			fire = time.After(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Info("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.build(ctx)
		}
	}
}

func (w *Watcher) build(ctx context.Context) {
	result := w.Build(ctx)

	var compErr *compiler.CompilationError
	switch {
	case errors.As(result.Err, &compErr):
		for _, d := range compErr.Diagnostics {
			w.logger.Warn("diagnostic", zap.Stringer("severity", d.Severity), zap.Int("line", d.LineStart), zap.Int("column", d.ColumnStart), zap.String("message", d.Message))
		}
	case result.Err != nil:
		w.logger.Error("build failed", zap.Error(result.Err))
	default:
		w.logger.Info("build finished", zap.String("output", w.output), zap.Int("bytes", result.Output))
	}

	if w.onBuild != nil {
		w.onBuild(result)
	}
}

// addTree watches the folder at rel and every folder below it. fsnotify
// does not recurse on its own.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, rel string) error {
	return util.Walk(w.fsys, rel, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != rel && info.Name() == ".git" {
			return filepath.SkipDir
		}
		abs := filepath.Join(w.dir, filepath.FromSlash(path))
		return errors.Wrapf(watcher.Add(abs), "watch %s", abs)
	})
}

func (w *Watcher) rel(name string) string {
	rel, err := filepath.Rel(w.dir, name)
	if err != nil {
		return name
	}
	return filepath.ToSlash(rel)
}

// ignored filters out the files the watcher writes itself.
func (w *Watcher) ignored(name string) bool {
	rel := w.rel(name)
	return rel == filepath.ToSlash(w.output) || rel == w.sidecar || filepath.Base(rel) == ".git"
}
