// Package compiler turns the main source of a document into PDF bytes.
package compiler

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/document"
	"github.com/stateful/typstify/internal/filetree"
)

// Compiler renders Typst source. Relative imports resolve against the
// project directory the implementation was configured with.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// FallbackFontPrelude selects fonts that cover math, code and CJK text when
// the source does not choose its own.
const FallbackFontPrelude = `#show math.equation: set text(font: "STIX Two Math")
#show raw: set text(font: "IBM Plex Mono")
#set text(font: ("IBM Plex Sans", "LXGW WenKai Mono Lite"))
`

const DefaultBinary = "typst"

// ExecCompiler runs the typst command line tool, feeding the source through
// stdin and reading the PDF from stdout.
type ExecCompiler struct {
	binary  string
	dir     string
	prelude string
	timeout time.Duration
	logger  *zap.Logger
}

type ExecOption func(*ExecCompiler)

func WithBinary(binary string) ExecOption {
	return func(c *ExecCompiler) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithPrelude prepends text to every source. Diagnostics are reported in
// the coordinates of the original source.
func WithPrelude(prelude string) ExecOption {
	return func(c *ExecCompiler) {
		c.prelude = prelude
	}
}

func WithTimeout(timeout time.Duration) ExecOption {
	return func(c *ExecCompiler) {
		c.timeout = timeout
	}
}

func WithLogger(logger *zap.Logger) ExecOption {
	return func(c *ExecCompiler) {
		c.logger = logger
	}
}

func NewExecCompiler(dir string, opts ...ExecOption) *ExecCompiler {
	c := &ExecCompiler{
		binary: DefaultBinary,
		dir:    dir,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

func (c *ExecCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.binary, "compile", "--diagnostic-format", "short", "-", "-")
	cmd.Dir = c.dir
	cmd.Stdin = strings.NewReader(c.prelude + source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	c.logger.Debug("running compiler", zap.String("binary", c.binary), zap.String("dir", c.dir))

	err := cmd.Run()
	diagnostics := ParseDiagnostics(stderr.String(), strings.Count(c.prelude, "\n"))

	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "compile")
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(diagnostics) > 0 {
			return nil, &CompilationError{Diagnostics: diagnostics}
		}
		return nil, errors.Wrapf(err, "run %s: %s", c.binary, strings.TrimSpace(stderr.String()))
	}

	for _, d := range diagnostics {
		c.logger.Info("compiler diagnostic", zap.Stringer("severity", d.Severity), zap.Int("line", d.LineStart), zap.String("message", d.Message))
	}

	return stdout.Bytes(), nil
}

// MainSource returns the text of the root-level file called name.
func MainSource(doc *document.Document, name string) (string, error) {
	node, ok := doc.RootFolder().Get(name)
	if !ok {
		return "", errors.Wrapf(filetree.ErrNotFound, "main file %q", name)
	}
	file, ok := node.File()
	if !ok {
		return "", errors.Wrapf(filetree.ErrNotFound, "main file %q is a folder", name)
	}
	text, ok := file.Payload.Text()
	if !ok {
		return "", errors.Wrapf(filetree.ErrEncoding, "main file %q is not text", name)
	}
	return text, nil
}
