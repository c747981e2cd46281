package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/compiler"
	"github.com/stateful/typstify/internal/config"
	"github.com/stateful/typstify/internal/log"
	"github.com/stateful/typstify/internal/preview"
)

type compileFlags struct {
	typst         string
	fallbackFonts bool
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typst, "typst", "", "Path to the typst binary. Overrides compiler.binary.")
	cmd.Flags().BoolVar(&f.fallbackFonts, "fallback-fonts", true, "Prepend default fonts for math, code and CJK text.")
}

func (f *compileFlags) compiler(dir string, cfg *config.Config) *compiler.ExecCompiler {
	binary := cfg.Compiler.Binary
	if f.typst != "" {
		binary = f.typst
	}

	opts := []compiler.ExecOption{
		compiler.WithBinary(binary),
		compiler.WithTimeout(cfg.Compiler.Timeout.Std()),
		compiler.WithLogger(log.Get()),
	}
	if f.fallbackFonts {
		opts = append(opts, compiler.WithPrelude(compiler.FallbackFontPrelude))
	}

	return compiler.NewExecCompiler(dir, opts...)
}

func compileCmd() *cobra.Command {
	var (
		flags  compileFlags
		output string
	)

	cmd := cobra.Command{
		Use:   "compile",
		Short: "Compile the main file of the project to PDF.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}

			source, err := compiler.MainSource(p.doc, projectConfig.Document.Main)
			if err != nil {
				return err
			}

			pdf, err := flags.compiler(p.dir, projectConfig).Compile(cmd.Context(), source)
			var compErr *compiler.CompilationError
			if errors.As(err, &compErr) {
				printDiagnostics(cmd.ErrOrStderr(), compErr.Diagnostics)
				return errors.New("compilation failed")
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = projectConfig.Preview.Output
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(pdf)
				return errors.Wrap(err, "failed to write result")
			}
			if !filepath.IsAbs(output) {
				return errors.Wrapf(util.WriteFile(p.fs, filepath.ToSlash(output), pdf, 0o644), "failed to write %s", output)
			}
			return errors.Wrapf(os.WriteFile(output, pdf, 0o644), "failed to write %s", output)
		},
	}

	flags.register(&cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF path, relative to the project directory, or - for stdout. Defaults to preview.output.")

	return &cmd
}

func watchCmd() *cobra.Command {
	var flags compileFlags

	cmd := cobra.Command{
		Use:   "watch",
		Short: "Recompile the project whenever a file changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(fChdir)
			if err != nil {
				return errors.WithStack(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.ErrOrStderr()
			w := preview.New(
				dir,
				flags.compiler(dir, projectConfig),
				preview.WithMainName(projectConfig.Document.Main),
				preview.WithOutput(projectConfig.Preview.Output),
				preview.WithDebounce(projectConfig.Preview.Debounce.Std()),
				preview.WithDocumentOptions(documentOptions(projectConfig)...),
				preview.WithLogger(log.Get()),
				preview.WithOnBuild(func(r preview.Result) {
					printBuild(out, r)
				}),
			)

			log.Get().Info("watching project", zap.String("dir", dir))

			return w.Run(ctx)
		},
	}

	flags.register(&cmd)

	return &cmd
}

func printBuild(w io.Writer, r preview.Result) {
	var compErr *compiler.CompilationError
	switch {
	case errors.As(r.Err, &compErr):
		printDiagnostics(w, compErr.Diagnostics)
	case r.Err != nil:
		_, _ = color.New(color.FgRed).Fprintf(w, "build failed: %v\n", r.Err)
	default:
		_, _ = color.New(color.FgGreen).Fprintf(w, "compiled %d bytes\n", r.Output)
	}
}

func printDiagnostics(w io.Writer, diagnostics []compiler.Diagnostic) {
	for _, d := range diagnostics {
		c := color.New(color.FgRed, color.Bold)
		label := "error"
		if d.Severity == compiler.SeverityWarning {
			c = color.New(color.FgYellow, color.Bold)
			label = "warning"
		}
		_, _ = c.Fprint(w, label)
		_, _ = fmt.Fprintf(w, ": %s (line %d, column %d)\n", d.Message, d.LineStart, d.ColumnStart)
	}
}
