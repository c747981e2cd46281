package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/typstify/internal/document"
)

const shellHelp = `Commands:
  tree [-a]                 list files, -a includes hidden ones
  cat <path>                print a file
  touch <path>              create a file
  mkdir <path>              create a folder
  mv <path> <new-name>      rename within the folder
  rm <path>                 remove a file or folder
  write <path> <text>       replace the text of a file
  import <image> [folder]   copy an image into the project
  undo                      revert the last change
  redo                      reapply the last reverted change
  save                      write the project to disk
  exit                      leave the shell
`

func shellCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "shell",
		Short: "Edit the project interactively with undo and redo.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}

			prompt := false
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
			}

			s := &shell{
				project: p,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
				prompt:  prompt,
				saved:   p.doc.Snapshot(),
			}
			return s.run(cmd.InOrStdin())
		},
	}
	return &cmd
}

type shell struct {
	*project

	out    io.Writer
	errOut io.Writer
	prompt bool

	// saved is the state on disk, used to warn about unsaved changes.
	saved *document.Snapshot
}

func (s *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		if s.prompt {
			_, _ = fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if args[0] == "exit" || args[0] == "quit" {
			break
		}

		if err := s.exec(args); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read commands")
	}

	if !s.saved.Equal(s.doc.Snapshot()) {
		_, _ = fmt.Fprintln(s.errOut, "unsaved changes discarded")
	}

	return nil
}

func (s *shell) exec(args []string) error {
	s.logger.Debug("shell command", zap.Strings("args", args))

	name, args := args[0], args[1:]

	expect := func(lo, hi int) error {
		if len(args) < lo || len(args) > hi {
			return errors.Errorf("%s: wrong number of arguments", name)
		}
		return nil
	}

	switch name {
	case "help":
		_, _ = fmt.Fprint(s.out, shellHelp)
		return nil

	case "tree", "ls":
		if err := expect(0, 1); err != nil {
			return err
		}
		return s.printTree(s.out, len(args) == 1 && args[0] == "-a", false)

	case "cat":
		if err := expect(1, 1); err != nil {
			return err
		}
		return s.cat(s.out, args[0])

	case "touch", "mkdir":
		if err := expect(1, 1); err != nil {
			return err
		}
		add := s.touch
		if name == "mkdir" {
			add = s.mkdir
		}
		used, err := add(args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(s.out, used)
		return nil

	case "mv":
		if err := expect(2, 2); err != nil {
			return err
		}
		return s.mv(args[0], args[1])

	case "rm":
		if err := expect(1, 1); err != nil {
			return err
		}
		return s.rm(args[0])

	case "write":
		if err := expect(2, 2); err != nil {
			return err
		}
		return s.write(args[0], args[1])

	case "import":
		if err := expect(1, 2); err != nil {
			return err
		}
		folder := "/"
		if len(args) > 1 {
			folder = args[1]
		}
		used, err := s.importImage(args[0], folder)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(s.out, used)
		return nil

	case "undo":
		if !s.history.Undo() {
			return errors.New("nothing to undo")
		}
		return nil

	case "redo":
		if !s.history.Redo() {
			return errors.New("nothing to redo")
		}
		return nil

	case "save":
		if err := s.save(); err != nil {
			return err
		}
		s.saved = s.doc.Snapshot()
		return nil
	}

	return errors.Errorf("unknown command %q, try help", strings.TrimSpace(name))
}
