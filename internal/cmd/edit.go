package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func treeCmd() *cobra.Command {
	var (
		all bool
		ids bool
	)

	cmd := cobra.Command{
		Use:     "tree",
		Aliases: []string{"ls"},
		Short:   "Print the files and folders of the project.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return p.printTree(cmd.OutOrStdout(), all, ids)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden entries.")
	cmd.Flags().BoolVar(&ids, "ids", false, "Print persistent identifiers.")

	return &cmd
}

// editCmd builds a command that loads the project, applies fn and saves.
func editCmd(use, short string, args cobra.PositionalArgs, fn func(cmd *cobra.Command, p *project, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			if err := fn(cmd, p, args); err != nil {
				return err
			}
			return p.save()
		},
	}
}

func touchCmd() *cobra.Command {
	return editCmd(
		"touch <path>",
		"Create an empty file. A taken name gets a numbered suffix.",
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, p *project, args []string) error {
			name, err := p.touch(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	)
}

func mkdirCmd() *cobra.Command {
	return editCmd(
		"mkdir <path>",
		"Create an empty folder. A taken name gets a numbered suffix.",
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, p *project, args []string) error {
			name, err := p.mkdir(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	)
}

func mvCmd() *cobra.Command {
	return editCmd(
		"mv <path> <new-name>",
		"Rename a file or folder within its folder.",
		cobra.ExactArgs(2),
		func(cmd *cobra.Command, p *project, args []string) error {
			return p.mv(args[0], args[1])
		},
	)
}

func rmCmd() *cobra.Command {
	return editCmd(
		"rm <path>",
		"Remove a file or folder with everything in it.",
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, p *project, args []string) error {
			return p.rm(args[0])
		},
	)
}

func importCmd() *cobra.Command {
	return editCmd(
		"import <image> [folder]",
		"Copy an image into the project, named after its content.",
		cobra.RangeArgs(1, 2),
		func(cmd *cobra.Command, p *project, args []string) error {
			folder := "/"
			if len(args) > 1 {
				folder = args[1]
			}
			name, err := p.importImage(args[0], folder)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	)
}

func writeCmd() *cobra.Command {
	return editCmd(
		"write <path> [text]",
		"Replace the text of a file. Reads stdin if text is omitted.",
		cobra.RangeArgs(1, 2),
		func(cmd *cobra.Command, p *project, args []string) error {
			var text string
			if len(args) > 1 {
				text = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "failed to read from stdin")
				}
				text = string(data)
			}
			return p.write(args[0], text)
		},
	)
}

func newCmd() *cobra.Command {
	var force bool

	cmd := cobra.Command{
		Use:   "new",
		Short: "Create a project with an empty main file in the project directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(fChdir, 0o755); err != nil {
				return errors.WithStack(err)
			}

			p, err := openProject()
			if err != nil {
				return err
			}

			if p.doc.RootFolder().Len() > 0 && !force {
				return errors.Errorf("%s is not empty", p.dir)
			}

			mainName := projectConfig.Document.Main
			if _, ok := p.doc.RootFolder().Get(mainName); !ok {
				if _, err := p.touch(mainName); err != nil {
					return err
				}
			}

			return p.save()
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Use a directory that already has files.")

	return &cmd
}
