package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/vcs"
)

// NewResetCommand creates the "reset" cobra command.
//
// The pristine content of every exercise is the version committed in the
// course repository, so reset is a git checkout of that one file.
func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Reset a single exercise",
		Long: `Discard your changes to an exercise and restore the original file
from git.

Example:
  gopherlings reset variables1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return runReset(cmd.OutOrStdout(), p, vcs.NewManager(), args[0])
		},
	}
}

func runReset(out io.Writer, p *project, git *vcs.Manager, name string) error {
	ex, err := findExercise(out, p.registry, name)
	if err != nil || ex == nil {
		return err
	}

	repoRoot, err := git.GetRepoRoot(p.settings.Root)
	if err != nil {
		return err
	}
	VerboseLog("Repository root: %s", repoRoot)

	// Relative catalog paths resolve against the project root, which git
	// is pointed at with -C.
	if git.IsTracked(p.settings.Root, ex.Path) {
		modified, err := git.IsModified(p.settings.Root, ex.Path)
		if err != nil {
			return err
		}
		if !modified {
			fmt.Fprintf(out, "The file %s has no changes, nothing to reset.\n", ex.Path)
			return nil
		}
	}
	if err := git.Restore(p.settings.Root, ex.Path); err != nil {
		return model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("Failed to reset the exercise %s", ex.Name), err)
	}
	fmt.Fprintf(out, "The file %s has been reset!\n", ex.Path)
	return nil
}
