package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewHintCommand creates the "hint" cobra command.
func NewHintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <name|next>",
		Short: "Return a hint for the given exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return runHint(cmd.OutOrStdout(), p, args[0])
		},
	}
}

func runHint(out io.Writer, p *project, name string) error {
	ex, err := findExercise(out, p.registry, name)
	if err != nil || ex == nil {
		return err
	}
	if ex.Hint == "" {
		fmt.Fprintf(out, "There is no hint for %s, you're on your own!\n", ex.Name)
		return nil
	}
	fmt.Fprintln(out, ex.Hint)
	return nil
}
