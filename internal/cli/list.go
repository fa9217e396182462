// list.go implements the "gopherlings list" command.
//
// The list command shows every exercise in catalog order with its status
// ("Done" once the not-done marker is gone, "Pending" otherwise), followed
// by an overall progress line. Output is a text table, a bare list of names
// or paths, or JSON with the --json flag.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// listFlags holds the flag values for the list command.
// These are bound to cobra flags in NewListCommand.
type listFlags struct {
	// paths prints only exercise paths, one per line.
	paths bool

	// names prints only exercise names, one per line.
	names bool

	// filter is a comma-separated list of case-insensitive substrings
	// matched against names and paths.
	filter string

	// filterSet records whether --filter was given at all. An explicit
	// but blank filter matches nothing.
	filterSet bool

	unsolved bool
	solved   bool
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the exercises available in gopherlings",
		Long: `List the exercises in the recommended order together with their status.

Examples:
  gopherlings list
  gopherlings list --unsolved
  gopherlings list --filter variables,structs --names
  gopherlings list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.filterSet = cmd.Flags().Changed("filter")
			p, err := openProject()
			if err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), p.registry.All(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.paths, "paths", "p", false, "Show only the paths of the exercises")
	cmd.Flags().BoolVarP(&flags.names, "names", "n", false, "Show only the names of the exercises")
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "Match exercise names or paths (comma separated patterns)")
	cmd.Flags().BoolVarP(&flags.unsolved, "unsolved", "u", false, "Display only exercises not yet solved")
	cmd.Flags().BoolVarP(&flags.solved, "solved", "s", false, "Display only exercises that have been solved")
	cmd.MarkFlagsMutuallyExclusive("paths", "names")

	return cmd
}

// listEntry is one exercise row of the list output.
type listEntry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Mode   string `json:"mode"`
	Status string `json:"status"`
}

// listResult is the complete list output. Done and Total always cover the
// whole catalog, independent of the filters.
type listResult struct {
	Exercises  []listEntry `json:"exercises"`
	Done       int         `json:"done"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
}

// Status strings shown in the list.
const (
	statusDone    = "Done"
	statusPending = "Pending"
)

// buildListResult evaluates every exercise and applies the filters.
func buildListResult(exercises []*model.Exercise, flags *listFlags) (*listResult, error) {
	patterns := splitFilter(flags.filter)

	res := &listResult{
		Exercises: make([]listEntry, 0, len(exercises)),
		Total:     len(exercises),
	}
	for _, ex := range exercises {
		done, err := ex.LooksDone()
		if err != nil {
			return nil, err
		}
		status := statusPending
		if done {
			status = statusDone
			res.Done++
		}

		solveOK := (done && flags.solved) || (!done && flags.unsolved) || (!flags.solved && !flags.unsolved)
		filterOK := !flags.filterSet || matchesFilter(ex, patterns)
		if !solveOK || !filterOK {
			continue
		}
		res.Exercises = append(res.Exercises, listEntry{
			Name:   ex.Name,
			Path:   ex.Path,
			Mode:   ex.Mode.String(),
			Status: status,
		})
	}
	if res.Total > 0 {
		res.Percentage = float64(res.Done) / float64(res.Total) * 100
	}
	return res, nil
}

// splitFilter lowercases the filter and splits it on commas, dropping
// blank patterns.
func splitFilter(filter string) []string {
	var out []string
	for _, f := range strings.Split(strings.ToLower(filter), ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// matchesFilter reports whether any lowercased pattern occurs in the
// exercise's name or path, ignoring case.
func matchesFilter(ex *model.Exercise, patterns []string) bool {
	name, path := strings.ToLower(ex.Name), strings.ToLower(ex.Path)
	for _, p := range patterns {
		if strings.Contains(name, p) || strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// runList builds the result and writes it in the selected format.
func runList(out io.Writer, exercises []*model.Exercise, flags *listFlags) error {
	res, err := buildListResult(exercises, flags)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode list output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printListResultText(out, res, flags)
	return nil
}

// printListResultText writes the list as text.
//
// The table format is:
//
//	Name             	Path                                          	Status
//	variables1       	exercises/variables/variables1/main.go        	Done
func printListResultText(out io.Writer, res *listResult, flags *listFlags) {
	if !flags.paths && !flags.names {
		fmt.Fprintln(out, tableRow("Name", "Path", "Status"))
	}
	for _, e := range res.Exercises {
		switch {
		case flags.paths:
			fmt.Fprintln(out, e.Path)
		case flags.names:
			fmt.Fprintln(out, e.Name)
		default:
			fmt.Fprintln(out, tableRow(e.Name, e.Path, e.Status))
		}
	}
	fmt.Fprintln(out, FormatProgress(res.Done, res.Total))
}

// tableRow pads each column to its display width. runewidth counts
// columns rather than bytes, so non-ASCII exercise names stay aligned.
func tableRow(name, path, status string) string {
	return runewidth.FillRight(name, 17) + "\t" +
		runewidth.FillRight(path, 46) + "\t" +
		runewidth.FillRight(status, 7)
}

// FormatProgress renders the summary line printed under the list.
//
// Example:
//
//	FormatProgress(3, 8) → "Progress: You completed 3 / 8 exercises (37.5 %)."
func FormatProgress(done, total int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	return fmt.Sprintf("Progress: You completed %d / %d exercises (%.1f %%).", done, total, pct)
}
