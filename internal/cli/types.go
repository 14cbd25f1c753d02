package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclegen/pkg/pipeline"
)

// typesCommand creates the types command, which lists the pattern library.
func (c *CLI) typesCommand() *cobra.Command {
	var patterns []string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the registered pattern types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), true, patterns)
			if err != nil {
				return err
			}
			defer runner.Close()
			return printTypes(os.Stdout, runner)
		},
	}

	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "pattern file(s) added to the built-in library")
	return cmd
}

// printTypes renders the library as a table: one row per pattern with its
// room, passage and seam counts and whether a rule decorates it.
func printTypes(w io.Writer, runner *pipeline.Runner) error {
	var rows [][]string
	for _, t := range runner.Library.Types() {
		tmpl, err := runner.Library.Get(t)
		if err != nil {
			return err
		}
		rule := "-"
		if _, ok := runner.Rules.Lookup(t); ok {
			rule = iconSuccess
		}
		rows = append(rows, []string{
			string(t),
			strconv.Itoa(tmpl.NodeCount()),
			strconv.Itoa(tmpl.EdgeCount()),
			strconv.Itoa(len(tmpl.Insertions())),
			rule,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Rooms", "Passages", "Seams", "Rule").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
