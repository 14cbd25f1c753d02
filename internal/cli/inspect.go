package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/generator"
	pio "github.com/matzehuels/cyclegen/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// inspectCommand creates the inspect command, an interactive browser over
// the insertion events of a saved result.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the insertion history of a saved dungeon",
		Long: `Browse the insertion history of a dungeon saved with "generate -f json".

Each entry is one pattern spliced into a passage of its parent. Use --plain
to print the history instead of opening the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if plain {
				return printEvents(os.Stdout, res)
			}
			_, err = tea.NewProgram(NewEventListModel(res), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the history without the interactive view")
	return cmd
}

// =============================================================================
// EventListModel - Interactive insertion history
// =============================================================================

// EventListModel is the bubbletea model for browsing insertion events. Row 0
// is the root pattern; row i > 0 is Replacements[i-1].
type EventListModel struct {
	Result *generator.GenerationResult
	Cursor int
	Height int
	Offset int
}

// NewEventListModel creates a new event list model.
func NewEventListModel(res *generator.GenerationResult) EventListModel {
	return EventListModel{Result: res, Height: 15}
}

// rows returns the number of selectable rows.
func (m EventListModel) rows() int {
	return len(m.Result.Replacements) + 1
}

func (m EventListModel) Init() tea.Cmd {
	return nil
}

func (m EventListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = m.rows() - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m EventListModel) View() string {
	var b strings.Builder

	st := m.Result.Stats
	b.WriteString(StyleTitle.Render("Insertion History"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("seed %d · %d rooms · %d passages · %d insertions",
		m.Result.Settings.Seed, st.Nodes, st.Edges, st.Insertions)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	var list strings.Builder
	end := min(m.Offset+m.Height, m.rows())
	for i := m.Offset; i < end; i++ {
		line := m.rowLabel(i)
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	detail := detailBoxStyle.Render(m.detail(m.Cursor))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", detail))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))

	return b.String()
}

// rowLabel is the one-line summary of row i.
func (m EventListModel) rowLabel(i int) string {
	if i == 0 {
		return fmt.Sprintf("root  %s", m.Result.OverallType)
	}
	ev := m.Result.Replacements[i-1]
	return fmt.Sprintf("#%-3d %-22s depth %d", i, ev.Type, ev.Insertion.Depth)
}

// detail describes row i: the seam it replaced and the rooms it added.
func (m EventListModel) detail(i int) string {
	if i == 0 {
		return describeFragment(m.Result, m.Result.OverallFragment.Nodes, m.Result.OverallFragment.Edges,
			fmt.Sprintf("%s (root)", m.Result.OverallType))
	}
	ev := m.Result.Replacements[i-1]
	head := fmt.Sprintf("%s at depth %d\nseam %v %v→%v\nentry %v  exit %v",
		ev.Type, ev.Insertion.Depth, ev.Insertion.SeamEdge, ev.ParentFrom, ev.ParentTo,
		ev.Attachment.EntryEdge, ev.Attachment.ExitEdge)
	return describeFragment(m.Result, ev.Instance.Nodes, ev.Instance.Edges, head)
}

// describeFragment lists the rooms and passages of one fragment as they
// stand in the final graph.
func describeFragment(res *generator.GenerationResult, nodes []dungeon.NodeID, edges []dungeon.EdgeID, head string) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(head))
	b.WriteString("\n\nRooms\n")
	for _, id := range nodes {
		n, ok := res.Graph.Node(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-4v %-10s %s\n", n.ID, n.Label, describeTags(n.Tags))
	}
	b.WriteString("\nPassages\n")
	for _, id := range edges {
		e, ok := res.Graph.Edge(id)
		if !ok {
			fmt.Fprintf(&b, "  %-4v %s\n", id, StyleDim.Render("replaced"))
			continue
		}
		fmt.Fprintf(&b, "  %-4v %v→%v %s\n", e.ID, e.From, e.To, describeEdge(e))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeTags(tags []dungeon.NodeTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.Kind.String()
		if t.Kind == dungeon.TagKey {
			parts[i] += " " + dungeon.KeyID(t.Data).String()
		}
	}
	return strings.Join(parts, ", ")
}

func describeEdge(e *dungeon.RoomEdge) string {
	var parts []string
	if e.Traversal != dungeon.TraversalNormal {
		parts = append(parts, e.Traversal.String())
	}
	if g := e.Gate; g != nil {
		keys := make([]string, 0, len(g.Keys()))
		for _, k := range g.Keys() {
			keys = append(keys, k.String())
		}
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s (%s) %s", g.Kind, g.Strength, strings.Join(keys, "+"))))
	}
	return strings.Join(parts, ", ")
}

// printEvents writes the insertion history as plain text, one line per
// event.
func printEvents(w io.Writer, res *generator.GenerationResult) error {
	if _, err := fmt.Fprintf(w, "root %s (%d rooms)\n", res.OverallType, len(res.OverallFragment.Nodes)); err != nil {
		return err
	}
	for i, ev := range res.Replacements {
		indent := strings.Repeat("  ", ev.Insertion.Depth)
		_, err := fmt.Fprintf(w, "%s#%d %s replaced %v (%v→%v), %d rooms\n",
			indent, i+1, ev.Type, ev.Insertion.SeamEdge, ev.ParentFrom, ev.ParentTo, len(ev.Instance.Nodes))
		if err != nil {
			return err
		}
	}
	return nil
}
