package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/plan"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// regionsCommand creates the interactive region browser command.
func (c *CLI) regionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions [result.json]",
		Short: "Browse a saved allocation result interactively",
		Long: `Browse a saved allocation result interactively.

The regions command loads a result file written by 'allocate --output' and
shows the per-region outcomes in a navigable table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadResult(args[0])
			if err != nil {
				return err
			}
			model := NewRegionListModel(result)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// loadResult reads an allocation result written by 'allocate --output'.
func loadResult(path string) (*plan.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	var result plan.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result %s", path)
	}
	return &result, nil
}

// regionRow is one row of the region table, precomputed for rendering.
type regionRow struct {
	Name   string
	Result plan.RegionResult
}

// RegionListModel is the bubbletea model for browsing region outcomes.
type RegionListModel struct {
	RunID  string
	Rows   []regionRow
	Cursor int
	Height int
	Offset int
}

// NewRegionListModel creates a region list model from an allocation result,
// with regions sorted by name.
func NewRegionListModel(result *plan.Result) RegionListModel {
	rows := make([]regionRow, 0, len(result.Regions))
	for name, region := range result.Regions {
		rows = append(rows, regionRow{Name: name, Result: region})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return RegionListModel{
		RunID:  result.RunID,
		Rows:   rows,
		Height: 15,
	}
}

func (m RegionListModel) Init() tea.Cmd {
	return nil
}

func (m RegionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RegionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Allocation Regions"))
	b.WriteString(listDimStyle.Render("  run " + m.RunID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		converged := StyleSuccess.Render(iconSuccess)
		if !row.Result.Converged {
			converged = StyleWarning.Render(iconWarning)
		}

		source := iconFresh
		if row.Result.FromCache {
			source = iconCached
		}

		rows = append(rows, []string{
			cursor,
			row.Name,
			fmt.Sprintf("%d", row.Result.NodeCount),
			fmt.Sprintf("%d", row.Result.EdgeCount),
			fmt.Sprintf("%d", row.Result.HubCount),
			converged,
			source,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Region", "Towers", "Edges", "Hubs", "OK", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col >= 2 && col <= 4 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
