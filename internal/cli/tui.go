package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive token browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and search tokens interactively",
		Long: `Open a full-screen list of all tokens with their resolved values.

Type / to fuzzy-search by name, enter to show a token's details and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			rows, err := c.tokenRows(cmd.Context(), p)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printInfo("No tokens loaded")
				return nil
			}
			prog := tea.NewProgram(NewTokenListModel(rows), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}
}

// TokenListModel is the bubbletea model for browsing tokens.
type TokenListModel struct {
	Rows      []tokenRow
	Visible   []tokenRow
	Query     string
	Filtering bool
	Detail    bool
	Cursor    int
	Offset    int
	Height    int
}

// NewTokenListModel creates a token list model showing all rows.
func NewTokenListModel(rows []tokenRow) TokenListModel {
	return TokenListModel{
		Rows:    rows,
		Visible: rows,
		Height:  15,
	}
}

func (m TokenListModel) Init() tea.Cmd {
	return nil
}

func (m TokenListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg), nil
		}
		if m.Detail {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.Detail = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Query != "" {
				m.setQuery("")
				return m, nil
			}
			return m, tea.Quit
		case "/":
			m.Filtering = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "enter":
			if len(m.Visible) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// updateFilter handles keys while the search prompt is active.
func (m TokenListModel) updateFilter(msg tea.KeyMsg) TokenListModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.Filtering = false
	case tea.KeyEsc:
		m.Filtering = false
		m.setQuery("")
	case tea.KeyBackspace:
		if r := []rune(m.Query); len(r) > 0 {
			m.setQuery(string(r[:len(r)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.setQuery(m.Query + string(msg.Runes))
	}
	return m
}

func (m *TokenListModel) setQuery(q string) {
	m.Query = q
	m.Visible = searchRows(m.Rows, q)
	m.Cursor = 0
	m.Offset = 0
}

// move shifts the cursor by delta and keeps it inside the window.
func (m *TokenListModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Visible)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Current returns the row under the cursor.
func (m TokenListModel) Current() (tokenRow, bool) {
	if m.Cursor >= len(m.Visible) {
		return tokenRow{}, false
	}
	return m.Visible[m.Cursor], true
}

func (m TokenListModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tokens"))
	b.WriteString("\n")
	switch {
	case m.Filtering:
		b.WriteString(listSelectedStyle.Render("/ " + m.Query + "▏"))
	case m.Query != "":
		b.WriteString(listDimStyle.Render("filter: " + m.Query + "  esc clear"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / search  ⏎ details  q quit"))
	}
	b.WriteString("\n\n")

	if len(m.Visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching tokens"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		resolved := ""
		if r.Token.IsReference() {
			resolved = truncate(r.Resolved.String(), 30)
		}
		rows = append(rows, []string{
			cursor,
			r.Category,
			truncate(r.Token.Name, 40),
			truncate(r.Token.Value.String(), 30),
			resolved,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Token", "Value", "Resolved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Visible) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case col == 1:
				return listDimStyle
			case m.Visible[idx].Token.Overridden:
				return styleOverridden
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Visible))))
	if len(m.Visible) != len(m.Rows) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf(" of %d", len(m.Rows))))
	}

	return b.String()
}

func (m TokenListModel) detailView() string {
	r, ok := m.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(r.Token.Name))
	b.WriteString("\n\n")

	field := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render(fmt.Sprintf("%-12s", k)), listNormalStyle.Render(v)))
	}
	field("category", r.Category)
	field("type", r.Token.Type)
	field("value", r.Token.Value.String())
	if r.Token.IsReference() {
		field("resolved", r.Resolved.String())
	}
	field("depends on", r.Token.DependsOn)
	field("description", r.Token.Description)
	if r.Token.Overridden {
		b.WriteString("\n  ")
		b.WriteString(styleOverridden.Render("overridden"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	return b.String()
}
