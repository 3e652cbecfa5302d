package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-neat/internal/storage"
)

const (
	maxHistoryRows = 100
	dateLayout     = "Jan 02 15:04"
)

// HistoryTab selects the table shown by the history screen.
type HistoryTab int

const (
	TabRuns HistoryTab = iota
	TabScores
)

func (t HistoryTab) String() string {
	if t == TabScores {
		return "Scores"
	}
	return "Runs"
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextTab, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "runs/scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel lists training runs and human high scores.
type HistoryModel struct {
	store    *storage.Store
	tab      HistoryTab
	runs     []storage.RunEntry
	scores   []storage.ScoreEntry
	loadErr  error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a history model that opens on tab.
func NewHistoryModel(store *storage.Store, tab HistoryTab, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		tab:    tab,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	return m
}

func (m *HistoryModel) load() {
	if m.store == nil {
		return
	}
	runs, err := m.store.RecentRuns(maxHistoryRows)
	if err != nil {
		m.loadErr = err
		return
	}
	scores, err := m.store.TopScores("flappy", maxHistoryRows)
	if err != nil {
		m.loadErr = err
		return
	}
	m.runs, m.scores = runs, scores
}

func (m *HistoryModel) columns() []table.Column {
	if m.tab == TabScores {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 14},
		}
	}
	return []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Status", Width: 10},
		{Title: "Gens", Width: 6},
		{Title: "Pop", Width: 5},
		{Title: "Best fit", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "Seed", Width: 12},
		{Title: "Started", Width: 14},
	}
}

func (m *HistoryModel) rows() []table.Row {
	if m.tab == TabScores {
		rows := make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				fmt.Sprintf("%d", s.Score),
				s.CreatedAt.Format(dateLayout),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.Status,
			fmt.Sprintf("%d", r.Generations),
			fmt.Sprintf("%d", r.PopSize),
			fmt.Sprintf("%.2f", r.BestFitness),
			fmt.Sprintf("%d", r.BestScore),
			fmt.Sprintf("%d", r.Seed),
			r.CreatedAt.Format(dateLayout),
		}
	}
	return rows
}

func (m *HistoryModel) createTable() table.Model {
	height := m.height - 8
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % 2
			m.table = m.createTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	b.WriteString(centerText(titleStyle.Render("FLAPPY HISTORY"), m.width))
	b.WriteString("\n\n")

	tabs := make([]string, 0, 2)
	for _, t := range []HistoryTab{TabRuns, TabScores} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.tableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load history:\n" + m.loadErr.Error())
	case m.tab == TabRuns && len(m.runs) == 0:
		return emptyStyle.Render("No training runs yet.\nStart one with `flappy evolve`.")
	case m.tab == TabScores && len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunHistory runs the history screen on tab until the user quits.
func RunHistory(store *storage.Store, tab HistoryTab, width, height int) error {
	_, err := tea.NewProgram(NewHistoryModel(store, tab, width, height), tea.WithAltScreen()).Run()
	return err
}
