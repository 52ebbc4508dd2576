// Package tui provides a Bubble Tea terminal user interface for suno-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/suno-downloader/internal/config"
	"github.com/handiism/suno-downloader/internal/download"
	"github.com/handiism/suno-downloader/internal/model"
	"github.com/handiism/suno-downloader/internal/report"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error
	editing   bool

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan model.ProgressEvent
	total   int
	summary report.Summary

	// Options
	apiMode  bool
	playlist bool
	tag      bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "songs.csv"
	ti.SetValue(settings.CSVPath)
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		playlist:  settings.CreatePlaylist,
		tag:       settings.TagAudio,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg is sent for every event emitted during a run.
	ProgressMsg struct {
		Event model.ProgressEvent
	}

	// InitDoneMsg is sent when the records have been loaded.
	InitDoneMsg struct {
		Manager *download.Manager
		Total   int
		Err     error
	}

	// DownloadDoneMsg is sent when all records have been processed.
	DownloadDoneMsg struct {
		Outcomes []model.Outcome
		Err      error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && (m.apiMode || strings.TrimSpace(m.textInput.Value()) != "") {
				m.state = StateInitializing
				m.events = make(chan model.ProgressEvent, 256)
				return m, tea.Batch(m.initializeDownload(), waitForEvent(m.events), m.spinner.Tick)
			}

		case "a":
			if m.state == StateInput {
				m.apiMode = !m.apiMode
			}

		case "e", "tab":
			if m.state == StateInput && !m.apiMode {
				m.editing = true
				return m, m.textInput.Focus()
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "t":
			if m.state == StateInput {
				m.tag = !m.tag
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state != StateInitializing && m.state != StateDownloading {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.total = 0
				m.summary = report.Summary{}
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.appendLog(msg.Event)
		cmds = append(cmds, waitForEvent(m.events))

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = m.describeError(msg.Err)
		} else {
			m.manager = msg.Manager
			m.total = msg.Total
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload())
		}

	case DownloadDoneMsg:
		m.summary = report.Summarize(msg.Outcomes)
		if msg.Err != nil {
			m.state = StateError
			m.err = m.describeError(msg.Err)
		} else {
			m.state = StateComplete
		}
	}

	return m, tea.Batch(cmds...)
}

// updateEditing routes keys to the CSV path input.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "enter", "tab", "esc":
		m.editing = false
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) appendLog(event model.ProgressEvent) {
	if event.Level == model.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{
		Message: event.Message,
		Level:   event.Level,
	})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) describeError(err error) error {
	if m.ctx.Err() != nil {
		return fmt.Errorf("cancelled by user")
	}
	return err
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Suno Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download your songs from Suno"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewRunning("Fetching song list..."))
	case StateDownloading:
		b.WriteString(m.viewRunning(fmt.Sprintf("Downloading %d songs...", m.total)))
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	if m.apiMode {
		b.WriteString(subtitleStyle.Render("Source: Suno feed"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(m.settings.FeedURL))
	} else {
		b.WriteString(subtitleStyle.Render("Source: CSV file"))
		b.WriteString("\n\n")
		b.WriteString(m.textInput.View())
	}
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Fetch all songs from the API (a)\n", checkbox(m.apiMode)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Write ID3 tags (t)\n", checkbox(m.tag)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning(status string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(status))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := m.summary
	content := fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Successfully downloaded: %d/%d songs\n"+
			"Skipped (already present): %d\n"+
			"Failed: %d\n"+
			"Size: %.2f MB",
		s.Successful(), s.Total,
		s.Skipped,
		s.Failed,
		float64(s.Bytes)/1024/1024,
	)
	b.WriteString(boxStyle.Render(content))
	b.WriteString("\n")

	for _, o := range s.Failures {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", o.Record.Filename, o.Err)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}
	if m.summary.Total > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Processed before stopping: %d/%d songs", m.summary.Successful(), m.summary.Total)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if m.editing {
			return "enter: done editing"
		}
		return "enter: start • e: edit path • a: api • p: playlist • t: tags • v: verbose • q: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// runSettings returns a copy of the settings with the UI options applied.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.CreatePlaylist = m.playlist
	settings.TagAudio = m.tag
	return &settings
}

// waitForEvent delivers the next event emitted by the running manager.
func waitForEvent(events <-chan model.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// initializeDownload creates the manager and loads the record list.
func (m Model) initializeDownload() tea.Cmd {
	ctx := m.ctx
	events := m.events
	settings := m.runSettings()
	apiMode := m.apiMode
	csvPath := strings.TrimSpace(m.textInput.Value())

	return func() tea.Msg {
		manager := download.NewManager(settings, func(event model.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx, manager.NewSource(apiMode, csvPath)); err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Manager: manager,
			Total:   len(manager.Records()),
		}
	}
}

// startDownload runs the downloads in the background.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	events := m.events
	manager := m.manager

	return func() tea.Msg {
		outcomes, err := manager.StartDownloads(ctx)
		close(events)
		return DownloadDoneMsg{Outcomes: outcomes, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
