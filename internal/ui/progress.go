package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clerk/internal/provision"
	"github.com/nhle/clerk/internal/theme"
)

// stageMsg updates the line shown next to the spinner.
type stageMsg string

// workDoneMsg signals that the background work has finished.
type workDoneMsg struct{}

// progressModel shows a spinner while work runs. Key presses are ignored
// so that a half-written profile is never abandoned.
type progressModel struct {
	spinner spinner.Model
	title   string
	stage   string
	done    bool
}

func newProgressModel(title string) progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorCyan)

	return progressModel{spinner: sp, title: title}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		m.stage = string(msg)
		return m, nil

	case workDoneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	line := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.stage != "" {
		line += " " + theme.HelpStyle.Render("("+m.stage+")")
	}
	return line + "\n"
}

// RunWithSpinner runs work in the background while showing a spinner and
// returns work's error. work may report progress through the callback.
func RunWithSpinner(title string, work func(report func(string)) error, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(newProgressModel(title), opts...)

	result := make(chan error, 1)
	go func() {
		err := work(func(stage string) {
			p.Send(stageMsg(stage))
		})
		result <- err
		p.Send(workDoneMsg{})
	}()

	// The display is cosmetic: if it cannot start, the work still decides
	// the outcome.
	_, _ = p.Run()

	return <-result
}

// StageLabel is the user-facing text for an import stage.
func StageLabel(s provision.Stage) string {
	switch s {
	case provision.StageRendering:
		return "writing profile description"
	case provision.StageLocating:
		return "looking for Outlook"
	case provision.StageImporting:
		return "running Outlook import"
	case provision.StageSettling:
		return "waiting for Outlook to save"
	case provision.StageRepairing:
		return "checking account settings"
	case provision.StageDone:
		return "done"
	default:
		return string(s)
	}
}
