package ui

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/provision"
)

func testProfile(t *testing.T) model.AccountProfile {
	t.Helper()
	p, err := model.NewAccountProfile("alice.smith@example.com", "hunter2", model.DefaultAppConfig().Servers)
	require.NoError(t, err)
	return p
}

func TestValidateAddressMessages(t *testing.T) {
	assert.NoError(t, validateAddress("alice@example.com"))
	assert.EqualError(t, validateAddress(" "), "email cannot be empty")
	assert.EqualError(t, validateAddress("alice"), "invalid email format")
}

func TestPreviewRows(t *testing.T) {
	rows := PreviewRows(testProfile(t), model.StrategyImport)

	assert.Equal(t, []PreviewRow{
		{"Profile Name", "alice.smith"},
		{"Email", "alice.smith@example.com"},
		{"Password", "********"},
		{"POP3 Server", "mail.kurumsaleposta.com:110"},
		{"SMTP Server", "mail.kurumsaleposta.com:587"},
		{"Leave mail on server", "No"},
		{"Method", "Outlook import (PRF)"},
	}, rows)
}

func TestRenderPreviewNeverShowsCredential(t *testing.T) {
	out := RenderPreview(testProfile(t), model.StrategyDirect)

	assert.Contains(t, out, "alice.smith@example.com")
	assert.Contains(t, out, "Direct registry write")
	assert.Contains(t, out, "Setting")
	assert.NotContains(t, out, "hunter2")
}

func TestRenderReports(t *testing.T) {
	assert.Contains(t, Banner(), "Clerk")

	success := RenderSuccess("alice.smith")
	assert.Contains(t, success, "Profile created successfully!")
	assert.Contains(t, success, "alice.smith")
	assert.Contains(t, success, "Open Outlook")

	assert.Contains(t, RenderError(errors.New("OUTLOOK.EXE not found")), "OUTLOOK.EXE not found")
	assert.Contains(t, RenderCancelled(), "Operation cancelled.")
}

func TestProgressModelUpdate(t *testing.T) {
	m := newProgressModel("Creating Outlook profile...")

	next, cmd := m.Update(stageMsg("looking for Outlook"))
	assert.Nil(t, cmd)
	m = next.(progressModel)
	assert.Contains(t, m.View(), "Creating Outlook profile...")
	assert.Contains(t, m.View(), "looking for Outlook")

	// Keys must not interrupt provisioning.
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	m = next.(progressModel)
	assert.False(t, m.done)

	next, cmd = m.Update(workDoneMsg{})
	require.NotNil(t, cmd)
	m = next.(progressModel)
	assert.True(t, m.done)
	assert.Empty(t, m.View())

	_, cmd = m.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestRunWithSpinnerReturnsWorkResult(t *testing.T) {
	opts := []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard)}

	var stages []string
	err := RunWithSpinner("working", func(report func(string)) error {
		report("one")
		stages = append(stages, "one")
		return nil
	}, opts...)
	assert.NoError(t, err)
	assert.Equal(t, []string{"one"}, stages)

	boom := errors.New("boom")
	err = RunWithSpinner("working", func(func(string)) error { return boom }, opts...)
	assert.ErrorIs(t, err, boom)
}

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "looking for Outlook", StageLabel(provision.StageLocating))
	assert.Equal(t, "custom", StageLabel(provision.Stage("custom")))
}
