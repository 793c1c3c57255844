package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/theme"
)

// PreviewRow is one setting shown before confirmation.
type PreviewRow struct {
	Setting string
	Value   string
}

// PreviewRows lists what will be written. The credential is masked.
func PreviewRows(p model.AccountProfile, strategy model.Strategy) []PreviewRow {
	leave := "No"
	if p.RetainOnServer {
		leave = "Yes"
	}

	return []PreviewRow{
		{"Profile Name", p.ProfileName},
		{"Email", p.Address},
		{"Password", p.MaskedCredential()},
		{"POP3 Server", p.Servers.Incoming.String()},
		{"SMTP Server", p.Servers.Outgoing.String()},
		{"Leave mail on server", leave},
		{"Method", strategyLabel(strategy)},
	}
}

func strategyLabel(s model.Strategy) string {
	switch s {
	case model.StrategyImport:
		return "Outlook import (PRF)"
	case model.StrategyDirect:
		return "Direct registry write"
	default:
		return string(s)
	}
}

// RenderPreview renders the preview rows as a rounded table.
func RenderPreview(p model.AccountProfile, strategy model.Strategy) string {
	rows := PreviewRows(p, strategy)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.TableBorderStyle).
		Headers("Setting", "Value")

	for _, r := range rows {
		t.Row(r.Setting, r.Value)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return theme.TableHeaderStyle
		}
		if row >= 0 && row < len(rows) && col == 1 && rows[row].Setting == "Leave mail on server" {
			return theme.TableCellStyle.Inherit(theme.FlagStyle(p.RetainOnServer))
		}
		return theme.TableCellStyle
	})

	return t.Render()
}
