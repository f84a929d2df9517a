package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep fills derived values and defaults
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	// Signal completion
	return nil, nil
}

func finalize(state *InstallState) {
	settings := &state.Settings

	// A channel without its credentials would fail on start
	if settings.TelegramToken == "" {
		settings.EnableTelegram = false
	}
	if settings.MatrixHomeserver == "" || settings.MatrixUser == "" {
		settings.EnableMatrix = false
	}
	if !settings.EnableTelegram && !settings.EnableMatrix {
		settings.EnableCLI = true
	}

	// Set defaults
	if settings.Debug == "" {
		settings.Debug = "0"
	}
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
