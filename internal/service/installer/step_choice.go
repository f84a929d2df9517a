package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ChannelTelegram = "Telegram"
	ChannelMatrix   = "Matrix"
	ChannelConsole  = "Console"

	ModeAutomatic  = "Automatic"
	ModeSupervised = "Supervised (confirm every reply)"
	ModeSilent     = "Silent (log replies, post nothing)"
)

// ChoiceStep lets the user pick one of a fixed list of options.
type ChoiceStep struct {
	prompt  string
	choices []string
	cursor  int
	apply   func(state *InstallState, choice string)
	when    func(state *InstallState) bool
}

func NewChannelStep() Step {
	return &ChoiceStep{
		prompt:  "Where should the bot answer questions?",
		choices: []string{ChannelTelegram, ChannelMatrix, ChannelConsole},
		apply: func(state *InstallState, choice string) {
			state.Channel = choice
			state.Settings.EnableTelegram = choice == ChannelTelegram
			state.Settings.EnableMatrix = choice == ChannelMatrix
			state.Settings.EnableCLI = choice == ChannelConsole
		},
	}
}

func NewPostingModeStep() Step {
	return &ChoiceStep{
		prompt:  "How should replies be posted?",
		choices: []string{ModeAutomatic, ModeSupervised, ModeSilent},
		apply: func(state *InstallState, choice string) {
			state.Settings.Supervised = choice == ModeSupervised
			state.Settings.Silent = choice == ModeSilent
		},
		when: func(state *InstallState) bool { return state.Channel != ChannelConsole },
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Skip(state *InstallState) bool {
	return s.when != nil && !s.when(state)
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.choices[s.cursor])
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
