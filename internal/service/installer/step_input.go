package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one line of text. apply may reject the value, in which
// case the step stays on screen with the error.
type InputStep struct {
	input  textinput.Model
	prompt string
	err    error
	apply  func(state *InstallState, value string) error
	when   func(state *InstallState) bool
}

func newInputStep(prompt, placeholder string, secret bool, apply func(*InstallState, string) error) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		input:  ti,
		prompt: prompt,
		apply:  apply,
	}
}

func (s *InputStep) onlyIf(when func(state *InstallState) bool) *InputStep {
	s.when = when
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.when != nil && !s.when(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if err := s.apply(state, s.input.Value()); err != nil {
				s.err = err
				return s, nil
			}
			return nil, nil
		}
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	view := s.prompt + "\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}
