package prompt

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Terminal prompts with an editable input line.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

type inputModel struct {
	question string
	def      string
	input    textinput.Model
	done     bool
	aborted  bool
}

func newInputModel(question, def string) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = def
	ti.Focus()
	return inputModel{question: question, def: def, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return formatQuestion(m.question, m.def) + m.input.Value() + "\n"
	}
	if m.aborted {
		return formatQuestion(m.question, m.def) + "\n"
	}
	return formatQuestion(m.question, m.def) + m.input.View()
}

func (t *Terminal) run(question, def string) (string, error) {
	p := tea.NewProgram(newInputModel(question, def), tea.WithInput(t.In), tea.WithOutput(t.Out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(m.input.Value()), nil
}

func (t *Terminal) Input(question, def string) (string, error) {
	return t.run(question, def)
}

func (t *Terminal) Confirm(question string) (bool, error) {
	answer, err := t.run(question, "")
	if err != nil {
		return false, err
	}
	return IsYes(answer), nil
}
