package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	strbridge "github.com/wippyai/strbridge"
	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/str"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	argStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	paneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type opInfo struct {
	name   string
	params []string
	run    func(m *interactiveModel, args []string) (string, error)
}

type interactiveModel struct {
	bridge   *strbridge.Bridge
	enc      *encoding.Encoding
	err      error
	result   string
	ops      []opInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(enc *encoding.Encoding) *interactiveModel {
	return &interactiveModel{
		bridge: strbridge.New(),
		enc:    enc,
		ops:    bridgeOps(),
		state:  stateSelectOp,
	}
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func parseHandle(arg string) (strbridge.Handle, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("handle: %w", err)
	}
	return strbridge.Handle(v), nil
}

func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("number: %w", err)
	}
	return v, nil
}

func bridgeOps() []opInfo {
	return []opInfo{
		{"new", []string{"content"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := m.bridge.NewString([]byte(a[0]), len(a[0]), m.enc)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("handle %d", h), nil
		}},
		{"buffer", []string{"capacity"}, func(m *interactiveModel, a []string) (string, error) {
			n, err := parseInt(a[0])
			if err != nil {
				return "", err
			}
			h, err := m.bridge.NewBuffer(n)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("handle %d", h), nil
		}},
		{"read", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			b, err := m.bridge.Bytes(h)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%q (% x)", b, b), nil
		}},
		{"cat", []string{"handle", "content"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			if err := m.bridge.Cat(h, []byte(a[1])); err != nil {
				return "", err
			}
			n, _ := m.bridge.Len(h)
			return fmt.Sprintf("length %d", n), nil
		}},
		{"resize", []string{"handle", "length"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			n, err := parseInt(a[1])
			if err != nil {
				return "", err
			}
			if err := m.bridge.Resize(h, n); err != nil {
				return "", err
			}
			return fmt.Sprintf("length %d", n), nil
		}},
		{"expand", []string{"handle", "extra"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			n, err := parseInt(a[1])
			if err != nil {
				return "", err
			}
			if err := m.bridge.Expand(h, n); err != nil {
				return "", err
			}
			c, _ := m.bridge.Capacity(h)
			return fmt.Sprintf("capacity %d", c), nil
		}},
		{"drop-bytes", []string{"handle", "count"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			n, err := parseInt(a[1])
			if err != nil {
				return "", err
			}
			if err := m.bridge.DropBytes(h, n); err != nil {
				return "", err
			}
			b, _ := m.bridge.Bytes(h)
			return fmt.Sprintf("%q", b), nil
		}},
		{"subseq", []string{"handle", "start", "length"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			start, err := parseInt(a[1])
			if err != nil {
				return "", err
			}
			length, err := parseInt(a[2])
			if err != nil {
				return "", err
			}
			sub, err := m.bridge.SubseqBytes(h, start, length)
			if err != nil {
				return "", err
			}
			b, _ := m.bridge.Bytes(sub)
			return fmt.Sprintf("handle %d: %q", sub, b), nil
		}},
		{"dup", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			d, err := m.bridge.Duplicate(h)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("handle %d", d), nil
		}},
		{"intern", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			c, err := m.bridge.Intern(h)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("handle %d", c), nil
		}},
		{"freeze", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			f, err := m.bridge.NewFrozen(h)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("handle %d", f), nil
		}},
		{"convert", []string{"handle", "encoding"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			enc, err := encoding.Lookup(strings.TrimSpace(a[1]))
			if err != nil {
				return "", err
			}
			out, err := m.bridge.Convert(h, nil, enc, encoding.PolicyFail)
			if err != nil {
				return "", err
			}
			b, _ := m.bridge.Bytes(out)
			return fmt.Sprintf("handle %d: % x", out, b), nil
		}},
		{"compare", []string{"handle a", "handle b"}, func(m *interactiveModel, a []string) (string, error) {
			x, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			y, err := parseHandle(a[1])
			if err != nil {
				return "", err
			}
			c, err := m.bridge.Compare(x, y)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(c), nil
		}},
		{"hash", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			v, err := m.bridge.Hash(h)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%016x", v), nil
		}},
		{"release", []string{"handle"}, func(m *interactiveModel, a []string) (string, error) {
			h, err := parseHandle(a[0])
			if err != nil {
				return "", err
			}
			if !m.bridge.Release(h) {
				return "", fmt.Errorf("no string for handle %d", h)
			}
			return "released", nil
		}},
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				m.bridge.Close()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOp

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Placeholder = p
		ti.Prompt = p + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callOp() tea.Msg {
	op := m.ops[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	result, err := op.run(m, args)
	return callResultMsg{result: result, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("String Bridge"))
	b.WriteString(fmt.Sprintf("  default encoding %s\n\n", m.enc.Name()))

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			line := opStyle.Render(op.name) + "(" + argStyle.Render(strings.Join(op.params, ", ")) + ")"
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + op.name))
				b.WriteString("(" + argStyle.Render(strings.Join(op.params, ", ")) + ")")
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", opStyle.Render(op.name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.handlePane())
	return b.String()
}

// handlePane renders the live handle table under the main view.
func (m *interactiveModel) handlePane() string {
	var b strings.Builder
	b.WriteString(paneStyle.Render(fmt.Sprintf("Live strings: %d", m.bridge.Count())))
	b.WriteString("\n")

	m.bridge.Each(func(h strbridge.Handle, s *str.String) bool {
		flags := ""
		if s.Frozen() {
			flags += " frozen"
		}
		if s.Tainted() {
			flags += " tainted"
		}
		b.WriteString(paneStyle.Render(fmt.Sprintf(
			"  #%d  len=%d cap=%d %s %s%s",
			h, s.Len(), s.Capacity(), s.Encoding().Name(), s.Coderange(), flags)))
		b.WriteString("\n")
		return true
	})
	return b.String()
}

func runInteractive(enc *encoding.Encoding) error {
	p := tea.NewProgram(newInteractiveModel(enc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
