// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/value"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	systemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	breakStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
)

// frameMsg wraps one inbound peer.Frame for tea.Program's message loop.
type frameMsg peer.Frame

// connErrMsg reports that the background reader's connection died.
type connErrMsg struct{ err error }

// model is the scenedebug-console bubbletea model: a scrollback
// viewport of formatted frames plus a command input line.
type model struct {
	p peer.Peer

	lines    []string
	viewport viewport.Model
	input    textinput.Model

	breaking      bool
	breakThreadID int

	width, height int
}

func newModel(p peer.Peer) model {
	ti := textinput.New()
	ti.Placeholder = `type a command, e.g. "automation:get_current_scene" or "continue"`
	ti.Focus()
	ti.CharLimit = 512
	ti.PromptStyle = promptStyle

	return model{
		p:        p,
		viewport: viewport.New(80, 20),
		input:    ti,
	}
}

func (m model) Init() tea.Cmd {
	return waitForFrame(m.p)
}

// waitForFrame blocks (via a background-friendly poll loop) until the
// peer has a frame, then delivers it as a tea.Msg. peer.Peer's
// Poll/HasMessage/GetMessage contract is non-blocking, so the
// console polls it the same way a host's idle loop would.
func waitForFrame(p peer.Peer) tea.Cmd {
	return func() tea.Msg {
		for {
			if err := p.Poll(); err != nil {
				return connErrMsg{err}
			}
			if p.HasMessage() {
				frame, err := p.GetMessage()
				if err != nil {
					return connErrMsg{err}
				}
				return frameMsg(frame)
			}
			if !p.IsConnected() {
				return connErrMsg{fmt.Errorf("peer disconnected")}
			}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.input.Width = msg.Width - 2
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, nil

	case frameMsg:
		m.appendFrame(peer.Frame(msg))
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
		return m, waitForFrame(m.p)

	case connErrMsg:
		m.appendLine(errorStyle.Render("connection lost: " + msg.err.Error()))
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line != "" {
				m.sendCommand(line)
			}
			return m, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := systemStyle.Render("connected")
	if m.breaking {
		status = breakStyle.Render(fmt.Sprintf("BREAK (thread %d)", m.breakThreadID))
	}
	return fmt.Sprintf("%s  %s\n%s\n%s",
		headerStyle.Render("scenedebug-console"), status,
		m.viewport.View(), m.input.View())
}

// appendFrame formats one inbound frame for the scrollback. output
// and error frames get plain formatting; debug_enter/debug_exit toggle
// the break indicator; everything else is rendered as a verb + a
// Go-syntax-highlighted rendering of its payload.
func (m *model) appendFrame(f peer.Frame) {
	switch f.Verb {
	case "debug_enter":
		m.breaking = true
		m.breakThreadID = f.ThreadID
		m.appendLine(breakStyle.Render(fmt.Sprintf("-- break entered on thread %d --", f.ThreadID)))
	case "debug_exit":
		m.breaking = false
		m.appendLine(breakStyle.Render(fmt.Sprintf("-- break exited on thread %d --", f.ThreadID)))
	case "output":
		m.appendOutputFrame(f)
	case "error":
		m.appendLine(errorStyle.Render(formatErrorFrame(f)))
	default:
		m.appendLine(fmt.Sprintf("[%s t%d] %s", f.Verb, f.ThreadID, highlightValue(f.Payload)))
	}
}

func (m *model) appendOutputFrame(f peer.Frame) {
	if len(f.Payload) != 2 {
		m.appendLine(fmt.Sprintf("[output t%d] %s", f.ThreadID, highlightValue(f.Payload)))
		return
	}
	strs, ok1 := value.ArrayOf(f.Payload[0])
	_, ok2 := value.ArrayOf(f.Payload[1])
	if !ok1 || !ok2 {
		return
	}
	for i := range strs {
		text, _ := value.String(strs[i])
		m.appendLine(text)
	}
}

func formatErrorFrame(f peer.Frame) string {
	if len(f.Payload) < 6 {
		return fmt.Sprintf("[error t%d] %s", f.ThreadID, highlightValue(f.Payload))
	}
	message, _ := value.String(f.Payload[3])
	funcName, _ := value.String(f.Payload[0])
	return fmt.Sprintf("%s (in %s)", message, funcName)
}

func (m *model) appendLine(s string) {
	m.lines = append(m.lines, s)
}

// sendCommand parses a typed console line into a peer.Frame and sends
// it. The syntax is "verb arg1 arg2 ...", where each arg is sniffed as
// bool/int/float/string in that order; this is a console convenience,
// not a protocol requirement — any scenedebug.proto client can send
// whatever Array it wants.
func (m *model) sendCommand(line string) {
	fields := strings.Fields(line)
	verb := fields[0]
	args := fields[1:]

	payload := make(value.Array, 0, len(args))
	for _, a := range args {
		payload = append(payload, sniffArg(a))
	}

	threadID := 0
	if m.breaking {
		threadID = m.breakThreadID
	}
	if err := m.p.PutMessage(peer.Frame{Verb: verb, ThreadID: threadID, Payload: payload}); err != nil {
		m.appendLine(errorStyle.Render("send failed: " + err.Error()))
	} else {
		m.appendLine(systemStyle.Render("> " + line))
	}
}

func sniffArg(s string) value.Value {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// highlightValue renders v as a Go-expression-shaped string, syntax
// highlighted with chroma for the terminal. Falls back to the plain
// rendering if highlighting fails (e.g. an unsupported terminal
// color profile).
func highlightValue(v value.Value) string {
	src := goRepr(v)
	var buf strings.Builder
	if err := quick.Highlight(&buf, src, "go", "terminal256", "monokai"); err != nil {
		return src
	}
	return strings.TrimRight(buf.String(), "\n")
}

func goRepr(v value.Value) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case value.Array:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = goRepr(item)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case value.Dict:
		parts := make([]string, 0, len(t))
		for k, item := range t {
			parts = append(parts, strconv.Quote(k)+": "+goRepr(item))
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", t)
	}
}
