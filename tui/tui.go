// Package tui provides a Bubble Tea terminal UI for the game engine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/cli"
	"github.com/nathoo/gacharealm/engine"
	"github.com/nathoo/gacharealm/lore"
	"github.com/nathoo/gacharealm/types"
)

// tickInterval is how often scheduled battle turns are polled.
const tickInterval = 100 * time.Millisecond

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the game.
type Model struct {
	ctx         context.Context
	engine      *engine.Engine
	lore        lore.Generator
	loreTimeout time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	booted   bool
	ticking  bool
	trace    bool
	quitting bool
	lastCmd  string
}

type bootMsg struct{}

// tickMsg polls the engine scheduler.
type tickMsg time.Time

// loreMsg carries generated lore back into the Update loop.
type loreMsg struct {
	name string
	text string
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string
	lines    []string
	isSystem bool
}

// New creates a TUI model wired to the given engine. A nil gen disables
// item lore.
func New(ctx context.Context, eng *engine.Engine, gen lore.Generator, loreTimeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:         ctx,
		engine:      eng,
		lore:        gen,
		loreTimeout: loreTimeout,
		input:       ti,
		history:     NewHistory(100),
	}
}

// Run starts the Bubble Tea program and saves once it exits.
func Run(ctx context.Context, eng *engine.Engine, gen lore.Generator, loreTimeout time.Duration) error {
	m := New(ctx, eng, gen, loreTimeout)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if serr := eng.Save(context.WithoutCancel(ctx)); serr != nil && err == nil {
		err = serr
	}
	return err
}

// Init boots the engine on the first Update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return bootMsg{} })
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case bootMsg:
		if m.booted {
			return m, nil
		}
		m.booted = true
		res := m.engine.Boot(m.ctx)
		m = m.appendOutput(gameOutputMsg{lines: res.Output})
		tick := m.startTicking()
		return m, tick

	case tickMsg:
		m.ticking = false
		res := m.engine.Tick(m.ctx, time.Time(msg))
		if len(res.Output) > 0 || len(res.Events) > 0 {
			m = m.appendOutput(gameOutputMsg{lines: m.withTrace(res)})
		}
		tick := m.startTicking()
		return m, tea.Batch(tick, m.fetchLore(res.Lore))

	case loreMsg:
		m.rawLines = append(m.rawLines, rawLine{text: "  " + msg.text, kind: kindLore}, rawLine{})
		m.refreshViewport()
		return m, nil

	case gameOutputMsg:
		m = m.appendOutput(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// startTicking polls the scheduler while something is pending. Only one
// tick is ever in flight.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.engine.Busy() {
		return nil
	}
	m.ticking = true
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// fetchLore asks the generator off the Update loop.
func (m Model) fetchLore(req *types.LoreRequest) tea.Cmd {
	if req == nil || m.lore == nil {
		return nil
	}
	ctx, gen, timeout, r := m.ctx, m.lore, m.loreTimeout, *req
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return loreMsg{name: r.Name, text: lore.Describe(ctx, gen, r)}
	}
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		tick := m.startTicking()
		return m, tick
	}

	result := m.engine.Step(m.ctx, input)
	m = m.appendOutput(gameOutputMsg{input: input, lines: m.withTrace(result)})
	tick := m.startTicking()
	return m, tea.Batch(tick, m.fetchLore(result.Lore))
}

func (m Model) withTrace(result types.Result) []string {
	if !m.trace {
		return result.Output
	}
	return append(append([]string(nil), result.Output...), cli.TraceLines(result)...)
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation is kept on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	lineLen := len(indent)

	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen += len(word)
		case lineLen+1+len(word) > width:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = len(word)
		default:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return result.String()
}

// View renders the full layout: viewport, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		if err := m.engine.Save(m.ctx); err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err), "Goodbye."}, true
		}
		return []string{"Goodbye."}, true

	case "/save":
		if err := m.engine.Save(m.ctx); err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false
		}
		return []string{"Game saved."}, false

	case "/load":
		if err := m.engine.Load(m.ctx); err != nil {
			return []string{fmt.Sprintf("Load failed: %v", err)}, false
		}
		out := []string{"Game loaded."}
		return append(out, m.engine.Step(m.ctx, "status").Output...), false

	case "/reset":
		if err := m.engine.Reset(m.ctx); err != nil {
			return []string{fmt.Sprintf("Reset failed: %v", err)}, false
		}
		return []string{"Progress erased. A new adventurer arrives."}, false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	out := append([]string(nil), cli.MetaHelp...)
	out = append(out, "Game commands:")
	for _, line := range m.engine.Step(m.ctx, "help").Output {
		out = append(out, "  "+line)
	}
	return append(out, "  again (g)   Repeat your last command",
		"",
		"PgUp/PgDn to scroll, Up/Down for command history")
}

func (m *Model) cmdState() []string {
	p := m.engine.Player
	out := []string{
		fmt.Sprintf("Player: %s, level %d (%d/%d xp), class %q", p.Name, p.Level, p.XP, p.XPToNextLevel, p.Class),
		fmt.Sprintf("HP: %d/%d  Gold: %s  Trophies: %d", p.HP, p.MaxHP, humanize.Comma(int64(p.Gold)), p.Trophies),
		fmt.Sprintf("Inventory: %d stacks  Pets: %d  Quests: %d", len(p.Inventory), len(p.Pets), len(p.ActiveQuests)),
		fmt.Sprintf("Town: level %d (%d xp)  Crafting: %d", p.TownLevel, p.TownXP, p.CraftingLevel),
		fmt.Sprintf("RNG: seed %d position %d", m.engine.RNG.Seed(), m.engine.RNG.Position()),
	}
	if m.engine.Busy() {
		out = append(out, "A battle turn is pending.")
	}
	return out
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (those drive input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
