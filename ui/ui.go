// Package ui provides the terminal interface of Voice Studio: a text area
// whose contents are spoken on enter, with a status indicator, character
// counter and inline error area.
package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	"github.com/dgnsrekt/voice-studio/tts"
)

const placeholder = "Enter your text here... Press Enter to generate speech instantly!"

// NewProgram returns a new Tea program driving ctrl.
func NewProgram(cfg Config, ctrl *tts.Controller) *tea.Program {
	log.Debug(
		"Starting voicestudio",
		"service", cfg.ServiceURL,
		"maxChars", cfg.MaxChars,
		"mouse", cfg.EnableMouse,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, ctrl), opts...)
}

type model struct {
	cfg  Config
	ctrl *tts.Controller

	// ctx is cancelled when the program quits, aborting any request.
	ctx    context.Context
	cancel context.CancelFunc

	// generate builds the command for a submit; replaced in tests.
	generate func(ctx context.Context, text string) tea.Cmd

	snapshot tts.Snapshot
	width    int
	height   int

	textarea textarea.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
}

func newModel(cfg Config, ctrl *tts.Controller) model {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = ttypes.MaxTextLength
	}

	keys := newKeyMap()

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = cfg.MaxChars
	ta.ShowLineNumbers = false
	ta.KeyMap = textareaKeyMap(keys)
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinnerFor(cfg.Spinner)))
	sp.Style = lipgloss.NewStyle().Foreground(blue)

	ctx, cancel := context.WithCancel(context.Background())

	m := model{
		cfg:      cfg,
		ctrl:     ctrl,
		ctx:      ctx,
		cancel:   cancel,
		snapshot: ctrl.Snapshot(),
		textarea: ta,
		spinner:  sp,
		help:     help.New(),
		keys:     keys,
	}
	m.generate = func(ctx context.Context, text string) tea.Cmd {
		return tts.GenerateCmd(ctx, m.ctrl, text)
	}
	m.keys.update(m.snapshot, false)
	return m
}

func spinnerFor(name string) spinner.Spinner {
	switch strings.ToLower(name) {
	case "line":
		return spinner.Line
	case "minidot":
		return spinner.MiniDot
	case "pulse":
		return spinner.Pulse
	case "points":
		return spinner.Points
	default:
		return spinner.Dot
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tts.WaitForChangeCmd(m.ctrl))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.setSize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Stop):
			if m.snapshot.CanStop() {
				return m, tts.StopCmd(m.ctrl)
			}
			return m, nil

		case m.snapshot.IsBusy():
			// The text area is disabled while a request is in flight
			return m, nil

		case msg.Type == tea.KeyEnter && !msg.Alt:
			return m, m.submit()

		case key.Matches(msg, m.keys.Clear):
			m.textarea.Reset()
			m.keys.update(m.snapshot, false)
			return m, nil
		}

	case tts.StatusChangedMsg:
		prev := m.snapshot
		m.snapshot = msg.Snapshot
		m.keys.update(m.snapshot, m.hasText())
		if m.cfg.ShowGeneration {
			log.Debug("Status update", "status", m.snapshot.Status, "generation", m.snapshot.Generation)
		}
		if m.snapshot.IsBusy() {
			m.textarea.Blur()
			if !prev.IsBusy() {
				cmds = append(cmds, m.spinner.Tick)
			}
		} else {
			cmds = append(cmds, m.textarea.Focus())
		}
		cmds = append(cmds, tts.WaitForChangeCmd(m.ctrl))
		return m, tea.Batch(cmds...)

	case tts.GenerateDoneMsg:
		if msg.Err != nil && !msg.Superseded() {
			log.Debug("Generate finished with error", "generation", msg.Generation, "error", msg.Err)
		}
		return m, nil

	case tts.StoppedMsg, tts.ControllerClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.IsBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.keys.update(m.snapshot, m.hasText())
	return m, cmd
}

// submit issues a request for the current text. Blank text is ignored.
func (m model) submit() tea.Cmd {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	log.Debug("Submitting text", "chars", utf8.RuneCountInString(text))
	return m.generate(m.ctx, text)
}

func (m model) hasText() bool {
	return strings.TrimSpace(m.textarea.Value()) != ""
}

func (m *model) setSize() {
	w := m.width - appStyle.GetHorizontalFrameSize() - textareaFocusedBorder.GetHorizontalFrameSize()
	m.textarea.SetWidth(max(20, min(w, 100)))

	// Leave room for the header, counter, button, error area and help
	h := m.height - appStyle.GetVerticalFrameSize() - 16
	m.textarea.SetHeight(max(3, min(h, 12)))

	m.help.Width = m.width
}

func (m model) View() string {
	var b strings.Builder
	contentWidth := m.textarea.Width() + textareaFocusedBorder.GetHorizontalFrameSize()

	// Header
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("🔊 Voice Studio"),
		"  ",
		statusView(m.snapshot),
	)
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, subtitleStyle.Render("Transform your text into natural speech instantly"))
	fmt.Fprintln(&b)

	// Input
	border := textareaFocusedBorder
	if m.snapshot.IsBusy() {
		border = textareaBlurredBorder
	}
	fmt.Fprintln(&b, border.Render(m.textarea.View()))
	fmt.Fprintln(&b, lipgloss.PlaceHorizontal(contentWidth, lipgloss.Right,
		counterView(utf8.RuneCountInString(m.textarea.Value()), m.cfg.MaxChars)))

	// Error area
	if e := errorView(m.snapshot, contentWidth); e != "" {
		fmt.Fprintln(&b, e)
	}

	// Primary action
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, buttonView(m.snapshot, m.hasText(), m.spinner.View()))
	fmt.Fprintln(&b)

	// Help and footer
	fmt.Fprintln(&b, m.help.View(m.keys))
	footer := footerView(m.cfg.ServiceURL, m.cfg.Voice, contentWidth)
	if m.cfg.ShowGeneration {
		footer += footerStyle.Render(fmt.Sprintf(" · request #%d", m.snapshot.Generation))
	}
	fmt.Fprint(&b, footer)

	return appStyle.Render(b.String())
}
