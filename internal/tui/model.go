package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"brief-cli/internal/api"
	"brief-cli/internal/config"
	"brief-cli/internal/session"
	"brief-cli/internal/store"
	"brief-cli/internal/suggest"
)

// ─── App mode ───────────────────────────────────────────────────────────────

type appMode int

const (
	modeIdle appMode = iota
	modeWaiting
	modeLoginURL
	modeLoginUser
	modeLoginPass
)

const defaultPlaceholder = "Describe your campaign or type /help..."

// ─── Slash command registry ─────────────────────────────────────────────────

type slashCmd struct {
	name string
	desc string
}

var slashCommands = []slashCmd{
	{"/clear", "Clear the screen"},
	{"/config", "Show current configuration"},
	{"/export", "Save the latest brief as PDF"},
	{"/help", "Show all commands"},
	{"/history", "List saved conversations"},
	{"/login", "Login to a brief server"},
	{"/new", "Start a new brief"},
	{"/pick", "Use suggestion N"},
	{"/quit", "Exit"},
	{"/resume", "Continue a saved conversation"},
}

// ─── Model ──────────────────────────────────────────────────────────────────

// History lists saved conversations. *store.Store satisfies it.
type History interface {
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Config   *config.Config
	Client   api.ChatAPI
	Conv     *session.Conversation
	History  History
	Exporter session.Exporter
	Logger   *zap.Logger
}

type model struct {
	width  int
	height int

	// Bubble Tea components
	input   textinput.Model
	spinner spinner.Model

	// App state
	mode     appMode
	cfg      *config.Config
	client   api.ChatAPI
	conv     *session.Conversation
	saved    History
	exporter session.Exporter
	logger   *zap.Logger
	version  string
	profile  string

	// Suggestions currently offered, in chip order
	chips []suggest.Suggestion

	// In-flight request
	cancel context.CancelFunc

	// Login flow state
	loginURL  string
	loginUser string

	// UI state
	ready        bool
	cmdMenuIdx   int    // selected index in command menu
	cmdMenuOpen  bool   // whether the command menu is visible
	lastInputVal string // track input changes to reset menu index

	// Command history
	history      []string // stored command history
	historyIdx   int      // current position in history (-1 = not browsing)
	historySaved string   // saved input value when entering history mode
}

func initialModel(version, profile string, deps Deps) model {
	ti := textinput.New()
	ti.Placeholder = defaultPlaceholder
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = "❯ "
	ti.PromptStyle = promptSymbol
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colorOrange)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorOrange)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := model{
		input:      ti,
		spinner:    sp,
		version:    version,
		profile:    profile,
		cfg:        deps.Config,
		client:     deps.Client,
		conv:       deps.Conv,
		saved:      deps.History,
		exporter:   deps.Exporter,
		logger:     logger,
		mode:       modeIdle,
		history:    make([]string, 0),
		historyIdx: -1,
	}
	m.refreshChips()
	return m
}

// ─── Init ───────────────────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6

		if !m.ready {
			m.ready = true
			welcome := renderWelcome(m.version, serverStr(m.cfg), localeStr(m.cfg), m.width)
			cmds = append(cmds, tea.Println(welcome))
			if n := len(m.conv.Messages()); n > 0 {
				cmds = append(cmds, tea.Println(dimStyle.Render(
					"  Resumed conversation "+truncateUUID(m.conv.ID())+" · /history to switch")))
			}
		}

	case tea.KeyMsg:
		if m.mode == modeIdle && msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			return m.pickChip(int(msg.Runes[0] - '0'))
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			if m.mode == modeWaiting {
				return m.cancelRequest()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.mode == modeWaiting {
				return m.cancelRequest()
			}
			if m.mode == modeLoginURL || m.mode == modeLoginUser || m.mode == modeLoginPass {
				m.mode = modeIdle
				m.input.Placeholder = defaultPlaceholder
				m.input.SetValue("")
				m.input.EchoMode = textinput.EchoNormal
				return m, tea.Println(warnMsgStyle.Render("  ! Login cancelled."))
			}
			if m.cmdMenuOpen {
				m.cmdMenuOpen = false
				m.cmdMenuIdx = 0
				return m, nil
			}

		case tea.KeyUp:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx--
						if m.cmdMenuIdx < 0 {
							m.cmdMenuIdx = len(matches) - 1
						}
						return m, nil
					}
				} else if len(m.history) > 0 {
					if m.historyIdx == -1 {
						m.historySaved = m.input.Value()
						m.historyIdx = len(m.history) - 1
					} else if m.historyIdx > 0 {
						m.historyIdx--
					}
					m.input.SetValue(m.history[m.historyIdx])
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyDown:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx++
						if m.cmdMenuIdx >= len(matches) {
							m.cmdMenuIdx = 0
						}
						return m, nil
					}
				} else if m.historyIdx != -1 {
					m.historyIdx++
					if m.historyIdx >= len(m.history) {
						m.historyIdx = -1
						m.input.SetValue(m.historySaved)
						m.historySaved = ""
					} else {
						m.input.SetValue(m.history[m.historyIdx])
					}
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyTab:
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if len(matches) > 0 {
					idx := m.cmdMenuIdx
					if idx < 0 || idx >= len(matches) {
						idx = 0
					}
					m.input.SetValue(matches[idx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
				}
				return m, nil
			}

		case tea.KeyEnter:
			if m.mode == modeWaiting {
				return m, nil
			}
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if m.cmdMenuIdx >= 0 && m.cmdMenuIdx < len(matches) && matches[m.cmdMenuIdx].name != strings.Fields(m.input.Value()+" ")[0] {
					m.input.SetValue(matches[m.cmdMenuIdx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
					return m, nil
				}
			}

			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}

			if m.mode != modeLoginPass && (len(m.history) == 0 || m.history[len(m.history)-1] != value) {
				m.history = append(m.history, value)
				if len(m.history) > 1000 {
					m.history = m.history[len(m.history)-1000:]
				}
			}
			m.historyIdx = -1
			m.historySaved = ""

			m.input.SetValue("")
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0

			switch m.mode {
			case modeLoginURL:
				return m.handleLoginURLSubmit(value)
			case modeLoginUser:
				return m.handleLoginUserSubmit(value)
			case modeLoginPass:
				return m.handleLoginPassSubmit(value)
			default:
				return m.dispatchInput(value)
			}
		}

	// ── Async results ─────────────────────────────────────────────────
	case replyMsg:
		return m.handleReply(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case exportResultMsg:
		return m.handleExportResult(msg)

	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case resumeResultMsg:
		return m.handleResumeResult(msg)
	}

	// Update sub-components
	var cmd tea.Cmd

	if m.mode != modeWaiting {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	// Track input changes to open/close command menu and reset selection
	newVal := m.input.Value()
	if newVal != m.lastInputVal {
		m.lastInputVal = newVal
		if m.historyIdx != -1 && m.historyIdx < len(m.history) && m.history[m.historyIdx] != newVal {
			m.historyIdx = -1
			m.historySaved = ""
		}
		m.cmdMenuOpen = strings.HasPrefix(newVal, "/") && !strings.Contains(newVal, " ")
		m.cmdMenuIdx = 0
	}

	return m, tea.Batch(cmds...)
}

// ─── View ───────────────────────────────────────────────────────────────────
//
// Inline mode: View() only shows suggestion chips, the input prompt and
// hints. Conversation output is printed above via tea.Println.

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var s strings.Builder

	if m.mode == modeIdle && len(m.chips) > 0 {
		s.WriteString(renderChips(m.chips, m.width))
		s.WriteString("\n")
	}

	if m.mode == modeWaiting {
		s.WriteString(m.spinner.View() + " " + statusStyle.Render("Thinking..."))
	} else {
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	sepWidth := min(m.width, 80)
	if sepWidth < 20 {
		sepWidth = 20
	}
	s.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	s.WriteString("\n")

	s.WriteString(m.renderHints())

	return s.String()
}

// ─── Hint bar ───────────────────────────────────────────────────────────────

func (m model) renderHints() string {
	if m.mode == modeWaiting {
		return hintBarStyle.Render("  Esc cancel")
	}

	if m.mode == modeLoginURL || m.mode == modeLoginUser || m.mode == modeLoginPass {
		return hintBarStyle.Render("  Enter submit   Esc cancel")
	}

	if m.cmdMenuOpen {
		if matches := matchCommands(m.input.Value()); len(matches) > 0 {
			return m.renderCommandMenu(matches)
		}
	}

	if len(m.chips) > 0 {
		return hintBarStyle.Render("  ") + hintKeyStyle.Render("alt+1..9") + hintBarStyle.Render(" use suggestion   ? for help")
	}
	return hintBarStyle.Render("  ? for help")
}

// renderCommandMenu renders a vertical list of matching commands.
func (m model) renderCommandMenu(matches []slashCmd) string {
	maxLen := 0
	for _, c := range matches {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}

	var lines []string
	for i, c := range matches {
		padded := c.name + strings.Repeat(" ", maxLen-len(c.name))
		var line string
		if i == m.cmdMenuIdx {
			line = "  " + cmdSelectedNameStyle.Render(padded) + "  " + cmdSelectedDescStyle.Render(c.desc)
		} else {
			line = "  " + cmdNameStyle.Render(padded) + "  " + cmdDescStyle.Render(c.desc)
		}
		lines = append(lines, line)
	}

	lines = append(lines, hintBarStyle.Render("  ↑↓ navigate  Tab/Enter select"))
	return strings.Join(lines, "\n")
}

// matchCommands returns all slash commands matching a prefix.
func matchCommands(prefix string) []slashCmd {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "/" {
		return slashCommands
	}
	var matches []slashCmd
	for _, c := range slashCommands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// refreshChips recomputes the offered suggestions from the conversation.
func (m *model) refreshChips() {
	if m.conv == nil {
		m.chips = nil
		return
	}
	m.chips = m.conv.VisibleSuggestions()
	if len(m.chips) > 9 {
		m.chips = m.chips[:9]
	}
}

func serverStr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Server
}

func localeStr(cfg *config.Config) string {
	if cfg == nil {
		return "en"
	}
	return cfg.LocaleOrDefault()
}

func truncateUUID(s string) string {
	if len(s) > 20 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	return s
}
