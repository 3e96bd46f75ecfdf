package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"brief-cli/internal/api"
	"brief-cli/internal/config"
	"brief-cli/internal/display"
	"brief-cli/internal/export"
	"brief-cli/internal/session"
	"brief-cli/internal/store"
)

const historyLimit = 15

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	return m.cmdSend(input)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/login":
		return m.cmdLogin(args)
	case "/config":
		return m.cmdConfig()
	case "/export":
		return m.cmdExport()
	case "/history":
		return m.cmdHistory()
	case "/resume":
		return m.cmdResume(args)
	case "/new":
		return m.cmdNew()
	case "/pick":
		return m.cmdPick(args)
	case "/clear":
		return m, tea.ClearScreen
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Unknown command: %s (type /help)", cmd)))
	}
}

// ─── /help ──────────────────────────────────────────────────────────────────

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	row := func(key, desc string) tea.Cmd {
		return tea.Println("  " + hintKeyStyle.Render(fmt.Sprintf("%-22s", key)) + dimStyle.Render(desc))
	}

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Commands:")),
		tea.Println(""),
		row("/login <url>", "Login to a brief server"),
		row("/new", "Start a new brief"),
		row("/pick <n>", "Use suggestion n (or alt+n)"),
		row("/export", "Save the latest brief as PDF"),
		row("/history", "List saved conversations"),
		row("/resume <id>", "Continue a saved conversation"),
		row("/config", "Show current configuration"),
		row("/clear", "Clear the screen"),
		row("/quit", "Exit"),
		tea.Println(""),
		tea.Println(dimStyle.Render("  Or just describe your campaign to start a brief.")),
		tea.Println(""),
	)
}

// ─── Chat ───────────────────────────────────────────────────────────────────

type replyMsg struct {
	text string
	err  error
}

func (m model) cmdSend(text string) (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Type /login to get started."))
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mode = modeWaiting
	m.chips = nil

	m.conv.AppendUser(ctx, text, nil)
	client := m.client
	convID := m.conv.ID()

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(renderUserLine(text)),
		func() tea.Msg {
			reply, err := client.SendMessage(ctx, convID, text)
			if err != nil {
				return replyMsg{err: err}
			}
			return replyMsg{text: reply.Text}
		},
	)
}

func (m model) cancelRequest() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mode = modeIdle
	return m, tea.Println(warnMsgStyle.Render("  ! Cancelled."))
}

func (m model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	// A reply for a request the user already cancelled.
	if m.mode != modeWaiting {
		return m, nil
	}
	m.mode = modeIdle
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		m.logger.Warn("chat request failed", zap.Error(msg.err))
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, tea.Println(errorMsgStyle.Render("  ✗ Session expired. Run /login again."))
		}
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}

	a := m.conv.AppendAssistant(context.Background(), msg.text)
	m.refreshChips()

	cmds := []tea.Cmd{
		tea.Println(""),
		tea.Println(renderReply(a.Extraction.CleanContent, m.width)),
	}
	if a.Document.Present {
		cmds = append(cmds, tea.Println(renderBriefNotice(session.Title(a.DocumentText()))))
	}
	return m, tea.Sequence(cmds...)
}

// ─── Suggestions ────────────────────────────────────────────────────────────

func (m model) cmdPick(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /pick <n>"))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Not a number: %s", args[0])))
	}
	return m.pickChip(n)
}

// pickChip clicks the n-th offered suggestion (1-based).
func (m model) pickChip(n int) (tea.Model, tea.Cmd) {
	if n < 1 || n > len(m.chips) {
		return m, tea.Println(warnMsgStyle.Render(fmt.Sprintf("  ! No suggestion %d.", n)))
	}
	s := m.chips[n-1]
	res := m.conv.Click(s)
	m.refreshChips()

	switch res.Outcome {
	case session.OutcomeMerge:
		cur := strings.TrimSpace(m.input.Value())
		if cur == "" {
			m.input.SetValue(res.Text)
		} else {
			m.input.SetValue(cur + " " + res.Text)
		}
		m.input.CursorEnd()
		return m, nil
	case session.OutcomeSend:
		return m.cmdSend(res.Text)
	case session.OutcomeExport:
		return m.cmdExport()
	case session.OutcomeStartOver:
		return m.cmdNew()
	}
	return m, nil
}

// ─── /export ────────────────────────────────────────────────────────────────

type exportResultMsg struct {
	path string
	err  error
}

func (m model) cmdExport() (tea.Model, tea.Cmd) {
	if m.exporter == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Export is not configured."))
	}
	conv := m.conv
	exp := m.exporter
	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Exporting brief...")),
		func() tea.Msg {
			path, err := conv.ExportBrief(exp)
			return exportResultMsg{path: path, err: err}
		},
	)
}

func (m model) handleExportResult(msg exportResultMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, export.ErrNoDocument) {
		return m, tea.Println(warnMsgStyle.Render("  ! No brief in this conversation yet."))
	}
	if msg.err != nil {
		m.logger.Error("export failed", zap.Error(msg.err))
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Export failed: %v", msg.err)))
	}
	return m, tea.Println(successMsgStyle.Render("  ✓ Saved " + msg.path))
}

// ─── /new ───────────────────────────────────────────────────────────────────

func (m model) cmdNew() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.conv.Reset()
	m.refreshChips()
	m.mode = modeIdle
	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(successMsgStyle.Render("  ✓ New brief started")),
		tea.Println(dimStyle.Render("    "+m.conv.ID())),
	)
}

// ─── /history ───────────────────────────────────────────────────────────────

type historyLoadedMsg struct {
	items []store.Summary
	err   error
}

func (m model) cmdHistory() (tea.Model, tea.Cmd) {
	if m.saved == nil {
		return m, tea.Println(warnMsgStyle.Render("  ! Conversation history is not available."))
	}
	saved := m.saved
	return m, func() tea.Msg {
		items, err := saved.List(context.Background(), historyLimit)
		return historyLoadedMsg{items: items, err: err}
	}
}

func (m model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load history: %v", msg.err)))
	}
	if len(msg.items) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! No saved conversations."))
	}

	cmds := []tea.Cmd{
		tea.Println(""),
		tea.Println(dimStyle.Render(fmt.Sprintf("  Conversations (%d):", len(msg.items)))),
		tea.Println(""),
	}
	current := m.conv.ID()
	for _, s := range msg.items {
		marker := " "
		if s.ID == current {
			marker = "⏺"
		}
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		cmds = append(cmds,
			tea.Println(fmt.Sprintf("  %s %s", marker, title)),
			tea.Println(dimStyle.Render(fmt.Sprintf("    %s  %d messages  %s", s.ID, s.Messages, display.FormatTime(s.UpdatedAt)))),
		)
	}
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  Tip: /resume <id> to continue")),
		tea.Println(""),
	)
	return m, tea.Sequence(cmds...)
}

// ─── /resume ────────────────────────────────────────────────────────────────

type resumeResultMsg struct {
	id  string
	err error
}

func (m model) cmdResume(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /resume <conversation-id>"))
	}
	id := args[0]
	conv := m.conv
	return m, func() tea.Msg {
		return resumeResultMsg{id: id, err: conv.Resume(context.Background(), id)}
	}
}

func (m model) handleResumeResult(msg resumeResultMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, store.ErrNotFound) {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No conversation " + msg.id))
	}
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Resume failed: %v", msg.err)))
	}
	m.refreshChips()

	cmds := []tea.Cmd{
		tea.Println(""),
		tea.Println(successMsgStyle.Render("  ✓ Resumed " + truncateUUID(msg.id))),
	}
	if _, a, ok := m.conv.Latest(); ok {
		cmds = append(cmds, tea.Println(""), tea.Println(renderReply(a.Extraction.CleanContent, m.width)))
		if a.Document.Present {
			cmds = append(cmds, tea.Println(renderBriefNotice(session.Title(a.DocumentText()))))
		}
	}
	return m, tea.Sequence(cmds...)
}

// ─── /login ─────────────────────────────────────────────────────────────────

func (m model) cmdLogin(args []string) (tea.Model, tea.Cmd) {
	if len(args) > 0 {
		m.loginURL = args[0]
		m.mode = modeLoginUser
		m.input.Placeholder = "Username / Email..."
		m.input.SetValue("")
		return m, tea.Println(dimStyle.Render(fmt.Sprintf("  Logging in to %s", m.loginURL)))
	}

	m.mode = modeLoginURL
	m.input.Placeholder = "Server URL (e.g. https://briefs.example.com)..."
	m.input.SetValue("")
	return m, tea.Println(dimStyle.Render("  Enter the server URL:"))
}

func (m model) handleLoginURLSubmit(value string) (tea.Model, tea.Cmd) {
	m.loginURL = value
	m.mode = modeLoginUser
	m.input.Placeholder = "Username / Email..."
	m.input.SetValue("")
	return m, tea.Sequence(
		tea.Println(dimStyle.Render(fmt.Sprintf("  Server: %s", value))),
		tea.Println(dimStyle.Render("  Enter your username/email:")),
	)
}

func (m model) handleLoginUserSubmit(value string) (tea.Model, tea.Cmd) {
	m.loginUser = value
	m.mode = modeLoginPass
	m.input.Placeholder = "Password..."
	m.input.SetValue("")
	m.input.EchoCharacter = '•'
	m.input.EchoMode = textinput.EchoPassword
	return m, tea.Sequence(
		tea.Println(dimStyle.Render(fmt.Sprintf("  User: %s", value))),
		tea.Println(dimStyle.Render("  Enter your password:")),
	)
}

type loginResultMsg struct {
	cfg *config.Config
	err error
}

func (m model) handleLoginPassSubmit(password string) (tea.Model, tea.Cmd) {
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue("")
	m.input.Placeholder = "Authenticating..."

	serverURL := strings.TrimRight(m.loginURL, "/")
	username := m.loginUser
	profile := m.profile

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Authenticating...")),
		func() tea.Msg {
			client := api.NewClientWithServer(serverURL)
			resp, err := client.Login(context.Background(), username, password)
			if err != nil {
				return loginResultMsg{err: fmt.Errorf("authentication failed: %w", err)}
			}

			cfg, err := config.Load(profile)
			if err != nil {
				return loginResultMsg{err: err}
			}
			cfg.Server = serverURL
			cfg.Username = username
			cfg.Token = resp.AccessToken
			if err := cfg.Save(); err != nil {
				return loginResultMsg{err: err}
			}
			return loginResultMsg{cfg: cfg}
		},
	)
}

func (m model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.mode = modeIdle
	m.input.Placeholder = defaultPlaceholder
	m.loginURL = ""
	m.loginUser = ""

	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}

	m.cfg = msg.cfg
	m.client = api.NewClient(m.cfg)
	m.logger.Info("logged in", zap.String("server", m.cfg.Server), zap.String("user", m.cfg.Username))

	return m, tea.Sequence(
		tea.Println(successMsgStyle.Render("  ✓ Logged in successfully!")),
		tea.Println(dimStyle.Render(fmt.Sprintf("    Server: %s", m.cfg.Server))),
		tea.Println(dimStyle.Render(fmt.Sprintf("    User: %s", m.cfg.Username))),
		tea.Println(""),
	)
}

// ─── /config ────────────────────────────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	if m.cfg == nil {
		return m, tea.Println(warnMsgStyle.Render("  ! No configuration found. Run /login first."))
	}

	val := func(s string) string {
		if s == "" {
			return dimStyle.Render("(not set)")
		}
		return s
	}
	token := dimStyle.Render("(not set)")
	if m.cfg.Token != "" {
		token = m.cfg.Token[:min(12, len(m.cfg.Token))] + "..."
	}
	exportDir, _ := m.cfg.ExportDirOrDefault()

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Configuration:")),
		tea.Println(fmt.Sprintf("    Profile:      %s", config.ProfileName(m.profile))),
		tea.Println(fmt.Sprintf("    Server:       %s", val(m.cfg.Server))),
		tea.Println(fmt.Sprintf("    User:         %s", val(m.cfg.Username))),
		tea.Println(fmt.Sprintf("    Locale:       %s", m.cfg.LocaleOrDefault())),
		tea.Println(fmt.Sprintf("    Exports:      %s", val(exportDir))),
		tea.Println(fmt.Sprintf("    Vocabulary:   %s", val(m.cfg.VocabularyPath))),
		tea.Println(fmt.Sprintf("    Token:        %s", token)),
		tea.Println(""),
	)
}
