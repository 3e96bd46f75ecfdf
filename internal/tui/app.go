package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options configures an interactive session.
type Options struct {
	Version string
	Profile string
	Deps
}

// Run launches the interactive TUI mode inline in the terminal. On exit the
// current conversation is remembered so the next launch can resume it.
func Run(opts Options) error {
	m := initialModel(opts.Version, opts.Profile, opts.Deps)

	p := tea.NewProgram(m)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := final.(model)
	if !ok || fm.cfg == nil || len(fm.conv.Messages()) == 0 {
		return nil
	}
	fm.cfg.LastConversation = fm.conv.ID()
	if err := fm.cfg.Save(); err != nil {
		fm.logger.Warn("remembering conversation failed", zap.Error(err))
	}
	return nil
}
