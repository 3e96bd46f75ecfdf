package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"brief-cli/internal/suggest"
)

// ─── Welcome Screen ─────────────────────────────────────────────────────────

func renderWelcome(version, server, locale string, width int) string {
	titleLine := logoTitleStyle.Render("Brief CLI") + " " + versionStyle.Render("v"+version)

	var infoLine string
	if server == "" {
		infoLine = welcomeHintStyle.Render("Type /login <url> to get started")
	} else {
		serverDisplay := server
		if len(serverDisplay) > 40 {
			serverDisplay = serverDisplay[:37] + "..."
		}
		infoLine = welcomeInfoLabel.Render(fmt.Sprintf("%s · %s", serverDisplay, locale))
	}

	return fmt.Sprintf("\n%s\n\n%s\n%s\n", renderLogo(), titleLine, infoLine)
}

const pageASCIIArt = `
   ++++++++++++++..
   +            + ..
   +  ########  +   .
   +            +++++
   +  ========      +
   +  ========      +
   +  ======        +
   +                +
   +  ========      +
   +  ====          +
   ++++++++++++++++++
`

func renderLogo() string {
	lines := trimEmptyEdgeLines(strings.Split(pageASCIIArt, "\n"))

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indent := countLeadingSpaces(line); minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if minIndent > 0 && len(line) >= minIndent {
			line = line[minIndent:]
		}
		lines[i] = colorizeLogoLine(line)
	}
	return strings.Join(lines, "\n")
}

func trimEmptyEdgeLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func countLeadingSpaces(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// colorizeLogoLine draws the page outline in gray and the text in orange.
func colorizeLogoLine(line string) string {
	var out strings.Builder
	for _, r := range line {
		switch r {
		case '+', '.':
			out.WriteString(logoPageStyle.Render("█"))
		case '#', '=':
			out.WriteString(logoInkStyle.Render("▀"))
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// ─── Replies ────────────────────────────────────────────────────────────────

// renderReply renders the cleaned reply as markdown. If glamour fails the
// text is printed indented as-is.
func renderReply(content string, width int) string {
	wrap := min(width, 100) - 4
	if wrap < 20 {
		wrap = 76
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		if out, err := r.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return strings.TrimRight(indentText(wordwrap.String(content, wrap), "  "), "\n")
}

func renderUserLine(text string) string {
	return userPromptStyle.Render("❯ ") + text
}

func renderBriefNotice(title string) string {
	if title == "" {
		title = "Brief"
	}
	return briefNoticeStyle.Render("  📄 "+title) + dimStyle.Render(" · /export to save as PDF")
}

// ─── Suggestion chips ───────────────────────────────────────────────────────

func chipStyle(s suggest.Suggestion) string {
	switch s.Category {
	case suggest.Confirmatory:
		if s.Affirmative {
			return chipConfirmStyle.Render("✓ " + s.Text)
		}
		return chipChangeStyle.Render("✎ " + s.Text)
	case suggest.Action:
		if s.Action == suggest.StartOver {
			return chipStartOverStyle.Render("↺ " + s.Text)
		}
		return chipActionStyle.Render("⤓ " + s.Text)
	}
	return chipPlainStyle.Render(s.Text)
}

// renderChips lists suggestions one per line, numbered for alt+N selection.
// Long texts wrap under their own number.
func renderChips(list []suggest.Suggestion, width int) string {
	if len(list) == 0 {
		return ""
	}
	wrap := min(width, 80) - 8
	if wrap < 20 {
		wrap = 40
	}

	var lines []string
	for i, s := range list {
		parts := strings.Split(wordwrap.String(s.Text, wrap), "\n")
		first := s
		first.Text = parts[0]
		idx := chipIndexStyle.Render(fmt.Sprintf("  %d ", i+1))
		lines = append(lines, idx+chipStyle(first))
		for _, cont := range parts[1:] {
			lines = append(lines, "      "+chipPlainStyle.Render(cont))
		}
	}
	return strings.Join(lines, "\n")
}

func indentText(text, prefix string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
