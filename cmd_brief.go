package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brief-cli/internal/api"
	"brief-cli/internal/display"
	"brief-cli/internal/export"
	"brief-cli/internal/session"
	"brief-cli/internal/store"
	"brief-cli/internal/suggest"
)

// ─── ask ────────────────────────────────────────────────────────────────────

var (
	askConversation string
	askContinue     bool
	askRaw          bool
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message and print the reply",
	Example: `  brief ask "We are launching a spring sneaker line"
  brief ask --continue "Everything is correct"
  brief ask -c 0d6f3c1a-8b7e-4c3f-9a2d-5e6f7a8b9c0d "Make the budget 20k"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "Continue the given conversation")
	askCmd.Flags().BoolVar(&askContinue, "continue", false, "Continue the last conversation")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the reply exactly as received")
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	id := askConversation
	if id == "" && askContinue {
		id = a.cfg.LastConversation
	}
	ctx := cmd.Context()
	conv, err := a.conversation(ctx, id)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	conv.AppendUser(ctx, text, nil)

	display.Spinner("Thinking...")
	reply, err := api.NewClient(a.cfg).SendMessage(ctx, conv.ID(), text)
	display.ClearLine()
	if err != nil {
		logger.Warn("chat request failed", zap.String("conversation", conv.ID()), zap.Error(err))
		return err
	}

	analysis := conv.AppendAssistant(ctx, reply.Text)

	a.cfg.LastConversation = conv.ID()
	if err := a.cfg.Save(); err != nil {
		logger.Warn("remembering conversation failed", zap.Error(err))
	}

	if askRaw {
		fmt.Println(reply.Text)
		return nil
	}

	fmt.Println()
	fmt.Println(renderMarkdown(analysis.Extraction.CleanContent))
	printSuggestions(conv.VisibleSuggestions())
	if analysis.Document.Present {
		fmt.Printf("  %s  %s\n", display.DocumentLabel(true), session.Title(analysis.DocumentText()))
		fmt.Printf("  %sRun%s brief export %s\n", display.Dim, display.Reset, conv.ID())
	}
	fmt.Printf("\n  %sConversation: %s%s\n\n", display.Dim, conv.ID(), display.Reset)
	return nil
}

func printSuggestions(list []suggest.Suggestion) {
	if len(list) == 0 {
		return
	}
	display.SubHeader("Suggestions")
	for i, s := range list {
		fmt.Printf("  %d. %s  %s\n", i+1, s.Text, display.SuggestionLabel(s))
	}
	fmt.Println()
}

func renderMarkdown(text string) string {
	out, err := glamour.Render(text, "dark")
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// ─── inspect ────────────────────────────────────────────────────────────────

var (
	inspectJSON   bool
	inspectLayout bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <reply-file|->",
	Short: "Analyze a saved assistant reply offline",
	Long: `Runs the reply pipeline over a file (or stdin with "-") and shows the
cleaned text, the classified suggestions and whether a brief was found.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectJSON, "json", "j", false, "Print the analysis as JSON")
	inspectCmd.Flags().BoolVar(&inspectLayout, "layout", false, "Also paginate the detected brief")
}

// inspectView is the JSON shape of an analysis.
type inspectView struct {
	CleanContent string           `json:"clean_content"`
	Removed      string           `json:"removed,omitempty"`
	Suggestions  []suggestionView `json:"suggestions"`
	Document     bool             `json:"document"`
	DocumentText string           `json:"document_text,omitempty"`
	Pages        int              `json:"pages,omitempty"`
}

type suggestionView struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	an := a.pipeline.Analyze(raw)
	view := inspectView{
		CleanContent: an.Extraction.CleanContent,
		Removed:      an.Extraction.Removed,
		Document:     an.Document.Present,
		DocumentText: an.DocumentText(),
	}
	for _, s := range an.Suggestions.All() {
		view.Suggestions = append(view.Suggestions, suggestionView{ID: s.ID, Text: s.Text, Category: s.Category.String()})
	}
	var layoutPages int
	if inspectLayout && an.Document.Present {
		layout := a.pipeline.Layout(view.DocumentText)
		layoutPages = len(layout.Pages)
		view.Pages = layoutPages
	}

	if inspectJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	display.Header("Reply")
	fmt.Println(indent(view.CleanContent, "  "))
	if view.Removed != "" {
		display.Info("Payload:", truncate(strings.ReplaceAll(view.Removed, "\n", " "), 60))
	}

	display.SubHeader(fmt.Sprintf("\nSuggestions (%d)", len(view.Suggestions)))
	for i, s := range an.Suggestions.All() {
		fmt.Printf("  %d. %-40s %s  %s%s%s\n", i+1, truncate(s.Text, 40), display.SuggestionLabel(s), display.Dim, s.ID, display.Reset)
	}

	fmt.Println()
	display.Info("Document:", display.DocumentLabel(view.Document))
	if view.Document {
		display.Info("Title:", session.Title(view.DocumentText))
	}
	if layoutPages > 0 {
		display.Info("Pages:", fmt.Sprintf("%d", layoutPages))
	}
	fmt.Println()
	return nil
}

func readInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", arg, err)
	}
	return string(data), nil
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// ─── export ─────────────────────────────────────────────────────────────────

var (
	exportFile string
	exportDir  string
)

var exportCmd = &cobra.Command{
	Use:   "export [conversation-id]",
	Short: "Save a brief as PDF",
	Long: `Exports the latest brief of a saved conversation (the last one by
default), or a markdown file given with --file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Export a markdown file instead of a conversation")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "", "Output directory (default: configured export dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	exp := a.exporter
	if exportDir != "" {
		exp = export.NewExporter(exportDir, logger)
	}

	var path string
	if exportFile != "" {
		text, err := readInput(exportFile)
		if err != nil {
			return err
		}
		path, err = exp.Export(a.pipeline.Layout(text), session.Title(text))
		if err != nil {
			return err
		}
	} else {
		id := a.cfg.LastConversation
		if len(args) > 0 {
			id = args[0]
		}
		if id == "" {
			return errors.New("no conversation yet. Run: brief ask \"<message>\"")
		}
		conv, err := a.conversation(cmd.Context(), id)
		if err != nil {
			return err
		}
		path, err = conv.ExportBrief(exp)
		if errors.Is(err, export.ErrNoDocument) {
			return fmt.Errorf("conversation %s has no brief yet", truncate(id, 20))
		}
		if err != nil {
			return err
		}
	}

	display.Success("Saved " + path)
	return nil
}

// ─── history ────────────────────────────────────────────────────────────────

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		display.Header(fmt.Sprintf("Conversations (%d)", len(items)))
		if len(items) == 0 {
			display.Warn("No saved conversations.")
			return nil
		}
		for _, s := range items {
			marker := " "
			if s.ID == a.cfg.LastConversation {
				marker = display.Green + "●" + display.Reset
			}
			title := s.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("  %s %s\n", marker, truncate(title, 70))
			fmt.Printf("    %s%s  %d messages  %s%s\n", display.Dim, s.ID, s.Messages, display.FormatTime(s.UpdatedAt), display.Reset)
		}
		fmt.Println()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		conv, err := a.conversation(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no conversation %s", args[0])
		}
		if err != nil {
			return err
		}

		for _, m := range conv.Messages() {
			switch m.Role {
			case session.RoleUser:
				fmt.Printf("\n%s❯ %s%s\n", display.Cyan, m.RawContent, display.Reset)
			default:
				an := a.pipeline.Analyze(m.RawContent)
				fmt.Println()
				fmt.Println(renderMarkdown(an.Extraction.CleanContent))
			}
		}
		fmt.Println()
		printSuggestions(conv.VisibleSuggestions())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		if err := a.store.Delete(cmd.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no conversation %s", id)
			}
			return err
		}
		if a.cfg.LastConversation == id {
			a.cfg.LastConversation = ""
			if err := a.cfg.Save(); err != nil {
				return err
			}
		}
		display.Success("Deleted " + id)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of conversations to list")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
