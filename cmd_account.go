package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brief-cli/internal/api"
	"brief-cli/internal/config"
	"brief-cli/internal/display"
	"brief-cli/internal/logging"
)

// ─── login ──────────────────────────────────────────────────────────────────

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login <server-url>",
	Short: "Authenticate with a brief server",
	Example: `  brief login https://briefs.example.com -u ana@example.com -p secret
  brief --profile staging login http://localhost:8080 -u admin`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	serverURL := strings.TrimRight(args[0], "/")
	username, password := loginUsername, loginPassword

	if username == "" {
		fmt.Print("Username/Email: ")
		fmt.Scanln(&username)
	}
	if password == "" {
		fmt.Print("Password: ")
		fmt.Scanln(&password)
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	fmt.Println()
	display.Spinner("Authenticating...")

	client := api.NewClientWithServer(serverURL)
	resp, err := client.Login(cmd.Context(), username, password)
	display.ClearLine()
	if err != nil {
		logger.Warn("login failed", zap.String("server", serverURL), zap.Error(err))
		return fmt.Errorf("authentication failed: %w", err)
	}
	display.Success("Authenticated successfully")

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	cfg.Server = serverURL
	cfg.Username = username
	cfg.Token = resp.AccessToken
	if err := cfg.Save(); err != nil {
		return err
	}
	logger.Info("logged in", zap.String("server", serverURL), zap.String("user", username))

	display.Info("Server:", serverURL)
	display.Info("User:", username)

	pf := ""
	if activeProfile != "" {
		pf = " --profile " + activeProfile
	}
	fmt.Printf("\n  %sNext:%s Run %sbrief%s%s to start a brief.\n\n",
		display.Dim, display.Reset, display.Cyan, pf, display.Reset)
	return nil
}

// ─── set ────────────────────────────────────────────────────────────────────

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Keys:
  server       Brief server URL
  token        Authentication token
  locale       Reply and label language (en, es)
  export_dir   Where exported PDFs are written
  log_level    debug, info, warn or error
  vocabulary   YAML file extending headings and phrases`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(activeProfile)
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if key == "vocabulary" || key == "vocabulary_path" {
			if _, err := config.LoadVocabulary(value, cfg.LocaleOrDefault()); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		display.Success(fmt.Sprintf("%s set to %s", key, value))
		return nil
	},
}

// ─── config ─────────────────────────────────────────────────────────────────

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(activeProfile)
		if err != nil {
			return err
		}

		notSet := display.Dim + "(not set)" + display.Reset
		val := func(s string) string {
			if s == "" {
				return notSet
			}
			return s
		}

		display.Header("Brief CLI Configuration")
		display.Info("Profile:", config.ProfileName(activeProfile))
		display.Info("Server:", val(cfg.Server))
		display.Info("User:", val(cfg.Username))
		display.Info("Locale:", cfg.LocaleOrDefault())

		exportDir, err := cfg.ExportDirOrDefault()
		if err != nil {
			return err
		}
		display.Info("Exports:", exportDir)
		display.Info("Vocabulary:", val(cfg.VocabularyPath))
		display.Info("Log level:", val(cfg.LogLevel))

		token := notSet
		if cfg.Token != "" {
			token = truncate(cfg.Token, 15)
		}
		display.Info("Token:", token)
		display.Info("Last brief:", val(cfg.LastConversation))

		if logPath, err := logging.Path(); err == nil {
			display.Info("Log file:", logPath)
		}
		fmt.Println()
		return nil
	},
}

// ─── profiles ───────────────────────────────────────────────────────────────

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List config profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.ListProfiles()
		if err != nil {
			return err
		}

		display.Header(fmt.Sprintf("Profiles (%d)", len(profiles)))
		if len(profiles) == 0 {
			display.Warn("No profiles found.")
			return nil
		}
		for _, p := range profiles {
			marker := " "
			if p == config.ProfileName(activeProfile) {
				marker = display.Green + "●" + display.Reset
			}
			fmt.Printf("  %s %s\n", marker, p)
		}
		fmt.Println()
		return nil
	},
}

// ─── helpers ────────────────────────────────────────────────────────────────

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
