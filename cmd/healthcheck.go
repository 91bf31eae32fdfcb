package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that hookchat can store sessions and reach a backend",
	Long: `Check the health of hookchat by verifying:
  • Storage path detection
  • Configuration loading
  • Session store accessibility
  • Chat backend configuration
  • Gemini API key for title generation

This command is useful for debugging setup issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthcheck(cmd.OutOrStdout())
	},
}

func runHealthcheck(out io.Writer) error {
	detail := func(format string, args ...any) {
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   "+format+"\n", args...)
		}
	}

	_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 hookchat Health Check"))
	_, _ = fmt.Fprintln(out)

	// Step 1: paths and config
	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
	paths, cfg, err := loadSettings()
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
		return fmt.Errorf("health check failed: %w", err)
	}
	if paths.ConfigExists() {
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Config file loaded"))
	} else {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
	}
	detail("Data dir: %s", paths.DataDir)
	detail("Config: %s", paths.ConfigPath)
	_, _ = fmt.Fprintln(out)

	// Step 2: session store
	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Testing session store access..."))
	sessionCount := 0
	if ephemeral {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  --ephemeral set, sessions are not persisted"))
	} else {
		existed := paths.DatabaseExists()
		store, err := internal.OpenSQLiteStore(paths.DBPath)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open session store:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		sessions := internal.Get(internal.NewStoreAdapter(store), internal.KeySessions, []internal.Session{})
		sessionCount = len(sessions)
		_ = store.Close()

		if existed {
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Session store readable, %d session(s)", sessionCount)))
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Session store created"))
		}
		detail("Database: %s", paths.DBPath)
		if healthcheckVerbose {
			for i, s := range sessions {
				if i == 5 {
					detail("... and %d more", len(sessions)-5)
					break
				}
				detail("[%d] %s (ID: %s, %d message(s))", i+1, s.Title, s.ID, len(s.Messages))
			}
		}
	}
	_, _ = fmt.Fprintln(out)

	// Step 3: chat backend
	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Checking chat backend..."))
	backendOK := true
	switch cfg.Backend {
	case internal.BackendGemini:
		if internal.APIKeyFromEnv(getenv) == "" {
			backendOK = false
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Gemini backend selected but GEMINI_API_KEY is not set"))
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Gemini backend configured"))
		}
		detail("Model: %s", cfg.Gemini.Model)
	default:
		if cfg.Webhook.URL == "" {
			backendOK = false
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Webhook URL is not configured"))
			detail("Set webhook.url in %s or HOOKCHAT_WEBHOOK_URL", paths.ConfigPath)
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Webhook configured"))
		}
		detail("URL: %s", cfg.Webhook.URL)
		detail("Schema: %s", cfg.Webhook.Schema)
		detail("Timeout: %s", cfg.Webhook.Timeout)
	}
	_, _ = fmt.Fprintln(out)

	// Step 4: title generation
	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Checking title generation..."))
	if internal.APIKeyFromEnv(getenv) != "" {
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ API key found, titles can be generated"))
	} else {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No API key, titles fall back to the first message"))
	}
	_, _ = fmt.Fprintln(out)

	// Summary
	_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	_, _ = fmt.Fprintln(out)
	if !backendOK {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
		_, _ = fmt.Fprintln(out, "   • No chat backend is reachable with the current configuration")
		return fmt.Errorf("health check failed: chat backend not configured")
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d found", sessionCount)))
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "details", "d", false, "Show detailed diagnostic information")
}
