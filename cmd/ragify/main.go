package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ragify/cmd/ragify/tui"
	"ragify/cmd/ragify/ui"
	"ragify/internal/analytics"
	"ragify/internal/auth"
	"ragify/internal/chat"
	"ragify/internal/config"
	"ragify/internal/documents"
	"ragify/internal/gateway"
	"ragify/internal/logging"
)

var (
	// Global flags
	serverURL string
	verbose   bool

	// Shared client state, built once in PersistentPreRunE
	cfg     *config.Config
	cfgPath string
	logger  *zap.Logger
	creds   *gateway.CredentialStore
	gw      *gateway.Client
)

// rootCmd launches the interactive chat when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ragify",
	Short: "Chat with your documents from the terminal",
	Long: `ragify is a terminal client for the ragify document chat service.

Upload documents, then ask questions about them; answers are grounded in
your files and annotated with the source file, page, and relevance score.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgPath = config.DefaultConfigPath()
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}

		logger, err = logging.New(cfg.Debug || verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		creds = gateway.NewCredentialStore(cfg.Token)
		gw = gateway.NewClient(cfg.ServerURL, creds, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func runInteractive() error {
	if creds.Token() == "" {
		return fmt.Errorf("not logged in — run 'ragify login <username>' first")
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	model := tui.New(tui.Deps{
		Orchestrator: chat.NewOrchestrator(),
		Directory:    chat.NewDirectory(gw),
		Conversation: chat.NewClient(gw),
		Panel:        documents.NewPanel(gw),
		Auth:         auth.NewService(gw, creds),
		Styles:       styles,
		Logger:       logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.AuthErr() != nil {
		// The gateway already dropped the token in memory; drop the stored
		// copy too so the next run goes straight to the login hint.
		cfg.Token = ""
		_ = cfg.Save(cfgPath)
		return fmt.Errorf("session expired — run 'ragify login <username>' to sign in again")
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(analyticsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// services bundles the typed clients for subcommands.
func authService() *auth.Service          { return auth.NewService(gw, creds) }
func sessionDirectory() *chat.Directory   { return chat.NewDirectory(gw) }
func conversation() *chat.Client          { return chat.NewClient(gw) }
func documentPanel() *documents.Panel     { return documents.NewPanel(gw) }
func analyticsClient() *analytics.Client  { return analytics.NewClient(gw) }
