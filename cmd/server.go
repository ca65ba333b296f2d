package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexaid-ng/lexaid/internal/analytics"
	"github.com/lexaid-ng/lexaid/internal/chat"
	"github.com/lexaid-ng/lexaid/internal/config"
	"github.com/lexaid-ng/lexaid/internal/conversation"
	"github.com/lexaid-ng/lexaid/internal/db"
	"github.com/lexaid-ng/lexaid/internal/knowledge"
	"github.com/lexaid-ng/lexaid/internal/llm"
	"github.com/lexaid-ng/lexaid/internal/qa"
	"github.com/lexaid-ng/lexaid/internal/server"
	"github.com/lexaid-ng/lexaid/internal/upload"
)

var serverPort int

// sweepInterval controls how often expired conversation state is evicted.
const sweepInterval = 10 * time.Minute

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the lexaid API server",
	Long:  `Starts the lexaid legal assistant server with the chat, upload and law catalog APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// The LLM provider is optional: without an API key the server
		// still runs and answers with the offline fallbacks.
		llmProvider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable (%v), using offline answers\n", err)
			llmProvider = nil
		}

		dbPath := filepath.Join(cfg.DataDir, "lexaid.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     serverPort,
			DataDir:  cfg.DataDir,
			AllowAll: true,
		}, database)

		manager := conversation.NewManager(cfg.SessionTTLDuration(), cfg.Jurisdiction)
		registerAllRoutes(srv, database, manager, llmProvider, cfg)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Expired sessions are also evicted lazily on access; the ticker
		// bounds memory for sessions never touched again.
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					manager.Sweep()
				}
			}
		}()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "lexaid server v%s starting on port %d\n", Version, serverPort)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", cfg.BackendURL)
		if llmProvider != nil {
			fmt.Fprintf(os.Stderr, "  Model: %s (%s)\n", cfg.Model, llmProvider.Name())
		}

		return srv.Start()
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, database *db.DB, manager *conversation.Manager, llmProvider llm.Provider, cfg *config.Config) {
	r := srv.Router()

	analyticsStore := analytics.NewStore(database)
	analytics.RegisterRoutes(r, analyticsStore)

	chatStore := chat.NewStore(database)
	qaStore := qa.NewStore(database)
	backend := chat.NewBackend(cfg.BackendURL)
	orch := chat.NewOrchestrator(manager, chatStore, qaStore, backend, llmProvider, cfg.Model, "nigeria").
		WithAnalytics(analyticsStore)
	chat.RegisterRoutes(r, orch, chatStore, qaStore, manager)

	uploadSvc := upload.NewService(database, cfg.DataDir, cfg.BackendURL, cfg.Upload.MaxPerDay, cfg.Upload.MaxSizeBytes).
		WithAnalytics(analyticsStore)
	upload.RegisterRoutes(r, uploadSvc)

	knowledge.RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serverCmd)
}
