package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aichorus/internal/api"
	"aichorus/internal/config"
	"aichorus/internal/relay"
	"aichorus/internal/store"
)

var (
	configPath string
	webDir     string
)

var rootCmd = &cobra.Command{
	Use:   "aichorus",
	Short: "Self-hosted web chat for OpenAI, Anthropic and Google Gemini",
	Long: `aichorus serves a browser chat UI backed by a SQLite conversation
store and a same-origin relay that forwards chat requests to the configured
LLM providers. Provider API keys stay on the server and never reach the
browser.

Configuration:
  Config file: aichorus.yaml (override with --config)
  Environment: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY,
               ACCESS_PASSWORD, AUTH_SECRET, AICHORUS_ADDR, AICHORUS_DB`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&webDir, "web", "web", "directory of static UI assets")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer st.Close()

	rl := relay.New(cfg, logger)
	handler := api.NewHandler(st, rl, cfg, logger)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(webDir, "login.html"))
	})
	mux.Handle("/", http.FileServer(http.Dir(webDir)))

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler.Gate(mux)); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	return nil
}
