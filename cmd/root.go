package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qgen",
	Short: "Generate multiple-choice questions from study material",
	Long: "qgen turns a passage of text into multiple-choice questions with answers\n" +
		"and explanations using an LLM. Without a subcommand it serves the web form.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides QGEN_CONFIG env var)")
	pf.String("db", "", "Path to SQLite database file (overrides QGEN_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter, mock")

	rootCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top and initializes logging.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Store.Path = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if cmd.Flags().Lookup("addr") != nil {
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Server.Addr = v
		}
	}

	if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return cfg, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from config or QGEN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	path, _ := cmd.Flags().GetString("config")
	if cfg, err := config.Load(path); err == nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}
