package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

var rootCmd = &cobra.Command{
	Use:   "ai-service",
	Short: "Answers job application questions for the autofill extension",
	Long: `ai-service answers job application form questions, first from learned
pattern memory and then from a hosted language model, and learns the
shareable answers for next time.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, patternsCmd, intentsCmd)
}

// Execute runs the command tree; the process exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载并验证配置
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*utils.Logger, error) {
	return utils.NewLogger(utils.LogOptions{
		Mode:       cfg.LogMode,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
}
