// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-agent CLI. The serve
// subcommand runs the MCP server; the others call the same components
// directly for use from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/internal/config"
	"github.com/pdiddy/arxiv-agent/internal/logging"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Resolved by the root command before any subcommand runs.
var (
	cfg    types.Config
	vcfg   *viper.Viper
	logger = zap.NewNop()
)

// rootCmd is the base command for the arxiv-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-agent",
	Short: "Search arXiv, collect papers by topic, and serve both over MCP",
	Long: `arxiv-agent searches the arXiv index, saves selected papers under named
research topics, and exposes those operations as Model Context Protocol tools
so an agent can discover and call them. A locally running Ollama model can be
queried directly for quick analysis.

Run "arxiv-agent serve" to start the MCP server on stdio, or use the other
subcommands to exercise the same operations from a shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		c, v, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg, vcfg = c, v

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		if used := vcfg.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-agent.yaml or ~/.config/arxiv-agent/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
