// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm PROMPT...",
	Short: "Send a prompt to the local Ollama model",
	Long: `llm sends PROMPT to the configured Ollama model and prints its reply.
Failures print "Error querying LLM: <cause>" in place of the reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, _ := cmd.Flags().GetString("system")
		if !cmd.Flags().Changed("system") {
			system = cfg.Generation.SystemPrompt
		}

		reply := llm.Reply(cmd.Context(), newGenerator(), strings.Join(args, " "), system)
		fmt.Println(reply)
		return nil
	},
}

func init() {
	llmCmd.Flags().StringP("system", "s", "", "system instruction (default from generation.system_prompt)")

	rootCmd.AddCommand(llmCmd)
}
