// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-agent/internal/prompts"
)

var promptCmd = &cobra.Command{
	Use:   "prompt TOPIC...",
	Short: "Print the research summary prompt for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("num-papers")
		text, err := prompts.ResearchSummary(strings.Join(args, " "), n)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	promptCmd.Flags().IntP("num-papers", "n", prompts.DefaultNumPapers, "number of papers the prompt announces")

	rootCmd.AddCommand(promptCmd)
}
