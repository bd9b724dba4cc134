package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate descriptions and embeddings for the library",
	Long: `Enumerates every document in the library, derives a one-line
description for each, embeds the content, and writes the metadata and
embeddings artifacts next to the docs directory. Run this after
importing or editing documents.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generatorService == nil {
		return errors.New("no embedding provider configured; set embedding.provider or OPENAI_API_KEY")
	}

	report, err := generatorService.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	cmd.Printf("Documents: %d\n", report.Documents)
	cmd.Printf("Embedded:  %d\n", report.Embedded)
	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped:   %d\n", len(report.Skipped))
		for _, path := range report.Skipped {
			cmd.Printf("  %s\n", path)
		}
	}
	return nil
}
