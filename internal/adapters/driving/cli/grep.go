package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grepCaseSensitive bool

var grepCmd = &cobra.Command{
	Use:   "grep [pattern]",
	Short: "Search document contents with a regular expression",
	Long: `Scans every document in the library line by line with the given
regular expression. Matching is case-insensitive unless --case-sensitive
is set. At most 100 matches are printed; the remainder is counted.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().BoolVarP(&grepCaseSensitive, "case-sensitive", "s", false, "match case-sensitively")
	rootCmd.AddCommand(grepCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	result, err := grepService.Grep(cmd.Context(), args[0], !grepCaseSensitive)
	if err != nil {
		return err
	}

	for _, m := range result.Matches {
		cmd.Printf("%s:%d: %s\n", m.Path, m.Line, m.Text)
	}
	if result.Truncated() {
		cmd.Printf("... and %d more matches\n", result.Total-len(result.Matches))
	}
	if result.Total == 0 {
		cmd.Println("No matches.")
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library semantically",
	Long: `Embeds the query and ranks documents by cosine similarity against
the generated embeddings. Run "docs-mcp generate" first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if semanticService == nil {
		return fmt.Errorf("no embedding provider configured; set embedding.provider or OPENAI_API_KEY")
	}

	results, err := semanticService.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("%d. %s (%.3f)\n", i+1, r.Path, r.Score)
		if r.Description != "" {
			cmd.Printf("   %s\n", r.Description)
		}
		if r.Preview != "" {
			cmd.Printf("   %s\n", r.Preview)
		}
	}
	return nil
}
