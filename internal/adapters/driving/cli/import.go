package cli

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/herring101/docs-mcp/internal/adapters/driven/config/file"
	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/importer/repo"
	"github.com/herring101/docs-mcp/internal/importer/web"
)

var (
	importOutputDir string
	importInclude   string
	importExclude   string

	crawlDepth      int
	crawlConcurrent int
	crawlDelay      time.Duration
	crawlTimeout    time.Duration
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import documentation into the library",
	Long:  `Import documentation from a website or a GitHub repository.`,
}

var importURLCmd = &cobra.Command{
	Use:   "url [start-url]",
	Short: "Crawl a documentation site into the library",
	Long: `Crawls the site breadth-first from the start URL, staying on the
same host, converts each page to markdown and writes it under the
output directory. Discovered links are followed up to --depth levels.

Examples:
  docs-mcp import url https://docs.example.com/guide/
  docs-mcp import url https://docs.example.com --depth 3 --exclude-pattern '/blog/'`,
	Args: cobra.ExactArgs(1),
	RunE: runImportURL,
}

var importRepoCmd = &cobra.Command{
	Use:   "repo [repository]",
	Short: "Import a documentation subtree from a GitHub repository",
	Long: `Copies documentation files out of a GitHub repository using a
shallow sparse checkout. The repository may be given as owner/repo or a
full URL, optionally with a branch and subdirectory.

Examples:
  docs-mcp import repo golang/go
  docs-mcp import repo https://github.com/golang/go/tree/master/doc`,
	Args: cobra.ExactArgs(1),
	RunE: runImportRepo,
}

func init() {
	importCmd.PersistentFlags().StringVarP(&importOutputDir, "output-dir", "o", "", "output directory (default: docs dir subfolder named after the source)")
	importCmd.PersistentFlags().StringVar(&importInclude, "include-pattern", "", "only import paths matching this regex")
	importCmd.PersistentFlags().StringVar(&importExclude, "exclude-pattern", "", "skip paths matching this regex")

	importURLCmd.Flags().IntVarP(&crawlDepth, "depth", "d", web.DefaultDepth, "maximum link depth from the start URL")
	importURLCmd.Flags().IntVarP(&crawlConcurrent, "concurrent", "c", web.DefaultConcurrency, "number of parallel fetch workers")
	importURLCmd.Flags().DurationVar(&crawlDelay, "delay", web.DefaultDelay, "minimum interval between requests")
	importURLCmd.Flags().DurationVar(&crawlTimeout, "timeout", web.DefaultTimeout, "per-request timeout")

	importCmd.AddCommand(importURLCmd)
	importCmd.AddCommand(importRepoCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportURL(cmd *cobra.Command, args []string) error {
	startURL := args[0]
	include, exclude, err := importPatterns()
	if err != nil {
		return err
	}

	outputDir := importOutputDir
	if outputDir == "" {
		u, err := url.Parse(startURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: invalid start URL %q", domain.ErrInvalidInput, startURL)
		}
		outputDir = filepath.Join(libraryConfig.DocsDir, web.SanitizeSegment(u.Host))
	}

	crawler := web.NewCrawler(web.Config{
		OutputDir:      outputDir,
		Depth:          crawlDepth,
		Concurrency:    crawlConcurrent,
		Delay:          crawlDelay,
		Timeout:        crawlTimeout,
		IncludePattern: include,
		ExcludePattern: exclude,
		Progress:       true,
	})

	summary, err := crawler.Crawl(cmd.Context(), startURL)
	if err != nil {
		return err
	}
	printSummary(cmd, summary, outputDir)
	return nil
}

func runImportRepo(cmd *cobra.Command, args []string) error {
	ref, err := repo.ParseRef(args[0])
	if err != nil {
		return err
	}
	include, exclude, err := importPatterns()
	if err != nil {
		return err
	}

	outputDir := importOutputDir
	if outputDir == "" {
		outputDir = filepath.Join(libraryConfig.DocsDir, web.SanitizeSegment(ref.Name))
	}

	importer := repo.NewImporter(repo.Config{
		OutputDir:      outputDir,
		Token:          configStore.GetString(configfile.KeyGitHubToken),
		IncludePattern: include,
		ExcludePattern: exclude,
		Extensions:     libraryConfig.AllowedExtensions,
	})

	summary, err := importer.Import(cmd.Context(), ref)
	if err != nil {
		return err
	}
	printSummary(cmd, summary, outputDir)
	return nil
}

func importPatterns() (include, exclude *regexp.Regexp, err error) {
	if importInclude != "" {
		include, err = regexp.Compile(importInclude)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: include pattern: %v", domain.ErrInvalidPattern, err)
		}
	}
	if importExclude != "" {
		exclude, err = regexp.Compile(importExclude)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: exclude pattern: %v", domain.ErrInvalidPattern, err)
		}
	}
	return include, exclude, nil
}

func printSummary(cmd *cobra.Command, summary *domain.ImportSummary, outputDir string) {
	cmd.Printf("Imported %d files into %s (%d failed, %d skipped)\n",
		summary.Fetched, outputDir, summary.Failed, summary.Skipped)
	for _, f := range summary.Failures {
		cmd.Printf("  failed: %s: %s\n", f.URL, f.Reason)
	}
	if summary.Fetched > 0 {
		cmd.Println(`Run "docs-mcp generate" to index the imported documents.`)
	}
}
