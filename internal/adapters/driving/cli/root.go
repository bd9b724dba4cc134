// Package cli provides the command-line interface for docs-mcp.
// Commands share a set of services wired from the config store before
// any command runs.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/herring101/docs-mcp/internal/adapters/driven/config/file"
	"github.com/herring101/docs-mcp/internal/adapters/driven/embedding/ollama"
	"github.com/herring101/docs-mcp/internal/adapters/driven/embedding/openai"
	storagefile "github.com/herring101/docs-mcp/internal/adapters/driven/storage/file"
	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
	"github.com/herring101/docs-mcp/internal/core/services"
	"github.com/herring101/docs-mcp/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	baseDirFlag string
)

// Services shared by the commands, wired in initServices.
var (
	configStore      *configfile.ConfigStore
	libraryConfig    domain.LibraryConfig
	artifactStore    *storagefile.ArtifactStore
	documentService  driving.DocumentService
	grepService      driving.GrepService
	semanticService  driving.SemanticService
	generatorService driving.GeneratorService
)

var rootCmd = &cobra.Command{
	Use:   "docs-mcp",
	Short: "Local documentation library with grep, semantic search and MCP integration",
	Long: `docs-mcp maintains a local library of documentation files, generates
descriptions and embeddings for them, and serves list, read, grep and
semantic search operations to AI assistants over the Model Context
Protocol.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "library base directory (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the shared services from the config store.
// Commands run after this and can rely on the non-embedding services;
// semantic search and generation stay nil when no embedding provider
// is reachable from the configuration.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = store

	cfg, err := store.LibraryConfig()
	if err != nil {
		return err
	}
	if baseDirFlag != "" {
		cfg = domain.LibraryConfig{
			BaseDir:           baseDirFlag,
			AllowedFolders:    cfg.AllowedFolders,
			AllowedExtensions: cfg.AllowedExtensions,
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	libraryConfig = cfg
	logger.Debug("library base directory: %s", cfg.BaseDir)

	docStore := storagefile.NewDocumentStore(cfg)
	artifactStore = storagefile.NewArtifactStore(cfg)

	documentService = services.NewLibraryService(docStore, artifactStore)
	grepService = services.NewGrepService(docStore)

	embedder := buildEmbedder(store)
	if embedder != nil {
		semanticService = services.NewSemanticService(docStore, artifactStore, embedder)
		generatorService = services.NewGeneratorService(docStore, artifactStore, embedder)
	}
	return nil
}

// buildEmbedder constructs the configured embedding client. Provider
// selection: explicit embedding.provider setting, else OpenAI when an
// API key is available, else Ollama. Returns nil when the OpenAI
// provider is selected without a key.
func buildEmbedder(store *configfile.ConfigStore) driven.EmbeddingService {
	provider := store.GetString(configfile.KeyEmbeddingProvider)
	apiKey := store.GetString(configfile.KeyEmbeddingAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: store.GetString(configfile.KeyEmbeddingBaseURL),
			Model:   store.GetString(configfile.KeyEmbeddingModel),
		})
		if err != nil {
			logger.Warn("openai embedding unavailable: %v", err)
			return nil
		}
		return svc
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: store.GetString(configfile.KeyEmbeddingBaseURL),
			Model:   store.GetString(configfile.KeyEmbeddingModel),
		})
	default:
		logger.Warn("unknown embedding provider %q", provider)
		return nil
	}
}
