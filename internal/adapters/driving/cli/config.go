package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/herring101/docs-mcp/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change docs-mcp configuration.

Known keys:
  library.base_dir            library root directory
  library.allowed_folders     top-level folders exposed (empty = all)
  library.allowed_extensions  file extension allow-list
  embedding.provider          openai or ollama
  embedding.model             embedding model name
  embedding.base_url          provider API base URL
  embedding.api_key           provider API key
  import.github_token         token for repository imports`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// secretKeys are masked in show output.
var secretKeys = map[string]bool{
	configfile.KeyEmbeddingAPIKey: true,
	configfile.KeyGitHubToken:     true,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Config file: %s\n\n", configStore.Path())
	for _, key := range []string{
		configfile.KeyBaseDir,
		configfile.KeyAllowedFolders,
		configfile.KeyAllowedExtensions,
		configfile.KeyEmbeddingProvider,
		configfile.KeyEmbeddingModel,
		configfile.KeyEmbeddingBaseURL,
		configfile.KeyEmbeddingAPIKey,
		configfile.KeyGitHubToken,
	} {
		value, ok := configStore.Get(key)
		switch {
		case !ok:
			cmd.Printf("%s = (unset)\n", key)
		case secretKeys[key]:
			cmd.Printf("%s = ********\n", key)
		default:
			cmd.Printf("%s = %v\n", key, value)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	var value any = raw
	switch key {
	case configfile.KeyAllowedFolders, configfile.KeyAllowedExtensions:
		parts := strings.Split(raw, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		value = cleaned
	}

	if err := configStore.Set(key, value); err != nil {
		return err
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}
