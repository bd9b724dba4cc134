package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the library",
	RunE:  runList,
}

var getCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	listings, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling listings: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(listings) == 0 {
		cmd.Println("No documents in the library.")
		return nil
	}
	for _, l := range listings {
		if l.Description != "" {
			cmd.Printf("%s\t%s\n", l.Path, l.Description)
		} else {
			cmd.Println(l.Path)
		}
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	content, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Print(content)
	return nil
}
