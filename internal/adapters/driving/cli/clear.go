package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed documents",
	Long: `Removes every indexed document and invalidates the query cache.
The index is re-seeded with its sentinel document so it stays queryable.
Indexed content must be re-generated or re-indexed afterwards.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	if !clearYes {
		cmd.Print("This removes all indexed documents. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n') //nolint:errcheck // CLI prompt, error ignored for UX
		if answer := strings.ToLower(strings.TrimSpace(input)); answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := vectorStore.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	if queryCache != nil {
		// Cached answers may cite documents that no longer exist.
		queryCache.Invalidate("")
	}

	cmd.Println("Index cleared.")
	return nil
}
