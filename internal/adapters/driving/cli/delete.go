package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteCampaign string
	deleteType     string
)

var deleteCmd = &cobra.Command{
	Use:   "delete [entity-id]",
	Short: "Remove indexed documents for an entity",
	Long: `Removes indexed documents. With an entity ID, removes that entity's
documents (including all chunks). With --campaign, removes everything
indexed under the campaign; add --type to restrict to one entity type.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteCampaign, "campaign", "", "delete all documents for a campaign ID")
	deleteCmd.Flags().StringVar(&deleteType, "type", "", "restrict campaign deletion to one entity type (e.g. Offer)")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := context.Background()

	var (
		deleted int
		err     error
	)
	switch {
	case len(args) == 1:
		if deleteCampaign != "" || deleteType != "" {
			return errors.New("pass either an entity ID or --campaign, not both")
		}
		deleted, err = indexerService.DeleteDocument(ctx, args[0])
	case deleteCampaign != "" && deleteType != "":
		deleted, err = indexerService.DeleteByTypeAndCampaign(ctx, deleteType, deleteCampaign)
	case deleteCampaign != "":
		deleted, err = indexerService.DeleteCampaignDocuments(ctx, deleteCampaign)
	case deleteType != "":
		return errors.New("--type requires --campaign")
	default:
		return errors.New("pass an entity ID or --campaign")
	}
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if deleted == 0 {
		cmd.Println("No matching documents.")
		return nil
	}

	cmd.Printf("Deleted %d document(s).\n", deleted)

	if queryCache != nil {
		// Cached answers may cite the removed documents.
		queryCache.Invalidate("")
	}

	return nil
}
