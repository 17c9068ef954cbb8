package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [type] [file]",
	Short: "Index a workspace entity",
	Long: `Reads an entity as JSON from a file (or stdin when the file is omitted
or given as "-") and indexes it for retrieval.

Indexing appends; to update an already-indexed entity, run
'growthpilot delete <entity-id>' first.

Entity types:
  campaign        Marketing campaign
  task            Go-to-market task
  content         Content asset (blog, social, strategy document)
  brand-kit       Brand identity kit
  audience        Audience profile
  offer           Value proposition / offer
  copy            Copywriting project
  brand-project   Brand generation project
  email-project   Email marketing sequence
  insight         Market insight`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// indexDispatch maps CLI entity type names to decode-and-index functions.
var indexDispatch = map[string]func(ctx context.Context, data []byte) error{
	"campaign": func(ctx context.Context, data []byte) error {
		var entity domain.Campaign
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexCampaign(ctx, entity)
	},
	"task": func(ctx context.Context, data []byte) error {
		var entity domain.GTMTask
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexTask(ctx, entity)
	},
	"content": func(ctx context.Context, data []byte) error {
		var entity domain.ContentAsset
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexContentAsset(ctx, entity)
	},
	"brand-kit": func(ctx context.Context, data []byte) error {
		var entity domain.BrandKit
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexBrandKit(ctx, entity)
	},
	"audience": func(ctx context.Context, data []byte) error {
		var entity domain.AudienceProfile
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexAudience(ctx, entity)
	},
	"offer": func(ctx context.Context, data []byte) error {
		var entity domain.Offer
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexOffer(ctx, entity)
	},
	"copy": func(ctx context.Context, data []byte) error {
		var entity domain.CopyProject
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexCopyProject(ctx, entity)
	},
	"brand-project": func(ctx context.Context, data []byte) error {
		var entity domain.BrandProject
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexBrandProject(ctx, entity)
	},
	"email-project": func(ctx context.Context, data []byte) error {
		var entity domain.EmailProject
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexEmailProject(ctx, entity)
	},
	"insight": func(ctx context.Context, data []byte) error {
		var entity domain.MarketInsight
		if err := json.Unmarshal(data, &entity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return indexerService.IndexMarketInsight(ctx, entity)
	},
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	entityType := args[0]
	dispatch, ok := indexDispatch[entityType]
	if !ok {
		return fmt.Errorf("unknown entity type %q (valid: %s)", entityType, indexTypeNames())
	}

	data, err := readEntityInput(cmd, args)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty entity input")
	}

	if err := dispatch(context.Background(), data); err != nil {
		return fmt.Errorf("failed to index %s: %w", entityType, err)
	}

	cmd.Printf("Indexed %s.\n", entityType)
	return nil
}

// readEntityInput reads the entity JSON from the file argument, or from
// stdin when the argument is omitted or "-".
func readEntityInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) < 2 || args[1] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read entity from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return nil, fmt.Errorf("failed to read entity file: %w", err)
	}
	return data, nil
}

func indexTypeNames() string {
	names := make([]string, 0, len(indexDispatch))
	for name := range indexDispatch {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
