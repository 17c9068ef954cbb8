package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and assistant status",
	Long: `Shows what is indexed, query cache occupancy, and assistant query
metrics (cache hit rate, average response time, recent questions).`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexerService == nil || assistantService == nil {
		return errors.New("services not configured")
	}

	counts, err := indexerService.DocumentCounts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read document counts: %w", err)
	}

	cmd.Println("GrowthPilot Status")
	cmd.Println("==================")
	cmd.Println()

	cmd.Println("[Index]")
	if len(counts) == 0 {
		cmd.Println("  (empty)")
	} else {
		types := make([]string, 0, len(counts))
		total := 0
		for entityType, n := range counts {
			types = append(types, entityType)
			total += n
		}
		sort.Strings(types)
		for _, entityType := range types {
			cmd.Printf("  %-20s %d\n", entityType, counts[entityType])
		}
		cmd.Printf("  %-20s %d\n", "total", total)
	}
	cmd.Println()

	if queryCache != nil {
		stats := queryCache.Stats()
		cmd.Println("[Query Cache]")
		cmd.Printf("  Entries: %d / %d\n", stats.TotalEntries, stats.MaxEntries)
		cmd.Printf("  TTL: %s\n", stats.TTL)
		cmd.Println()
	}

	report := assistantService.Metrics()
	cmd.Println("[Queries]")
	cmd.Printf("  Total: %d\n", report.TotalQueries)
	cmd.Printf("  Cache hits: %d (%.2f%%)\n", report.CacheHits, report.CacheHitRate)
	cmd.Printf("  Avg response: %.2fms\n", report.AvgDuration)
	if len(report.Recent) > 0 {
		cmd.Println("  Recent:")
		for _, sample := range report.Recent {
			marker := " "
			if sample.CacheHit {
				marker = "*"
			}
			cmd.Printf("   %s %q (%d docs)\n", marker, sample.Query, sample.DocumentCount)
		}
	}
	cmd.Println()

	health := assistantService.Health()
	cmd.Printf("Health: %s\n", health.Status)

	return nil
}
