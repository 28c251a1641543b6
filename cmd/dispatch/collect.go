package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/enrich"
	"dispatch-engine/internal/lookup"
	"dispatch-engine/internal/store"
)

func CollectCmd(db *store.DB, cfg config.Config) *cobra.Command {
	var (
		city     string
		service  string
		limit    int
		noEnrich bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Search the map provider for businesses and store them as leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if city == "" || service == "" {
				return fmt.Errorf("--city and --service are required")
			}

			client := lookup.NewClient(db, cfg)
			var finder lookup.ContactFinder
			if !noEnrich {
				finder = enrich.NewScraper(cfg.Lookup.UserAgent)
			}
			collector := lookup.NewCollector(db, client, finder)

			sum, err := collector.Collect(cmd.Context(), city, service, limit)
			if err != nil {
				return err
			}

			src := "provider"
			if sum.FromCache {
				src = "cache"
			}
			fmt.Printf("Found %d candidates (%s): %d added, %d duplicate, %d skipped, %d errored\n",
				sum.Found, src, sum.Added, sum.Duplicates, sum.Skipped, sum.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city to search in")
	cmd.Flags().StringVar(&service, "service", "", "business type to search for (e.g. hotel, restaurant)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to request")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip website scraping for missing contact info")
	return cmd
}
