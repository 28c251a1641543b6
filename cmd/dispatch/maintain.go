package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/export"
	"dispatch-engine/internal/store"
)

func ExportCmd(db *store.DB) *cobra.Command {
	var dir, what string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write leads, workers, and jobs to CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := export.NewExporter(db)

			single := map[string]func(cmd *cobra.Command) (string, int, error){
				"leads": func(cmd *cobra.Command) (string, int, error) {
					path := filepath.Join(dir, "leads.csv")
					n, err := ex.Leads(cmd.Context(), path)
					return path, n, err
				},
				"workers": func(cmd *cobra.Command) (string, int, error) {
					path := filepath.Join(dir, "workers.csv")
					n, err := ex.Workers(cmd.Context(), path)
					return path, n, err
				},
				"jobs": func(cmd *cobra.Command) (string, int, error) {
					path := filepath.Join(dir, "jobs.csv")
					n, err := ex.Jobs(cmd.Context(), path)
					return path, n, err
				},
			}

			if what != "all" {
				fn, ok := single[what]
				if !ok {
					return fmt.Errorf("--what must be leads, workers, jobs, or all")
				}
				path, n, err := fn(cmd)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d rows\n", path, n)
				return nil
			}

			counts, err := ex.All(cmd.Context(), dir)
			if err != nil {
				return err
			}
			for _, name := range []string{"leads.csv", "workers.csv", "jobs.csv"} {
				fmt.Printf("%s: %d rows\n", name, counts[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&what, "what", "all", "which table to export (leads, workers, jobs, all)")
	return cmd
}

func StatsCmd(db *store.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := db.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Leads: %d across %d categories\n", s.TotalLeads, s.LeadCategories)
			for status, n := range s.LeadsByStatus {
				fmt.Printf("  %-10s %d\n", status, n)
			}
			fmt.Printf("Workers: %d active, avg rating %.2f, %d jobs completed\n",
				s.ActiveWorkers, s.AverageRating, s.CompletedByWorker)
			fmt.Printf("Jobs: %d, total value %.2f\n", s.TotalJobs, s.TotalRevenue)
			for status, n := range s.JobsByStatus {
				fmt.Printf("  %-10s %d\n", status, n)
			}
			fmt.Println("Messages:")
			for channel, n := range s.MessagesByChannel {
				fmt.Printf("  %-10s %d\n", channel, n)
			}
			return nil
		},
	}
}

func CleanupCmd(db *store.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove degenerate and duplicate leads, expire old cache rows, and compact",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := db.Cleanup(cmd.Context(), nowFn())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d invalid leads, %d duplicates, %d stale cache rows\n",
				res.InvalidLeads, res.DuplicateLeads, res.CacheRows)
			return nil
		},
	}
}
