package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/match"
	"dispatch-engine/internal/store"
)

func MatchCmd(db *store.DB, cfg config.Config) *cobra.Command {
	var (
		service string
		leadID  int64
		price   float64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Assign the best worker to new leads for a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if service == "" {
				return fmt.Errorf("--service is required")
			}
			engine := match.NewEngine(db, cfg)

			if leadID > 0 {
				out, err := engine.MatchLead(cmd.Context(), leadID, service, price)
				if err != nil {
					return err
				}
				fmt.Printf("Job %d: %q -> %s (%s), score %.1f\n",
					out.JobID, out.Lead.Name, out.Worker.Name, out.Worker.Phone, out.Score)
				return nil
			}

			outcomes, err := engine.MatchAll(cmd.Context(), service, price, limit)
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				fmt.Println("No new leads for this service.")
				return nil
			}

			dispatched := 0
			for _, o := range outcomes {
				switch {
				case errors.Is(o.Err, match.ErrNoMatch):
					fmt.Printf("%q: no eligible worker\n", o.Lead.Name)
				case o.Err != nil:
					fmt.Printf("%q: %v\n", o.Lead.Name, o.Err)
				default:
					dispatched++
					fmt.Printf("Job %d: %q -> %s (%s), score %.1f\n",
						o.JobID, o.Lead.Name, o.Worker.Name, o.Worker.Phone, o.Score)
				}
			}
			fmt.Printf("Dispatched %d of %d leads\n", dispatched, len(outcomes))
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "service keyword to match on")
	cmd.Flags().Int64Var(&leadID, "lead", 0, "dispatch a single lead by id instead of all new leads")
	cmd.Flags().Float64Var(&price, "price", 0, "job price to record")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum leads per run")
	return cmd
}

func CompleteJobCmd(db *store.DB) *cobra.Command {
	var rating float64

	cmd := &cobra.Command{
		Use:   "complete-job <job-id>",
		Short: "Mark a dispatched job complete and credit the worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0])
			if err != nil {
				return err
			}

			rated := cmd.Flags().Changed("rating")
			if rated && (rating < 0 || rating > 5) {
				return fmt.Errorf("--rating must be between 0 and 5")
			}

			if err := db.CompleteJob(cmd.Context(), jobID, rating, rated, nowFn()); err != nil {
				return err
			}
			if rated {
				fmt.Printf("Job %d complete, worker rated %.1f\n", jobID, rating)
			} else {
				fmt.Printf("Job %d complete\n", jobID)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&rating, "rating", 0, "customer rating for the worker (0-5)")
	return cmd
}
