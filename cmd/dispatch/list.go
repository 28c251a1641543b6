package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/store"
)

func ListLeadsCmd(db *store.DB) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list-leads",
		Short: "Show collected leads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := db.ListLeads(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPHONE\tEMAIL\tSTATUS\tCONTACTS")
			for _, l := range leads {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
					l.ID, l.Name, l.Category, l.Phone, l.Email, l.Status, l.ContactCount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return cmd
}

func ListWorkersCmd(db *store.DB) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list-workers",
		Short: "Show active workers, busiest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := db.ListWorkers(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSKILLS\tPHONE\tRATING\tJOBS")
			for _, wk := range workers {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%d\n",
					wk.ID, wk.Name, wk.Skills, wk.Phone, wk.Rating, wk.JobsCompleted)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return cmd
}

func ListJobsCmd(db *store.DB) *cobra.Command {
	var (
		limit  int
		status string
	)

	cmd := &cobra.Command{
		Use:   "list-jobs",
		Short: "Show dispatch history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := domain.JobStatus(status)
			if status != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			jobs, err := db.ListJobs(cmd.Context(), st, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSERVICE\tLEAD\tWORKER\tWORKER PHONE\tPRICE\tSTATUS")
			for _, j := range jobs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.0f\t%s\n",
					j.ID, j.Service, j.LeadName, j.WorkerName, j.WorkerPhone, j.Price, j.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (dispatched, complete, paid, cancelled)")
	return cmd
}
