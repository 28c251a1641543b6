package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/ingest"
	"dispatch-engine/internal/store"
)

func ImportWorkersCmd(db *store.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "import-workers <file.csv>",
		Short: "Import workers from a CSV file (columns: name,skills,phone,email,lat,lon)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sum, err := ingest.NewImporter(db).ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d workers (%d duplicate, %d skipped)\n",
				sum.Imported, sum.Duplicates, sum.Skipped)
			return nil
		},
	}
}

func AddWorkerCmd(db *store.DB) *cobra.Command {
	var in ingest.WorkerInput

	cmd := &cobra.Command{
		Use:   "add-worker",
		Short: "Register a single worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.HasLoc = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")

			id, err := ingest.NewImporter(db).AddWorker(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Added worker %q (id %d)\n", in.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "worker name (required)")
	cmd.Flags().StringVar(&in.Skills, "skills", "", "comma-separated skills (required)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().Float64Var(&in.Lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&in.Lon, "lon", 0, "longitude")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("skills")
	return cmd
}
