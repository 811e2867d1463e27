package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
	"github.com/twmigrate/twmigrate/internal/application"
)

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show the current plan and checkpoint state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := config.New().Load(absPath)
			if err != nil {
				return err
			}

			store := state.New(absPath, cfg.StateDir)
			status, err := application.NewStatusService(store, store).Status()
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan:      %s (%s, strategy %s)\n", status.PlanPath, status.PlanHash, status.Strategy)
			fmt.Fprintf(out, "Steps:     %d total, %d completed, %d failed, %d skipped, %d remaining\n",
				status.TotalSteps, status.Completed, status.Failed, status.Skipped, status.Remaining)
			if status.HasCheckpoint && !status.CheckpointValid {
				fmt.Fprintln(out, "Checkpoint: INVALID (bound to a different plan; discard it before resuming)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output status as JSON")
	return cmd
}
