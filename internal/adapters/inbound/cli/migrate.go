package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/fsio"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/index"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/prompt"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/stylesheet"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/tui"
	"github.com/twmigrate/twmigrate/internal/application"
	"github.com/twmigrate/twmigrate/internal/domain"
)

func newMigrateCmd() *cobra.Command {
	var (
		apply       bool
		dryRun      bool
		resume      bool
		interactive bool
		noBackup    bool
		stepIDs     []string
		skipIDs     []string
		file        string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "migrate [path]",
		Short: "Execute the current migration plan",
		Long:  "Run the persisted plan's steps in dependency order against the project's source files. Without --apply nothing is written; with --continue a previous run's checkpoint is resumed.",
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

			// Reconcile the legacy inverse flag before anything
			// downstream sees a mutation decision.
			doApply, err := resolveApply(cmd.Flags().Changed("apply"), apply, cmd.Flags().Changed("dry-run"), dryRun)
			if err != nil {
				return err
			}

			cfg, err := config.New().Load(absPath)
			if err != nil {
				return err
			}

			store := state.New(absPath, cfg.StateDir)
			stylesheetPath := filepath.Join(absPath, cfg.Stylesheet)
			var prompter domain.Prompter
			if interactive {
				prompter = prompt.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), nil)
			}

			svc := application.NewMigrateService(
				store,
				store,
				fsio.New(),
				stylesheet.New(stylesheetPath),
				index.New(filepath.Join(absPath, domain.DefaultIndexPath), stylesheetPath),
				prompter,
				absPath,
			)

			report, err := svc.Run(application.MigrateOptions{
				Apply:       doApply,
				Continue:    resume,
				Interactive: interactive,
				Backup:      cfg.BackupEnabled() && !noBackup,
				IncludeIDs:  stepIDs,
				SkipIDs:     skipIDs,
				File:        file,
			})
			if err != nil {
				return fmt.Errorf("migrate failed: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write changes to disk (default is a preview)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Legacy inverse of --apply")
	_ = cmd.Flags().MarkHidden("dry-run")
	cmd.Flags().BoolVar(&resume, "continue", false, "Resume from the last checkpoint")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Confirm each step before applying")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip .bak copies of mutated files")
	cmd.Flags().StringSliceVar(&stepIDs, "steps", nil, "Run only these step ids")
	cmd.Flags().StringSliceVar(&skipIDs, "skip", nil, "Skip these step ids")
	cmd.Flags().StringVar(&file, "file", "", "Run only steps for this file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the report as JSON")

	return cmd
}

// resolveApply collapses --apply and the legacy --dry-run into the one
// authoritative mutation boolean.
func resolveApply(applySet, apply, drySet, dry bool) (bool, error) {
	if applySet && drySet && apply == dry {
		return false, fmt.Errorf("--apply and --dry-run conflict; pass exactly one")
	}
	if drySet {
		return !dry, nil
	}
	return apply, nil
}
