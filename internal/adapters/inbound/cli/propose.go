package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/gitinfo"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/tui"
	"github.com/twmigrate/twmigrate/internal/application"
	"github.com/twmigrate/twmigrate/internal/domain"
)

func newProposeCmd() *cobra.Command {
	var (
		from       string
		strategy   string
		include    []string
		exclude    []string
		maxChanges int
		preview    bool
		staged     bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "propose [path]",
		Short: "Build a migration plan from a violation stream",
		Long:  "Read lint violations from a file or stdin, resolve them into typed fix steps, order them by dependency, and persist the plan for a later migrate run.",
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

			violations, err := readViolations(cmd, from)
			if err != nil {
				return err
			}

			opts := application.ProposeOptions{
				Strategy:    cfg.Strategy,
				Include:     cfg.Include,
				Exclude:     cfg.Exclude,
				MaxChanges:  cfg.MaxChanges,
				Preview:     preview,
				StagedOnly:  staged,
				ProjectPath: absPath,
			}
			if strategy != "" {
				opts.Strategy = domain.Strategy(strategy)
			}
			if len(include) > 0 {
				opts.Include = include
			}
			if len(exclude) > 0 {
				opts.Exclude = exclude
			}
			if cmd.Flags().Changed("max-changes") {
				opts.MaxChanges = maxChanges
			}

			store := state.New(absPath, cfg.StateDir)
			svc := application.NewProposeService(store, gitinfo.New())

			plan, err := svc.Propose(violations, opts)
			if err != nil {
				return fmt.Errorf("propose failed: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPlan(plan))
			if !preview {
				fmt.Fprintf(cmd.OutOrStdout(), "\n  Plan written to %s\n", store.PlanPath())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Violation stream: a JSON file, or '-' for stdin")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy: conservative, balanced, or aggressive")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Keep only these rule keys")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Drop these rule keys")
	cmd.Flags().IntVar(&maxChanges, "max-changes", 0, "Cap violations per file (0 = unlimited)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show the plan without persisting it")
	cmd.Flags().BoolVar(&staged, "staged", false, "Keep only violations in git-staged files")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the plan as JSON")

	return cmd
}

func readViolations(cmd *cobra.Command, from string) ([]domain.Violation, error) {
	var r io.Reader
	switch from {
	case "":
		return nil, fmt.Errorf("no violation stream: pass --from <file> or --from - for stdin")
	case "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(from)
		if err != nil {
			return nil, fmt.Errorf("opening violation stream: %w", err)
		}
		defer f.Close()
		r = f
	}
	return application.ParseViolations(r)
}
