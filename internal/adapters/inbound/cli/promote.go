package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/stylesheet"
)

func newPromoteCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "promote <name> <pattern>",
		Short: "Promote a class pattern into a named utility",
		Long:  "Append a single @utility declaration to the shared stylesheet, outside the batch migration pipeline. A utility with the same name already in the stylesheet is an error.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := config.New().Load(absPath)
			if err != nil {
				return err
			}

			appender := stylesheet.New(filepath.Join(absPath, cfg.Stylesheet))
			if err := appender.Promote(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Utility %s written to %s\n", args[0], appender.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	return cmd
}
