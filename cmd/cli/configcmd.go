package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/cmd/cli/flags"
	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/pkg/config"
)

func newConfigCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the evmfixture configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(s))
	return cmd
}

func newConfigInitCmd(s *state) *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Write a configuration file.

Values come from flags, EVMFIXTURE_* environment variables and defaults, in
that order.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return flags.AddAndBindFlags(s.v, cmd.Flags(), flags.AcquisitionBindings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load[config.FixtureConfig](s.v)
			if err != nil {
				return err
			}

			flag := os.O_WRONLY | os.O_CREATE | lo.Ternary(force, os.O_TRUNC, os.O_EXCL)
			out, err := os.OpenFile(path, flag, 0o644)
			if err != nil {
				if errors.Is(err, fs.ErrExist) {
					return fmt.Errorf("%s already exists, use --force to overwrite it", path)
				}
				return fmt.Errorf("creating config file: %w", err)
			}
			defer out.Close()

			if err := cfg.WriteTOML(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", cliutil.ConfigFileName, "file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	flags.AddAcquisitionFlags(cmd.Flags())
	return cmd
}
