package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/cmd/cli/flags"
	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
)

type acquireArgs struct {
	Source string `validate:"required,eth_addr"`
	Token  string `validate:"required,eth_addr"`
	Dest   string `validate:"required,eth_addr"`
	Amount string `validate:"required"`
}

func newAcquireCmd(s *state) *cobra.Command {
	var in acquireArgs
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Transfer ERC-20 tokens from a known holder to an address",
		Long: `Transfer ERC-20 tokens from a known holder to an address.

The holder is impersonated and its native balance is overwritten with the gas
allowance before it sends the transfer. The amount is in the token's base
units, as a decimal or 0x-prefixed integer; unit suffixes such as "ether" are
rejected. Nothing is undone if the transfer fails.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return flags.AddAndBindFlags(s.v, cmd.Flags(), flags.AcquisitionBindings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Validate(in); err != nil {
				return err
			}
			amount, err := cliutil.ParseBaseUnits(in.Amount)
			if err != nil {
				return err
			}
			source, err := cliutil.ParseAddress(in.Source)
			if err != nil {
				return fmt.Errorf("--source: %w", err)
			}
			tokenAddr, err := cliutil.ParseAddress(in.Token)
			if err != nil {
				return fmt.Errorf("--token: %w", err)
			}
			dest, err := cliutil.ParseAddress(in.Dest)
			if err != nil {
				return fmt.Errorf("--dest: %w", err)
			}

			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				receipt, err := f.AcquireTokens(ctx, source, tokenAddr, dest, amount)
				if err != nil {
					return err
				}
				log.Infow("acquired tokens", "token", tokenAddr, "dest", dest, "amount", amount)
				return s.print(cmd, receiptResult{
					TxHash:  receipt.TxHash.Hex(),
					Block:   receipt.BlockNumber.Uint64(),
					GasUsed: receipt.GasUsed,
					Amount:  amount.String(),
				})
			})
		},
	}

	cmd.Flags().StringVar(&in.Source, "source", "", "address holding the tokens")
	cmd.Flags().StringVar(&in.Token, "token", "", "ERC-20 token address")
	cmd.Flags().StringVar(&in.Dest, "dest", "", "address receiving the tokens")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "amount in the token's base units (no unit suffix)")
	flags.AddAcquisitionFlags(cmd.Flags())
	return cmd
}
