package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
)

func newImpersonateCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "impersonate <address>",
		Short: "Allow transactions from an address without its key",
		Long: `Allow transactions from an address without its key.

The grant lasts until stop-impersonating, a fork, or a node restart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cliutil.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				if _, err := f.ImpersonateAccount(ctx, addr); err != nil {
					return err
				}
				return s.print(cmd, accountResult{Address: addr.Hex(), Impersonated: true})
			})
		},
	}
}

func newStopImpersonatingCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "stop-impersonating <address>",
		Short: "Revoke a grant made by impersonate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cliutil.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				if err := f.Accounts.StopImpersonating(ctx, addr); err != nil {
					return err
				}
				return s.print(cmd, accountResult{Address: addr.Hex(), Impersonated: false})
			})
		},
	}
}

func newSetBalanceCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <address> <amount>",
		Short: "Overwrite the native balance of an address",
		Long: `Overwrite the native balance of an address.

The amount is in wei unless it carries a unit: 10ether, 1.5ether, 20gwei.
The previous balance is replaced, not added to.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cliutil.ParseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := cliutil.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				if err := f.SetBalance(ctx, addr, amount); err != nil {
					return err
				}
				return s.print(cmd, balanceResult{
					Address: addr.Hex(),
					Balance: amount.String(),
					Ether:   cliutil.FormatEther(amount),
				})
			})
		},
	}
}

func newBalanceCmd(s *state) *cobra.Command {
	var tokenFlag string
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Print the native or token balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cliutil.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				if tokenFlag == "" {
					balance, err := f.Client().Balance(ctx, addr)
					if err != nil {
						return err
					}
					return s.print(cmd, balanceResult{
						Address: addr.Hex(),
						Balance: balance.String(),
						Ether:   cliutil.FormatEther(balance),
					})
				}

				tokenAddr, err := cliutil.ParseAddress(tokenFlag)
				if err != nil {
					return err
				}
				balance, err := f.TokenBalance(ctx, tokenAddr, addr)
				if err != nil {
					return err
				}
				return s.print(cmd, balanceResult{
					Address: addr.Hex(),
					Token:   tokenAddr.Hex(),
					Balance: balance.String(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&tokenFlag, "token", "", "ERC-20 token address; the native balance when empty")
	return cmd
}
