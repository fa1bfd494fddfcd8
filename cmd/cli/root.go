package cli

import (
	"context"
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/storacha/evmfixture/cmd/cli/flags"
	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/cmd/cliutil/format"
	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
	fixturefx "github.com/storacha/evmfixture/pkg/fx/fixture"
)

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

var log = logging.Logger("cmd")

const shortDescription = `
evmfixture puts a Hardhat compatible development node into a known state
`

const longDescription = `
evmfixture drives the administrative RPC of a Hardhat or Anvil node: it pins
mainnet forks, takes and reverts snapshots, impersonates and funds accounts,
moves block height and time, and acquires ERC-20 tokens from known holders.
`

// state is shared by the commands of one root command.
type state struct {
	v        *viper.Viper
	cfgFile  string
	logLevel string
	output   string
}

func NewRootCmd() *cobra.Command {
	s := &state{v: viper.New()}
	config.SetDefaults(s.v)

	rootCmd := &cobra.Command{
		Use:           "evmfixture",
		Short:         shortDescription,
		Long:          longDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.initLogging(); err != nil {
				return err
			}
			return s.initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "logging level")
	rootCmd.PersistentFlags().StringVarP(&s.output, "output", "o", "table", "output format: table or json")
	cobra.CheckErr(flags.SetupNodeFlags(s.v, rootCmd.PersistentFlags()))

	rootCmd.AddCommand(
		newSnapshotCmd(s),
		newRevertCmd(s),
		newForkCmd(s),
		newImpersonateCmd(s),
		newStopImpersonatingCmd(s),
		newSetBalanceCmd(s),
		newBalanceCmd(s),
		newMineCmd(s),
		newSetTimestampCmd(s),
		newAcquireCmd(s),
		newConfigCmd(s),
		newVersionCmd(),
	)
	return rootCmd
}

func (s *state) initConfig() error {
	s.v.SetEnvPrefix(cliutil.EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	s.v.AutomaticEnv()

	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

func (s *state) initLogging() error {
	if s.logLevel != "" {
		ll, err := logging.LevelFromString(s.logLevel)
		if err != nil {
			return err
		}
		logging.SetAllLoggers(ll)
		return nil
	}
	logging.SetLogLevel("node", "warn")
	logging.SetLogLevel("config", "warn")
	logging.SetLogLevel("fx/fixture", "warn")
	logging.SetLogLevel("fixture/snapshot", "warn")
	logging.SetLogLevel("fixture/fork", "warn")
	logging.SetLogLevel("fixture/account", "warn")
	logging.SetLogLevel("fixture/chaintime", "warn")
	logging.SetLogLevel("fixture/token", "warn")
	logging.SetLogLevel("cmd", "info")
	return nil
}

// withFixture loads the configuration, connects to the node and runs fn with
// a fixture over it. The connection is closed when fn returns.
func (s *state) withFixture(cmd *cobra.Command, fn func(ctx context.Context, f *fixture.Fixture, cfg config.FixtureConfig) error) error {
	cfg, err := config.Load[config.FixtureConfig](s.v)
	if err != nil {
		return err
	}

	var f *fixture.Fixture
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fixturefx.Module,
		fx.Populate(&f),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliutil.CommandTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warnf("closing node connection: %s", err)
		}
	}()

	return fn(ctx, f, cfg)
}

func (s *state) print(cmd *cobra.Command, result format.Tabular) error {
	outputFormat, err := format.ParseOutputFormat(s.output)
	if err != nil {
		return err
	}
	return format.NewFormatter(outputFormat, cmd.OutOrStdout()).Format(result)
}
