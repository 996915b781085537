package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aloft-io/aloft/cmd/aloft-simd/app/options"
	"github.com/aloft-io/aloft/internal/sim/config"
	"github.com/aloft-io/aloft/pkg/log"
)

const commandDesc = `The Aloft simulator daemon executes declarative flight missions against a
simulated vehicle: it loads a mission and vehicle from the library, runs the
pre-flight safety checks, flies the command sequence with fixed-timestep
kinematics and streams telemetry to the console, the MQTT broker and the
flight log archive.`

// NewSimdCommand builds the aloft-simd root command.
func NewSimdCommand() *cobra.Command {
	opts := options.NewSimdOptions()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "aloft-simd",
		Short:        "Run the Aloft mission simulator",
		Long:         commandDesc,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
				if err := viper.Unmarshal(opts); err != nil {
					return fmt.Errorf("failed to apply config file: %w", err)
				}
			}
			log.Init(opts.Log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a YAML config file. Flags override it.")
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newListCommand(opts))
	return cmd
}

func run(opts *options.SimdOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sim, err := cfg.NewSimulator()
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return sim.Run(ctx)
}

// newListCommand enumerates the mission library.
func newListCommand(opts *options.SimdOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the missions in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := config.NewFileProvider(opts.LibraryDir, log.Std())
			if err != nil {
				return err
			}
			infos, err := provider.ListMissions()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(os.Stdout, "no missions found")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("ID", "NAME", "MODEL", "COMMANDS", "DESCRIPTION")
			for _, info := range infos {
				table.AddRow(info.ID, info.Name, info.TargetModel, info.Commands, info.Description)
			}
			fmt.Fprintln(os.Stdout, table)
			return nil
		},
	}
}
