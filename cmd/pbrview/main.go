// Command pbrview renders a PBR sphere lit by point lights and an HDR
// environment, either in a window or headless to a PNG file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deferred-pbr/config"
	"deferred-pbr/internal/logger"
)

type flags struct {
	configPath string
	headless   bool
	out        string
	theta      float32
	phi        float32
	logLevel   string
	workers    int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "pbrview",
		Short:         "Deferred PBR viewer with image-based lighting",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return report(err)
			}
			defer logger.Sync()
			if f.headless {
				return report(runHeadless(cmd.Context(), cfg, f.out))
			}
			return report(runWindow(cmd.Context(), cfg))
		},
	}
	root.Flags().StringVar(&f.configPath, "config", "", "TOML configuration file")
	root.Flags().BoolVar(&f.headless, "headless", false, "render one frame on the CPU and write it to --out")
	root.Flags().StringVar(&f.out, "out", "frame.png", "output image for --headless")
	root.Flags().Float32Var(&f.theta, "theta", 90, "camera polar angle in degrees")
	root.Flags().Float32Var(&f.phi, "phi", 0, "camera azimuth in degrees")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
	root.Flags().IntVar(&f.workers, "workers", 0, "CPU workers for precompute and headless rendering (0 = all cores)")

	root.AddCommand(newConfigCommand())
	return root
}

// loadConfig resolves defaults, the config file and explicitly set flags,
// in that order, and initialises logging.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("theta") {
		cfg.Camera.Theta = f.theta
	}
	if cmd.Flags().Changed("phi") {
		cfg.Camera.Phi = f.phi
	}
	if cmd.Flags().Changed("workers") {
		cfg.Environment.Workers = f.workers
	}
	if f.logLevel != "" {
		cfg.Render.LogLevel = f.logLevel
	}
	if err := logger.Init(cfg.Render.LogLevel); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logger.Log.Debug("configuration loaded", zap.String("path", f.configPath))
	return cfg, nil
}

func report(err error) error {
	if err != nil {
		logger.Log.Error("pbrview failed", zap.Error(err))
		logger.Sync()
	}
	return err
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Encode(config.Default())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
