package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ngmenu/cmd/ngmenu/commands"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/log"
	"github.com/walteh/ngmenu/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	workDir    string
	debugLog   bool
)

// newRootCmd builds the command tree around rootOpts
func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ngmenu",
		Short: "Add a responsive menu to an Angular application",
		Long: `ngmenu adds header, footer and home components to an Angular workspace
and wires them into the app module, routes, shell page and stylesheets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context())
			cmd.SetContext(ctx)
			return newRootOpts(ctx, rootOpts)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewAddCmd(rootOpts),
		commands.NewProjectsCmd(rootOpts),
		newVersionCmd(rootOpts),
	)
	return rootCmd
}

// newRootOpts fills the dependencies every command shares
func newRootOpts(ctx context.Context, rootOpts *opts.RootOpts) error {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return errors.Errorf("resolving workspace directory: %w", err)
	}
	rootOpts.Dir = dir
	rootOpts.ConfigFile = configFile

	if rootOpts.Out == nil {
		rootOpts.Out = os.Stdout
	}
	rootOpts.Console = log.New(rootOpts.Out, *zerolog.Ctx(ctx))
	rootOpts.UserLogger = status.NewUserLoggerTo(ctx, rootOpts.Out)

	cfg, err := loadConfig(ctx, dir, configFile)
	if err != nil {
		return err
	}
	rootOpts.Config = cfg
	return nil
}

// loadConfig loads the explicit config file, or the one found in dir, or an
// empty config
func loadConfig(ctx context.Context, dir, file string) (*config.Config, error) {
	if file == "" {
		found, ok, err := config.Discover(ctx, dir)
		if err != nil {
			return nil, errors.Errorf("looking for config: %w", err)
		}
		if !ok {
			cfg := &config.Config{}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		file = found
	} else if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}

	cfg, err := config.Load(ctx, file)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", fmt.Sprintf("config file path (default: first of %v in the workspace)", config.FileNames))
	cmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "angular workspace directory")
	cmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if debugLog {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !debugLog {
		// user facing output goes through the console and user loggers
		logger = logger.Level(zerolog.WarnLevel)
	}
	zerolog.DefaultContextLogger = &logger
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}
