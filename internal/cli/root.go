// Package cli implements the brandnav command-line interface.
//
// The main commands are:
//   - serve: run the header API over HTTP
//   - tree: print the navigation tree of a menu file
//
// Settings come from an optional config file, BRANDNAV_ environment
// variables (a .env file in the working directory is loaded first) and
// command flags, in increasing order of precedence.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mchmarny/brandnav/pkg/config"
	"github.com/mchmarny/brandnav/pkg/logger"
)

const appName = "brandnav"

var (
	version = "dev"     // Set at build time via -ldflags
	commit  = "none"    // Set at build time via -ldflags
	date    = "unknown" // Set at build time via -ldflags
)

// SetVersion sets the build information shown by the version command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// options are the flags shared by all commands.
type options struct {
	configFile string
	logLevel   string
	logFormat  string

	v *viper.Viper
}

// Execute runs the brandnav CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{v: config.New()}

	root := &cobra.Command{
		Use:           appName,
		Short:         "brandnav builds brand header navigation trees from site menus",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is fine.
			_ = godotenv.Load()

			level := opts.logLevel
			if level == "" {
				level = opts.v.GetString("log_level")
			}
			format := opts.logFormat
			if format == "" {
				format = opts.v.GetString("log_format")
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), appName, version, level, format))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: json or text (env LOG_FORMAT)")

	_ = opts.v.BindEnv("log_level", logger.EnvVarLogLevel)
	_ = opts.v.BindEnv("log_format", logger.EnvVarLogFormat)

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTreeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n", appName, version, commit, date)
		},
	}
}
