// Package cmd provides the CLI commands for dockerignore.
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dockerignore "github.com/Sriram-PR/go-dockerignore"
	"github.com/Sriram-PR/go-dockerignore/buildcontext"
	"github.com/Sriram-PR/go-dockerignore/source"
)

// envPrefix is the prefix for environment overrides, e.g. DOCKERIGNORE_CONTEXT.
const envPrefix = "DOCKERIGNORE"

// app carries the resolved configuration shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command for the dockerignore CLI.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "dockerignore",
		Short: "Inspect what a .dockerignore keeps out of a build context",
		Long: `dockerignore evaluates a build context against its .dockerignore the
way the context is packaged for a build daemon: built-in patterns first,
then the ignore file, then re-inclusions for the ignore file and the
Dockerfile. The last matching pattern decides.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("context", "C", ".", "build context directory")
	flags.StringP("file", "f", source.DefaultDockerfile, "Dockerfile path, relative to the context")
	flags.String("ignore-file", source.DefaultIgnoreFileName, "ignore file name")
	flags.Bool("no-builtins", false, "do not add the built-in IDE patterns")
	flags.Bool("case-insensitive", false, "match patterns case-insensitively")
	flags.Bool("debug", false, "enable debug logging")
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newPatternsCmd(a))
	cmd.AddCommand(newPackCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads the optional config file. Flags and environment still
// take precedence over its values.
func (a *app) loadConfig() error {
	if a.cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(a.cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", a.cfgFile, err)
	}
	return nil
}

// logger builds the stderr logger for one command run.
func (a *app) logger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "dockerignore"})
	if a.v.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// sourceOptions maps configuration onto pattern assembly options.
func (a *app) sourceOptions(logger *log.Logger) source.Options {
	opts := source.Options{
		Dir:            a.v.GetString("context"),
		Dockerfile:     a.v.GetString("file"),
		IgnoreFileName: a.v.GetString("ignore-file"),
		Logger:         logger,
	}
	if a.v.GetBool("no-builtins") {
		opts.BuiltinPatterns = []string{}
	}
	return opts
}

// load assembles and compiles the pattern list for the configured context.
func (a *app) load(cmd *cobra.Command) (*source.PatternList, *dockerignore.Matcher, *log.Logger, error) {
	logger := a.logger(cmd)

	list, err := source.Load(cmd.Context(), a.sourceOptions(logger))
	if err != nil {
		return nil, nil, nil, err
	}

	m := list.Matcher(dockerignore.MatcherOptions{
		CaseInsensitive: a.v.GetBool("case-insensitive"),
	})
	logger.Debug("compiled patterns", "count", m.Len(), "file", list.Path)

	return list, m, logger, nil
}

// walker builds a context walker for the configured context.
func (a *app) walker(cmd *cobra.Command) (*buildcontext.Walker, error) {
	_, m, logger, err := a.load(cmd)
	if err != nil {
		return nil, err
	}
	return buildcontext.New(a.v.GetString("context"), m, logger)
}
