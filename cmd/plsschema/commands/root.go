package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dhruvkb/plsschema/pkg/log"
	"github.com/dhruvkb/plsschema/pkg/paths"
	"github.com/dhruvkb/plsschema/pkg/plserrors"
	"github.com/dhruvkb/plsschema/pkg/publish"
	"github.com/dhruvkb/plsschema/pkg/tracing"
)

// EnvPrefix is prepended to upper-cased flag names to form the environment
// variables that override them.
const EnvPrefix = "PLS_SCHEMA"

var (
	ErrLogHandlerFailed = errors.New("log handler failed")
	ErrInvalidArgument  = plserrors.ErrInvalidArguments
)

func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	args := NewRootArgs()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
		Args:          cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			return runPublish(cc, args)
		},
	}

	cmd.PersistentFlags().StringVar(args.logLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(args.logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")

	cmd.Flags().StringVar(args.source, "source", paths.DefaultSourcePath,
		"YAML schema to publish, relative to the repository root")
	cmd.Flags().StringVar(args.dest, "dest", paths.DefaultDestDir,
		"Directory to publish to, relative to the repository root")
	cmd.Flags().BoolVar(args.strict, "strict", false,
		"Fail if $id does not end in "+publish.SourceSuffix)
	cmd.Flags().BoolVar(args.verify, "verify", false,
		"Compile the JSON schema before writing it")

	must(cmd.MarkFlagFilename("source", "yml", "yaml"))
	must(cmd.MarkFlagDirname("dest"))

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		if err := applyEnv(v, cc.Flags()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		h, err := log.CreateHandler(cc.ErrOrStderr(), args.GetLogLevel(), args.GetLogFormat())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
		}

		slog.SetDefault(slog.New(h))

		slog.Debug("ready to go")

		return nil
	}

	cmd.AddCommand(NewValidateCmd(args))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func runPublish(cc *cobra.Command, args *RootArgs) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	p := publish.NewPublisher(
		paths.Resolve(wd, args.GetSource()),
		paths.Resolve(wd, args.GetDest()),
	)
	p.Strict = args.GetStrict()
	p.Verify = args.GetVerify()
	p.Tracer = tracing.NewLoggingTracer(slog.Default())

	slog.Debug("publishing schema",
		slog.String("source", p.Source),
		slog.String("dest", p.Dest),
		slog.String("cmd", cc.CommandPath()),
	)

	res, err := p.Publish()
	if err != nil {
		return fmt.Errorf("publish schema: %w", err)
	}

	slog.Info("published schema",
		slog.String("id", res.ID),
		slog.String("json", res.JSONPath),
		slog.String("yaml", res.YAMLPath),
	)

	return nil
}

// applyEnv sets every flag that was not given on the command line from its
// environment variable, when one is set.
func applyEnv(v *viper.Viper, flags *pflag.FlagSet) error {
	var merr error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}

		if err := flags.Set(f.Name, v.GetString(f.Name)); err != nil {
			envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", envName, err))
		}
	})

	return merr
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
