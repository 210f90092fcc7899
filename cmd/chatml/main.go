package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chatml/common"
	"chatml/config"
	"chatml/misc"
	"chatml/registry"
	"chatml/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}

	if env.Templates, env.Themes, err = registry.Builtin(env.Log); err != nil {
		return ctx, fmt.Errorf("unable to prepare builtin registries: %w", err)
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	if env.Vault != nil {
		if er := env.Vault.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close state vault: %w", er))
		}
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "style engine for chat panel messages",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders a message template with a theme applied",
				OnUsageError: usageErrorHandler,
				Action:       runRender,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "template `NAME` to render (overrides configuration)"},
					&cli.StringFlag{Name: "theme", Aliases: []string{"s"}, Usage: "theme `NAME` to apply (overrides configuration)"},
					&cli.StringSliceFlag{Name: "token", Aliases: []string{"k"}, Usage: "content token as `KEY=VALUE`, repeatable"},
					&cli.StringSliceFlag{Name: "palette", Aliases: []string{"p"}, Usage: "palette override as `SLOT=COLOR`, repeatable"},
					&cli.StringFlag{Name: "content", Usage: "load tokens and palette from `FILE` (YAML, keys 'tokens' and 'palette')"},
					&cli.StringFlag{Name: "use-palette", Usage: "apply palette saved in the vault under `NAME`"},
					&cli.StringFlag{Name: "save-palette", Usage: "save the effective palette in the vault under `NAME`"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, DefaultText: "from configuration",
						Usage: "output `MODE` (supported modes: " + strings.Join(common.OutputModeNames(), ", ") + ")"},
				},
				ArgsUsage: "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write rendered markup to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "say",
				Usage:        "Renders a localized alert and delivers it to the panel stream",
				OnUsageError: usageErrorHandler,
				Action:       runSay,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Value: "server", Usage: "sender `NAME`"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "recipient player `NAME`"},
					&cli.StringFlag{Name: "severity", Value: common.SeverityInfo.String(),
						Usage: "alert `SEVERITY` (supported: " + strings.Join(common.SeverityNames(), ", ") + ")"},
				},
				ArgsUsage: "TITLE-CODE BODY-CODE [ARG...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
TITLE-CODE and BODY-CODE are phrase codes resolved against the recipient's
stored language preference. Unknown codes pass through verbatim, so plain
text works too. Extra arguments are substituted into the body phrase.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "registry",
				Usage:        "Inspects template and theme registries",
				OnUsageError: usageErrorHandler,
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists registered template and theme names",
						OnUsageError: usageErrorHandler,
						Action:       runRegistryList,
					},
					{
						Name:         "show",
						Usage:        "Prints template text or generated theme stylesheet",
						OnUsageError: usageErrorHandler,
						Action:       runRegistryShow,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "theme", Usage: "treat NAME as a theme and print its generated stylesheet"},
							&cli.StringSliceFlag{Name: "palette", Aliases: []string{"p"}, Usage: "palette override as `SLOT=COLOR`, repeatable"},
						},
						ArgsUsage: "NAME",
					},
				},
			},
			{
				Name:         "vault",
				Usage:        "Manipulates persistent player state",
				OnUsageError: usageErrorHandler,
				Commands: []*cli.Command{
					{Name: "get", Usage: "Prints value stored under KEY", Action: runVaultGet, ArgsUsage: "KEY", OnUsageError: usageErrorHandler},
					{Name: "put", Usage: "Stores VALUE under KEY", Action: runVaultPut, ArgsUsage: "KEY VALUE", OnUsageError: usageErrorHandler},
					{Name: "del", Usage: "Removes KEY", Action: runVaultDel, ArgsUsage: "KEY", OnUsageError: usageErrorHandler},
					{
						Name: "list", Usage: "Lists stored keys", Action: runVaultList, OnUsageError: usageErrorHandler,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "prefix", Usage: "only list keys starting with `PREFIX`"},
						},
					},
				},
			},
			{
				Name:         "version",
				Usage:        "Prints program version",
				OnUsageError: usageErrorHandler,
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintln(cmd.Writer, cmd.Root().Version)
					return nil
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
