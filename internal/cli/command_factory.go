package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/guard"
	"github.com/stockroom/admin-cli/internal/nav"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/telemetry"
	"github.com/stockroom/admin-cli/internal/terminal"
	"github.com/stockroom/admin-cli/internal/utils/flags"
)

const (
	flagRefreshPerRequest      = "refresh-per-request"
	flagRefreshPerRequestUsage = "refresh the session separately for every request that fails authorization"
)

// CommandFactory is a command factory
type CommandFactory struct {
	profile           *user.Profile
	ui                terminal.UI
	uiConfig          terminal.UIConfig
	inReader          *os.File
	outWriter         *os.File
	errWriter         *os.File
	errLogger         *log.Logger
	telemetryService  *telemetry.Service
	refreshPerRequest bool

	session       *session.Context
	storageCloser io.Closer
	dashboard     dashboard.Client
	identity      *guard.Identity
}

// NewCommandFactory creates a new command factory
func NewCommandFactory() *CommandFactory {
	errLogger := log.New(os.Stderr, "UTC ERROR ", log.Ltime|log.Lmsgprefix)

	profile, profileErr := user.NewDefaultProfile()
	if profileErr != nil {
		errLogger.Fatal(profileErr)
	}

	return &CommandFactory{
		profile:   profile,
		errLogger: errLogger,
	}
}

// Build builds a Cobra command from the specified CommandDefinition
func (factory *CommandFactory) Build(command CommandDefinition) *cobra.Command {
	display := command.Display
	if display == "" {
		display = command.Use
	}

	cmd := cobra.Command{
		Use:     command.Use,
		Short:   command.Description,
		Long:    command.Help,
		Aliases: command.Aliases,
	}

	cmd.InheritedFlags().SortFlags = false // ensures command usage text displays global flags unsorted

	for _, subCommand := range command.SubCommands {
		cmd.AddCommand(factory.Build(subCommand))
	}

	if command.Command != nil {
		if command, ok := command.Command.(CommandFlags); ok {
			fs := cmd.Flags()
			fs.SortFlags = false // ensures command flags are added unsorted
			command.Flags(fs)
		}

		cmd.PersistentPreRunE = func(c *cobra.Command, a []string) error {
			factory.ensureUI()
			c.SetIn(factory.inReader)
			c.SetOut(factory.outWriter)
			c.SetErr(factory.errWriter)

			if err := factory.profile.ResolveFlags(); err != nil {
				return errDisableUsage{err}
			}

			factory.telemetryService = telemetry.NewService(
				factory.profile.Flags.TelemetryMode,
				factory.profile.MetricsPath(),
				"",
				display,
				Version,
			)

			if err := factory.openSession(c.Context()); err != nil {
				return errDisableUsage{err}
			}
			return nil
		}

		access := command.Access
		cmd.PreRunE = func(c *cobra.Command, a []string) error {
			factory.telemetryService.TrackEvent(telemetry.EventTypeCommandStart)

			if err := factory.checkAccess(c.Context(), access); err != nil {
				factory.trackError(err)
				return fmt.Errorf("%s failed: %w", display, errDisableUsage{err})
			}

			if command, ok := command.Command.(CommandInputs); ok {
				if err := command.Inputs().Resolve(factory.profile, factory.ui); err != nil {
					return fmt.Errorf("%s setup failed: %w", display, err)
				}
			}
			return nil
		}

		cmd.RunE = func(c *cobra.Command, a []string) error {
			if err := command.Command.Handler(c.Context(), factory.profile, factory.ui, Clients{
				Dashboard: factory.dashboard,
				Session:   factory.session,
			}); err != nil {
				factory.trackError(err)
				return fmt.Errorf("%s failed: %w", display, errDisableUsage{err})
			}

			factory.telemetryService.TrackEvent(telemetry.EventTypeCommandComplete)
			return nil
		}
	}

	return &cmd
}

// openSession opens the durable storage named by the profile and builds
// the session context and dashboard client on top of it
func (factory *CommandFactory) openSession(ctx context.Context) error {
	var storage session.Storage
	if store := factory.profile.Flags.SessionStore; session.IsRedisURL(store) {
		redisStorage, err := session.OpenRedisStorage(ctx, store, factory.profile.RedisNamespace())
		if err != nil {
			return err
		}
		storage = redisStorage
		factory.storageCloser = redisStorage
	} else {
		storage = factory.profile.SessionStorage()
	}

	factory.session = session.NewContext(ctx, storage)
	factory.dashboard = dashboard.NewAuthClient(factory.profile.Flags.APIBaseURL, factory.session, dashboard.ClientOptions{
		Redirector:        factory.redirector(ctx),
		Observer:          factory.telemetryService,
		ErrLogger:         factory.errLogger,
		RefreshPerRequest: factory.refreshPerRequest,
	})
	factory.identity = guard.NewIdentity(factory.dashboard, guard.DefaultStaleTime)
	return nil
}

// redirector ends the local session when a user is sent back to login;
// the command itself fails with an error suggesting where to go next
func (factory *CommandFactory) redirector(ctx context.Context) nav.Redirector {
	return nav.RedirectorFunc(func(route nav.Route) {
		if route != nav.RouteLogin {
			return
		}
		if factory.identity != nil {
			factory.identity.Invalidate()
		}
		if err := factory.session.Users.Clear(context.WithoutCancel(ctx)); err != nil {
			factory.errLogger.Printf("failed to clear current user: %s", err)
		}
	})
}

func (factory *CommandFactory) checkAccess(ctx context.Context, access Access) error {
	if access == AccessNone {
		return nil
	}

	options := guard.Options{
		Redirector: factory.redirector(ctx),
		OnState: func(state guard.State) {
			if state == guard.StateLoading {
				factory.ui.Print(terminal.NewDebugLog("Verifying session..."))
			}
		},
	}

	var g guard.Guard = guard.NewAuthGuard(factory.session, factory.identity, options)
	if access == AccessAdmin {
		g = guard.NewAdminGuard(factory.session, factory.identity, options)
	}

	decision, err := g.Check(ctx)
	if err != nil {
		return err
	}
	factory.telemetryService.SetUser(decision.User.ID)
	return nil
}

func (factory *CommandFactory) trackError(err error) {
	factory.telemetryService.TrackEvent(
		telemetry.EventTypeCommandError,
		telemetry.EventData{Key: telemetry.EventDataKeyErr, Value: err},
	)
}

// Close closes the command factory
func (factory *CommandFactory) Close() {
	if factory.telemetryService != nil {
		if err := factory.telemetryService.Close(); err != nil {
			factory.errLogger.Printf("failed to write telemetry: %s", err)
		}
	}

	if factory.storageCloser != nil {
		factory.storageCloser.Close()
	}

	if factory.uiConfig.OutputTarget != "" {
		factory.outWriter.Close()
	}
}

// Run executes the command and returns the process exit code
func (factory *CommandFactory) Run(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer factory.Close()

	if err := cmd.ExecuteContext(ctx); err != nil {
		handleUsage(cmd, err)

		if factory.ui == nil {
			factory.errLogger.Print(err)
			return 1
		}

		factory.ui.Print(errorLogs(err)...)
		return 1
	}
	return 0
}

func errorLogs(err error) []terminal.Log {
	logs := []terminal.Log{terminal.NewErrorLog(err)}

	var suggester CommandSuggester
	if errors.As(err, &suggester) {
		commands := suggester.SuggestedCommands()
		items := make([]interface{}, len(commands))
		for i, command := range commands {
			items[i] = command
		}
		logs = append(logs, terminal.NewFollowupLog(terminal.MsgSuggestedCommands, items...))
	}
	return logs
}

// SetGlobalFlags sets the global flags
func (factory *CommandFactory) SetGlobalFlags(fs *pflag.FlagSet) {
	fs.SortFlags = false // ensures global flags are added unsorted

	// profile flags
	fs.StringVar(&factory.profile.Name, user.FlagProfile, user.DefaultProfile, user.FlagProfileUsage)
	fs.StringVar(&factory.profile.Flags.SessionStore, user.FlagSessionStore, "", user.FlagSessionStoreUsage)
	fs.Var(&factory.profile.Flags.TelemetryMode, telemetry.FlagMode, telemetry.FlagModeUsage)

	// ui flags
	fs.StringVarP(&factory.uiConfig.OutputTarget, terminal.FlagOutputTarget, terminal.FlagOutputTargetShort, "", terminal.FlagOutputTargetUsage)
	fs.VarP(&factory.uiConfig.OutputFormat, terminal.FlagOutputFormat, terminal.FlagOutputFormatShort, terminal.FlagOutputFormatUsage)
	fs.BoolVar(&factory.uiConfig.DisableColors, terminal.FlagDisableColors, false, terminal.FlagDisableColorsUsage)
	fs.BoolVarP(&factory.uiConfig.AutoConfirm, terminal.FlagAutoConfirm, terminal.FlagAutoConfirmShort, false, terminal.FlagAutoConfirmUsage)

	// hidden flags
	fs.StringVar(&factory.profile.Flags.APIBaseURL, user.FlagAPIBaseURL, "", user.FlagAPIBaseURLUsage)
	flags.MarkHidden(fs, user.FlagAPIBaseURL)

	fs.BoolVar(&factory.refreshPerRequest, flagRefreshPerRequest, false, flagRefreshPerRequestUsage)
	flags.MarkHidden(fs, flagRefreshPerRequest)
}

// Setup initializes the command factory
func (factory *CommandFactory) Setup() {
	if err := factory.profile.Load(); err != nil {
		factory.errLogger.Fatal(err)
	}

	if filepath := factory.uiConfig.OutputTarget; filepath != "" {
		f, err := os.OpenFile(filepath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0660)
		if err != nil {
			factory.errLogger.Fatal(fmt.Errorf("failed to open target file: %w", err))
		}
		factory.outWriter = f
	}
}

func (factory *CommandFactory) ensureUI() {
	if factory.inReader == nil {
		factory.inReader = os.Stdin
	}

	if factory.outWriter == nil {
		factory.outWriter = os.Stdout
	}

	if factory.errWriter == nil {
		if factory.uiConfig.OutputTarget != "" {
			factory.errWriter = factory.outWriter
		} else {
			factory.errWriter = os.Stderr
		}
	}

	if factory.ui == nil {
		factory.ui = terminal.NewUI(factory.uiConfig, factory.inReader, factory.outWriter, factory.errWriter, factory.errLogger)
	}
}

func handleUsage(cmd *cobra.Command, err error) {
	var disableUsage DisableUsage
	if errors.As(err, &disableUsage) {
		return
	}
	fmt.Println(cmd.UsageString())
}
