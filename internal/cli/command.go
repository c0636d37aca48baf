package cli

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/terminal"
)

// Command is an executable CLI command
// This interface maps 1:1 to Cobra's Command.RunE phase
//
// Optionally, a Command may implement any of the other interfaces found below.
// The order of operations is:
//   1. CommandFlags.Flags: use this hook to register flags to parse
//   2. CommandDefinition.Access: the command's guard runs before any prompt
//   3. CommandInputs.Inputs: use this hook to prompt for any flags not provided
//   4. Command.Handler: this is the command hook
// At any point should an error occur, command execution will terminate
// and the ensuing steps will not be run
type Command interface {
	Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients Clients) error
}

// CommandFlags is a hook for commands to register local flags to be parsed
type CommandFlags interface {
	Flags(fs *pflag.FlagSet)
}

// CommandInputs returns the command inputs
type CommandInputs interface {
	Inputs() InputResolver
}

// InputResolver is an input resolver
type InputResolver interface {
	Resolve(profile *user.Profile, ui terminal.UI) error
}

// Clients are the clients available to a command handler
type Clients struct {
	Dashboard dashboard.Client
	Session   *session.Context
}

// Access is the level of authorization a command requires
type Access int

// set of supported command access levels
const (
	AccessNone Access = iota
	AccessAuthenticated
	AccessAdmin
)

// CommandDefinition is a command's definition that the CommandFactory
// can build a *cobra.Command from
type CommandDefinition struct {
	// Command is the command's implementation
	// If present, this value is used to specify the cobra.Command execution phases
	Command Command

	// SubCommands are the command's sub commands
	// This array is iteratively added to this Cobra command via (cobra.Command).AddCommand
	SubCommands []CommandDefinition

	// Description is the short command description shown in the 'help' output
	// This value maps 1:1 to Cobra's `Short` property
	Description string

	// Help is the long message shown in the 'help <this-command>' output
	// This value maps 1:1 to Cobra's `Long` property
	Help string

	// Use defines how the command is used
	// This value maps 1:1 to Cobra's `Use` property
	Use string

	// Display controls how the command is described in output
	// If left blank, the command's Use value will be used instead
	Display string

	// Aliases is the list of supported aliases for the command
	// This value maps 1:1 to Cobra's `Aliases` property
	Aliases []string

	// Access is the guard the command runs behind
	Access Access
}
