package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/commands"
)

// Run runs the CLI
func Run() {
	// print commands in help/usage text in the order they are declared
	cobra.EnableCommandSorting = false

	cmd := &cobra.Command{
		Version:       cli.Version,
		Use:           cli.Name,
		Short:         "CLI tool to administer your inventory dashboard",
		Long:          fmt.Sprintf(`Use "%s [command] --help" for information on a specific command`, cli.Name),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	factory := cli.NewCommandFactory()

	cobra.OnInitialize(factory.Setup)

	cmd.Flags().SortFlags = false // ensures CLI help text displays global flags unsorted
	factory.SetGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(factory.Build(commands.Login))
	cmd.AddCommand(factory.Build(commands.Logout))
	cmd.AddCommand(factory.Build(commands.Whoami))
	cmd.AddCommand(factory.Build(commands.Dashboard))
	cmd.AddCommand(factory.Build(commands.Products))
	cmd.AddCommand(factory.Build(commands.Transactions))
	cmd.AddCommand(factory.Build(commands.Profiles))

	os.Exit(factory.Run(cmd))
}
