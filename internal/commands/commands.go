package commands

import (
	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/commands/dashboard"
	"github.com/stockroom/admin-cli/internal/commands/login"
	"github.com/stockroom/admin-cli/internal/commands/logout"
	"github.com/stockroom/admin-cli/internal/commands/products"
	"github.com/stockroom/admin-cli/internal/commands/profile"
	"github.com/stockroom/admin-cli/internal/commands/transactions"
	"github.com/stockroom/admin-cli/internal/commands/whoami"
)

// set of commands
var (
	Login = cli.CommandDefinition{
		Command:     &login.Command{},
		Use:         "login",
		Description: "Log in with your dashboard username and password",
		Help: `Log in with your dashboard username and password

Starts a new session for the current profile. If another user is logged in
with the profile, you will be asked to confirm ending their session first.`,
	}
	Logout = cli.CommandDefinition{
		Command:     &logout.Command{},
		Use:         "logout",
		Description: "Terminate the current user's session",
		Help:        "Ends the session on the dashboard server and removes it from the current profile.",
	}
	Whoami = cli.CommandDefinition{
		Command:     &whoami.Command{},
		Use:         "whoami",
		Description: "Display the current user's details",
		Help: `Display the current user's details

Verifies the session with the dashboard server, then displays the user and
when the current access token expires.`,
		Access: cli.AccessAuthenticated,
	}

	Dashboard = cli.CommandDefinition{
		Command:     &dashboard.Command{},
		Use:         "dashboard",
		Aliases:     []string{"stats"},
		Description: "Display the inventory overview",
		Help:        "Displays product, stock and transaction totals. Requires the admin role.",
		Access:      cli.AccessAdmin,
	}

	Products = cli.CommandDefinition{
		Use:         "products",
		Aliases:     []string{"product"},
		Description: "Manage the product catalog",
		SubCommands: []cli.CommandDefinition{
			{
				Use:         "list",
				Aliases:     []string{"ls"},
				Display:     "products list",
				Description: "List the products of the catalog",
				Command:     &products.CommandList{},
				Access:      cli.AccessAuthenticated,
			},
			{
				Use:         "get",
				Display:     "products get",
				Description: "Display a product",
				Command:     &products.CommandGet{},
				Access:      cli.AccessAuthenticated,
			},
			{
				Use:         "create",
				Display:     "products create",
				Description: "Add a product to the catalog",
				Command:     &products.CommandCreate{},
				Access:      cli.AccessAdmin,
			},
			{
				Use:         "update",
				Display:     "products update",
				Description: "Change the details of a product",
				Command:     &products.CommandUpdate{},
				Access:      cli.AccessAdmin,
			},
			{
				Use:         "delete",
				Aliases:     []string{"rm"},
				Display:     "products delete",
				Description: "Remove a product from the catalog",
				Command:     &products.CommandDelete{},
				Access:      cli.AccessAdmin,
			},
		},
	}

	Transactions = cli.CommandDefinition{
		Use:         "transactions",
		Aliases:     []string{"transaction", "tx"},
		Description: "Manage the inventory transactions",
		SubCommands: []cli.CommandDefinition{
			{
				Use:         "list",
				Aliases:     []string{"ls"},
				Display:     "transactions list",
				Description: "List the recorded stock movements",
				Command:     &transactions.CommandList{},
				Access:      cli.AccessAuthenticated,
			},
			{
				Use:         "create",
				Display:     "transactions create",
				Description: "Record a stock movement in or out of a product",
				Help: `Record a stock movement in or out of a product

Recording a movement out of a product fails when the product does not have
enough stock.`,
				Command: &transactions.CommandCreate{},
				Access:  cli.AccessAuthenticated,
			},
		},
	}

	Profiles = cli.CommandDefinition{
		Use:         "profiles",
		Aliases:     []string{"profile"},
		Description: "Manage the profiles of your local CLI environment",
		SubCommands: []cli.CommandDefinition{
			{
				Use:         "list",
				Aliases:     []string{"ls"},
				Display:     "profiles list",
				Description: "List the profiles of your local CLI environment",
				Command:     &profile.CommandList{},
			},
		},
	}
)
