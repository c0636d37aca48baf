// admin-dev-server serves an in-memory dashboard API for local development of admin-cli.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockroom/admin-cli/internal/devserver"
)

type options struct {
	addr       string
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	seedFile   string
	quiet      bool
}

func main() {
	infoLogger := log.New(os.Stderr, "UTC INFO  ", log.Ltime|log.Lmsgprefix)
	errLogger := log.New(os.Stderr, "UTC ERROR ", log.Ltime|log.Lmsgprefix)

	var opts options

	cmd := &cobra.Command{
		Use:           "admin-dev-server",
		Short:         "Serve an in-memory dashboard API for local development",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, a []string) error {
			config := devserver.Config{
				Secret:          opts.secret,
				AccessTokenTTL:  opts.accessTTL,
				RefreshTokenTTL: opts.refreshTTL,
			}
			if !opts.quiet {
				config.AccessLog = os.Stderr
			}
			if opts.seedFile != "" {
				seed, err := devserver.LoadSeed(opts.seedFile)
				if err != nil {
					return err
				}
				config.Seed = seed
			}

			server, err := devserver.New(config)
			if err != nil {
				return err
			}

			go func() {
				<-c.Context().Done()
				if err := server.Shutdown(); err != nil {
					errLogger.Printf("failed to shut down: %s", err)
				}
			}()

			infoLogger.Printf("serving dashboard API at http://%s", opts.addr)
			infoLogger.Printf("seeded users: %s", strings.Join(server.Store().Usernames(), ", "))
			return server.Listen(opts.addr)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&opts.addr, "addr", devserver.DefaultAddr, "the address to listen on")
	fs.StringVar(&opts.secret, "secret", "", "the secret signing access tokens, generated when not set")
	fs.DurationVar(&opts.accessTTL, "access-ttl", devserver.DefaultAccessTokenTTL, "how long an access token is valid")
	fs.DurationVar(&opts.refreshTTL, "refresh-ttl", devserver.DefaultRefreshTokenTTL, "how long a refresh cookie is valid")
	fs.StringVar(&opts.seedFile, "seed", "", "a yaml file with the roles, users and products to start with")
	fs.BoolVar(&opts.quiet, "quiet", false, "disable the access log")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		errLogger.Print(err)
		stop()
		os.Exit(1)
	}
}
