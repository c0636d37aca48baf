package profile

import (
	"context"
	"fmt"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	headerName    = "Profile"
	headerUser    = "User"
	headerSession = "Session Store"
)

// CommandList is the `profiles list` command
type CommandList struct{}

// Handler is the command handler
func (cmd *CommandList) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	profileMetas, err := user.Profiles()
	if err != nil {
		return err
	}

	if len(profileMetas) == 0 {
		ui.Print(terminal.NewTextLog("No available profiles to show"))
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(profileMetas))
	for _, meta := range profileMetas {
		p := profile
		if meta.Name != profile.Name {
			if p, err = user.NewProfile(meta.Name); err != nil {
				return err
			}
			if err := p.Load(); err != nil {
				return err
			}
		}

		rows = append(rows, map[string]interface{}{
			headerName:    p.Name,
			headerUser:    describeUser(ctx, p),
			headerSession: p.SessionStore(),
		})
	}

	ui.Print(terminal.NewTableLog(
		fmt.Sprintf("Found %d profile(s)", len(profileMetas)),
		[]string{headerName, headerUser, headerSession},
		rows...,
	))
	return nil
}

// describeUser reports the user of a profile's session
// without connecting to a shared session store
func describeUser(ctx context.Context, p *user.Profile) string {
	if session.IsRedisURL(p.SessionStore()) {
		if p.Username() == "" {
			return "(unknown)"
		}
		return p.Username() + " (shared session)"
	}

	storage := p.SessionStorage()
	token, err := session.NewTokens(storage).AccessToken(ctx)
	if err != nil || token == "" {
		return "(logged out)"
	}

	current, ok := session.NewStore(ctx, storage).User()
	if !ok {
		return p.Username()
	}
	return current.Display()
}
