package dashboard

import (
	"context"
	"net/http"

	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/api"
)

const (
	authLoginPath   = "/auth/login"
	authLogoutPath  = "/auth/logout"
	authRefreshPath = "/auth/refresh"
	userInfoPath    = "/users/info"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the session issued by the dashboard on login or refresh
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         session.User `json:"user"`
}

func (c *client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	res, err := c.doJSON(
		ctx,
		http.MethodPost,
		authLoginPath,
		loginPayload{username, password},
		api.RequestOptions{PreventRefresh: true},
	)
	if err != nil {
		return AuthResponse{}, err
	}

	if err := c.session.Cookies.Update(ctx, res.Cookies()); err != nil {
		res.Body.Close()
		return AuthResponse{}, ErrRequestFailed{err}
	}

	var auth AuthResponse
	if err := decodeData(res, &auth); err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

func (c *client) Logout(ctx context.Context) error {
	options := api.RequestOptions{PreventRefresh: true}
	if err := c.attachRefreshCookie(ctx, &options); err != nil {
		return err
	}

	res, err := c.do(ctx, http.MethodPost, authLogoutPath, options)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := c.session.Cookies.Update(ctx, res.Cookies()); err != nil {
		return ErrRequestFailed{err}
	}
	return nil
}

// Refresh exchanges the stored refresh cookie for a new access token.
// It never triggers another refresh itself.
func (c *client) Refresh(ctx context.Context) (string, error) {
	options := api.RequestOptions{PreventRefresh: true}
	if err := c.attachRefreshCookie(ctx, &options); err != nil {
		return "", err
	}

	res, err := c.do(ctx, http.MethodGet, authRefreshPath, options)
	if err != nil {
		return "", err
	}

	if err := c.session.Cookies.Update(ctx, res.Cookies()); err != nil {
		res.Body.Close()
		return "", ErrRequestFailed{err}
	}

	var auth AuthResponse
	if err := decodeData(res, &auth); err != nil {
		return "", err
	}
	if auth.AccessToken == "" {
		return "", ErrRequestFailed{errMissingAccessToken}
	}
	return auth.AccessToken, nil
}

func (c *client) UserInfo(ctx context.Context) (session.User, error) {
	res, err := c.do(ctx, http.MethodGet, userInfoPath, api.RequestOptions{})
	if err != nil {
		return session.User{}, err
	}

	var user session.User
	if err := decodeData(res, &user); err != nil {
		return session.User{}, err
	}
	return user, nil
}

func (c *client) attachRefreshCookie(ctx context.Context, options *api.RequestOptions) error {
	cookie, err := c.session.Cookies.Load(ctx)
	if err != nil {
		return ErrRequestFailed{err}
	}
	if cookie == nil {
		return nil
	}

	options.Header = cloneHeader(options.Header)
	options.Header.Add(api.HeaderCookie, (&http.Cookie{Name: cookie.Name, Value: cookie.Value}).String())
	return nil
}
