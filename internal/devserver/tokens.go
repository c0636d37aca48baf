package devserver

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errInvalidAccessToken  = errors.New("invalid access token")
	errInvalidRefreshToken = errors.New("invalid refresh token")
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type refreshGrant struct {
	userID  string
	expires time.Time
}

// tokenIssuer signs access tokens and tracks the outstanding refresh tokens.
// A refresh token is single use: redeeming it revokes it.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu     sync.Mutex
	grants map[string]refreshGrant
}

func newTokenIssuer(config Config) *tokenIssuer {
	secret := config.Secret
	if secret == "" {
		secret = uuid.NewString()
	}
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  config.AccessTokenTTL,
		refreshTTL: config.RefreshTokenTTL,
		now:        config.Now,
		grants:     map[string]refreshGrant{},
	}
}

func (t *tokenIssuer) accessToken(userID, role string) (string, error) {
	now := t.now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// verify returns the user id the access token was issued to
func (t *tokenIssuer) verify(tokenString string) (string, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || claims.Subject == "" {
		return "", errInvalidAccessToken
	}
	return claims.Subject, nil
}

func (t *tokenIssuer) refreshToken(userID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := uuid.NewString()
	t.grants[token] = refreshGrant{userID: userID, expires: t.now().Add(t.refreshTTL)}
	return token
}

// redeem revokes the refresh token and returns the user it was issued to
func (t *tokenIssuer) redeem(token string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grant, ok := t.grants[token]
	if !ok {
		return "", errInvalidRefreshToken
	}
	delete(t.grants, token)

	if t.now().After(grant.expires) {
		return "", errInvalidRefreshToken
	}
	return grant.userID, nil
}

func (t *tokenIssuer) revoke(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.grants, token)
}
