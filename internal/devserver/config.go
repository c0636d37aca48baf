package devserver

import (
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// set of server defaults
const (
	DefaultAddr              = "127.0.0.1:3000"
	DefaultAccessTokenTTL    = 15 * time.Minute
	DefaultRefreshTokenTTL   = 7 * 24 * time.Hour
	DefaultLowStockThreshold = 10

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Config configures the dev server
type Config struct {
	// Secret signs the access tokens
	Secret string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// LowStockThreshold is the quantity below which a product counts as low stock
	LowStockThreshold int

	// BcryptCost hashes the seeded passwords
	BcryptCost int

	// Seed populates the store, defaults to DefaultSeed
	Seed *Seed

	// AccessLog receives one line per request when set
	AccessLog io.Writer

	// Now reads the server clock
	Now func() time.Time
}

func (config Config) withDefaults() Config {
	if config.AccessTokenTTL <= 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL <= 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.LowStockThreshold <= 0 {
		config.LowStockThreshold = DefaultLowStockThreshold
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return config
}
