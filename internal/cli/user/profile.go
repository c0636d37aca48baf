package user

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/stockroom/admin-cli/internal/telemetry"
)

const (
	// DefaultProfile is the default profile name
	DefaultProfile = "default"

	// ProfileType is the file type for profiles
	ProfileType = "yaml"

	// SessionStoreProfile keeps the session in the CLI profile file
	SessionStoreProfile = "profile"

	envPrefix = "admin"

	metricsDir = "metrics"
)

// set of supported CLI user profile flags
const (
	FlagProfile      = "profile"
	FlagProfileUsage = `specify your profile (Default value: "default")`

	FlagAPIBaseURL      = "api-url"
	FlagAPIBaseURLUsage = "specify the base dashboard API URL"

	FlagSessionStore      = "session-store"
	FlagSessionStoreUsage = `specify where the session is kept, either "profile" or a redis:// URL (Default value: "profile")`

	defaultAPIBaseURL = "http://localhost:3000"
)

// Profile is the CLI profile
type Profile struct {
	Flags
	Name             string
	WorkingDirectory string

	dir string
	fs  afero.Fs

	mu     sync.RWMutex
	config *viper.Viper
}

// Flags are the CLI profile flags
type Flags struct {
	APIBaseURL    string
	SessionStore  string
	TelemetryMode telemetry.Mode
}

// NewDefaultProfile creates a new default CLI profile
func NewDefaultProfile() (*Profile, error) {
	return NewProfile(DefaultProfile)
}

// NewProfile creates a new CLI profile
func NewProfile(name string) (*Profile, error) {
	dir, dirErr := HomeDir()
	if dirErr != nil {
		return nil, fmt.Errorf("failed to create CLI profile: %w", dirErr)
	}

	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", wdErr)
	}

	return &Profile{
		Name:             name,
		WorkingDirectory: wd,
		dir:              dir,
		fs:               afero.NewOsFs(),
		config:           viper.New(),
	}, nil
}

// Clear clears the specified CLI profile property
func (p *Profile) Clear(name string) {
	p.SetString(name, "")
}

// SetString sets the specified CLI profile property
func (p *Profile) SetString(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Set(p.propertyKey(name), value)
}

// GetString gets the specified CLI profile property
func (p *Profile) GetString(name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.GetString(p.propertyKey(name))
}

func (p *Profile) propertyKey(name string) string {
	return fmt.Sprintf("%s.%s", p.Name, name)
}

// Load loads the CLI profile
func (p *Profile) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.config.SetConfigName(p.Name)
	p.config.AddConfigPath(p.dir)
	p.config.SetConfigPermissions(0600)
	p.config.SetConfigType(ProfileType)

	p.config.SetEnvPrefix(envPrefix)
	p.config.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	p.config.AutomaticEnv()

	if err := p.config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil // proceed if profile doesn't exist
		}
		return fmt.Errorf("failed to load CLI profile: %s", err)
	}
	return nil
}

// Save saves the CLI profile
func (p *Profile) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	exists, existsErr := afero.DirExists(p.fs, p.dir)
	if existsErr != nil {
		return fmt.Errorf("failed to save CLI profile: %s", existsErr)
	}

	if !exists {
		if err := p.fs.MkdirAll(p.dir, 0700); err != nil {
			return fmt.Errorf("failed to save CLI profile: %s", err)
		}
	}

	p.config.SetFs(p.fs)
	if err := p.config.WriteConfigAs(p.Path()); err != nil {
		return fmt.Errorf("failed to save CLI profile: %s", err)
	}
	return nil
}

// ResolveFlags resolves the user profile flags
func (p *Profile) ResolveFlags() error {
	if p.Flags.TelemetryMode == telemetry.ModeNil {
		p.Flags.TelemetryMode = p.TelemetryMode()
	}
	p.SetString(keyTelemetryMode, string(p.Flags.TelemetryMode))

	if p.Flags.APIBaseURL == "" {
		apiBaseURL := p.APIBaseURL()
		if apiBaseURL == "" {
			apiBaseURL = defaultAPIBaseURL
		}
		p.Flags.APIBaseURL = apiBaseURL
	}
	p.SetAPIBaseURL(p.Flags.APIBaseURL)

	if p.Flags.SessionStore == "" {
		sessionStore := p.SessionStore()
		if sessionStore == "" {
			sessionStore = SessionStoreProfile
		}
		p.Flags.SessionStore = sessionStore
	}
	p.SetSessionStore(p.Flags.SessionStore)

	return p.Save()
}

// Dir returns the CLI profile directory
func (p *Profile) Dir() string {
	return p.dir
}

// Path returns the CLI profile filepath
func (p *Profile) Path() string {
	return filepath.Join(p.dir, p.Name+"."+ProfileType)
}

// MetricsPath returns the CLI profile's telemetry textfile path
func (p *Profile) MetricsPath() string {
	return filepath.Join(p.dir, metricsDir, p.Name, telemetry.MetricsFile)
}

// RedisNamespace returns the key prefix of the CLI profile's session in a shared redis store
func (p *Profile) RedisNamespace() string {
	return "admin-cli:" + p.Name
}

// set of supported CLI profile keys
const (
	keyUsername = "username"

	keyAPIBaseURL    = "api_base_url"
	keySessionStore  = "session_store"
	keyTelemetryMode = "telemetry_mode"
)

// TelemetryMode gets the CLI profile telemetry mode
func (p *Profile) TelemetryMode() telemetry.Mode {
	return telemetry.NewMode(p.GetString(keyTelemetryMode))
}

// Username gets the username last used to log in with the CLI profile
func (p *Profile) Username() string {
	return p.GetString(keyUsername)
}

// SetUsername sets the username last used to log in with the CLI profile
func (p *Profile) SetUsername(username string) {
	p.SetString(keyUsername, username)
}

// APIBaseURL gets the CLI profile dashboard API base url
func (p *Profile) APIBaseURL() string {
	return p.GetString(keyAPIBaseURL)
}

// SetAPIBaseURL sets the CLI profile dashboard API base url
func (p *Profile) SetAPIBaseURL(apiBaseURL string) {
	p.SetString(keyAPIBaseURL, apiBaseURL)
}

// SessionStore gets the CLI profile session store
func (p *Profile) SessionStore() string {
	return p.GetString(keySessionStore)
}

// SetSessionStore sets the CLI profile session store
func (p *Profile) SetSessionStore(sessionStore string) {
	p.SetString(keySessionStore, sessionStore)
}
