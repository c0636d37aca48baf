package user

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/admin-cli/internal/telemetry"
	u "github.com/stockroom/admin-cli/internal/utils/test"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
)

func TestProfileResolveFlags(t *testing.T) {
	tmpDir, teardownTmpDir, tmpDirErr := u.NewTempDir("home")
	assert.Nil(t, tmpDirErr)
	defer teardownTmpDir()

	_, teardownHomeDir := u.SetupHomeDir(tmpDir)
	defer teardownHomeDir()

	t.Run("should provide defaults if flags are empty and set them in the profile", func(t *testing.T) {
		profile, err := NewProfile(primitive.NewObjectID().Hex())
		assert.Nil(t, err)

		assert.Equal(t, telemetry.ModeNil, profile.Flags.TelemetryMode)
		assert.Equal(t, "", profile.Flags.APIBaseURL)
		assert.Equal(t, "", profile.Flags.SessionStore)

		assert.Nil(t, profile.ResolveFlags())

		assert.Equal(t, telemetry.ModeNil, profile.Flags.TelemetryMode)
		assert.Equal(t, telemetry.ModeNil, profile.TelemetryMode())

		assert.Equal(t, defaultAPIBaseURL, profile.Flags.APIBaseURL)
		assert.Equal(t, defaultAPIBaseURL, profile.APIBaseURL())

		assert.Equal(t, SessionStoreProfile, profile.Flags.SessionStore)
		assert.Equal(t, SessionStoreProfile, profile.SessionStore())
	})

	t.Run("should use flags to set them in the profile", func(t *testing.T) {
		profile, err := NewProfile(primitive.NewObjectID().Hex())
		assert.Nil(t, err)

		profile.Flags = Flags{
			TelemetryMode: telemetry.ModeStdout,
			APIBaseURL:    "https://dashboard.example.com/api",
			SessionStore:  "redis://localhost:6379/0",
		}

		assert.Nil(t, profile.ResolveFlags())

		assert.Equal(t, telemetry.ModeStdout, profile.Flags.TelemetryMode)
		assert.Equal(t, telemetry.ModeStdout, profile.TelemetryMode())

		assert.Equal(t, "https://dashboard.example.com/api", profile.Flags.APIBaseURL)
		assert.Equal(t, "https://dashboard.example.com/api", profile.APIBaseURL())

		assert.Equal(t, "redis://localhost:6379/0", profile.Flags.SessionStore)
		assert.Equal(t, "redis://localhost:6379/0", profile.SessionStore())
	})

	t.Run("should keep previously saved values when flags are empty", func(t *testing.T) {
		name := primitive.NewObjectID().Hex()

		profile, err := NewProfile(name)
		assert.Nil(t, err)
		profile.Flags.APIBaseURL = "https://dashboard.example.com/api"
		assert.Nil(t, profile.ResolveFlags())

		reloaded, err := NewProfile(name)
		assert.Nil(t, err)
		assert.Nil(t, reloaded.Load())
		assert.Nil(t, reloaded.ResolveFlags())

		assert.Equal(t, "https://dashboard.example.com/api", reloaded.Flags.APIBaseURL)
	})
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "access_token", sessionKey("accessToken"))
	assert.Equal(t, "current_user", sessionKey("currentUser"))
	assert.Equal(t, "refresh_cookie", sessionKey("refreshCookie"))
	assert.Equal(t, "other", sessionKey("other"))
}
