package mock

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/session"
	u "github.com/stockroom/admin-cli/internal/utils/test"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
)

// NewProfile returns a new CLI profile with a random name
func NewProfile(t *testing.T) *user.Profile {
	t.Helper()
	profile, err := user.NewProfile(primitive.NewObjectID().Hex())
	assert.Nil(t, err)
	return profile
}

// NewProfileFromTmpDir returns a new CLI profile with a random name
// and a home and working directory based on a temporary directory
// along with the associated cleanup function
func NewProfileFromTmpDir(t *testing.T, name string) (*user.Profile, func()) {
	t.Helper()

	tmpDir, teardown, err := u.NewTempDir(name)
	assert.Nil(t, err)

	_, resetHomeDir := u.SetupHomeDir(tmpDir)

	profile := NewProfile(t)
	profile.WorkingDirectory = tmpDir

	return profile,
		func() {
			resetHomeDir()
			teardown()
		}
}

// NewProfileWithSession returns a new CLI profile from a temporary directory
// holding the provided access token and user
func NewProfileWithSession(t *testing.T, accessToken string, current session.User) (*user.Profile, func()) {
	t.Helper()

	profile, teardown := NewProfileFromTmpDir(t, "session")

	ctx := context.Background()
	sess := session.NewContext(ctx, profile.SessionStorage())
	if accessToken != "" {
		assert.Nil(t, sess.Tokens.Replace(ctx, accessToken))
	}
	if current.ID != "" {
		assert.Nil(t, sess.Users.SetUser(ctx, current))
	}

	return profile, teardown
}
