package devserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockroom/admin-cli/internal/utils/test/assert"
)

func TestSeed(t *testing.T) {
	t.Run("Should parse the default seed", func(t *testing.T) {
		seed := DefaultSeed()

		assert.Equal(t, 2, len(seed.Roles))
		assert.Equal(t, 2, len(seed.Users))
		assert.Equal(t, 3, len(seed.Products))
		assert.Equal(t, SeedUser{
			ID:       "user-admin",
			Username: "admin",
			Name:     "Administrator",
			Password: "admin123",
			Role:     "admin",
		}, seed.Users[0])
	})

	t.Run("Should load a seed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		assert.Nil(t, os.WriteFile(path, []byte(`
roles:
  - id: r1
    name: admin
users:
  - username: root
    password: secret
    role: admin
`), 0600))

		seed, err := LoadSeed(path)
		assert.Nil(t, err)
		assert.Equal(t, &Seed{
			Roles: []SeedRole{{ID: "r1", Name: "admin"}},
			Users: []SeedUser{{Username: "root", Password: "secret", Role: "admin"}},
		}, seed)
	})

	for _, tc := range []struct {
		description string
		data        string
		expectedErr error
	}{
		{
			description: "Should reject a user with an unknown role",
			data:        "users:\n  - username: root\n    password: secret\n    role: owner\n",
			expectedErr: errors.New("seed user root has unknown role: owner"),
		},
		{
			description: "Should reject a user defined more than once",
			data:        "roles:\n  - id: r1\n    name: admin\nusers:\n  - {username: root, password: a, role: admin}\n  - {username: root, password: b, role: admin}\n",
			expectedErr: errors.New("seed user root is defined more than once"),
		},
		{
			description: "Should reject a product without a sku",
			data:        "products:\n  - name: Widget\n",
			expectedErr: errors.New("seed product must have a name and a sku"),
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ParseSeed([]byte(tc.data))
			assert.Equal(t, tc.expectedErr, err)
		})
	}

	t.Run("Should reject unknown seed fields", func(t *testing.T) {
		_, err := ParseSeed([]byte("customers: []\n"))
		assert.NotNil(t, err)
	})
}
