package devserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Seed is the initial content of the dev server store
type Seed struct {
	Roles    []SeedRole    `yaml:"roles"`
	Users    []SeedUser    `yaml:"users"`
	Products []SeedProduct `yaml:"products"`
}

// SeedRole is a seeded user role
type SeedRole struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SeedUser is a seeded user, the password is hashed when the store is created
type SeedUser struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Avatar   string `yaml:"avatar"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedProduct is a seeded product
type SeedProduct struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	SKU      string  `yaml:"sku"`
	Price    float64 `yaml:"price"`
	Quantity int     `yaml:"quantity"`
	ImageURL string  `yaml:"image_url"`
}

const defaultSeed = `
roles:
  - id: role-admin
    name: admin
    description: Manages the catalog and the dashboard
  - id: role-staff
    name: staff
    description: Records stock movements

users:
  - id: user-admin
    username: admin
    name: Administrator
    password: admin123
    role: admin
  - id: user-staff
    username: staff
    name: Warehouse Staff
    password: staff123
    role: staff

products:
  - id: prod-widget
    name: Widget
    sku: WID-001
    price: 9.99
    quantity: 120
  - id: prod-gadget
    name: Gadget
    sku: GAD-001
    price: 24.5
    quantity: 8
  - id: prod-gizmo
    name: Gizmo
    sku: GIZ-001
    price: 199
    quantity: 0
`

// DefaultSeed returns the seed used when none is configured
func DefaultSeed() *Seed {
	seed, err := ParseSeed([]byte(defaultSeed))
	if err != nil {
		panic(err)
	}
	return seed
}

// ParseSeed parses a yaml seed document
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.UnmarshalStrict(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, seed.validate()
}

// LoadSeed reads a yaml seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func (seed Seed) validate() error {
	roles := make(map[string]struct{}, len(seed.Roles))
	for _, role := range seed.Roles {
		if role.ID == "" || role.Name == "" {
			return fmt.Errorf("seed role must have an id and a name")
		}
		roles[role.Name] = struct{}{}
	}

	usernames := map[string]struct{}{}
	for _, user := range seed.Users {
		if user.Username == "" || user.Password == "" {
			return fmt.Errorf("seed user must have a username and a password")
		}
		if _, ok := usernames[user.Username]; ok {
			return fmt.Errorf("seed user %s is defined more than once", user.Username)
		}
		usernames[user.Username] = struct{}{}

		if _, ok := roles[user.Role]; !ok {
			return fmt.Errorf("seed user %s has unknown role: %s", user.Username, user.Role)
		}
	}

	for _, product := range seed.Products {
		if product.Name == "" || product.SKU == "" {
			return fmt.Errorf("seed product must have a name and a sku")
		}
	}
	return nil
}
