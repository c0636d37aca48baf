package user

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const (
	servicePath = ".config/admin-cli"
)

// HomeDir returns the CLI home directory
func HomeDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, servicePath), nil
}
