package user

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProfileMeta contains the name and full filepath of a profile
type ProfileMeta struct {
	Name     string
	Filepath string
}

// Profiles returns a list of each profile meta containing name and filepath
func Profiles() ([]ProfileMeta, error) {
	dir, dirErr := HomeDir()
	if dirErr != nil {
		return nil, fmt.Errorf("failed to get CLI profiles: %w", dirErr)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get CLI profiles: %w", err)
	}

	profileMetas := make([]ProfileMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != "."+ProfileType {
			continue
		}
		profileMetas = append(profileMetas, ProfileMeta{
			Name:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Filepath: filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(profileMetas, func(i, j int) bool { return profileMetas[i].Name < profileMetas[j].Name })
	return profileMetas, nil
}
