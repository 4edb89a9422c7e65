package dashboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrProfileNotFound is returned when a named profile has no file.
var ErrProfileNotFound = errors.New("profile not found")

// LoadProfile reads a TOML file at path and returns a populated Profile.
// It applies defaults for missing fields: limit 20, churn_top 10,
// sort activity, trend_days 14, and the file name as the profile name.
func LoadProfile(path string) (*Profile, error) {
	var prof Profile
	if _, err := toml.DecodeFile(path, &prof); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrProfileNotFound)
		}
		return nil, err
	}
	if prof.Name == "" {
		prof.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if prof.Limit == 0 {
		prof.Limit = DefaultLimit
	}
	if prof.ChurnTop <= 0 {
		prof.ChurnTop = DefaultChurnTop
	}
	if prof.TrendDays <= 0 {
		prof.TrendDays = DefaultTrendDays
	}
	if prof.Sort == "" {
		prof.Sort = SortActivity
	}
	if _, err := ParseSortKey(string(prof.Sort)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &prof, nil
}

// LoadNamed loads <dir>/<name>.toml.
func LoadNamed(dir, name string) (*Profile, error) {
	return LoadProfile(ProfilePath(dir, name))
}

// ProfilePath returns the file path for a profile name.
func ProfilePath(dir, name string) string {
	return filepath.Join(dir, name+".toml")
}

// SaveProfile writes a Profile to a TOML file at path.
func SaveProfile(prof *Profile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(prof)
}

// ListProfiles returns the sorted base names (without .toml extension) of all
// TOML files found in dir. A missing dir yields no names.
func ListProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
