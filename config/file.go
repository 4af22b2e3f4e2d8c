package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile applies a flat TOML table of environment variables. Variables that are
// already set win over the file. Arrays are joined with commas, so
// WHITELIST = ["a@x.com", "b@x.com"] works. It returns the names it set.
func LoadFile(path string) ([]string, error) {
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	values := map[string]interface{}{}
	if err := toml.NewDecoder(file).Decode(&values); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	applied := make([]string, 0, len(names))
	for _, name := range names {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		value, err := envValue(values[name])
		if err != nil {
			return nil, fmt.Errorf("config key %s: %w", name, err)
		}
		if err := os.Setenv(name, value); err != nil {
			return nil, err
		}
		applied = append(applied, name)
	}

	return applied, nil
}

func envValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64, float64, bool:
		return fmt.Sprint(v), nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			part, err := envValue(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
