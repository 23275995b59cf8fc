package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ConfigBaseName is the base name of the configuration file without extension.
const ConfigBaseName = "evm"

// ConfigToml is the filename written by WriteTomlConfig.
const ConfigToml = ConfigBaseName + ".toml"

// ConfigFileNames lists the file names searched for, in order of preference.
var ConfigFileNames = []string{ConfigToml, ConfigBaseName + ".yaml", ConfigBaseName + ".yml"}

var (
	// ErrReadConfig is returned when reading the configuration file fails.
	ErrReadConfig = errors.New("reading config file")
	// ErrConfigNotFound is returned when no configuration file exists in a
	// directory or any of its parents.
	ErrConfigNotFound = errors.New("no config file found")
)

// FindConfigFile searches for a configuration file starting from the given
// directory and moving up the directory tree.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %w", ErrReadConfig, startDir, err)
	}
	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath, nil
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}
	return "", fmt.Errorf("%w in %s or its parents", ErrConfigNotFound, startDir)
}

// MarshalTOML renders config as a profile table, e.g. [profile.default].
// Integers above the TOML range are written as quoted decimals, which the
// loader decodes back into their fields.
func MarshalTOML(config Config) ([]byte, error) {
	profile := config.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[profile.%s]\n", tomlKey(profile.String()))

	values := config.AsMap()
	for _, key := range Keys() {
		value, ok := values[key]
		if !ok {
			continue
		}
		if n, ok := value.(uint64); ok && n > math.MaxInt64 {
			value = strconv.FormatUint(n, 10)
		}
		if err := toml.NewEncoder(&buf).Encode(map[string]any{key: value}); err != nil {
			return nil, fmt.Errorf("error marshaling TOML data: %s: %w", key, err)
		}
	}
	return buf.Bytes(), nil
}

// tomlKey quotes name unless it is a valid bare key.
func tomlKey(name string) string {
	for _, r := range name {
		bare := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-'
		if !bare {
			return strconv.Quote(name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}

// WriteTomlConfig writes config to evm.toml inside dir and returns the path.
func WriteTomlConfig(dir string, config Config) (string, error) {
	if err := EnsureRoot(dir); err != nil {
		return "", err
	}

	data, err := MarshalTOML(config)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(dir, ConfigToml)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", ConfigToml, err)
	}
	return configPath, nil
}

// EnsureRoot ensures that the root directory exists.
func EnsureRoot(rootDir string) error {
	if rootDir == "" {
		return fmt.Errorf("root directory cannot be empty")
	}

	if err := os.MkdirAll(rootDir, DefaultDirPerm); err != nil {
		return fmt.Errorf("could not create directory %q: %w", rootDir, err)
	}

	return nil
}
