package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/rollkit/evmopts/pkg/log"
)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRoot sets the directory the config file search starts from.
func WithRoot(dir string) LoaderOption {
	return func(l *Loader) {
		l.root = dir
	}
}

// WithConfigFile uses the given file instead of searching for one. A missing
// file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.configFile = path
	}
}

// WithProfile overrides the profile selected through EVM_PROFILE.
func WithProfile(p Profile) LoaderOption {
	return func(l *Loader) {
		l.profile = p
	}
}

// WithLogger sets the logger used to report the layers being merged.
func WithLogger(logger log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader resolves a Config from the following layers, lowest precedence first:
//  1. DefaultConfig()
//  2. the [profile.default] table of the config file
//  3. the table of the selected profile
//  4. EVM_* environment variables
//  5. merged providers, in merge order
type Loader struct {
	root       string
	configFile string
	profile    Profile
	logger     log.Logger
	providers  []Provider
}

// NewLoader returns a Loader rooted at the working directory with the
// profile selected through EVM_PROFILE.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		root:    DefaultRootDir(),
		profile: SelectedProfile(),
		logger:  log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Merge adds a provider on top of every layer merged so far.
func (l *Loader) Merge(p Provider) *Loader {
	l.providers = append(l.providers, p)
	return l
}

// Profile returns the profile the loader resolves.
func (l *Loader) Profile() Profile {
	return l.profile
}

// Load resolves the layers into a Config.
func (l *Loader) Load() (Config, error) {
	config := DefaultConfig()
	if err := l.Extract(&config); err != nil {
		return Config{}, err
	}
	config.Profile = l.profile
	return config, nil
}

// Extract resolves the layers and decodes them into out, which must be a
// pointer to a struct using mapstructure tags.
func (l *Loader) Extract(out any) error {
	v, err := l.build()
	if err != nil {
		return err
	}
	if err := v.Unmarshal(out, decoderConfig); err != nil {
		return fmt.Errorf("unable to decode configuration: %w", err)
	}
	return nil
}

func (l *Loader) build() (*viper.Viper, error) {
	// Private instance to avoid conflicts with the global viper
	v := viper.New()

	// 1. Defaults
	for key, value := range DefaultConfig().AsMap() {
		v.SetDefault(key, value)
	}

	// 2. and 3. Config file
	if err := l.mergeConfigFile(v); err != nil {
		return nil, err
	}

	// 4. Environment
	v.SetEnvPrefix(EnvPrefix)
	var bindErrs error
	for _, key := range Keys() {
		if err := v.BindEnv(key); err != nil {
			bindErrs = multierror.Append(bindErrs, err)
		}
	}
	if bindErrs != nil {
		return nil, fmt.Errorf("unable to bind environment: %w", bindErrs)
	}

	// 5. Providers
	known := make(map[string]bool)
	for _, key := range Keys() {
		known[key] = true
	}
	for _, p := range l.providers {
		md := p.Metadata()
		data, err := p.Data()
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", md.Name, err)
		}
		applied := 0
		for _, profile := range l.providerProfiles() {
			for key, value := range data[profile] {
				key = strings.ToLower(key)
				if !known[key] {
					l.logger.Warn("unknown configuration key", "provider", md.Name, "key", key)
				}
				v.Set(key, value)
				applied++
			}
		}
		l.logger.Debug("merged provider", "provider", md.Name, "profile", l.profile, "keys", applied)
	}

	return v, nil
}

// profiles lists the profiles applied from every layer, default first.
func (l *Loader) profiles() []Profile {
	if l.profile == DefaultProfile {
		return []Profile{DefaultProfile}
	}
	return []Profile{DefaultProfile, l.profile}
}

// providerProfiles extends profiles with the one selected through
// EVM_PROFILE. Providers scope their data under that profile, so it still
// applies when WithProfile points the loader elsewhere.
func (l *Loader) providerProfiles() []Profile {
	profiles := l.profiles()
	selected := SelectedProfile()
	for _, p := range profiles {
		if p == selected {
			return profiles
		}
	}
	if l.profile == DefaultProfile {
		return []Profile{DefaultProfile, selected}
	}
	return []Profile{DefaultProfile, selected, l.profile}
}

func (l *Loader) mergeConfigFile(v *viper.Viper) error {
	path := l.configFile
	if path == "" {
		found, err := FindConfigFile(l.root)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				l.logger.Debug("no config file found, using defaults", "root", l.root)
				return nil
			}
			return err
		}
		path = found
	}

	fv := viper.New()
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}
	l.logger.Info("using config file", "path", fv.ConfigFileUsed(), "profile", l.profile)

	for _, profile := range l.profiles() {
		if !fv.IsSet(profile.Key()) {
			if profile != DefaultProfile {
				l.logger.Warn("profile not found in config file", "profile", profile, "path", path)
			}
			continue
		}
		if err := v.MergeConfigMap(fv.GetStringMap(profile.Key())); err != nil {
			return fmt.Errorf("%w %s: profile %s: %w", ErrReadConfig, path, profile, err)
		}
	}
	return nil
}

// AsMap returns the set values of c keyed by configuration key. Unset
// optional values are left out.
func (c Config) AsMap() map[string]any {
	m := make(map[string]any)
	v := reflect.ValueOf(c)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := fieldKey(t.Field(i))
		if key == "" {
			continue
		}
		f := v.Field(i)
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				continue
			}
			f = f.Elem()
		}
		m[key] = f.Interface()
	}
	return m
}

func fieldKey(f reflect.StructField) string {
	tag := strings.Split(f.Tag.Get("mapstructure"), ",")[0]
	if tag == "-" {
		return ""
	}
	return tag
}
