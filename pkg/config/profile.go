package config

import (
	"os"
	"strings"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "EVM"

// ProfileEnv selects the active profile.
const ProfileEnv = EnvPrefix + "_PROFILE"

// DefaultProfile is the profile every other profile inherits from.
const DefaultProfile Profile = "default"

// Profile is a named configuration scope.
type Profile string

func (p Profile) String() string {
	return string(p)
}

// Key returns the config file table holding the profile, e.g. "profile.default".
func (p Profile) Key() string {
	return "profile." + string(p)
}

// SelectedProfile returns the profile named by EVM_PROFILE, or the default one.
func SelectedProfile() Profile {
	if p := strings.TrimSpace(os.Getenv(ProfileEnv)); p != "" {
		return Profile(strings.ToLower(p))
	}
	return DefaultProfile
}
