package config

// Metadata describes where a layer of configuration comes from.
type Metadata struct {
	// Name identifies the provider in logs and errors
	Name string
	// Source optionally points at the origin, e.g. a file path
	Source string
}

// Provider is a source of configuration overrides. Data groups key/value
// pairs by profile; the loader applies the default profile, the profile
// selected through EVM_PROFILE and the profile it resolves, in that order.
type Provider interface {
	Metadata() Metadata
	Data() (map[Profile]map[string]any, error)
}

// MapProvider is a Provider over a static set of values.
type MapProvider struct {
	Name   string
	Values map[Profile]map[string]any
}

// Metadata implements Provider.
func (m MapProvider) Metadata() Metadata {
	return Metadata{Name: m.Name}
}

// Data implements Provider.
func (m MapProvider) Data() (map[Profile]map[string]any, error) {
	return m.Values, nil
}
