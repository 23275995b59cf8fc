package config

import (
	"fmt"
	"math"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	"github.com/rollkit/evmopts/types"
)

var (
	chainType   = reflect.TypeOf(types.Chain(0))
	u256Type    = reflect.TypeOf(types.U256{})
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
)

// DecodeHook converts the plain values found in files, environment variables
// and overlays into the typed fields of Config.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
			if t != chainType || f == chainType {
				return data, nil
			}
			if s, ok := data.(string); ok {
				return types.ParseChain(s)
			}
			n, err := toUint64(data)
			if err != nil {
				return nil, fmt.Errorf("chain id: %w", err)
			}
			return types.Chain(n), nil
		},
		func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
			if t != u256Type || f == u256Type {
				return data, nil
			}
			if s, ok := data.(string); ok {
				return types.ParseU256(s)
			}
			n, err := toUint64(data)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", types.ErrInvalidU256, err)
			}
			return types.NewU256(n), nil
		},
		func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
			if t != addressType || f.Kind() != reflect.String {
				return data, nil
			}
			return types.ParseAddress(reflect.ValueOf(data).String())
		},
		func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
			if t != hashType || f.Kind() != reflect.String {
				return data, nil
			}
			return types.ParseHash(reflect.ValueOf(data).String())
		},
	)
}

// toUint64 accepts the numeric shapes produced by the toml, yaml and json
// decoders.
func toUint64(data interface{}) (uint64, error) {
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Int() < 0 {
			return 0, fmt.Errorf("negative value %d", v.Int())
		}
		return uint64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f < 0 || f != math.Trunc(f) || f > math.MaxUint64 {
			return 0, fmt.Errorf("value %v is not an unsigned integer", f)
		}
		return uint64(f), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", data)
	}
}

func decoderConfig(c *mapstructure.DecoderConfig) {
	c.TagName = "mapstructure"
	c.DecodeHook = DecodeHook()
}
