package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
)

const (
	// EnvConfigPrefix prefix of environment variables overriding configuration values,
	// e.g. NSECGUARD_LOWPROFILING_WINDOWTHRESHOLD=5
	EnvConfigPrefix = "NSECGUARD_"

	keyDelimiter = "."
)

// newKoanf loads the file (if present) and the environment. Keys are lower-cased so that
// environment variables and camelCase YAML keys address the same value.
func newKoanf(path string, mandatory bool) (*koanf.Koanf, error) {
	fromFile := koanf.New(keyDelimiter)

	exists, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file '%s': %w", path, err)
	}

	switch {
	case exists:
		if err := fromFile.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("can't read config file '%s': %w", path, err)
		}
	case mandatory:
		return nil, fmt.Errorf("can't read config file '%s': no such file or directory", path)
	}

	flat := make(map[string]interface{}, len(fromFile.Keys()))
	for key, val := range fromFile.All() {
		flat[strings.ToLower(key)] = val
	}

	k := koanf.New(keyDelimiter)

	if err := k.Load(confmap.Provider(flat, keyDelimiter), nil); err != nil {
		return nil, err
	}

	if err := loadEnvironment(k); err != nil {
		return nil, fmt.Errorf("can't read environment: %w", err)
	}

	return k, nil
}

func loadEnvironment(k *koanf.Koanf) error {
	return k.Load(env.Provider(EnvConfigPrefix, keyDelimiter, func(s string) string {
		if s == EnvConfigPrefix+"CONFIG_FILE" {
			return ""
		}

		key := strings.ToLower(strings.TrimPrefix(s, EnvConfigPrefix))

		return strings.ReplaceAll(key, "_", keyDelimiter)
	}), nil)
}

func unmarshalKoanf(k *koanf.Koanf, cfg *Config) error {
	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				durationTypeHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Metadata:         nil,
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
}

func durationTypeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(Duration(0)) {
			return data, nil
		}

		duration, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}

		return Duration(duration), nil
	}
}
